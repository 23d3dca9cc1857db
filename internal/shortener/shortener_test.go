package shortener

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	g := NewCodeGenerator(DefaultCodeLength)

	code, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(code) != DefaultCodeLength {
		t.Errorf("Generate() length = %d, want %d", len(code), DefaultCodeLength)
	}

	for _, char := range code {
		if !strings.ContainsRune(alphabet, char) {
			t.Errorf("Generate() contains invalid character: %c", char)
		}
	}
}

func TestGenerateLengthClamping(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"below minimum", 1, DefaultCodeLength},
		{"minimum", 4, 4},
		{"default", 7, 7},
		{"maximum", 12, 12},
		{"above maximum", 40, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewCodeGenerator(tt.length)

			code, err := g.Generate()
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			if len(code) != tt.want {
				t.Errorf("Generate() length = %d, want %d", len(code), tt.want)
			}
		})
	}
}

func TestGenerateUniqueness(t *testing.T) {
	g := NewCodeGenerator(DefaultCodeLength)
	generated := make(map[string]bool)
	iterations := 1000

	for i := 0; i < iterations; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if generated[code] {
			t.Errorf("Generate() produced duplicate: %s", code)
		}
		generated[code] = true
	}
}
