package qr

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// imageSize is the rendered PNG edge length in pixels.
const imageSize = 330

// EncodeBase64 renders the given string as a QR code PNG and returns it
// base64-encoded. Error correction is set to the highest level so the
// printed code survives partial damage; the payload (a short URL) is
// small enough that the density stays scannable.
func EncodeBase64(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.Highest, imageSize)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
