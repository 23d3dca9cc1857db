package handler_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"qrlinks/internal/auth"
	"qrlinks/internal/config"
	"qrlinks/internal/domain"
	"qrlinks/internal/handler"
	"qrlinks/internal/repository/gormrepo"
	"qrlinks/internal/service"
	"qrlinks/pkg/logger"
)

type ServerIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	tokens *auth.TokenService
	token  string
}

func TestServerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ServerIntegrationTestSuite))
}

func (s *ServerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	s.cfg = &config.Config{
		Environment:        "dev",
		SecretKey:          "integration-test-secret",
		Algorithm:          "HS256",
		TokenTTL:           time.Hour,
		AdminUsername:      "admin",
		AdminPassword:      "s3cret",
		PublicBaseURL:      "http://localhost:8000",
		CodeLength:         7,
		RateLimitPerMinute: 10000,
		StaticDir:          "testdata",
	}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		s.T().Fatal("failed to open in-memory database:", err)
	}
	s.db = db

	if err := db.AutoMigrate(&domain.ShortLink{}); err != nil {
		s.T().Fatal("failed to run migrations:", err)
	}

	log := logger.NewLogger()
	credentials := auth.NewCredentialStore(s.cfg)
	s.tokens = auth.NewTokenService(s.cfg)

	repo := gormrepo.NewLinkRepository(db)
	linkService := service.NewLinkService(repo, nil, s.cfg, log)
	linkHandler := handler.NewLinkHandler(linkService, s.cfg, log)
	authHandler := handler.NewAuthHandler(credentials, s.tokens, s.cfg, log)

	s.router = handler.NewRouter(s.cfg, log, linkHandler, authHandler, s.tokens)

	s.token = s.login()
}

func (s *ServerIntegrationTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM short_links")
}

func (s *ServerIntegrationTestSuite) login() string {
	body, _ := json.Marshal(domain.LoginRequest{Username: "admin", Password: "s3cret"})
	w := s.do(http.MethodPost, "/login", body, "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	var resp domain.TokenResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(s.T(), resp.AccessToken)
	return resp.AccessToken
}

func (s *ServerIntegrationTestSuite) do(method, path string, body []byte, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ServerIntegrationTestSuite) createLink(target, code string) domain.ShortLink {
	body, _ := json.Marshal(domain.CreateLinkRequest{TargetURL: target, Code: code})
	w := s.do(http.MethodPost, "/create", body, s.token)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var link domain.ShortLink
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &link))
	return link
}

func (s *ServerIntegrationTestSuite) listLinks(query string) domain.PaginatedLinks {
	w := s.do(http.MethodGet, "/links"+query, nil, s.token)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var page domain.PaginatedLinks
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func (s *ServerIntegrationTestSuite) TestCreateAndRedirect() {
	link := s.createLink("https://example.com", "")

	assert.Len(s.T(), link.Code, 7)
	assert.Regexp(s.T(), `^[A-Za-z0-9]+$`, link.Code)
	assert.Equal(s.T(), "https://example.com", link.TargetURL)
	assert.EqualValues(s.T(), 0, link.ClickCount)

	w := s.do(http.MethodGet, "/"+link.Code, nil, "")
	assert.Equal(s.T(), http.StatusTemporaryRedirect, w.Code)
	assert.Equal(s.T(), "https://example.com", w.Header().Get("Location"))

	page := s.listLinks("")
	require.Len(s.T(), page.Items, 1)
	assert.EqualValues(s.T(), 1, page.Items[0].ClickCount)
}

func (s *ServerIntegrationTestSuite) TestGeneratedCodesAreDistinct() {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		link := s.createLink(fmt.Sprintf("https://example.com/%d", i), "")
		assert.False(s.T(), seen[link.Code], "duplicate code %s", link.Code)
		seen[link.Code] = true
	}
}

func (s *ServerIntegrationTestSuite) TestUpdateRoundTrip() {
	link := s.createLink("https://example.com/old", "")

	body, _ := json.Marshal(domain.UpdateLinkRequest{TargetURL: "https://example.com/new"})
	w := s.do(http.MethodPatch, "/update/"+link.Code, body, s.token)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var updated domain.ShortLink
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(s.T(), link.Code, updated.Code)
	assert.Equal(s.T(), "https://example.com/new", updated.TargetURL)

	// The same QR-stable short URL now lands on the new target.
	redirect := s.do(http.MethodGet, "/"+link.Code, nil, "")
	assert.Equal(s.T(), http.StatusTemporaryRedirect, redirect.Code)
	assert.Equal(s.T(), "https://example.com/new", redirect.Header().Get("Location"))
}

func (s *ServerIntegrationTestSuite) TestUpdateUnknownCode() {
	body, _ := json.Marshal(domain.UpdateLinkRequest{TargetURL: "https://example.com"})
	w := s.do(http.MethodPatch, "/update/missing1", body, s.token)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *ServerIntegrationTestSuite) TestDeleteThenRead() {
	link := s.createLink("https://example.com", "")

	w := s.do(http.MethodDelete, "/delete/"+link.Code, nil, s.token)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/"+link.Code, nil, "")
	assert.Equal(s.T(), http.StatusNotFound, w.Code)

	// Second delete reports the row no longer exists.
	w = s.do(http.MethodDelete, "/delete/"+link.Code, nil, s.token)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *ServerIntegrationTestSuite) TestCustomCodeConflict() {
	s.createLink("https://example.com/a", "promo-42")

	body, _ := json.Marshal(domain.CreateLinkRequest{TargetURL: "https://example.com/b", Code: "promo-42"})
	w := s.do(http.MethodPost, "/create", body, s.token)
	assert.Equal(s.T(), http.StatusConflict, w.Code)
}

func (s *ServerIntegrationTestSuite) TestReservedWordShadowing() {
	// Creating a link whose code is a reserved word is permitted at the
	// data layer.
	link := s.createLink("https://example.com/shadowed", "health")
	assert.Equal(s.T(), "health", link.Code)

	// The pretty route keeps serving the system endpoint.
	w := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `"status"`)

	// The legacy route still resolves the shadowed link.
	w = s.do(http.MethodGet, "/r/health", nil, "")
	assert.Equal(s.T(), http.StatusTemporaryRedirect, w.Code)
	assert.Equal(s.T(), "https://example.com/shadowed", w.Header().Get("Location"))
}

func (s *ServerIntegrationTestSuite) TestPatternInvalidCodeOnlyLegacyReachable() {
	link := s.createLink("https://example.com/one-char", "x")
	assert.Equal(s.T(), "x", link.Code)

	w := s.do(http.MethodGet, "/x", nil, "")
	assert.Equal(s.T(), http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/r/x", nil, "")
	assert.Equal(s.T(), http.StatusTemporaryRedirect, w.Code)
	assert.Equal(s.T(), "https://example.com/one-char", w.Header().Get("Location"))
}

func (s *ServerIntegrationTestSuite) TestAuthGate() {
	body, _ := json.Marshal(domain.CreateLinkRequest{TargetURL: "https://example.com"})

	w := s.do(http.MethodPost, "/create", body, "")
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	expired := auth.NewTokenService(&config.Config{
		SecretKey: s.cfg.SecretKey,
		Algorithm: s.cfg.Algorithm,
		TokenTTL:  -time.Minute,
	})
	expiredToken, err := expired.Issue("admin")
	require.NoError(s.T(), err)

	w = s.do(http.MethodPost, "/create", body, expiredToken)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/create", body, s.token)
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *ServerIntegrationTestSuite) TestPagination() {
	for i := 0; i < 5; i++ {
		s.createLink(fmt.Sprintf("https://example.com/%d", i), "")
		time.Sleep(10 * time.Millisecond) // distinct created_at for stable ordering
	}

	page := s.listLinks("?skip=0&limit=3")
	assert.Len(s.T(), page.Items, 3)
	assert.EqualValues(s.T(), 5, page.Total)
	assert.Equal(s.T(), 0, page.Skip)
	assert.Equal(s.T(), 3, page.Limit)

	// Newest first.
	assert.Equal(s.T(), "https://example.com/4", page.Items[0].TargetURL)
	for i := 1; i < len(page.Items); i++ {
		assert.False(s.T(), page.Items[i].CreatedAt.After(page.Items[i-1].CreatedAt))
	}

	rest := s.listLinks("?skip=3&limit=3")
	assert.Len(s.T(), rest.Items, 2)
	assert.EqualValues(s.T(), 5, rest.Total)
}

func (s *ServerIntegrationTestSuite) TestQREndpoint() {
	link := s.createLink("https://example.com", "")

	w := s.do(http.MethodGet, "/qr/"+link.Code, nil, "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	var resp domain.QRResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))

	raw, err := base64.StdEncoding.DecodeString(resp.QRBase64)
	require.NoError(s.T(), err)
	assert.True(s.T(), bytes.HasPrefix(raw, []byte{0x89, 'P', 'N', 'G'}))

	w = s.do(http.MethodGet, "/qr/missing1", nil, "")
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *ServerIntegrationTestSuite) TestLoginFailure() {
	body, _ := json.Marshal(domain.LoginRequest{Username: "admin", Password: "wrong"})
	w := s.do(http.MethodPost, "/login", body, "")
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerIntegrationTestSuite) TestLoginSetsCookieAndLogoutClearsIt() {
	body, _ := json.Marshal(domain.LoginRequest{Username: "admin", Password: "s3cret"})
	w := s.do(http.MethodPost, "/login", body, "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(s.T(), cookies)
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == handler.AccessTokenCookie {
			sessionCookie = c
		}
	}
	require.NotNil(s.T(), sessionCookie)
	assert.NotEmpty(s.T(), sessionCookie.Value)
	assert.True(s.T(), sessionCookie.HttpOnly)

	w = s.do(http.MethodPost, "/logout", nil, "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	cleared := w.Result().Cookies()
	require.NotEmpty(s.T(), cleared)
	for _, c := range cleared {
		if c.Name == handler.AccessTokenCookie {
			assert.Empty(s.T(), c.Value)
			assert.Negative(s.T(), c.MaxAge)
		}
	}
}

func (s *ServerIntegrationTestSuite) TestDashboardGate() {
	w := s.do(http.MethodGet, "/dashboard", nil, "")
	assert.Equal(s.T(), http.StatusTemporaryRedirect, w.Code)
	assert.Equal(s.T(), "/", w.Header().Get("Location"))
}

func (s *ServerIntegrationTestSuite) TestHealthAndConfig() {
	w := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var health map[string]string
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(s.T(), "ok", health["status"])
	assert.Equal(s.T(), "dev", health["env"])

	w = s.do(http.MethodGet, "/config", nil, "")
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), s.cfg.PublicBaseURL)
}
