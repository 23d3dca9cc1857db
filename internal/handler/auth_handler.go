package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrlinks/internal/auth"
	"qrlinks/internal/config"
	"qrlinks/internal/domain"
	"qrlinks/pkg/logger"
)

// AuthHandler serves login and logout. There is a single admin
// identity; a successful login returns the bearer token for API use and
// additionally sets it as a cookie for the dashboard.
type AuthHandler struct {
	credentials *auth.CredentialStore
	tokens      *auth.TokenService
	cfg         *config.Config
	logger      *logger.Logger
}

// NewAuthHandler creates an auth handler with its dependencies.
func NewAuthHandler(credentials *auth.CredentialStore, tokens *auth.TokenService, cfg *config.Config, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		tokens:      tokens,
		cfg:         cfg,
		logger:      logger,
	}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "username and password are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if !h.credentials.Authenticate(req.Username, req.Password) {
		h.logger.Warnw("failed login attempt", "username", req.Username, "ip", c.ClientIP())
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "invalid credentials",
			Code:    http.StatusBadRequest,
		})
		return
	}

	token, err := h.tokens.Issue(req.Username)
	if err != nil {
		h.logger.Errorw("failed to issue token", "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	h.setSessionCookie(c, token, int(h.tokens.TTL().Seconds()))

	h.logger.Infow("login", "username", req.Username, "ip", c.ClientIP())
	c.JSON(http.StatusOK, domain.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Logout handles POST /logout. Tokens are stateless, so this only
// clears the client-held cookie; the token stays valid until expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, domain.MessageResponse{OK: true})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, token, maxAge, "/", "", h.cfg.IsHTTPS(), true)
}
