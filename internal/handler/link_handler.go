package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"qrlinks/internal/config"
	"qrlinks/internal/domain"
	"qrlinks/internal/service"
	"qrlinks/pkg/logger"
)

// LinkHandler handles HTTP requests for link management, redirects and
// QR rendering.
type LinkHandler struct {
	service service.LinkService
	cfg     *config.Config
	logger  *logger.Logger
}

// NewLinkHandler creates a link handler with its dependencies.
func NewLinkHandler(service service.LinkService, cfg *config.Config, logger *logger.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// Create handles POST /create.
func (h *LinkHandler) Create(c *gin.Context) {
	var req domain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	link, err := h.service.Create(c.Request.Context(), &req, Identity(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// Update handles PATCH /update/{code}.
func (h *LinkHandler) Update(c *gin.Context) {
	var req domain.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	link, err := h.service.Update(c.Request.Context(), c.Param("code"), req.TargetURL, Identity(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// Delete handles DELETE /delete/{code}.
func (h *LinkHandler) Delete(c *gin.Context) {
	code := c.Param("code")

	if err := h.service.Delete(c.Request.Context(), code, Identity(c)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.MessageResponse{
		OK:     true,
		Detail: fmt.Sprintf("Link '%s' deleted", code),
	})
}

// List handles GET /links?skip&limit.
func (h *LinkHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	page, err := h.service.List(c.Request.Context(), skip, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Redirect handles GET /{code}. 307 keeps the method and body intact
// for clients that POST to a short link.
func (h *LinkHandler) Redirect(c *gin.Context) {
	target, err := h.service.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, target)
}

// RedirectLegacy handles GET /r/{code}, the back-compat form that skips
// the reserved-word and pattern checks.
func (h *LinkHandler) RedirectLegacy(c *gin.Context) {
	target, err := h.service.ResolveLegacy(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, target)
}

// QRCode handles GET /qr/{code}.
func (h *LinkHandler) QRCode(c *gin.Context) {
	encoded, err := h.service.QRCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.QRResponse{QRBase64: encoded})
}

// Health handles GET /health.
func (h *LinkHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"env":    h.cfg.Environment,
	})
}

// FrontendConfig handles GET /config, telling the frontend which base
// URL short links live under.
func (h *LinkHandler) FrontendConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"public_base_url": h.cfg.PublicBaseURL,
	})
}

// Index serves the login page.
func (h *LinkHandler) Index(c *gin.Context) {
	c.File(filepath.Join(h.cfg.StaticDir, "index.html"))
}

// Dashboard serves the dashboard page; the route is gated by CookieAuth.
func (h *LinkHandler) Dashboard(c *gin.Context) {
	c.File(filepath.Join(h.cfg.StaticDir, "dashboard.html"))
}

// handleError maps domain errors onto HTTP responses. Unknown codes,
// reserved words and pattern mismatches all present the same 404.
func (h *LinkHandler) handleError(c *gin.Context, err error) {
	var appErr *domain.AppError

	switch {
	case errors.Is(err, domain.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Error:   "not_found",
			Message: "Not found",
			Code:    http.StatusNotFound,
		})

	case errors.Is(err, domain.ErrCodeTaken):
		c.JSON(http.StatusConflict, domain.ErrorResponse{
			Error:   "code_taken",
			Message: "this short code is already in use",
			Code:    http.StatusConflict,
		})

	case errors.As(err, &appErr):
		if appErr.Internal {
			h.logger.Errorw("internal server error", "error", appErr.Err)
		}
		c.JSON(appErr.StatusCode, domain.ErrorResponse{
			Error:   "internal_error",
			Message: appErr.Message,
			Code:    appErr.StatusCode,
		})

	default:
		h.logger.Errorw("unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "an unexpected error occurred",
			Code:    http.StatusInternalServerError,
		})
	}
}
