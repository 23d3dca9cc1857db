package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrlinks/internal/auth"
	"qrlinks/internal/config"
	"qrlinks/pkg/logger"
)

// NewRouter wires middleware and routes. The catch-all GET /{code}
// sits beside the static system routes; gin resolves static segments
// first, and the resolver's reserved-word set keeps the two route
// spaces from shadowing each other's semantics.
func NewRouter(
	cfg *config.Config,
	log *logger.Logger,
	links *LinkHandler,
	authHandler *AuthHandler,
	tokens *auth.TokenService,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg))
	router.Use(SecurityHeadersMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))

	// Public endpoints
	router.GET("/health", links.Health)
	router.GET("/config", links.FrontendConfig)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// Frontend: login page, cookie-gated dashboard, assets
	router.GET("/", links.Index)
	router.GET("/dashboard", CookieAuth(tokens), links.Dashboard)
	router.Static("/static", cfg.StaticDir)

	// Admin API, bearer-gated
	authorized := router.Group("/", BearerAuth(tokens))
	{
		authorized.POST("/create", links.Create)
		authorized.PATCH("/update/:code", links.Update)
		authorized.DELETE("/delete/:code", links.Delete)
		authorized.GET("/links", links.List)
	}

	// Redirects and QR payloads
	router.GET("/qr/:code", links.QRCode)
	router.GET("/r/:code", links.RedirectLegacy)
	router.GET("/:code", links.Redirect)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	return router
}
