package auth

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/topnlists/topn/pkg/config"
	"github.com/topnlists/topn/pkg/ratelimit"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all auth routes and returns the service so other
// route groups can share its middleware.
func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config) (*Service, *Middleware) {
	authService := NewService(db, cfg.JWTSecret)
	authMiddleware := NewMiddleware(authService)

	h := &handler{
		authService:  authService,
		loginLimiter: ratelimit.New(float64(cfg.LoginRateLimitPerMinute), cfg.LoginRateLimitBurst, time.Hour),
	}

	auth := e.Group("/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/login", h.login)
	auth.POST("/logout", h.logout)
	auth.GET("/me", h.me, authMiddleware.Authenticate)

	return authService, authMiddleware
}
