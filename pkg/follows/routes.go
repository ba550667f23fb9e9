package follows

import (
	"github.com/labstack/echo/v4"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers follow routes under /users and the /feed route.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	followsService := NewService(db)

	h := &handler{
		followsService: followsService,
	}

	users := e.Group("/users")
	users.POST("/:id/follow", h.follow, authMiddleware.Authenticate)
	users.DELETE("/:id/follow", h.unfollow, authMiddleware.Authenticate)
	users.GET("/:id/followers", h.followers)
	users.GET("/:id/following", h.following)

	e.GET("/feed", h.feed, authMiddleware.Authenticate)

	return followsService
}
