package users

import (
	"github.com/labstack/echo/v4"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/topnlists/topn/pkg/follows"
	"github.com/topnlists/topn/pkg/lists"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all user routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db)

	h := &handler{
		userService:    userService,
		followsService: follows.NewService(db),
		listsService:   lists.NewService(db),
	}

	users := e.Group("/users")

	// Profiles are public; is_following needs the optional session.
	users.GET("", h.list)
	users.GET("/:username", h.retrieve, authMiddleware.AuthenticateOptional)

	users.PATCH("/me", h.updateMe, authMiddleware.Authenticate)
	users.PUT("/me/password", h.changePassword, authMiddleware.Authenticate)

	return userService
}
