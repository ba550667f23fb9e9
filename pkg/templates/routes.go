package templates

import (
	"github.com/labstack/echo/v4"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers template routes on a pre-configured
// group. Browsing is public; resolving needs a signed-in user, which the
// service enforces.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	templatesService := NewService(db)

	h := &handler{
		templatesService: templatesService,
	}

	g.Use(authMiddleware.AuthenticateOptional)

	g.GET("", h.list)
	g.GET("/vocabulary", h.vocabulary)
	g.GET("/:id", h.retrieve)
	g.POST("/resolve", h.resolve)
	g.POST("/count", h.count)
	g.POST("/preview", h.preview)
}
