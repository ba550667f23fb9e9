package lists

import (
	"github.com/labstack/echo/v4"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/topnlists/topn/pkg/templates"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers list routes on a pre-configured group.
// Reads are public; every write looks up the current user itself.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		listsService:     NewService(db),
		templatesService: templates.NewService(db),
	}

	g.Use(authMiddleware.AuthenticateOptional)

	// List CRUD
	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/adopt", h.adopt)
	g.GET("/:id", h.retrieve)
	g.DELETE("/:id", h.delete)

	// Items
	g.GET("/:id/items", h.listItems)
	g.POST("/:id/items", h.addItem)
	g.POST("/:id/items/batch", h.addItems)
	g.PATCH("/:id/items/reorder", h.reorderItems)
	g.DELETE("/:id/items/:itemId", h.removeItem)
}

// RegisterSharedRoutesWithGroup registers the public share-link route.
func RegisterSharedRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		listsService: NewService(db),
	}

	g.GET("/:token", h.shared)
}
