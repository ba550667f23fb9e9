package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/topnlists/topn/pkg/binder"
	"github.com/topnlists/topn/pkg/config"
	"github.com/topnlists/topn/pkg/database"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/follows"
	"github.com/topnlists/topn/pkg/lists"
	"github.com/topnlists/topn/pkg/metrics"
	"github.com/topnlists/topn/pkg/templates"
	"github.com/topnlists/topn/pkg/testutils"
	"github.com/topnlists/topn/pkg/users"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b
	e.JSONSerializer = &jsonSerializer{}

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())
	e.Use(metrics.Middleware())
	if cfg.DatabaseDebug {
		e.Use(queryLogging)
	}

	health.RegisterRoutes(e)
	e.GET("/metrics", metrics.Handler())

	// Register auth routes and get the middleware every other group shares
	_, authMiddleware := auth.RegisterRoutes(e, db, cfg)

	users.RegisterRoutes(e, db, authMiddleware)
	follows.RegisterRoutes(e, db, authMiddleware)

	registerListRoutes(e, db, authMiddleware)

	if cfg.Environment == config.EnvironmentTest {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// registerListRoutes registers the template and list groups. Both allow
// anonymous reads and check the session on writes.
func registerListRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	templatesGroup := e.Group("/templates")
	templates.RegisterRoutesWithGroup(templatesGroup, db, authMiddleware)

	listsGroup := e.Group("/lists")
	lists.RegisterRoutesWithGroup(listsGroup, db, authMiddleware)

	sharedGroup := e.Group("/shared")
	lists.RegisterSharedRoutesWithGroup(sharedGroup, db)
}

// queryLogging opts every request into the database debug query log.
func queryLogging(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		c.SetRequest(req.WithContext(database.WithLogging(req.Context())))
		return next(c)
	}
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
