package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/models"
)

const contextKeyUser = "user"

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate requires a valid session. The token is read from the session
// cookie or an "Authorization: Bearer" header, and the user must still exist.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := tokenFromRequest(c)
		if token == "" {
			return errcodes.Unauthorized("Authentication required")
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}

		user, err := m.authService.GetUserByID(c.Request().Context(), claims.UserID)
		if err != nil {
			return errcodes.Unauthorized("User not found")
		}

		c.Set(contextKeyUser, user)

		return next(c)
	}
}

// AuthenticateOptional sets the user when a valid session is present and
// otherwise lets the request through anonymously.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := tokenFromRequest(c)
		if token != "" {
			claims, err := m.authService.ValidateToken(token)
			if err == nil {
				user, err := m.authService.GetUserByID(c.Request().Context(), claims.UserID)
				if err == nil {
					c.Set(contextKeyUser, user)
				}
			}
		}
		return next(c)
	}
}

// CurrentUser returns the authenticated user, or an Unauthorized error when
// the request is anonymous.
func CurrentUser(c echo.Context) (*models.User, error) {
	user, ok := c.Get(contextKeyUser).(*models.User)
	if !ok || user == nil {
		return nil, errcodes.Unauthorized("Authentication required")
	}
	return user, nil
}

// CurrentUserID returns the authenticated user's ID, or 0 when anonymous.
func CurrentUserID(c echo.Context) int {
	user, ok := c.Get(contextKeyUser).(*models.User)
	if !ok || user == nil {
		return 0
	}
	return user.ID
}

// SetCurrentUser is used by tests that call handlers directly.
func SetCurrentUser(c echo.Context, user *models.User) {
	c.Set(contextKeyUser, user)
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
