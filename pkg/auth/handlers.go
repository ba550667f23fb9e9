package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	echologger "github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/logger"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/models"
	"github.com/topnlists/topn/pkg/ratelimit"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "topn_session"
	// CookieMaxAge is how long the cookie is valid.
	CookieMaxAge = 7 * 24 * time.Hour // 7 days
)

type handler struct {
	authService  *Service
	loginLimiter *ratelimit.KeyedRateLimiter
}

type sessionResponse struct {
	MeResponse
	Token string `json:"token"`
}

func buildMeResponse(user *models.User) MeResponse {
	return MeResponse{
		ID:        user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
	}
}

func (h *handler) signup(c echo.Context) error {
	ctx := c.Request().Context()

	params := SignupPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Signup(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	echologger.FromEchoContext(c).Info("user signed up", logger.Data{"user_id": user.ID})

	return h.startSession(c, http.StatusCreated, user)
}

// login is throttled per username so that a password can't be guessed by
// brute force. A successful login clears the bucket.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	key := strings.ToLower(params.Username)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(key) {
		return errcodes.TooManyRequests()
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(key)
	}

	return h.startSession(c, http.StatusOK, user)
}

func (h *handler) logout(c echo.Context) error {
	c.SetCookie(sessionCookie(c, "", -1))

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *handler) me(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, buildMeResponse(user))
}

func (h *handler) startSession(c echo.Context, status int, user *models.User) error {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(sessionCookie(c, token, int(CookieMaxAge.Seconds())))

	return c.JSON(status, sessionResponse{
		MeResponse: buildMeResponse(user),
		Token:      token,
	})
}

func sessionCookie(c echo.Context, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	}
}
