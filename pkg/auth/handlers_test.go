package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topnlists/topn/pkg/binder"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/ratelimit"
)

func newTestContext(t *testing.T, payload, method, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandler_SignupThenLogin(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	h := &handler{authService: svc}

	c, rr := newTestContext(t, `{"username":"film_buff","password":"securepassword123"}`, http.MethodPost, "/auth/signup")
	require.NoError(t, h.signup(c))
	assert.Equal(t, http.StatusCreated, rr.Code)

	var signedUp sessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &signedUp))
	assert.Equal(t, "film_buff", signedUp.Username)
	assert.NotEmpty(t, signedUp.Token)
	assert.NotEmpty(t, rr.Header().Get("Set-Cookie"))

	c, rr = newTestContext(t, `{"username":"FILM_BUFF","password":"securepassword123"}`, http.MethodPost, "/auth/login")
	require.NoError(t, h.login(c))
	assert.Equal(t, http.StatusOK, rr.Code)

	var loggedIn sessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loggedIn))
	assert.Equal(t, signedUp.ID, loggedIn.ID)

	claims, err := svc.ValidateToken(loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, signedUp.ID, claims.UserID)
}

func TestHandler_Signup_UsernameTaken(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	h := &handler{authService: NewService(db, "test-jwt-secret")}

	c, _ := newTestContext(t, `{"username":"cinephile","password":"securepassword123"}`, http.MethodPost, "/auth/signup")
	require.NoError(t, h.signup(c))

	c, _ = newTestContext(t, `{"username":"Cinephile","password":"anotherpassword"}`, http.MethodPost, "/auth/signup")
	err := h.signup(c)
	require.Error(t, err)

	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusConflict, errResp.HTTPCode)
	assert.Equal(t, "username_taken", errResp.Code)
}

func TestHandler_Signup_Validation(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	h := &handler{authService: NewService(db, "test-jwt-secret")}

	c, _ := newTestContext(t, `{"username":"has space","password":"securepassword123"}`, http.MethodPost, "/auth/signup")
	err := h.signup(c)
	assert.True(t, errcodes.HasCode(err, "validation_error"), "got %v", err)

	c, _ = newTestContext(t, `{"username":"shortpw","password":"short"}`, http.MethodPost, "/auth/signup")
	err = h.signup(c)
	assert.True(t, errcodes.HasCode(err, "validation_error"), "got %v", err)
}

func TestHandler_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	h := &handler{authService: svc}

	_, err := svc.Signup(t.Context(), "listmaker", "securepassword123")
	require.NoError(t, err)

	c, _ := newTestContext(t, `{"username":"listmaker","password":"wrongpassword"}`, http.MethodPost, "/auth/login")
	err = h.login(c)
	assert.True(t, errcodes.HasCode(err, "unauthorized"), "got %v", err)

	c, _ = newTestContext(t, `{"username":"nobody","password":"wrongpassword"}`, http.MethodPost, "/auth/login")
	err = h.login(c)
	assert.True(t, errcodes.HasCode(err, "unauthorized"), "got %v", err)
}

func TestHandler_Login_RateLimited(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	limiter := ratelimit.New(1, 2, 0)
	t.Cleanup(limiter.Stop)
	h := &handler{authService: NewService(db, "test-jwt-secret"), loginLimiter: limiter}

	for i := 0; i < 2; i++ {
		c, _ := newTestContext(t, `{"username":"target","password":"guessing123"}`, http.MethodPost, "/auth/login")
		err := h.login(c)
		assert.True(t, errcodes.HasCode(err, "unauthorized"), "attempt %d: %v", i, err)
	}

	c, _ := newTestContext(t, `{"username":"Target","password":"guessing123"}`, http.MethodPost, "/auth/login")
	err := h.login(c)
	assert.True(t, errcodes.HasCode(err, "too_many_requests"), "got %v", err)
}

func TestHandler_Logout(t *testing.T) {
	t.Parallel()

	h := &handler{}
	c, rr := newTestContext(t, "", http.MethodPost, "/auth/logout")
	require.NoError(t, h.logout(c))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Set-Cookie"), "Max-Age=0")
}
