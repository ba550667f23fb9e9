package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/models"
)

func TestService_TokenClaims(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, "test-secret")
	token, err := svc.GenerateToken(&models.User{ID: 42, Username: "critic"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "critic", claims.Username)
	assert.Equal(t, strconv.Itoa(42), claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestService_ValidateToken_Rejects(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, "test-secret")
	sign := func(method jwt.SigningMethod, key interface{}, claims JWTClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	foreign := valid
	foreign.Issuer = "someone-else"
	noExpiry := valid
	noExpiry.ExpiresAt = nil

	cases := map[string]string{
		"expired":        sign(jwt.SigningMethodHS256, []byte("test-secret"), JWTClaims{UserID: 1, RegisteredClaims: expired}),
		"foreign issuer": sign(jwt.SigningMethodHS256, []byte("test-secret"), JWTClaims{UserID: 1, RegisteredClaims: foreign}),
		"no expiry":      sign(jwt.SigningMethodHS256, []byte("test-secret"), JWTClaims{UserID: 1, RegisteredClaims: noExpiry}),
		"other hmac":     sign(jwt.SigningMethodHS512, []byte("test-secret"), JWTClaims{UserID: 1, RegisteredClaims: valid}),
		"unsigned":       sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, JWTClaims{UserID: 1, RegisteredClaims: valid}),
		"no user":        sign(jwt.SigningMethodHS256, []byte("test-secret"), JWTClaims{RegisteredClaims: valid}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Signup(ctx, "  slasher_fan ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "slasher_fan", user.Username)

	got, err := svc.Authenticate(ctx, "SLASHER_FAN", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "slasher_fan", "wrong")
	assert.True(t, errcodes.HasCode(err, "unauthorized"))

	_, err = svc.Authenticate(ctx, "nobody", "correct horse")
	assert.True(t, errcodes.HasCode(err, "unauthorized"))

	_, err = svc.GetUserByID(ctx, 9999)
	assert.True(t, errcodes.HasCode(err, "not_found"))
}
