package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) { return r[jti], nil }

type brokenChecker struct{}

func (brokenChecker) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func signToken(t *testing.T, secret, userID, role, jti string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID, "email": "user@example.com", "role": role, "jti": jti,
		"exp": time.Now().Add(ttl).Unix(), "iat": time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return s
}

func authRouter(revoked RevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(testSecret, revoked))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": ActorID(c).String(), "role": GetClaims(c).Role})
	})
	r.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_NoToken(t *testing.T) {
	w := get(authRouter(nil), "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required.")
}

func TestJWTAuth_ValidToken(t *testing.T) {
	id := uuid.New()
	w := get(authRouter(revokedSet{}), "/protected", signToken(t, testSecret, id.String(), "user", "j1", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())
}

func TestJWTAuth_ExpiredOrForeignToken(t *testing.T) {
	r := authRouter(nil)
	expired := signToken(t, testSecret, uuid.NewString(), "user", "j1", -time.Minute)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", expired).Code)

	foreign := signToken(t, "some-other-secret", uuid.NewString(), "user", "j1", time.Hour)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", foreign).Code)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", "garbage").Code)
}

func TestJWTAuth_MissingExpiry(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "x", "role": "admin"}).
		SignedString([]byte(testSecret))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(authRouter(nil), "/protected", tok).Code)
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	tok := signToken(t, testSecret, uuid.NewString(), "user", "gone", time.Hour)
	w := get(authRouter(revokedSet{"gone": true}), "/protected", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has been revoked.")
}

func TestJWTAuth_RevocationCheckFails_Closed(t *testing.T) {
	tok := signToken(t, testSecret, uuid.NewString(), "user", "j1", time.Hour)
	assert.Equal(t, http.StatusServiceUnavailable, get(authRouter(brokenChecker{}), "/protected", tok).Code)
}

func TestRequireRole(t *testing.T) {
	r := authRouter(nil)
	user := signToken(t, testSecret, uuid.NewString(), "user", "j1", time.Hour)
	admin := signToken(t, testSecret, uuid.NewString(), "admin", "j2", time.Hour)

	w := get(r, "/admin", user)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied. Insufficient permissions.")
	assert.Equal(t, http.StatusOK, get(r, "/admin", admin).Code)
}

func TestActorID_WithoutClaims(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, ActorID(c))
	assert.Nil(t, GetClaims(c))
}
