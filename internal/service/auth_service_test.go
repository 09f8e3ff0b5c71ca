package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_LowercasesEmailAndDefaultsRole(t *testing.T) {
	e := newEnv()
	user, err := e.auth.Signup(context.Background(), dto.SignupRequest{Email: "  Alice@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
}

func TestSignup_DuplicateEmail_Conflict(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	_, err := e.auth.Signup(ctx, dto.SignupRequest{Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = e.auth.Signup(ctx, dto.SignupRequest{Email: "BOB@example.com", Password: "other12"})
	assertKind(t, err, service.KindConflict)
}

func TestSignup_AdminRole_Forbidden(t *testing.T) {
	e := newEnv()
	_, err := e.auth.Signup(context.Background(), dto.SignupRequest{Email: "eve@example.com", Password: "secret1", Role: model.RoleAdmin})
	assertKind(t, err, service.KindForbidden)
	assert.Empty(t, e.store.Users)
}

func TestCreateUser_Admin(t *testing.T) {
	e := newEnv()
	user, err := e.auth.CreateUser(context.Background(), dto.CreateUserRequest{Email: "root@example.com", Password: "secret1", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)

	users, err := e.auth.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLogin_IssuesSignedToken(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	created, err := e.auth.Signup(ctx, dto.SignupRequest{Email: "carol@example.com", Password: "secret1"})
	require.NoError(t, err)

	resp, err := e.auth.Login(ctx, dto.LoginRequest{Email: "Carol@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, created.ID, resp.User.ID)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims["user_id"])
	assert.Equal(t, model.RoleUser, claims["role"])
	assert.NotEmpty(t, claims["jti"])
}

func TestLogin_WrongPassword_Unauthorized(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	_, err := e.auth.Signup(ctx, dto.SignupRequest{Email: "dave@example.com", Password: "secret1"})
	require.NoError(t, err)

	resp, err := e.auth.Login(ctx, dto.LoginRequest{Email: "dave@example.com", Password: "wrong-password"})
	assertKind(t, err, service.KindUnauthorized)
	assert.Nil(t, resp)
}

func TestLogin_UnknownUser_SameMessage(t *testing.T) {
	e := newEnv()
	_, err := e.auth.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assertKind(t, err, service.KindUnauthorized)
	assert.Equal(t, "Invalid credentials.", err.Error())
}

func TestLogout_RevokesJTI(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	require.NoError(t, e.auth.Logout(ctx, "token-1", time.Now().Add(time.Hour)))

	revoked, err := e.tokens.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestProfile_NotFound(t *testing.T) {
	e := newEnv()
	_, err := e.auth.Profile(context.Background(), uuid.New())
	assertKind(t, err, service.KindNotFound)
}
