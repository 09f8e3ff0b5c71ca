package handler

import (
	"net/http"
	"time"

	"github.com/nb2912/inventory/internal/apierror"
	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/middleware"
	"github.com/nb2912/inventory/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Signup godoc
// @Summary      Register a user account
// @Description  Creates a "user" role account. Admin accounts cannot be created here.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.SignupRequest true "Credentials"
// @Success      201  {object} dto.Envelope{data=dto.UserResponse}
// @Failure      400  {object} apierror.ValidationError
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "User created successfully!", resp)
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and returns a signed bearer token valid for one hour.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credentials"
// @Success      200  {object} dto.Envelope{data=dto.LoginResponse}
// @Failure      401  {object} apierror.APIError
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Logged in successfully!", resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Authentication required."))
		return
	}
	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.svc.Logout(c.Request.Context(), claims.ID, expiresAt); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Logged out successfully.", nil)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	resp, err := h.svc.Profile(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile data fetched successfully.", resp)
}

// ── Users (admin) ─────────────────────────────────────────────────────────────

type UsersHandler struct{ svc service.AuthService }

func NewUsersHandler(svc service.AuthService) *UsersHandler { return &UsersHandler{svc: svc} }

func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(users), users)
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "User created successfully!", resp)
}
