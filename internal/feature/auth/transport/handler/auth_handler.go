// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard_backend/internal/api"
	"dashboard_backend/internal/feature/auth/domain/entity"
	"dashboard_backend/internal/feature/auth/transport/http/dto"
	"dashboard_backend/internal/feature/auth/usecase"
	jwtmw "dashboard_backend/internal/platform/jwt"
)

// AuthUsecase defines the authentication operations the handler needs.
// Following Go convention: interfaces are defined by the consumer
// (handler), not the provider (usecase).
type AuthUsecase interface {
	// Signup registers a new user with the given email and password.
	Signup(ctx context.Context, email, password string) error
	// Login authenticates a user, returning the user ID and a JWT token.
	Login(ctx context.Context, email, password string) (uint, string, error)
	// Profile resolves an authenticated user ID to its account record.
	Profile(ctx context.Context, userID uint) (*entity.User, error)
}

// SessionSync is notified at session boundaries so the settings layer
// can reconcile watch-lists against the user's remote profile.
type SessionSync interface {
	OnLogin(ctx context.Context, userID uint) error
	OnLogout()
}

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	auth     AuthUsecase
	sessions SessionSync
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(auth AuthUsecase, sessions SessionSync) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Signup handles the user registration endpoint.
// Validation errors yield 400, a duplicate email 409, success 201.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	if err := h.auth.Signup(c.Request.Context(), req.Email, req.Password); err != nil {
		// Do not expose the concrete failure, to avoid user enumeration.
		slog.Warn("signup failed", "error", err, "remote_addr", c.ClientIP())
		status := http.StatusConflict
		if !errors.Is(err, usecase.ErrEmailAlreadyExists) {
			status = http.StatusBadRequest
		}
		c.JSON(status, api.ErrorResponse{Error: "signup failed"})
		return
	}
	slog.Info("user signup successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "ok"})
}

// Login handles the user login endpoint. On success the settings layer
// reconciles the user's watch-lists before the token is returned; a
// reconciliation failure is logged and does not fail the login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	userID, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid email or password"})
		return
	}

	if err := h.sessions.OnLogin(c.Request.Context(), userID); err != nil {
		slog.Warn("settings reconciliation failed on login", "error", err, "userID", userID)
	}

	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{Token: token})
}

// Me returns the authenticated user's profile. A token whose subject no
// longer has an account yields 401, other lookup failures 500.
func (h *AuthHandler) Me(c *gin.Context) {
	raw, ok := c.Get(jwtmw.ContextUserID)
	userID, cast := raw.(uint)
	if !ok || !cast {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
			return
		}
		slog.Error("profile lookup failed", "error", err, "userID", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "profile lookup failed"})
		return
	}

	c.JSON(http.StatusOK, api.UserResponse{ID: user.ID, Email: user.Email})
}

// Logout ends the session for settings purposes. The JWT itself stays
// valid until expiry; the client discards it.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.OnLogout()
	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}
