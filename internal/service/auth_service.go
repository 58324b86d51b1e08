package service

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/freelancepay/internal/auth"
	"github.com/mmynk/freelancepay/internal/httpjson"
	"github.com/mmynk/freelancepay/internal/middleware"
	"github.com/mmynk/freelancepay/internal/models"
	"github.com/mmynk/freelancepay/internal/revocation"
	"github.com/mmynk/freelancepay/internal/storage"
)

// AuthService serves registration, login, logout and the current user.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
	revoked       revocation.Store
	cookieSecure  bool
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage, revoked revocation.Store, cookieSecure bool, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		revoked:       revoked,
		cookieSecure:  cookieSecure,
		logger:        logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is the body of a successful login or registration.
type sessionResponse struct {
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

// Register creates a new user account and starts a session.
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Read(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.logger.Info("Register request", "email", req.Email)

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			s.logger.Warn("Registration rejected", "email", req.Email, "error", err)
			httpjson.Error(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordTooLong):
			httpjson.Error(w, http.StatusBadRequest, capitalize(err.Error()))
		default:
			s.logger.Error("Registration failed", "email", req.Email, "error", err)
			httpjson.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	s.startSession(w, user, http.StatusCreated, "Registration successful")
	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
}

// Login authenticates a user and starts a session.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Read(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.logger.Info("Login request", "email", req.Email)

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Login failed", "email", req.Email)
			httpjson.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Error("Login failed", "email", req.Email, "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.startSession(w, user, http.StatusOK, "Login successful")
	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
}

func (s *AuthService) startSession(w http.ResponseWriter, user *models.User, status int, msg string) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.jwtManager.TokenDuration().Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	httpjson.Write(w, status, sessionResponse{User: user, Token: token, Message: msg})
}

// Logout revokes the session token until it expires and clears the cookie.
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if err := s.revoked.Revoke(r.Context(), claims.ID, claims.Expiry()); err != nil {
		s.logger.Error("Failed to revoke token", "user_id", claims.UserID, "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info("User logged out", "user_id", claims.UserID)
	httpjson.Write(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// Me returns the currently authenticated user.
func (s *AuthService) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := s.users.GetUserByID(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		httpjson.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if err != nil {
		s.logger.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
