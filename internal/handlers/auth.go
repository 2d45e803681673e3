package handlers

import (
	"context"
	"net/http"

	"github.com/AnshRaj112/journal-backend/internal/middleware"
	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/services"
	"github.com/AnshRaj112/journal-backend/pkg/utils"
	"go.uber.org/zap"
)

// Accounts stores users and checks their credentials.
type Accounts interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type AuthHandler struct {
	users    Accounts
	sessions services.Sessions
	logger   *zap.SugaredLogger
}

func NewAuthHandler(users Accounts, sessions services.Sessions, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, logger: logger}
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupResponse struct {
	User *models.User `json:"user"`
}

type SigninResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type MeResponse struct {
	UserID string `json:"user_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Signup creates an account. It does not sign the user in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, h.logger, err)
		return
	}

	verr := models.NewValidationError()
	if err := utils.ValidateUsername(req.Username); err != nil {
		verr.Add("username", err.Error())
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		verr.Add("password", err.Error())
	}
	if len(verr.Fields) > 0 {
		writeServiceError(w, h.logger, verr)
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.logger.Infow("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, SignupResponse{User: user})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, h.logger, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeServiceError(w, h.logger, services.ErrInvalidCredentials)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	token, err := h.sessions.Issue(r.Context(), user.ID.String())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, SigninResponse{User: user, Token: token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.OwnerID(r.Context())
	if userID == "" {
		writeServiceError(w, h.logger, services.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{UserID: userID})
}

// Signout revokes the bearer token. Signing out without a token succeeds.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), middleware.BearerToken(r)); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Signed out"})
}
