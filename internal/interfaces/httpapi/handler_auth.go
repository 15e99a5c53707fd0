package httpapi

import (
	"net/http"
	"time"

	"github.com/topcornerhq/topcorner/internal/domain/user"
	"github.com/topcornerhq/topcorner/internal/usecase"
)

type signupRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userDTO never carries the password hash.
type userDTO struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Points   int      `json:"points"`
	Badges   []string `json:"badges"`
	JoinedAt string   `json:"joined_at,omitempty"`
}

type sessionDTO struct {
	User  userDTO `json:"user"`
	Token string  `json:"token"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Signup")
	defer span.End()

	var req signupRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, token, err := h.authService.Signup(ctx, usecase.SignupInput{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "signup failed", "username", req.Username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sessionDTO{User: userToDTO(created), Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	found, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed", "email", req.Email, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionDTO{User: userToDTO(found), Token: token})
}

func userToDTO(u user.User) userDTO {
	joinedAt := ""
	if !u.CreatedAt.IsZero() {
		joinedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}

	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}

	return userDTO{
		ID:       u.ID,
		FullName: u.FullName,
		Username: u.Username,
		Email:    u.Email,
		Points:   u.Points,
		Badges:   badges,
		JoinedAt: joinedAt,
	}
}
