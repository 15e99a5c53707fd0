package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/topcornerhq/topcorner/internal/usecase"
)

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
}

type userStatsDTO struct {
	UserID      string   `json:"user_id"`
	Points      int      `json:"points"`
	Badges      []string `json:"badges"`
	Rank        int      `json:"rank"`
	Total       int      `json:"total_predictions"`
	Processed   int      `json:"processed_predictions"`
	Correct     int      `json:"correct_predictions"`
	AccuracyPct int      `json:"accuracy_pct"`
}

func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserStats")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	stats, err := h.profileService.Stats(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user stats failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	badges := stats.Badges
	if badges == nil {
		badges = []string{}
	}

	writeSuccess(ctx, w, http.StatusOK, userStatsDTO{
		UserID:      stats.UserID,
		Points:      stats.Points,
		Badges:      badges,
		Rank:        stats.Rank,
		Total:       stats.Total,
		Processed:   stats.Processed,
		Correct:     stats.Correct,
		AccuracyPct: stats.AccuracyPct,
	})
}

// UpdateProfile only lets callers edit their own account.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	userID := strings.TrimSpace(r.PathValue("userID"))
	if userID != principal.UserID && !principal.IsAdmin {
		writeError(ctx, w, fmt.Errorf("%w: cannot edit another user's profile", usecase.ErrUnauthorized))
		return
	}

	var req updateProfileRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.profileService.UpdateProfile(ctx, userID, usecase.UpdateProfileInput{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update profile failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(updated))
}
