package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/usecase"
)

type savePredictionRequest struct {
	MatchID   int64  `json:"match_id" validate:"required,gt=0"`
	HomeTeam  string `json:"home_team" validate:"required,max=100"`
	AwayTeam  string `json:"away_team" validate:"required,max=100"`
	HomeScore int    `json:"home_score" validate:"gte=0,lte=99"`
	AwayScore int    `json:"away_score" validate:"gte=0,lte=99"`
}

type predictionDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	MatchID   int64  `json:"match_id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Points    int    `json:"points"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (h *Handler) SavePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req savePredictionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.predictionService.Save(ctx, usecase.SavePredictionInput{
		UserID:    principal.UserID,
		MatchID:   req.MatchID,
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save prediction failed", "user_id", principal.UserID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, predictionToDTO(saved))
}

func (h *Handler) ListUserPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserPredictions")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	items, err := h.predictionService.ListByUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]predictionDTO, 0, len(items))
	for _, p := range items {
		out = append(out, predictionToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	dto := predictionDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		MatchID:   p.MatchID,
		HomeTeam:  p.HomeTeam,
		AwayTeam:  p.AwayTeam,
		HomeScore: p.HomeScore,
		AwayScore: p.AwayScore,
		Points:    p.Points,
		Status:    string(p.Status),
	}
	if !p.CreatedAt.IsZero() {
		dto.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		dto.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
