package httpapi

import (
	"net/http"
	"strings"
)

type activityEntryDTO struct {
	Username   string        `json:"username"`
	FullName   string        `json:"full_name"`
	Prediction predictionDTO `json:"prediction"`
}

func (h *Handler) GetActivityFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetActivityFeed")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	feed, err := h.activityService.Feed(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get activity feed failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]activityEntryDTO, 0, len(feed))
	for _, entry := range feed {
		out = append(out, activityEntryDTO{
			Username:   entry.Username,
			FullName:   entry.FullName,
			Prediction: predictionToDTO(entry.Prediction),
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
