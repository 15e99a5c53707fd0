package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/topcornerhq/topcorner/internal/domain/league"
	"github.com/topcornerhq/topcorner/internal/usecase"
)

type createLeagueRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type joinLeagueRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

type leagueDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	CreatedBy   string `json:"created_by"`
	MemberCount int    `json:"member_count"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type leagueMemberDTO struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type leagueDetailDTO struct {
	leagueDTO
	Members []leagueMemberDTO `json:"members"`
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createLeagueRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.leagueService.Create(ctx, req.Name, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(created))
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req joinLeagueRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	joined, err := h.leagueService.Join(ctx, req.Code, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "join league failed", "user_id", principal.UserID, "code", req.Code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(joined))
}

func (h *Handler) ListUserLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserLeagues")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	leagues, err := h.leagueService.ListByUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user leagues failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaguesToDTO(leagues))
}

func (h *Handler) ListFeaturedLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFeaturedLeagues")
	defer span.End()

	leagues, err := h.leagueService.Featured(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list featured leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaguesToDTO(leagues))
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	detail, err := h.leagueService.Detail(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	members := make([]leagueMemberDTO, 0, len(detail.Members))
	for _, m := range detail.Members {
		members = append(members, leagueMemberDTO{
			UserID:   m.UserID,
			FullName: m.FullName,
			Username: m.Username,
			Points:   m.Points,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, leagueDetailDTO{
		leagueDTO: leagueToDTO(detail.League),
		Members:   members,
	})
}

func leagueToDTO(l league.League) leagueDTO {
	createdAt := ""
	if !l.CreatedAt.IsZero() {
		createdAt = l.CreatedAt.UTC().Format(time.RFC3339)
	}

	return leagueDTO{
		ID:          l.ID,
		Name:        l.Name,
		Code:        l.Code,
		CreatedBy:   l.CreatedBy,
		MemberCount: len(l.MemberIDs),
		CreatedAt:   createdAt,
	}
}

func leaguesToDTO(leagues []league.League) []leagueDTO {
	out := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		out = append(out, leagueToDTO(l))
	}
	return out
}
