package httpapi

import "net/http"

func (h *Handler) RunCalcPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCalcPoints")
	defer span.End()

	result, err := h.settlementService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "settlement run failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
