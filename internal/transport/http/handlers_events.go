package httptransport

import (
	"net/http"
	"strconv"

	"verifi/internal/transport/http/shared"
	dErrors "verifi/pkg/domain-errors"
)

const maxEventPageSize = 500

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "since must be a non-negative integer"))
			return
		}
		since = v
	}

	limit := maxEventPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
		if v > 0 && v < limit {
			limit = v
		}
	}

	events, err := h.service.Events(ctx, since, limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
