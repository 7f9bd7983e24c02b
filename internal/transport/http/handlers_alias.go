package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"verifi/internal/platform/middleware"
	"verifi/internal/transport/http/shared"
	"verifi/pkg/domain"
	dErrors "verifi/pkg/domain-errors"
)

type bindAliasRequest struct {
	Alias     string `json:"alias" valid:"required"`
	Principal string `json:"principal" valid:"required"`
}

func (h *Handler) handleBindAlias(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	var req bindAliasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "alias and principal are required"))
		return
	}
	a, err := domain.ParseAlias(req.Alias)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	principal, err := domain.ParsePrincipal(req.Principal)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.BindAlias(ctx, caller, a, principal); err != nil {
		h.logger.WarnContext(ctx, "bind alias failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{
		"alias":     a.String(),
		"principal": principal.String(),
	})
}

func (h *Handler) handleResolveAlias(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	a, err := domain.ParseAlias(chi.URLParam(r, "alias"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	principal, err := h.service.ResolveAlias(ctx, a)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"alias":     a.String(),
		"principal": principal.String(),
	})
}
