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

type roleRequest struct {
	Role      string `json:"role" valid:"required"`
	Principal string `json:"principal" valid:"required"`
}

func (h *Handler) decodeRoleRequest(r *http.Request) (domain.Role, domain.Principal, error) {
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", domain.NilPrincipal, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return "", domain.NilPrincipal, dErrors.New(dErrors.CodeBadRequest, "role and principal are required")
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return "", domain.NilPrincipal, err
	}
	principal, err := domain.ParsePrincipal(req.Principal)
	if err != nil {
		return "", domain.NilPrincipal, err
	}
	return role, principal, nil
}

func (h *Handler) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	role, principal, err := h.decodeRoleRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.GrantRole(ctx, caller, role, principal); err != nil {
		h.logger.WarnContext(ctx, "grant role failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"role":      role.String(),
		"principal": principal.String(),
		"status":    "granted",
	})
}

func (h *Handler) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	role, principal, err := h.decodeRoleRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.RevokeRole(ctx, caller, role, principal); err != nil {
		h.logger.WarnContext(ctx, "revoke role failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"role":      role.String(),
		"principal": principal.String(),
		"status":    "revoked",
	})
}

func (h *Handler) handleHasRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	role, err := domain.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	principal, err := domain.ParsePrincipal(chi.URLParam(r, "principal"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	held, err := h.service.HasRole(ctx, role, principal)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"held": held})
}
