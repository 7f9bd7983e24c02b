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

type requestAccessRequest struct {
	// Alias is optional: when set, the request goes through alias resolution.
	Alias string `json:"alias"`
}

type accessDecisionRequest struct {
	Requester string `json:"requester" valid:"required"`
}

func (h *Handler) handleRequestAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req requestAccessRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	if req.Alias != "" {
		a, err := domain.ParseAlias(req.Alias)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		err = h.service.RequestAccessByAlias(ctx, caller, a, id)
		if err != nil {
			h.logger.WarnContext(ctx, "request access by alias failed",
				"error", err.Error(),
				"request_id", middleware.GetRequestID(ctx),
			)
			shared.WriteError(w, err)
			return
		}
	} else if err := h.service.RequestAccess(ctx, caller, id); err != nil {
		h.logger.WarnContext(ctx, "request access failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusAccepted, map[string]string{
		"document_id": id.String(),
		"status":      "requested",
	})
}

// decodeDecision parses the shared shape of grant/reject/revoke bodies.
func (h *Handler) decodeDecision(r *http.Request) (domain.DocumentID, domain.Principal, error) {
	id, err := documentID(r)
	if err != nil {
		return 0, domain.NilPrincipal, err
	}
	var req accessDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, domain.NilPrincipal, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return 0, domain.NilPrincipal, dErrors.New(dErrors.CodeBadRequest, "requester is required")
	}
	requester, err := domain.ParsePrincipal(req.Requester)
	if err != nil {
		return 0, domain.NilPrincipal, err
	}
	return id, requester, nil
}

func (h *Handler) handleGrantAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	id, requester, err := h.decodeDecision(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.GrantAccess(ctx, caller, id, requester); err != nil {
		h.logger.WarnContext(ctx, "grant access failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"document_id": id.String(),
		"requester":   requester.String(),
		"status":      "granted",
	})
}

func (h *Handler) handleRejectAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	id, requester, err := h.decodeDecision(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.RejectAccess(ctx, caller, id, requester); err != nil {
		h.logger.WarnContext(ctx, "reject access failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"document_id": id.String(),
		"requester":   requester.String(),
		"status":      "rejected",
	})
}

func (h *Handler) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	id, requester, err := h.decodeDecision(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.RevokeAccess(ctx, caller, id, requester); err != nil {
		h.logger.WarnContext(ctx, "revoke access failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"document_id": id.String(),
		"requester":   requester.String(),
		"status":      "revoked",
	})
}

func (h *Handler) handleCheckAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	requester, err := domain.ParsePrincipal(chi.URLParam(r, "requester"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	granted, err := h.service.CheckAccess(ctx, id, requester)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"granted": granted})
}

func (h *Handler) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	waiting, err := h.service.PendingRequests(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]string, 0, len(waiting))
	for _, p := range waiting {
		out = append(out, p.String())
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"pending": out})
}
