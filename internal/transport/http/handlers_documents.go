package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"verifi/internal/document"
	"verifi/internal/platform/middleware"
	"verifi/internal/registry"
	"verifi/internal/transport/http/shared"
	"verifi/pkg/domain"
	dErrors "verifi/pkg/domain-errors"
)

type uploadRequest struct {
	ID           string `json:"id"`
	Title        string `json:"title" valid:"required"`
	Description  string `json:"description" valid:"required"`
	DocumentType string `json:"document_type" valid:"required"`
	ContentCID   string `json:"content_cid" valid:"required"`
	Owner        string `json:"owner"`
}

type documentResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DocumentType string     `json:"document_type"`
	ContentCID   string     `json:"content_cid"`
	Uploader     string     `json:"uploader"`
	Owner        string     `json:"owner"`
	Verified     bool       `json:"verified"`
	VerifiedBy   string     `json:"verified_by,omitempty"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	UploadedAt   time.Time  `json:"uploaded_at"`
}

func toDocumentResponse(doc *document.Document) documentResponse {
	return documentResponse{
		ID:           doc.ID.String(),
		Title:        doc.Title,
		Description:  doc.Description,
		DocumentType: doc.DocumentType,
		ContentCID:   doc.ContentCID,
		Uploader:     doc.Uploader.String(),
		Owner:        doc.Owner.String(),
		Verified:     doc.Verified,
		VerifiedBy:   doc.VerifiedBy.String(),
		VerifiedAt:   doc.VerifiedAt,
		UploadedAt:   doc.UploadedAt,
	}
}

// documentID pulls the {id} route parameter.
func documentID(r *http.Request) (domain.DocumentID, error) {
	return domain.ParseDocumentID(chi.URLParam(r, "id"))
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "title, description, document_type and content_cid are required"))
		return
	}

	svcReq := registry.UploadRequest{
		Title:        req.Title,
		Description:  req.Description,
		DocumentType: req.DocumentType,
		ContentCID:   req.ContentCID,
	}
	if req.ID != "" {
		id, err := domain.ParseDocumentID(req.ID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		svcReq.ID = id
	}
	if req.Owner != "" {
		owner, err := domain.ParsePrincipal(req.Owner)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		svcReq.Owner = owner
	}

	doc, err := h.service.Upload(ctx, caller, svcReq)
	if err != nil {
		h.logger.WarnContext(ctx, "upload failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (h *Handler) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	doc, err := h.service.Retrieve(ctx, caller, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Remove(ctx, caller, id); err != nil {
		h.logger.WarnContext(ctx, "remove failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"id": id.String(), "status": "deleted"})
}

func (h *Handler) handleExists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	exists, err := h.service.Exists(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *Handler) handleDocumentsByUploader(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uploader, err := domain.ParsePrincipal(r.URL.Query().Get("uploader"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "uploader query parameter is required"))
		return
	}
	docs, err := h.service.DocumentsByUploader(ctx, uploader)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"documents": out})
}

func (h *Handler) handleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.VerifyDocument(ctx, caller, id); err != nil {
		h.logger.WarnContext(ctx, "verify document failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"id": id.String(), "status": "verified"})
}

func (h *Handler) handleMintCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetPrincipal(ctx)

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	cert, err := h.service.MintCertificate(ctx, caller, id)
	if err != nil {
		h.logger.WarnContext(ctx, "mint certificate failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{
		"document_id": cert.DocumentID.String(),
		"issued_by":   cert.IssuedBy.String(),
		"issued_at":   cert.IssuedAt,
	})
}

func (h *Handler) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	cert, err := h.service.Certificate(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"document_id": cert.DocumentID.String(),
		"issued_by":   cert.IssuedBy.String(),
		"issued_at":   cert.IssuedAt,
	})
}
