package clinicadmin

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"github.com/clinicore/clinic-admin/internal/authz"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// Passport scans are stored encrypted; uploads above this size are rejected.
const maxDocumentSize = 10 << 20

func (h *Handlers) recordSensitiveAccess(user *rbac.SessionUser, status string) {
	if h.metrics != nil {
		h.metrics.RecordSensitiveAccess(string(user.Role), status)
	}
}

// startSensitiveSpan opens a sensitive-access span when tracing is
// configured. The returned context carries the span; the span is nil
// otherwise.
func (h *Handlers) startSensitiveSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	if h.tracer == nil {
		return ctx, nil
	}
	return h.tracer.StartSensitiveAccessSpan(ctx, operation)
}

func (h *Handlers) traceError(span trace.Span, err error) {
	if h.tracer != nil && span != nil {
		h.tracer.RecordError(span, err)
	}
}

func endSpan(span trace.Span) {
	if span != nil {
		span.End()
	}
}

// GetPassportDocument returns the latest passport scan for a patient,
// decrypted for the caller. Only sensitive-data roles reach this handler.
func (h *Handlers) GetPassportDocument(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, _ *authz.RouteContext) {
	patientID := mux.Vars(r)["id"]

	ctx, span := h.startSensitiveSpan(r.Context(), "read")
	defer endSpan(span)

	var content []byte
	var contentType string
	err := h.db.QueryRowContext(ctx, `
		SELECT content, content_type
		FROM patient_documents
		WHERE patient_id = $1 AND doc_type = 'passport'
		ORDER BY created_at DESC
		LIMIT 1`, patientID).Scan(&content, &contentType)
	if err != nil {
		if err == sql.ErrNoRows {
			authz.WriteError(w, http.StatusNotFound, "Document not found")
			return
		}
		h.traceError(span, err)
		h.logger.WithError(err).Error("Failed to load passport document")
		h.recordSensitiveAccess(user, "error")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to load document")
		return
	}

	plaintext, err := h.crypto.Decrypt(content)
	if err != nil {
		h.traceError(span, err)
		h.logger.WithUserID(user.ID).WithError(err).Error("Failed to decrypt passport document")
		h.recordSensitiveAccess(user, "error")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to load document")
		return
	}

	h.recordSensitiveAccess(user, "read")
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(plaintext)
}

// UploadPassportDocument stores a passport scan for a patient. The payload
// is encrypted before it reaches the database.
func (h *Handlers) UploadPassportDocument(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, _ *authz.RouteContext) {
	patientID := mux.Vars(r)["id"]

	ctx, span := h.startSensitiveSpan(r.Context(), "write")
	defer endSpan(span)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		authz.WriteError(w, http.StatusBadRequest, "Document too large or unreadable")
		return
	}
	if len(body) == 0 {
		authz.WriteError(w, http.StatusBadRequest, "Document body is required")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ciphertext, err := h.crypto.Encrypt(body)
	if err != nil {
		h.traceError(span, err)
		h.logger.WithError(err).Error("Failed to encrypt passport document")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to store document")
		return
	}

	docID := uuid.New().String()
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO patient_documents (id, patient_id, doc_type, content, content_type, uploaded_by, created_at)
		VALUES ($1, $2, 'passport', $3, $4, $5, $6)`,
		docID, patientID, ciphertext, contentType, user.ID, time.Now().UTC(),
	)
	if err != nil {
		h.traceError(span, err)
		h.logger.WithError(err).Error("Failed to store passport document")
		h.recordSensitiveAccess(user, "error")
		authz.WriteError(w, http.StatusInternalServerError, "Failed to store document")
		return
	}

	h.recordSensitiveAccess(user, "write")
	authz.WriteJSON(w, http.StatusCreated, map[string]string{"id": docID})
}
