package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/integration/leadstore"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

// LeadStoreHandler is the receiving end of the lead store: it files
// submissions into sheets and lets operators read them back.
type LeadStoreHandler struct {
	RecordUC *usecase.RecordLeadUseCase
	Secret   string
}

func NewLeadStoreHandler(uc *usecase.RecordLeadUseCase, secret string) *LeadStoreHandler {
	return &LeadStoreHandler{RecordUC: uc, Secret: secret}
}

type LeadStoreResponse struct {
	Success         bool               `json:"success"`
	Error           string             `json:"error,omitempty"`
	Sheet           string             `json:"sheet,omitempty"`
	Urgency         entity.UrgencyTier `json:"urgency,omitempty"`
	SubmissionCount int                `json:"submissionCount,omitempty"`
	Tracked         bool               `json:"tracked,omitempty"`
}

// Authorize accepts the shared secret as a bearer token or in the lead
// store header. Without a configured secret every request is refused.
func (h *LeadStoreHandler) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Secret == "" {
			writeJSON(w, http.StatusServiceUnavailable, LeadStoreResponse{Error: "lead store secret is not configured"})
			return
		}

		got := r.Header.Get(leadstore.SecretHeader)
		if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			got = strings.TrimSpace(bearer)
		}

		if subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
			writeJSON(w, http.StatusUnauthorized, LeadStoreResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *LeadStoreHandler) Record(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, LeadStoreResponse{Error: "could not read request body"})
		return
	}

	var sub entity.Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		writeJSON(w, http.StatusBadRequest, LeadStoreResponse{Error: "body must be a submission JSON object"})
		return
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}

	out, err := h.RecordUC.Execute(r.Context(), sub, raw)
	if err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, LeadStoreResponse{Error: verr.Message})
			return
		}

		logger.C(r.Context()).Error().Err(err).Str("submission_id", sub.ID).Msg("lead not recorded")
		middleware.RecordIntegrationError("workbook")
		writeJSON(w, http.StatusInternalServerError, LeadStoreResponse{Error: "could not record lead"})
		return
	}

	middleware.RecordLead(out.Sheet, string(out.Urgency))
	writeJSON(w, http.StatusOK, LeadStoreResponse{
		Success:         true,
		Sheet:           out.Sheet,
		Urgency:         out.Urgency,
		SubmissionCount: out.SubmissionCount,
		Tracked:         out.Tracked,
	})
}

func (h *LeadStoreHandler) ListSheet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "sheet")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	view, err := h.RecordUC.ListSheet(r.Context(), name)
	if errors.Is(err, entity.ErrSheetNotFound) {
		writeJSON(w, http.StatusNotFound, LeadStoreResponse{Error: "sheet not found"})
		return
	}
	if err != nil {
		logger.C(r.Context()).Error().Err(err).Str("sheet", name).Msg("sheet listing failed")
		writeJSON(w, http.StatusInternalServerError, LeadStoreResponse{Error: "could not list sheet"})
		return
	}

	writeJSON(w, http.StatusOK, view)
}
