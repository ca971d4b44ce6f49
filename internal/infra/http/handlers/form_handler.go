package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

type FormHandler struct {
	SubmitUC        *usecase.SubmitFormUseCase
	FallbackContact string
	Proxies         TrustedProxies
}

func NewFormHandler(uc *usecase.SubmitFormUseCase, fallbackContact string, proxies TrustedProxies) *FormHandler {
	return &FormHandler{SubmitUC: uc, FallbackContact: fallbackContact, Proxies: proxies}
}

type FormResponse struct {
	Success           bool                 `json:"success"`
	Message           string               `json:"message"`
	ID                string               `json:"id,omitempty"`
	FormType          entity.FormType      `json:"formType,omitempty"`
	Fields            []usecase.FieldError `json:"fields,omitempty"`
	RetryAfterSeconds int                  `json:"retryAfterSeconds,omitempty"`
	Details           *FailureDetails      `json:"details,omitempty"`
}

// FailureDetails names which of the two emails failed.
type FailureDetails struct {
	Failed []string `json:"failed"`
}

func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ft := entity.FormType(chi.URLParam(r, "formType"))
	if !ft.Known() {
		writeJSON(w, http.StatusNotFound, FormResponse{Success: false, Message: "Unknown form type"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, FormResponse{Success: false, Message: "Request body is too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, FormResponse{Success: false, Message: "Could not read request body"})
		return
	}

	out, err := h.SubmitUC.Execute(r.Context(), usecase.SubmitFormInput{
		FormType: ft,
		ClientID: h.Proxies.ClientIP(r),
		Payload:  body,
	})
	if err != nil {
		h.writeError(w, r, ft, err)
		return
	}

	middleware.RecordSubmission(ft.String(), "accepted")
	writeJSON(w, http.StatusOK, FormResponse{
		Success:  true,
		Message:  out.Message,
		ID:       out.ID,
		FormType: out.FormType,
	})
}

func (h *FormHandler) writeError(w http.ResponseWriter, r *http.Request, ft entity.FormType, err error) {
	var (
		verr *usecase.ValidationError
		cerr *usecase.ConfigurationError
		rerr *usecase.RateLimitError
		nerr *usecase.NotificationError
	)

	switch {
	case errors.As(err, &verr):
		middleware.RecordSubmission(ft.String(), "invalid")
		writeJSON(w, http.StatusBadRequest, FormResponse{Success: false, Message: verr.Message, Fields: verr.Fields})

	case errors.As(err, &rerr):
		middleware.RecordSubmission(ft.String(), "rate_limited")
		secs := rerr.RetryAfterSeconds()
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		writeJSON(w, http.StatusTooManyRequests, FormResponse{
			Success:           false,
			Message:           "Too many requests. Please try again later.",
			RetryAfterSeconds: secs,
		})

	case errors.As(err, &cerr):
		middleware.RecordSubmission(ft.String(), "misconfigured")
		writeJSON(w, http.StatusInternalServerError, FormResponse{Success: false, Message: cerr.Error()})

	case errors.As(err, &nerr):
		middleware.RecordSubmission(ft.String(), "notification_failed")
		for _, recipient := range nerr.Recipients() {
			middleware.RecordNotificationFailure(recipient)
		}
		writeJSON(w, http.StatusBadGateway, FormResponse{
			Success: false,
			Message: h.notificationMessage(),
			Details: &FailureDetails{Failed: nerr.Recipients()},
		})

	default:
		middleware.RecordSubmission(ft.String(), "error")
		logger.C(r.Context()).Error().Err(err).Str("form_type", ft.String()).Msg("submission failed")
		writeJSON(w, http.StatusInternalServerError, FormResponse{Success: false, Message: "Something went wrong. Please try again later."})
	}
}

func (h *FormHandler) notificationMessage() string {
	msg := "We could not process your submission right now. Please try again"
	if h.FallbackContact != "" {
		return msg + " or email us directly at " + h.FallbackContact + "."
	}
	return msg + " later."
}
