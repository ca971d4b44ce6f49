package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
)

var successMessages = map[entity.FormType]string{
	entity.FormContact:     "Thank you for reaching out! We'll get back to you soon.",
	entity.FormBetaSignup:  "Thanks for joining the beta! Check your inbox for a confirmation.",
	entity.FormDemoRequest: "Thanks for requesting a demo! Our team will contact you shortly.",
	entity.FormNewsletter:  "You're subscribed! Watch your inbox for our next update.",
}

type SubmitFormUseCase struct {
	Limiter   RateLimiter
	Validator *Validator
	Notifier  *Notifier
	Leads     LeadSink

	now   func() time.Time
	newID func() string
}

// NewSubmitFormUseCase wires the intake pipeline. limiter and leads may be
// nil: no rate limiting, no lead store.
func NewSubmitFormUseCase(limiter RateLimiter, validator *Validator, notifier *Notifier, leads LeadSink) *SubmitFormUseCase {
	return &SubmitFormUseCase{
		Limiter:   limiter,
		Validator: validator,
		Notifier:  notifier,
		Leads:     leads,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

func (uc *SubmitFormUseCase) Execute(ctx context.Context, input SubmitFormInput) (*SubmitFormOutput, error) {
	log := logger.C(ctx).With().Str("form_type", input.FormType.String()).Logger()

	if uc.Limiter != nil {
		key := input.FormType.String() + "|" + input.ClientID
		decision, err := uc.Limiter.Allow(ctx, key)
		if err != nil {
			// the limiter is abuse protection, not a gate on real leads
			log.Warn().Err(err).Msg("rate limiter unavailable, letting request through")
		} else if !decision.Allowed {
			return nil, &RateLimitError{RetryAfter: decision.RetryAfter}
		}
	}

	if err := uc.Notifier.Ready(); err != nil {
		var cerr *ConfigurationError
		if errors.As(err, &cerr) {
			log.Error().Str("reason", cerr.Reason()).Msg("intake misconfigured")
		}
		return nil, err
	}

	sub, err := uc.Validator.Decode(input.FormType, input.Payload)
	if err != nil {
		return nil, err
	}
	sub.ID = uc.newID()
	sub.Timestamp = uc.now().UTC()

	log = log.With().Str("submission_id", sub.ID).Logger()

	if uc.Leads != nil {
		if err := uc.Leads.Enqueue(ctx, sub); err != nil {
			lerr := &LeadStoreError{Op: "enqueue", Err: err}
			log.Error().Err(lerr).Msg("lead not queued for the lead store")
		}
	}

	if err := uc.Notifier.Notify(ctx, sub); err != nil {
		log.Error().Err(err).Msg("notification failed")
		return nil, err
	}

	log.Info().Msg("submission accepted")

	return &SubmitFormOutput{
		ID:       sub.ID,
		FormType: sub.FormType,
		Message:  successMessages[sub.FormType],
	}, nil
}
