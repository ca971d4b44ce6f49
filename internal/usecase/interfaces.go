package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type OutgoingEmail struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg OutgoingEmail) error
}

// MessageComposer renders the admin notification and the user acknowledgment
// for a submission.
type MessageComposer interface {
	AdminNotification(sub entity.Submission, adminEmail string) (OutgoingEmail, error)
	Acknowledgment(sub entity.Submission) (OutgoingEmail, error)
}

// LeadSink takes a stamped submission for asynchronous recording in the lead
// store. Implementations must not block on the store itself.
type LeadSink interface {
	Enqueue(ctx context.Context, sub entity.Submission) error
}

type RateDecision struct {
	Allowed    bool
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}
