package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// Notifier sends the admin and user emails for a submission. Both are
// required: the result is a failure if either send fails.
type Notifier struct {
	mailer     Mailer
	composer   MessageComposer
	adminEmail string
}

func NewNotifier(mailer Mailer, composer MessageComposer, adminEmail string) *Notifier {
	return &Notifier{
		mailer:     mailer,
		composer:   composer,
		adminEmail: adminEmail,
	}
}

// Ready reports a *ConfigurationError when the notifier cannot send at all.
func (n *Notifier) Ready() error {
	switch {
	case n == nil || n.mailer == nil:
		return &ConfigurationError{reason: "mail transport credentials are missing"}
	case n.composer == nil:
		return &ConfigurationError{reason: "message composer is missing"}
	case n.adminEmail == "":
		return &ConfigurationError{reason: "admin recipient is missing"}
	}
	return nil
}

func (n *Notifier) Notify(ctx context.Context, sub entity.Submission) error {
	if err := n.Ready(); err != nil {
		return err
	}

	adminMsg, err := n.composer.AdminNotification(sub, n.adminEmail)
	if err != nil {
		return fmt.Errorf("compose admin email: %w", err)
	}
	userMsg, err := n.composer.Acknowledgment(sub)
	if err != nil {
		return fmt.Errorf("compose acknowledgment: %w", err)
	}

	// failures are kept per side, so both sends settle and both are reported
	var adminErr, userErr error
	var g errgroup.Group
	g.Go(func() error {
		adminErr = n.mailer.Send(ctx, adminMsg)
		return nil
	})
	g.Go(func() error {
		userErr = n.mailer.Send(ctx, userMsg)
		return nil
	})
	_ = g.Wait()

	var failures []NotificationFailure
	if adminErr != nil {
		failures = append(failures, NotificationFailure{Recipient: RecipientAdmin, Address: adminMsg.To, Err: adminErr})
	}
	if userErr != nil {
		failures = append(failures, NotificationFailure{Recipient: RecipientUser, Address: userMsg.To, Err: userErr})
	}
	if len(failures) > 0 {
		return &NotificationError{Failures: failures}
	}
	return nil
}
