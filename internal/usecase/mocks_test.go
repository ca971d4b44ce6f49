package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg OutgoingEmail) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockLeadSink struct {
	mock.Mock
}

func (m *MockLeadSink) Enqueue(ctx context.Context, sub entity.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(RateDecision), args.Error(1)
}

// stubComposer addresses messages without rendering templates.
type stubComposer struct{}

func (stubComposer) AdminNotification(sub entity.Submission, adminEmail string) (OutgoingEmail, error) {
	return OutgoingEmail{To: adminEmail, ReplyTo: sub.Email, Subject: "New " + sub.FormType.String()}, nil
}

func (stubComposer) Acknowledgment(sub entity.Submission) (OutgoingEmail, error) {
	return OutgoingEmail{To: sub.Email, Subject: "Thanks"}, nil
}

const adminAddr = "admin@neuro.test"

func toAdmin(m OutgoingEmail) bool { return m.To == adminAddr }
func toUser(m OutgoingEmail) bool  { return m.To != adminAddr }

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
}
