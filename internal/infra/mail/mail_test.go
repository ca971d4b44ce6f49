package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

func ada() entity.Submission {
	return entity.Submission{
		ID:        "sub-1",
		FormType:  entity.FormContact,
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Message:   "Interested in <your> tech",
		Timestamp: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}
}

func TestComposerAdminNotification(t *testing.T) {
	msg, err := NewComposer("Neuro").AdminNotification(ada(), "admin@neuro.test")

	require.NoError(t, err)
	assert.Equal(t, "admin@neuro.test", msg.To)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Equal(t, "New contact submission from Ada Lovelace", msg.Subject)
	assert.Contains(t, msg.HTML, "Lovelace")
	assert.Contains(t, msg.HTML, "sub-1")
	// user input is escaped
	assert.Contains(t, msg.HTML, "Interested in &lt;your&gt; tech")
	assert.NotContains(t, msg.HTML, "Interest Area")
}

func TestComposerAcknowledgment(t *testing.T) {
	c := NewComposer("Neuro")

	msg, err := c.Acknowledgment(ada())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "Thanks for reaching out, Ada", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Ada,")
	assert.Contains(t, msg.HTML, "The Neuro team")

	msg, err = c.Acknowledgment(entity.Submission{FormType: entity.FormNewsletter, Email: "n@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "You're subscribed to Neuro updates", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi n@example.com,")

	msg, err = c.Acknowledgment(entity.Submission{FormType: entity.FormBetaSignup, Email: "g@example.com", FirstName: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the Neuro beta, Grace", msg.Subject)
}

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPSenderBuildsHTMLMessage(t *testing.T) {
	d := &recordingDialer{}
	s := &SMTPSender{From: "noreply@neuro.test", d: d}

	err := s.Send(context.Background(), usecase.OutgoingEmail{
		To: "admin@neuro.test", ReplyTo: "ada@example.com", Subject: "New contact", HTML: "<p>hi</p>",
	})

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	m := d.sent[0]
	assert.Equal(t, []string{"noreply@neuro.test"}, m.GetHeader("From"))
	assert.Equal(t, []string{"admin@neuro.test"}, m.GetHeader("To"))
	assert.Equal(t, []string{"ada@example.com"}, m.GetHeader("Reply-To"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "Content-Type: text/html")
	assert.Contains(t, raw.String(), "<p>hi</p>")
}

func TestSMTPSenderErrors(t *testing.T) {
	d := &recordingDialer{err: errors.New("535 auth failed")}
	s := &SMTPSender{From: "noreply@neuro.test", d: d}

	err := s.Send(context.Background(), usecase.OutgoingEmail{To: "x@example.com"})
	assert.ErrorContains(t, err, "535 auth failed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Send(ctx, usecase.OutgoingEmail{To: "x@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSMTPSenderDefaultsFromToUser(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "bot@example.com", "pw", "")
	assert.Equal(t, "bot@example.com", s.From)
}

type fakeMailgun struct {
	*mailgun.MailgunImpl
	sends int
	err   error
}

func (f *fakeMailgun) Send(context.Context, *mailgun.Message) (string, string, error) {
	f.sends++
	return "Queued", "<id@mailgun>", f.err
}

func TestMailgunSender(t *testing.T) {
	fake := &fakeMailgun{MailgunImpl: mailgun.NewMailgun("mg.neuro.test", "key")}
	s := &MailgunSender{From: "noreply@neuro.test", client: fake}

	msg := usecase.OutgoingEmail{To: "ada@example.com", Subject: "Thanks", HTML: "<p>hi</p>", ReplyTo: "admin@neuro.test"}
	require.NoError(t, s.Send(context.Background(), msg))
	assert.Equal(t, 1, fake.sends)

	fake.err = errors.New("401 unauthorized")
	assert.ErrorContains(t, s.Send(context.Background(), msg), "401 unauthorized")
}
