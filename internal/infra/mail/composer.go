package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var formLabels = map[entity.FormType]string{
	entity.FormContact:     "contact",
	entity.FormBetaSignup:  "beta signup",
	entity.FormDemoRequest: "demo request",
	entity.FormNewsletter:  "newsletter",
}

var ackSubjects = map[entity.FormType]string{
	entity.FormContact:     "Thanks for reaching out, %[1]s",
	entity.FormBetaSignup:  "Welcome to the %[2]s beta, %[1]s",
	entity.FormDemoRequest: "Your %[2]s demo request, %[1]s",
	entity.FormNewsletter:  "You're subscribed to %[2]s updates",
}

var ackLeads = map[entity.FormType]string{
	entity.FormContact:     "Thanks for your message. Someone from our team will get back to you soon.",
	entity.FormBetaSignup:  "You're on the beta list. We'll email you as soon as your access is ready.",
	entity.FormDemoRequest: "We received your demo request and will reach out shortly to find a time.",
	entity.FormNewsletter:  "You're now subscribed to our newsletter.",
}

// Composer renders the two messages sent for every submission.
type Composer struct {
	Brand string
}

func NewComposer(brand string) *Composer {
	return &Composer{Brand: brand}
}

type adminData struct {
	FormLabel string
	ID        string
	Received  string
	Name      string
	Details   []entity.Detail
}

type ackData struct {
	Greeting string
	Lead     string
	Brand    string
	Details  []entity.Detail
}

func (c *Composer) AdminNotification(sub entity.Submission, adminEmail string) (usecase.OutgoingEmail, error) {
	label := formLabel(sub.FormType)
	data := adminData{
		FormLabel: label,
		ID:        sub.ID,
		Received:  sub.Timestamp.UTC().Format(time.RFC1123),
		Name:      sub.DisplayName(),
		Details:   entity.SchemaFor(sub.FormType).Details(sub),
	}

	html, err := render("admin.html", data)
	if err != nil {
		return usecase.OutgoingEmail{}, err
	}

	return usecase.OutgoingEmail{
		To:      adminEmail,
		ReplyTo: sub.Email,
		Subject: fmt.Sprintf("New %s submission from %s", label, sub.DisplayName()),
		HTML:    html,
	}, nil
}

func (c *Composer) Acknowledgment(sub entity.Submission) (usecase.OutgoingEmail, error) {
	greeting := sub.FirstName
	if greeting == "" {
		greeting = sub.DisplayName()
	}

	lead, ok := ackLeads[sub.FormType]
	if !ok {
		lead = "Thanks, we received your submission."
	}

	data := ackData{
		Greeting: greeting,
		Lead:     lead,
		Brand:    c.Brand,
		Details:  entity.SchemaFor(sub.FormType).Details(sub),
	}

	html, err := render("acknowledgment.html", data)
	if err != nil {
		return usecase.OutgoingEmail{}, err
	}

	subject := "We received your submission"
	if format, ok := ackSubjects[sub.FormType]; ok {
		subject = fmt.Sprintf(format, greeting, c.Brand)
	}

	return usecase.OutgoingEmail{
		To:      sub.Email,
		Subject: subject,
		HTML:    html,
	}, nil
}

func formLabel(ft entity.FormType) string {
	if l, ok := formLabels[ft]; ok {
		return l
	}
	return ft.String()
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
