package usecase

import (
	"strings"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type SubmitFormInput struct {
	FormType entity.FormType
	// ClientID identifies the caller for rate limiting, usually the client IP.
	ClientID string
	Payload  []byte
}

type SubmitFormOutput struct {
	ID       string          `json:"id"`
	FormType entity.FormType `json:"formType"`
	Message  string          `json:"message"`
}

type RecordLeadOutput struct {
	Sheet           string             `json:"sheet"`
	Urgency         entity.UrgencyTier `json:"urgency"`
	SubmissionCount int                `json:"submissionCount"`
	Tracked         bool               `json:"tracked"`
}

// form is implemented by the per-form request bodies below.
type form interface {
	normalize()
	submission() entity.Submission
}

type ContactForm struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,leademail"`
	Message      string `json:"message" validate:"required"`
	InterestArea string `json:"interestArea"`
}

func (f *ContactForm) normalize() {
	trim(&f.FirstName, &f.LastName, &f.Message, &f.InterestArea)
	f.Email = entity.NormalizeEmail(f.Email)
}

func (f *ContactForm) submission() entity.Submission {
	return entity.Submission{
		Email:        f.Email,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Message:      f.Message,
		InterestArea: f.InterestArea,
	}
}

type BetaSignupForm struct {
	FirstName     string   `json:"firstName" validate:"required"`
	LastName      string   `json:"lastName" validate:"required"`
	Email         string   `json:"email" validate:"required,leademail"`
	UserType      string   `json:"userType" validate:"required"`
	Company       string   `json:"company"`
	Country       string   `json:"country"`
	Interests     []string `json:"interests"`
	Timeline      string   `json:"timeline"`
	UseCase       string   `json:"useCase"`
	Notifications bool     `json:"notifications"`
}

func (f *BetaSignupForm) normalize() {
	trim(&f.FirstName, &f.LastName, &f.UserType, &f.Company, &f.Country, &f.Timeline, &f.UseCase)
	f.Email = entity.NormalizeEmail(f.Email)
	f.Interests = compact(f.Interests)
}

func (f *BetaSignupForm) submission() entity.Submission {
	return entity.Submission{
		Email:         f.Email,
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		UserType:      f.UserType,
		Company:       f.Company,
		Country:       f.Country,
		Interests:     f.Interests,
		Timeline:      f.Timeline,
		UseCase:       f.UseCase,
		Notifications: f.Notifications,
	}
}

type DemoRequestForm struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,leademail"`
	Phone    string `json:"phone"`
	Company  string `json:"company" validate:"required"`
	Interest string `json:"interest"`
	Message  string `json:"message"`
}

func (f *DemoRequestForm) normalize() {
	trim(&f.Name, &f.Phone, &f.Company, &f.Interest, &f.Message)
	f.Email = entity.NormalizeEmail(f.Email)
}

func (f *DemoRequestForm) submission() entity.Submission {
	return entity.Submission{
		Email:    f.Email,
		Name:     f.Name,
		Phone:    f.Phone,
		Company:  f.Company,
		Interest: f.Interest,
		Message:  f.Message,
	}
}

type NewsletterForm struct {
	Email       string   `json:"email" validate:"required,leademail"`
	Preferences []string `json:"preferences"`
}

func (f *NewsletterForm) normalize() {
	f.Email = entity.NormalizeEmail(f.Email)
	f.Preferences = compact(f.Preferences)
}

func (f *NewsletterForm) submission() entity.Submission {
	return entity.Submission{Email: f.Email, Preferences: f.Preferences}
}

func newForm(ft entity.FormType) form {
	switch ft {
	case entity.FormContact:
		return &ContactForm{}
	case entity.FormBetaSignup:
		return &BetaSignupForm{}
	case entity.FormDemoRequest:
		return &DemoRequestForm{}
	case entity.FormNewsletter:
		return &NewsletterForm{}
	}
	return nil
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
