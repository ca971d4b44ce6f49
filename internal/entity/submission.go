package entity

import (
	"strings"
	"time"
)

type FormType string

const (
	FormContact     FormType = "contact"
	FormBetaSignup  FormType = "beta-signup"
	FormDemoRequest FormType = "demo-request"
	FormNewsletter  FormType = "newsletter"
)

// FormTypes lists the form types accepted on the intake side, in route order.
var FormTypes = []FormType{FormContact, FormBetaSignup, FormDemoRequest, FormNewsletter}

func (f FormType) Known() bool {
	for _, ft := range FormTypes {
		if f == ft {
			return true
		}
	}
	return false
}

func (f FormType) String() string { return string(f) }

// Submission is one validated form entry. It is the payload handed to the
// notifier and, as JSON, to the lead store.
type Submission struct {
	ID        string    `json:"id"`
	FormType  FormType  `json:"formType"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	Country   string `json:"country,omitempty"`
	Message   string `json:"message,omitempty"`

	InterestArea string `json:"interestArea,omitempty"`
	Interest     string `json:"interest,omitempty"`
	UserType     string `json:"userType,omitempty"`
	Timeline     string `json:"timeline,omitempty"`
	UseCase      string `json:"useCase,omitempty"`

	Interests     []string `json:"interests,omitempty"`
	Preferences   []string `json:"preferences,omitempty"`
	Notifications bool     `json:"notifications,omitempty"`
}

// DisplayName returns the best human name available for the submitter.
func (s Submission) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	full := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if full != "" {
		return full
	}
	return s.Email
}

// NormalizeEmail trims and lowercases an address so lookups by email are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
