package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaForKnownAndUnknownForms(t *testing.T) {
	assert.Equal(t, SheetContact, SchemaFor(FormContact).Sheet)
	assert.Equal(t, SheetBetaSignup, SchemaFor(FormBetaSignup).Sheet)
	assert.Equal(t, SheetDemoRequest, SchemaFor(FormDemoRequest).Sheet)
	assert.Equal(t, SheetNewsletter, SchemaFor(FormNewsletter).Sheet)
	assert.Equal(t, SheetOther, SchemaFor("partnership").Sheet)
}

func TestEveryHeaderEndsWithLeadColumns(t *testing.T) {
	for _, ft := range append(FormTypes, "unknown") {
		h := SchemaFor(ft).Header
		require.GreaterOrEqual(t, len(h), 6, ft)
		assert.Equal(t, []string{"Submission Count", "Urgency", "Schema Version"}, h[len(h)-3:], ft)
		assert.NotEqual(t, -1, SchemaFor(ft).EmailColumn(), ft)
	}
}

func TestFormatContactRow(t *testing.T) {
	sub := Submission{
		ID:        "sub-1",
		FormType:  FormContact,
		Email:     "ada@example.com",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Message:   "Interested in your tech",
	}

	row := SchemaFor(FormContact).Format(sub, 1, UrgencyNew)

	assert.Equal(t, "ada@example.com", row.Email)
	assert.Equal(t, []string{
		"2026-03-01T10:00:00Z", "sub-1", "Ada", "Lovelace", "ada@example.com", "", "Interested in your tech",
		"1", "New", "1",
	}, row.Cells)
	assert.Len(t, row.Cells, len(row.Header))
}

func TestFormatBetaSignupJoinsInterests(t *testing.T) {
	sub := Submission{
		FormType:      FormBetaSignup,
		Email:         "b@example.com",
		Interests:     []string{"sleep", "focus"},
		Notifications: true,
	}

	sc := SchemaFor(FormBetaSignup)
	row := sc.Format(sub, 2, UrgencyFollowUp)

	assert.Equal(t, "sleep, focus", row.Cells[ColumnIndex(sc.Header, "Interests")])
	assert.Equal(t, "Yes", row.Cells[ColumnIndex(sc.Header, "Notifications")])
	assert.Equal(t, "Follow-up", row.Cells[ColumnIndex(sc.Header, "Urgency")])
	assert.Len(t, row.Cells, len(sc.Header))
}

func TestFormatUnknownFormUsesCatchAll(t *testing.T) {
	sub := Submission{FormType: "partnership", Email: "p@example.com", Name: "Pat"}
	sc := SchemaFor(sub.FormType)
	row := sc.Format(sub, 1, UrgencyNew)

	assert.Equal(t, "partnership", row.Cells[ColumnIndex(sc.Header, "Form Type")])
	assert.Equal(t, "Pat", row.Cells[ColumnIndex(sc.Header, "Name")])
}

func TestUrgentTrackingRow(t *testing.T) {
	sub := Submission{FormType: FormContact, Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}
	row := UrgentTrackingRow(sub, 3, UrgencyInterested, `{"email":"ada@example.com"}`)

	assert.Equal(t, UrgentTrackingHeader, row.Header)
	assert.Equal(t, []string{"ada@example.com", "Ada Lovelace", "contact", "3", "Interested", `{"email":"ada@example.com"}`}, row.Cells[1:])
}

func TestDetailsFollowColumnOrder(t *testing.T) {
	sub := Submission{FormType: FormNewsletter, Email: "n@example.com", Preferences: []string{"research", "events"}}

	got := SchemaFor(FormNewsletter).Details(sub)

	assert.Equal(t, []Detail{
		{Label: "Email", Value: "n@example.com"},
		{Label: "Preferences", Value: "research, events"},
	}, got)
}
