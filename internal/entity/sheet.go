package entity

import (
	"strconv"
	"strings"
	"time"
)

// SchemaVersion is written into every Lead Record. Bump it whenever a header
// below changes so older rows can be told apart.
const SchemaVersion = 1

const (
	SheetContact       = "Contact Submissions"
	SheetBetaSignup    = "Beta Signups"
	SheetDemoRequest   = "Demo Requests"
	SheetNewsletter    = "Newsletter Subscribers"
	SheetOther         = "Other Submissions"
	SheetUrgentTracker = "Urgent Tracking"
)

const (
	colTimestamp     = "Timestamp"
	colSubmissionID  = "Submission ID"
	colEmail         = "Email"
	colCount         = "Submission Count"
	colUrgency       = "Urgency"
	colSchemaVersion = "Schema Version"
)

// SheetSchema binds a sheet name to its fixed column order and the function
// that fills the form-specific columns.
type SheetSchema struct {
	Sheet  string
	Header []string
	fields func(Submission) []string
}

var schemas = map[FormType]SheetSchema{
	FormContact: {
		Sheet:  SheetContact,
		Header: withLeadColumns("First Name", "Last Name", colEmail, "Interest Area", "Message"),
		fields: func(s Submission) []string {
			return []string{s.FirstName, s.LastName, s.Email, s.InterestArea, s.Message}
		},
	},
	FormBetaSignup: {
		Sheet: SheetBetaSignup,
		Header: withLeadColumns("First Name", "Last Name", colEmail, "User Type", "Company", "Country",
			"Interests", "Timeline", "Use Case", "Notifications"),
		fields: func(s Submission) []string {
			return []string{s.FirstName, s.LastName, s.Email, s.UserType, s.Company, s.Country,
				strings.Join(s.Interests, ", "), s.Timeline, s.UseCase, yesNo(s.Notifications)}
		},
	},
	FormDemoRequest: {
		Sheet:  SheetDemoRequest,
		Header: withLeadColumns("Name", colEmail, "Phone", "Company", "Interest", "Message"),
		fields: func(s Submission) []string {
			return []string{s.Name, s.Email, s.Phone, s.Company, s.Interest, s.Message}
		},
	},
	FormNewsletter: {
		Sheet:  SheetNewsletter,
		Header: withLeadColumns(colEmail, "Preferences"),
		fields: func(s Submission) []string {
			return []string{s.Email, strings.Join(s.Preferences, ", ")}
		},
	},
}

var otherSchema = SheetSchema{
	Sheet:  SheetOther,
	Header: withLeadColumns("Form Type", "Name", colEmail),
	fields: func(s Submission) []string {
		return []string{string(s.FormType), s.DisplayName(), s.Email}
	},
}

// UrgentTrackingHeader is the header of the audit sheet written for repeat leads.
var UrgentTrackingHeader = []string{colTimestamp, colEmail, "Name", "Form Type", colCount, colUrgency, "Raw Payload"}

// SchemaFor returns the sheet schema of a form type. Unknown form types land
// in the catch-all sheet.
func SchemaFor(ft FormType) SheetSchema {
	if s, ok := schemas[ft]; ok {
		return s
	}
	return otherSchema
}

// Format lays a submission out in the schema's column order.
func (sc SheetSchema) Format(s Submission, count int, tier UrgencyTier) Row {
	cells := make([]string, 0, len(sc.Header))
	cells = append(cells, formatTime(s.Timestamp), s.ID)
	cells = append(cells, sc.fields(s)...)
	cells = append(cells, strconv.Itoa(count), string(tier), strconv.Itoa(SchemaVersion))
	return Row{Email: s.Email, Header: sc.Header, Cells: cells}
}

// Detail is one labelled form value, in sheet column order.
type Detail struct {
	Label string
	Value string
}

// Details pairs the form-specific columns with the submission's values.
func (sc SheetSchema) Details(s Submission) []Detail {
	labels := sc.Header[2 : len(sc.Header)-3]
	values := sc.fields(s)
	out := make([]Detail, 0, len(labels))
	for i, l := range labels {
		out = append(out, Detail{Label: l, Value: values[i]})
	}
	return out
}

// EmailColumn is the index of the email column in the schema header, or -1.
func (sc SheetSchema) EmailColumn() int {
	return ColumnIndex(sc.Header, colEmail)
}

// UrgentTrackingRow formats the compact audit record for a repeat submission.
func UrgentTrackingRow(s Submission, count int, tier UrgencyTier, rawPayload string) Row {
	return Row{
		Email:  s.Email,
		Header: UrgentTrackingHeader,
		Cells: []string{
			formatTime(s.Timestamp), s.Email, s.DisplayName(), string(s.FormType),
			strconv.Itoa(count), string(tier), rawPayload,
		},
	}
}

func ColumnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func withLeadColumns(fields ...string) []string {
	header := []string{colTimestamp, colSubmissionID}
	header = append(header, fields...)
	return append(header, colCount, colUrgency, colSchemaVersion)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
