package entity

import (
	"context"
	"errors"
)

var ErrSheetNotFound = errors.New("sheet not found")

type UrgencyTier string

const (
	UrgencyNew        UrgencyTier = "New"
	UrgencyFollowUp   UrgencyTier = "Follow-up"
	UrgencyInterested UrgencyTier = "Interested"
	UrgencyUrgent     UrgencyTier = "Urgent"
)

// Classify maps the number of earlier submissions from the same email in the
// same sheet to an urgency tier. Counts of 3 or more saturate at Urgent.
func Classify(prior int) UrgencyTier {
	switch {
	case prior <= 0:
		return UrgencyNew
	case prior == 1:
		return UrgencyFollowUp
	case prior == 2:
		return UrgencyInterested
	default:
		return UrgencyUrgent
	}
}

// Row is one formatted Lead Record. Header is the schema the cells were
// formatted against; Email is kept aside for per-email lookups.
type Row struct {
	Email  string
	Header []string
	Cells  []string
}

// SheetView is a read-only snapshot of a sheet, rows newest first.
type SheetView struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

type Workbook interface {
	// EnsureSheet creates the sheet with the given header if it does not exist.
	// An existing sheet keeps its original header.
	EnsureSheet(ctx context.Context, name string, header []string) error
	CountByEmail(ctx context.Context, sheet, email string) (int, error)
	AppendRow(ctx context.Context, sheet string, row Row) error
	ListRows(ctx context.Context, sheet string) (*SheetView, error)
}

// LeadRecorder is implemented by workbooks that can count and insert in one
// transaction. build gets the prior count for email and returns the row to
// insert; when the insert fails the count is left untouched. RecordRow
// returns the prior count it handed to build.
type LeadRecorder interface {
	RecordRow(ctx context.Context, sheet, email string, build func(prior int) Row) (int, error)
}
