package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/sheets"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

func contactLead(id, email string) entity.Submission {
	return entity.Submission{
		ID:        id,
		FormType:  entity.FormContact,
		Email:     email,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Message:   "Interested in your tech",
		Timestamp: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}
}

func column(t *testing.T, view *entity.SheetView, name string) int {
	t.Helper()
	idx := entity.ColumnIndex(view.Header, name)
	require.GreaterOrEqual(t, idx, 0, "column %q", name)
	return idx
}

func TestRecordLead_FirstSubmissionIsNew(t *testing.T) {
	wb := sheets.NewMemoryWorkbook()
	uc := usecase.NewRecordLeadUseCase(wb)

	out, err := uc.Execute(context.Background(), contactLead("s1", "ada@example.com"), nil)

	require.NoError(t, err)
	assert.Equal(t, entity.SheetContact, out.Sheet)
	assert.Equal(t, entity.UrgencyNew, out.Urgency)
	assert.Equal(t, 1, out.SubmissionCount)
	assert.False(t, out.Tracked)

	view, err := uc.ListSheet(context.Background(), entity.SheetContact)
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "1", view.Rows[0][column(t, view, "Submission Count")])
	assert.Equal(t, "New", view.Rows[0][column(t, view, "Urgency")])
	assert.Equal(t, "1", view.Rows[0][column(t, view, "Schema Version")])

	_, err = wb.ListRows(context.Background(), entity.SheetUrgentTracker)
	assert.ErrorIs(t, err, entity.ErrSheetNotFound)
}

func TestRecordLead_RepeatsEscalateAndAreTracked(t *testing.T) {
	ctx := context.Background()
	wb := sheets.NewMemoryWorkbook()
	uc := usecase.NewRecordLeadUseCase(wb)

	var last *usecase.RecordLeadOutput
	for i, email := range []string{"ada@example.com", "ADA@example.com ", "ada@example.com"} {
		out, err := uc.Execute(ctx, contactLead("s"+string(rune('1'+i)), email), []byte(`{"n":`+string(rune('1'+i))+`}`))
		require.NoError(t, err)
		last = out
	}

	assert.Equal(t, entity.UrgencyInterested, last.Urgency)
	assert.Equal(t, 3, last.SubmissionCount)
	assert.True(t, last.Tracked)

	view, err := uc.ListSheet(ctx, entity.SheetContact)
	require.NoError(t, err)
	require.Len(t, view.Rows, 3)
	urgency := column(t, view, "Urgency")
	// newest first
	assert.Equal(t, []string{"Interested", "Follow-up", "New"},
		[]string{view.Rows[0][urgency], view.Rows[1][urgency], view.Rows[2][urgency]})

	tracked, err := uc.ListSheet(ctx, entity.SheetUrgentTracker)
	require.NoError(t, err)
	require.Len(t, tracked.Rows, 2)
	assert.Equal(t, "Interested", tracked.Rows[0][column(t, tracked, "Urgency")])
	assert.Equal(t, `{"n":3}`, tracked.Rows[0][column(t, tracked, "Raw Payload")])
	assert.Equal(t, "ada@example.com", tracked.Rows[0][column(t, tracked, "Email")])
}

func TestRecordLead_CountsArePerSheet(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewRecordLeadUseCase(sheets.NewMemoryWorkbook())

	_, err := uc.Execute(ctx, contactLead("s1", "ada@example.com"), nil)
	require.NoError(t, err)

	out, err := uc.Execute(ctx, entity.Submission{
		ID: "s2", FormType: entity.FormNewsletter, Email: "ada@example.com",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, entity.SheetNewsletter, out.Sheet)
	assert.Equal(t, entity.UrgencyNew, out.Urgency)
}

func TestRecordLead_UnknownFormGoesToCatchAll(t *testing.T) {
	uc := usecase.NewRecordLeadUseCase(sheets.NewMemoryWorkbook())

	out, err := uc.Execute(context.Background(), entity.Submission{
		ID: "s1", FormType: entity.FormType("careers"), Email: "x@example.com", Name: "X",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, entity.SheetOther, out.Sheet)
}

func TestRecordLead_TrackedPayloadFallsBackToSubmission(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewRecordLeadUseCase(sheets.NewMemoryWorkbook())

	for _, id := range []string{"s1", "s2"} {
		_, err := uc.Execute(ctx, contactLead(id, "ada@example.com"), nil)
		require.NoError(t, err)
	}

	tracked, err := uc.ListSheet(ctx, entity.SheetUrgentTracker)
	require.NoError(t, err)
	require.Len(t, tracked.Rows, 1)
	assert.Contains(t, tracked.Rows[0][column(t, tracked, "Raw Payload")], `"id":"s2"`)
}

// countingWorkbook hands out prior counts from its own counter instead of a
// sheet scan, bumping it only once the row is in.
type countingWorkbook struct {
	*sheets.MemoryWorkbook
	counts     map[string]int
	failInsert bool
	scanCalls  int
}

func (w *countingWorkbook) RecordRow(ctx context.Context, sheet, email string, build func(int) entity.Row) (int, error) {
	key := sheet + "|" + email
	prior := w.counts[key]
	row := build(prior)
	if w.failInsert {
		return 0, errors.New("insert failed")
	}
	if err := w.MemoryWorkbook.AppendRow(ctx, sheet, row); err != nil {
		return 0, err
	}
	w.counts[key] = prior + 1
	return prior, nil
}

func (w *countingWorkbook) CountByEmail(ctx context.Context, sheet, email string) (int, error) {
	w.scanCalls++
	return w.MemoryWorkbook.CountByEmail(ctx, sheet, email)
}

func TestRecordLead_PrefersAtomicCounter(t *testing.T) {
	wb := &countingWorkbook{
		MemoryWorkbook: sheets.NewMemoryWorkbook(),
		counts:         map[string]int{entity.SheetContact + "|ada@example.com": 4},
	}
	uc := usecase.NewRecordLeadUseCase(wb)

	out, err := uc.Execute(context.Background(), contactLead("s1", "ada@example.com"), nil)

	require.NoError(t, err)
	assert.Equal(t, entity.UrgencyUrgent, out.Urgency)
	assert.Equal(t, 5, out.SubmissionCount)
	assert.Zero(t, wb.scanCalls)
}

func TestRecordLead_RecorderFailureKeepsCount(t *testing.T) {
	wb := &countingWorkbook{MemoryWorkbook: sheets.NewMemoryWorkbook(), counts: map[string]int{}, failInsert: true}
	uc := usecase.NewRecordLeadUseCase(wb)
	ctx := context.Background()

	_, err := uc.Execute(ctx, contactLead("s1", "ada@example.com"), nil)
	var lerr *usecase.LeadStoreError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "record row", lerr.Op)

	wb.failInsert = false
	out, err := uc.Execute(ctx, contactLead("s2", "ada@example.com"), nil)

	require.NoError(t, err)
	assert.Equal(t, entity.UrgencyNew, out.Urgency)
	assert.Equal(t, 1, out.SubmissionCount)
	assert.False(t, out.Tracked)
}

func TestRecordLead_RejectsInvalidEmail(t *testing.T) {
	wb := sheets.NewMemoryWorkbook()
	uc := usecase.NewRecordLeadUseCase(wb)

	_, err := uc.Execute(context.Background(), contactLead("s1", "not-an-email"), nil)

	assert.True(t, usecase.IsValidationError(err))
	_, err = wb.ListRows(context.Background(), entity.SheetContact)
	assert.ErrorIs(t, err, entity.ErrSheetNotFound)
}

type failingWorkbook struct {
	*sheets.MemoryWorkbook
}

func (failingWorkbook) AppendRow(context.Context, string, entity.Row) error {
	return errors.New("quota exceeded")
}

func TestRecordLead_StoreFailureIsLeadStoreError(t *testing.T) {
	uc := usecase.NewRecordLeadUseCase(failingWorkbook{sheets.NewMemoryWorkbook()})

	_, err := uc.Execute(context.Background(), contactLead("s1", "ada@example.com"), nil)

	var lerr *usecase.LeadStoreError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "append row", lerr.Op)
	assert.EqualError(t, lerr.Unwrap(), "quota exceeded")
}

func TestRecordLead_ListMissingSheet(t *testing.T) {
	uc := usecase.NewRecordLeadUseCase(sheets.NewMemoryWorkbook())

	_, err := uc.ListSheet(context.Background(), "Nope")

	assert.True(t, usecase.IsLeadStoreError(err))
	assert.ErrorIs(t, err, entity.ErrSheetNotFound)
}
