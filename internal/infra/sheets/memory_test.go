package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-intake/internal/entity"
)

func TestMemoryWorkbookKeepsFirstHeader(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook()

	require.NoError(t, wb.EnsureSheet(ctx, "Leads", []string{"Email", "Name"}))
	require.NoError(t, wb.EnsureSheet(ctx, "Leads", []string{"Other"}))

	view, err := wb.ListRows(ctx, "Leads")
	require.NoError(t, err)
	assert.Equal(t, []string{"Email", "Name"}, view.Header)
	assert.Empty(t, view.Rows)
}

func TestMemoryWorkbookCountsByEmailColumn(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook()
	require.NoError(t, wb.EnsureSheet(ctx, "Leads", []string{"Email", "Name"}))

	require.NoError(t, wb.AppendRow(ctx, "Leads", entity.Row{Email: "a@b.co", Cells: []string{"A@B.co", "first"}}))
	require.NoError(t, wb.AppendRow(ctx, "Leads", entity.Row{Email: "x@y.co", Cells: []string{"x@y.co", "other"}}))
	require.NoError(t, wb.AppendRow(ctx, "Leads", entity.Row{Email: "a@b.co", Cells: []string{"a@b.co", "second"}}))

	n, err := wb.CountByEmail(ctx, "Leads", "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = wb.CountByEmail(ctx, "Missing", "a@b.co")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryWorkbookListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook()
	require.NoError(t, wb.EnsureSheet(ctx, "Leads", []string{"Email"}))
	require.NoError(t, wb.AppendRow(ctx, "Leads", entity.Row{Cells: []string{"first@b.co"}}))
	require.NoError(t, wb.AppendRow(ctx, "Leads", entity.Row{Cells: []string{"second@b.co"}}))

	view, err := wb.ListRows(ctx, "Leads")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"second@b.co"}, {"first@b.co"}}, view.Rows)
}

func TestMemoryWorkbookAppendToMissingSheet(t *testing.T) {
	err := NewMemoryWorkbook().AppendRow(context.Background(), "Nope", entity.Row{})
	assert.ErrorIs(t, err, entity.ErrSheetNotFound)
}
