package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const foreignKeyViolation = "23503"

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SheetRepository is the Postgres workbook. Cells are stored as JSON keyed by
// header name so rows stay readable when a sheet's header changes.
type SheetRepository struct {
	DB *sql.DB
}

func NewSheetRepository(db *sql.DB) *SheetRepository {
	return &SheetRepository{DB: db}
}

func (r *SheetRepository) EnsureSheet(ctx context.Context, name string, header []string) error {
	raw, err := json.Marshal(header)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lead_sheets (name, header)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := r.DB.ExecContext(ctx, query, name, raw); err != nil {
		return fmt.Errorf("ensure sheet %q: %w", name, err)
	}
	return nil
}

func (r *SheetRepository) CountByEmail(ctx context.Context, sheet, email string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lead_rows
		WHERE sheet = $1 AND LOWER(email) = LOWER($2)
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, sheet, email).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %q rows: %w", sheet, err)
	}
	return count, nil
}

// RecordRow bumps the per-email counter and inserts the row built from the
// prior count in one transaction. The counter row stays locked until commit,
// so concurrent writers for the same email each see a distinct prior count,
// and a failed insert rolls the bump back.
func (r *SheetRepository) RecordRow(ctx context.Context, sheet, email string, build func(prior int) entity.Row) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin %q record: %w", sheet, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO lead_counters (sheet, email, submissions, updated_at)
		VALUES ($1, LOWER($2), 1, NOW())
		ON CONFLICT (sheet, email)
		DO UPDATE SET
			submissions = lead_counters.submissions + 1,
			updated_at = NOW()
		RETURNING submissions
	`
	var submissions int
	if err := tx.QueryRowContext(ctx, query, sheet, email).Scan(&submissions); err != nil {
		return 0, fmt.Errorf("bump %q counter: %w", sheet, err)
	}
	prior := submissions - 1

	if err := insertRow(ctx, tx, sheet, build(prior)); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %q record: %w", sheet, err)
	}
	return prior, nil
}

func (r *SheetRepository) AppendRow(ctx context.Context, sheet string, row entity.Row) error {
	return insertRow(ctx, r.DB, sheet, row)
}

func insertRow(ctx context.Context, db execer, sheet string, row entity.Row) error {
	cells := make(map[string]string, len(row.Header))
	for i, col := range row.Header {
		if i < len(row.Cells) {
			cells[col] = row.Cells[i]
		}
	}
	raw, err := json.Marshal(cells)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lead_rows (sheet, email, cells, schema_version)
		VALUES ($1, $2, $3, $4)
	`
	_, err = db.ExecContext(ctx, query, sheet, row.Email, raw, entity.SchemaVersion)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: %s", entity.ErrSheetNotFound, sheet)
		}
		return fmt.Errorf("append to %q: %w", sheet, err)
	}
	return nil
}

// ListRows lays stored cells out in the sheet's current header order, newest
// row first. Columns a row never had come back empty.
func (r *SheetRepository) ListRows(ctx context.Context, sheet string) (*entity.SheetView, error) {
	var rawHeader []byte
	err := r.DB.QueryRowContext(ctx, `SELECT header FROM lead_sheets WHERE name = $1`, sheet).Scan(&rawHeader)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entity.ErrSheetNotFound, sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("load %q header: %w", sheet, err)
	}

	view := &entity.SheetView{Name: sheet, Rows: [][]string{}}
	if err := json.Unmarshal(rawHeader, &view.Header); err != nil {
		return nil, fmt.Errorf("decode %q header: %w", sheet, err)
	}

	query := `
		SELECT cells
		FROM lead_rows
		WHERE sheet = $1
		ORDER BY id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, sheet)
	if err != nil {
		return nil, fmt.Errorf("list %q rows: %w", sheet, err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cells map[string]string
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("decode %q row: %w", sheet, err)
		}
		line := make([]string, len(view.Header))
		for i, col := range view.Header {
			line[i] = cells[col]
		}
		view.Rows = append(view.Rows, line)
	}
	return view, rows.Err()
}
