// Package sheets holds workbook backends that keep Lead Records in process.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type sheet struct {
	header []string
	rows   []entity.Row
}

// MemoryWorkbook is a process-local workbook. Rows are appended in arrival
// order. Prior counts come from a scan of the email column, so two processes
// (or two racing requests) can both see the same count.
type MemoryWorkbook struct {
	mu     sync.RWMutex
	sheets map[string]*sheet
}

func NewMemoryWorkbook() *MemoryWorkbook {
	return &MemoryWorkbook{sheets: make(map[string]*sheet)}
}

func (w *MemoryWorkbook) EnsureSheet(_ context.Context, name string, header []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.sheets[name]; ok {
		return nil
	}
	w.sheets[name] = &sheet{header: append([]string(nil), header...)}
	return nil
}

func (w *MemoryWorkbook) CountByEmail(_ context.Context, name, email string) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, ok := w.sheets[name]
	if !ok {
		return 0, nil
	}

	col := entity.ColumnIndex(s.header, "Email")
	count := 0
	for _, r := range s.rows {
		got := r.Email
		if col >= 0 && col < len(r.Cells) {
			got = r.Cells[col]
		}
		if strings.EqualFold(strings.TrimSpace(got), email) {
			count++
		}
	}
	return count, nil
}

func (w *MemoryWorkbook) AppendRow(_ context.Context, name string, row entity.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sheets[name]
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrSheetNotFound, name)
	}
	row.Cells = append([]string(nil), row.Cells...)
	s.rows = append(s.rows, row)
	return nil
}

func (w *MemoryWorkbook) ListRows(_ context.Context, name string) (*entity.SheetView, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, ok := w.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrSheetNotFound, name)
	}

	view := &entity.SheetView{
		Name:   name,
		Header: append([]string(nil), s.header...),
		Rows:   make([][]string, 0, len(s.rows)),
	}
	for i := len(s.rows) - 1; i >= 0; i-- {
		view.Rows = append(view.Rows, append([]string(nil), s.rows[i].Cells...))
	}
	return view, nil
}
