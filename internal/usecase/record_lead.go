package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
)

// RecordLeadUseCase files a submission into its form-type sheet, scoring it
// by how often the same email already appears there.
type RecordLeadUseCase struct {
	Workbook entity.Workbook
}

func NewRecordLeadUseCase(wb entity.Workbook) *RecordLeadUseCase {
	return &RecordLeadUseCase{Workbook: wb}
}

// Execute records sub. rawPayload is kept verbatim in the urgent tracking
// sheet; when empty the submission is re-encoded instead.
func (uc *RecordLeadUseCase) Execute(ctx context.Context, sub entity.Submission, rawPayload []byte) (*RecordLeadOutput, error) {
	sub.Email = entity.NormalizeEmail(sub.Email)
	if !ValidEmail(sub.Email) {
		return nil, newValidationError([]FieldError{{Field: "email", Message: "email must be a valid email address"}})
	}

	schema := entity.SchemaFor(sub.FormType)
	if err := uc.Workbook.EnsureSheet(ctx, schema.Sheet, schema.Header); err != nil {
		return nil, &LeadStoreError{Op: "ensure sheet", Err: err}
	}

	prior, err := uc.file(ctx, schema, sub)
	if err != nil {
		return nil, err
	}

	tier := entity.Classify(prior)
	count := prior + 1

	out := &RecordLeadOutput{Sheet: schema.Sheet, Urgency: tier, SubmissionCount: count}

	if prior > 0 {
		if err := uc.track(ctx, sub, count, tier, rawPayload); err != nil {
			// the lead row is already filed; the audit row is secondary
			logger.C(ctx).Error().Err(err).Str("email", sub.Email).Msg("urgent tracking row not written")
		} else {
			out.Tracked = true
		}
	}

	logger.C(ctx).Info().
		Str("sheet", schema.Sheet).
		Str("urgency", string(tier)).
		Int("submission_count", count).
		Msg("lead recorded")

	return out, nil
}

func (uc *RecordLeadUseCase) ListSheet(ctx context.Context, sheet string) (*entity.SheetView, error) {
	view, err := uc.Workbook.ListRows(ctx, sheet)
	if err != nil {
		return nil, &LeadStoreError{Op: "list rows", Err: err}
	}
	return view, nil
}

// file inserts the lead row and returns the prior count it was scored with.
// A LeadRecorder does both in one transaction; otherwise the sheet is scanned
// first, which races with concurrent writers for the same email.
func (uc *RecordLeadUseCase) file(ctx context.Context, schema entity.SheetSchema, sub entity.Submission) (int, error) {
	build := func(prior int) entity.Row {
		return schema.Format(sub, prior+1, entity.Classify(prior))
	}

	if rec, ok := uc.Workbook.(entity.LeadRecorder); ok {
		prior, err := rec.RecordRow(ctx, schema.Sheet, sub.Email, build)
		if err != nil {
			return 0, &LeadStoreError{Op: "record row", Err: err}
		}
		return prior, nil
	}

	prior, err := uc.Workbook.CountByEmail(ctx, schema.Sheet, sub.Email)
	if err != nil {
		return 0, &LeadStoreError{Op: "count prior submissions", Err: err}
	}
	if err := uc.Workbook.AppendRow(ctx, schema.Sheet, build(prior)); err != nil {
		return 0, &LeadStoreError{Op: "append row", Err: err}
	}
	return prior, nil
}

func (uc *RecordLeadUseCase) track(ctx context.Context, sub entity.Submission, count int, tier entity.UrgencyTier, raw []byte) error {
	payload := string(raw)
	if payload == "" {
		b, err := json.Marshal(sub)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		payload = string(b)
	}

	if err := uc.Workbook.EnsureSheet(ctx, entity.SheetUrgentTracker, entity.UrgentTrackingHeader); err != nil {
		return err
	}
	return uc.Workbook.AppendRow(ctx, entity.SheetUrgentTracker, entity.UrgentTrackingRow(sub, count, tier, payload))
}
