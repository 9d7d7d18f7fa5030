package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/poly-routine-api/internal/models"
	appErrors "github.com/noah-isme/poly-routine-api/pkg/errors"
)

// batchStore is the persistence boundary the batch persister writes through.
type batchStore interface {
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	Insert(ctx context.Context, entry *models.TimetableEntry) error
	ApplyPatch(ctx context.Context, id string, patch models.EntryPatch) error
	Deactivate(ctx context.Context, id string) error
	FindActiveByTeacherSlot(ctx context.Context, teacherID, day, slot string) ([]models.TimetableEntry, error)
	FindActiveByRoomSlot(ctx context.Context, shift models.Shift, day, slot, room string) ([]models.TimetableEntry, error)
}

// BatchService applies a reconciled operation list against storage. Each
// operation is applied independently; a mid-batch failure never discards the
// unrelated operations that already succeeded, and the per-operation outcome
// is reported back so the caller can keep only the failing cells dirty.
type BatchService struct {
	store   batchStore
	metrics *MetricsService
	logger  *zap.Logger
}

// NewBatchService constructs the batch persister.
func NewBatchService(store batchStore, metrics *MetricsService, logger *zap.Logger) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{store: store, metrics: metrics, logger: logger}
}

// Submit applies the operations in order and reports per-operation outcomes.
// A non-nil error is returned only for storage-level failures that prevent
// the batch from being evaluated at all; everything else is expressed in the
// BatchResult.
func (s *BatchService) Submit(ctx context.Context, ops []models.Operation) (*models.BatchResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveBatchSubmission(time.Since(start))
	}()

	result := &models.BatchResult{TotalCount: len(ops)}

	for i, op := range ops {
		opErr, err := s.apply(ctx, op)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "batch submission aborted")
		}
		if opErr != nil {
			opErr.Index = i
			result.Errors = append(result.Errors, *opErr)
			s.metrics.RecordBatchOperation(string(op.Kind), "failed")
			continue
		}
		result.CompletedCount++
		s.metrics.RecordBatchOperation(string(op.Kind), "applied")
	}

	result.Success = result.CompletedCount == result.TotalCount
	if !result.Success {
		s.logger.Warn("batch completed partially",
			zap.Int("completed", result.CompletedCount),
			zap.Int("total", result.TotalCount),
		)
	}
	return result, nil
}

// apply executes a single operation. The first return value carries an
// operation-level failure (validation or conflict detected at apply time);
// the second carries storage failures that abort the whole batch.
func (s *BatchService) apply(ctx context.Context, op models.Operation) (*models.OperationError, error) {
	switch op.Kind {
	case models.OpCreate:
		return s.applyCreate(ctx, op)
	case models.OpUpdate:
		return s.applyUpdate(ctx, op)
	case models.OpDelete:
		return s.applyDelete(ctx, op)
	default:
		return &models.OperationError{Message: fmt.Sprintf("unsupported operation kind %q", op.Kind)}, nil
	}
}

func (s *BatchService) applyCreate(ctx context.Context, op models.Operation) (*models.OperationError, error) {
	entry := op.Entry
	if entry == nil {
		return &models.OperationError{Message: "create operation without entry"}, nil
	}
	if fields := s.checkConflicts(ctx, entry.TeacherID, entry.Room, entry.Shift, entry.Department, entry.Semester, op.Day, op.TimeSlot, ""); fields != nil {
		if fields.err != nil {
			return nil, fields.err
		}
		if len(fields.fields) > 0 {
			return &models.OperationError{Message: "schedule conflict", Fields: fields.fields}, nil
		}
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *BatchService) applyUpdate(ctx context.Context, op models.Operation) (*models.OperationError, error) {
	if op.Patch == nil || op.Patch.IsZero() {
		return &models.OperationError{Message: "update operation without changes"}, nil
	}
	if op.Patch.TeacherID != nil || op.Patch.Room != nil {
		existing, err := s.store.FindByID(ctx, op.EntryID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &models.OperationError{Message: "entry not found"}, nil
			}
			return nil, err
		}
		teacherID := existing.TeacherID
		if op.Patch.TeacherID != nil {
			teacherID = *op.Patch.TeacherID
		}
		room := existing.Room
		if op.Patch.Room != nil {
			room = *op.Patch.Room
		}
		fields := s.checkConflicts(ctx, teacherID, room, existing.Shift, existing.Department, existing.Semester, op.Day, op.TimeSlot, existing.ID)
		if fields != nil {
			if fields.err != nil {
				return nil, fields.err
			}
			if len(fields.fields) > 0 {
				return &models.OperationError{Message: "schedule conflict", Fields: fields.fields}, nil
			}
		}
	}
	if err := s.store.ApplyPatch(ctx, op.EntryID, *op.Patch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.OperationError{Message: "entry not found"}, nil
		}
		return nil, err
	}
	return nil, nil
}

func (s *BatchService) applyDelete(ctx context.Context, op models.Operation) (*models.OperationError, error) {
	if err := s.store.Deactivate(ctx, op.EntryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.OperationError{Message: "entry not found"}, nil
		}
		return nil, err
	}
	return nil, nil
}

type conflictCheck struct {
	fields models.FieldErrors
	err    error
}

// checkConflicts re-runs the room and teacher double-booking rules against
// live storage right before the write. The client-side validator is only a
// fast-fail gate; this check is the source of truth for conflicts created
// concurrently by another operator.
func (s *BatchService) checkConflicts(ctx context.Context, teacherID, room string, shift models.Shift, department string, semester int, day, slot, ignoreID string) *conflictCheck {
	check := &conflictCheck{fields: models.FieldErrors{}}

	if teacherID != "" {
		existing, err := s.store.FindActiveByTeacherSlot(ctx, teacherID, day, slot)
		if err != nil {
			check.err = err
			return check
		}
		for _, e := range existing {
			if e.ID == ignoreID {
				continue
			}
			check.fields["teacher_id"] = append(check.fields["teacher_id"],
				fmt.Sprintf("teacher is already scheduled on %s %s", day, slot))
			break
		}
	}

	if room != "" {
		existing, err := s.store.FindActiveByRoomSlot(ctx, shift, day, slot, room)
		if err != nil {
			check.err = err
			return check
		}
		for _, e := range existing {
			if e.ID == ignoreID {
				continue
			}
			if e.Department == department && e.Semester == semester {
				continue
			}
			if !strings.EqualFold(e.Room, room) {
				continue
			}
			check.fields["room"] = append(check.fields["room"],
				fmt.Sprintf("room %s is already booked on %s %s", room, day, slot))
			break
		}
	}

	if len(check.fields) == 0 {
		check.fields = nil
	}
	return check
}
