package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/poly-routine-api/internal/models"
)

const routineColumns = "id, department, semester, shift, session, day_of_week, time_slot, subject_name, subject_code, class_type, lab_name, teacher_id, teacher_name, room, is_active, created_at, updated_at"

// RoutineRepository provides persistence for timetable entries.
type RoutineRepository struct {
	db *sqlx.DB
}

// NewRoutineRepository creates a new routine repository.
func NewRoutineRepository(db *sqlx.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

// ListByFilter returns the active entries a filter context selects, ordered
// by day and slot.
func (r *RoutineRepository) ListByFilter(ctx context.Context, filter models.FilterContext) ([]models.TimetableEntry, error) {
	var conditions []string
	var args []interface{}

	add := func(column string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if filter.Mode == models.ViewTeacher {
		add("teacher_id", filter.TeacherID)
	} else {
		add("department", filter.Department)
		add("semester", filter.Semester)
	}
	add("shift", string(filter.Shift))
	add("session", filter.Session)

	query := fmt.Sprintf("SELECT %s FROM routine_entries WHERE is_active = TRUE AND %s ORDER BY day_of_week ASC, time_slot ASC",
		routineColumns, strings.Join(conditions, " AND "))

	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list routine entries: %w", err)
	}
	return entries, nil
}

// FindByID loads an entry by id regardless of its active flag.
func (r *RoutineRepository) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM routine_entries WHERE id = $1", routineColumns)
	var entry models.TimetableEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Insert stores a new entry. A cell that previously held a soft-deleted row
// is revived in place: the filter tuple is unique per cell, so re-creating a
// deleted cell overwrites the old row and reactivates it.
func (r *RoutineRepository) Insert(ctx context.Context, entry *models.TimetableEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	entry.IsActive = true

	const query = `
INSERT INTO routine_entries (id, department, semester, shift, session, day_of_week, time_slot, subject_name, subject_code, class_type, lab_name, teacher_id, teacher_name, room, is_active, created_at, updated_at)
VALUES (:id, :department, :semester, :shift, :session, :day_of_week, :time_slot, :subject_name, :subject_code, :class_type, :lab_name, :teacher_id, :teacher_name, :room, :is_active, :created_at, :updated_at)
ON CONFLICT (department, semester, shift, session, day_of_week, time_slot) DO UPDATE
SET subject_name = EXCLUDED.subject_name,
    subject_code = EXCLUDED.subject_code,
    class_type = EXCLUDED.class_type,
    lab_name = EXCLUDED.lab_name,
    teacher_id = EXCLUDED.teacher_id,
    teacher_name = EXCLUDED.teacher_name,
    room = EXCLUDED.room,
    is_active = TRUE,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert routine entry: %w", err)
	}
	return nil
}

// ApplyPatch updates only the fields the patch carries. Returns
// sql.ErrNoRows when the entry does not exist or is inactive.
func (r *RoutineRepository) ApplyPatch(ctx context.Context, id string, patch models.EntryPatch) error {
	var sets []string
	var args []interface{}

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.SubjectName != nil {
		set("subject_name", *patch.SubjectName)
	}
	if patch.SubjectCode != nil {
		set("subject_code", *patch.SubjectCode)
	}
	if patch.ClassType != nil {
		set("class_type", string(*patch.ClassType))
	}
	if patch.LabName != nil {
		set("lab_name", *patch.LabName)
	}
	if patch.TeacherID != nil {
		set("teacher_id", *patch.TeacherID)
	}
	if patch.TeacherName != nil {
		set("teacher_name", *patch.TeacherName)
	}
	if patch.Room != nil {
		set("room", *patch.Room)
	}
	if len(sets) == 0 {
		return nil
	}
	set("updated_at", time.Now().UTC())

	query := fmt.Sprintf("UPDATE routine_entries SET %s WHERE id = $%d AND is_active = TRUE",
		strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("patch routine entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("patch routine entry: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Deactivate soft-deletes an entry. Returns sql.ErrNoRows when no active
// entry matched.
func (r *RoutineRepository) Deactivate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE routine_entries SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate routine entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate routine entry: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindActiveByTeacherSlot returns every active entry for a teacher at the
// given day and slot, across all shifts and departments.
func (r *RoutineRepository) FindActiveByTeacherSlot(ctx context.Context, teacherID, day, slot string) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM routine_entries WHERE is_active = TRUE AND teacher_id = $1 AND day_of_week = $2 AND time_slot = $3", routineColumns)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID, day, slot); err != nil {
		return nil, fmt.Errorf("find entries by teacher slot: %w", err)
	}
	return entries, nil
}

// FindActiveByRoomSlot returns every active entry occupying a room at the
// given day and slot within one shift.
func (r *RoutineRepository) FindActiveByRoomSlot(ctx context.Context, shift models.Shift, day, slot, room string) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM routine_entries WHERE is_active = TRUE AND shift = $1 AND day_of_week = $2 AND time_slot = $3 AND LOWER(room) = LOWER($4)", routineColumns)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, string(shift), day, slot, room); err != nil {
		return nil, fmt.Errorf("find entries by room slot: %w", err)
	}
	return entries, nil
}
