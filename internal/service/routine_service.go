package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/poly-routine-api/internal/models"
	appErrors "github.com/noah-isme/poly-routine-api/pkg/errors"
)

// routineReader is the fetch side of the persistence boundary.
type routineReader interface {
	ListByFilter(ctx context.Context, filter models.FilterContext) ([]models.TimetableEntry, error)
	FindActiveByTeacherSlot(ctx context.Context, teacherID, day, slot string) ([]models.TimetableEntry, error)
	FindActiveByRoomSlot(ctx context.Context, shift models.Shift, day, slot, room string) ([]models.TimetableEntry, error)
}

// RoutineService drives the routine engine: fetch through the read cache,
// grid construction, edit sessions, validation, reconciliation, batch
// persistence and cache invalidation.
type RoutineService struct {
	reader    routineReader
	cache     *RoutineCache
	batch     *BatchService
	validator ConflictValidator
	logger    *zap.Logger
}

// NewRoutineService wires the engine together.
func NewRoutineService(reader routineReader, cache *RoutineCache, batch *BatchService, logger *zap.Logger) *RoutineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutineService{reader: reader, cache: cache, batch: batch, logger: logger}
}

// FetchEntries returns the active entries for the filter, serving from the
// read cache when possible.
func (s *RoutineService) FetchEntries(ctx context.Context, filter models.FilterContext) ([]models.TimetableEntry, error) {
	if entries, ok := s.cache.Get(ctx, filter); ok {
		return entries, nil
	}
	entries, err := s.reader.ListByFilter(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch routine entries")
	}
	s.cache.Put(ctx, filter, entries)
	return entries, nil
}

// GetGrid returns the presentation grid for the filter.
func (s *RoutineService) GetGrid(ctx context.Context, filter models.FilterContext) (models.RoutineGrid, error) {
	entries, err := s.FetchEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	return EntriesToGrid(entries, models.SlotsFor(filter.Shift)), nil
}

// NewEditor starts an editing session over the latest fetched baseline.
func (s *RoutineService) NewEditor(ctx context.Context, filter models.FilterContext) (*RoutineEditor, error) {
	entries, err := s.FetchEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	slots := models.SlotsFor(filter.Shift)
	return &RoutineEditor{
		svc:      s,
		filter:   filter,
		baseline: entries,
		grid:     EntriesToGrid(entries, slots),
		state:    StateViewing,
	}, nil
}

// SaveGrid runs the full save pipeline for an externally edited grid: it
// opens an edit session over the current baseline, applies the grid, and
// saves. This is the one-shot path the HTTP surface uses.
func (s *RoutineService) SaveGrid(ctx context.Context, filter models.FilterContext, edited models.RoutineGrid) (*SaveOutcome, error) {
	editor, err := s.NewEditor(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := editor.BeginEdit(); err != nil {
		return nil, err
	}
	editor.ReplaceGrid(edited)
	return editor.Save(ctx)
}

// EditorState names the routine controller's states.
type EditorState string

const (
	StateViewing    EditorState = "VIEWING"
	StateEditing    EditorState = "EDITING"
	StateValidating EditorState = "VALIDATING"
	StateSaving     EditorState = "SAVING"
)

// SaveFailure classifies why a save did not fully succeed. The class drives
// the caller's retry affordance.
type SaveFailure string

const (
	FailureValidation   SaveFailure = "VALIDATION"
	FailureConflict     SaveFailure = "CONFLICT"
	FailureNetwork      SaveFailure = "NETWORK"
	FailurePartialBatch SaveFailure = "PARTIAL_BATCH"
	FailureUnknown      SaveFailure = "UNKNOWN"
)

// CellViolations ties validation violations back to the grid cell that
// produced them.
type CellViolations struct {
	Day        string             `json:"day_of_week"`
	TimeSlot   string             `json:"time_slot"`
	Violations []models.Violation `json:"violations"`
}

// SaveOutcome reports how a save attempt ended. On failure the edited grid
// is retained so the operator can fix only the failing cells; the engine
// never silently exits edit mode.
type SaveOutcome struct {
	Saved      bool                `json:"saved"`
	Grid       models.RoutineGrid  `json:"grid"`
	Failure    SaveFailure         `json:"failure,omitempty"`
	Violations []CellViolations    `json:"violations,omitempty"`
	Batch      *models.BatchResult `json:"batch,omitempty"`
}

// RoutineEditor is the controller state machine for one editing session.
// It is not safe for concurrent use; a session belongs to one operator.
type RoutineEditor struct {
	svc      *RoutineService
	filter   models.FilterContext
	baseline []models.TimetableEntry
	grid     models.RoutineGrid
	state    EditorState
}

// State returns the current controller state.
func (e *RoutineEditor) State() EditorState {
	return e.state
}

// Grid returns the grid currently shown: the baseline grid in viewing state,
// the diverged local grid while editing.
func (e *RoutineEditor) Grid() models.RoutineGrid {
	return e.grid
}

// Filter returns the session's filter context.
func (e *RoutineEditor) Filter() models.FilterContext {
	return e.filter
}

// BeginEdit enters editing mode. Cell edits are rejected outside of it.
func (e *RoutineEditor) BeginEdit() error {
	if e.state != StateViewing {
		return appErrors.Clone(appErrors.ErrConflict, "editing already in progress")
	}
	e.state = StateEditing
	return nil
}

// SetCell assigns a class slot to a cell of the local edited grid.
func (e *RoutineEditor) SetCell(day, slot string, value models.ClassSlot) error {
	if e.state != StateEditing {
		return appErrors.Clone(appErrors.ErrConflict, "not in editing mode")
	}
	if !models.ValidDay(day) || !knownSlot(e.filter.Shift, slot) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown day or time slot")
	}
	e.grid.SetCell(day, slot, value)
	return nil
}

// ClearCell empties a cell of the local edited grid.
func (e *RoutineEditor) ClearCell(day, slot string) error {
	return e.SetCell(day, slot, models.ClassSlot{})
}

// ReplaceGrid overwrites the local grid with an externally edited one. Cells
// outside the day×slot catalog are ignored, matching the codec's policy.
func (e *RoutineEditor) ReplaceGrid(edited models.RoutineGrid) {
	if e.state != StateEditing {
		return
	}
	slots := models.SlotsFor(e.filter.Shift)
	grid := BuildEmptyGrid(slots)
	for _, day := range models.DaysOfWeek() {
		for _, slot := range slots {
			grid.SetCell(day, slot, edited.Cell(day, slot))
		}
	}
	e.grid = grid
}

// Cancel discards local edits and rebuilds the grid from the last-fetched
// baseline. No network call is made.
func (e *RoutineEditor) Cancel() {
	e.grid = EntriesToGrid(e.baseline, models.SlotsFor(e.filter.Shift))
	e.state = StateViewing
}

// Save validates every changed cell, reconciles the edited grid against the
// baseline, submits the operations as one batch, and on full success
// invalidates the affected cache filters and refetches. Any failure keeps
// the session in editing mode with local edits intact.
func (e *RoutineEditor) Save(ctx context.Context) (*SaveOutcome, error) {
	if e.state != StateEditing {
		return nil, appErrors.Clone(appErrors.ErrConflict, "nothing to save: not in editing mode")
	}

	e.state = StateValidating
	violations, err := e.validateChangedCells(ctx)
	if err != nil {
		e.state = StateEditing
		return &SaveOutcome{Grid: e.grid, Failure: FailureNetwork}, nil
	}
	if len(violations) > 0 {
		e.state = StateEditing
		return &SaveOutcome{Grid: e.grid, Failure: FailureValidation, Violations: violations}, nil
	}

	ops := Reconcile(e.grid, e.baseline, e.filter)
	if len(ops) == 0 {
		e.state = StateViewing
		return &SaveOutcome{Saved: true, Grid: e.grid}, nil
	}

	e.state = StateSaving
	result, err := e.svc.batch.Submit(ctx, ops)
	if err != nil {
		e.state = StateEditing
		e.svc.logger.Error("batch submission failed", zap.Error(err))
		return &SaveOutcome{Grid: e.grid, Failure: classifySubmitError(err)}, nil
	}
	if !result.Success {
		e.state = StateEditing
		return &SaveOutcome{Grid: e.grid, Failure: classifyBatchFailure(result), Batch: result}, nil
	}

	e.invalidateAffected(ctx, ops)

	entries, err := e.svc.FetchEntries(ctx, e.filter)
	if err != nil {
		// The save itself succeeded; surface the stale grid rather than
		// dropping the operator back into editing mode.
		e.svc.logger.Warn("refetch after save failed", zap.Error(err))
		entries = e.baseline
	}
	e.baseline = entries
	e.grid = EntriesToGrid(entries, models.SlotsFor(e.filter.Shift))
	e.state = StateViewing
	return &SaveOutcome{Saved: true, Grid: e.grid, Batch: result}, nil
}

// validateChangedCells runs the conflict validator over every cell that
// diverged from the baseline and now holds an assignment. The known-entry
// set is the baseline plus live lookups across both viewing contexts, so a
// teacher double-booked in another department is caught before any mutation.
func (e *RoutineEditor) validateChangedCells(ctx context.Context) ([]CellViolations, error) {
	slots := models.SlotsFor(e.filter.Shift)
	originalGrid := EntriesToGrid(e.baseline, slots)

	var all []CellViolations
	for _, day := range models.DaysOfWeek() {
		for _, slot := range slots {
			original := originalGrid.Cell(day, slot)
			candidate := e.grid.Cell(day, slot)
			if candidate.IsEmpty() || candidate == original {
				continue
			}
			// Filling an empty cell materializes a new entry from the filter,
			// so the filter must name the class the entry belongs to. Teacher
			// views span departments; without the edit target the create would
			// persist an entry with no department and semester 0.
			if original.IsEmpty() && !e.filter.TargetsClass() {
				all = append(all, CellViolations{Day: day, TimeSlot: slot, Violations: []models.Violation{{
					Kind:    models.ViolationFieldInvalid,
					Field:   "department",
					Message: "department and semester are required to add a class in teacher view",
				}}})
				continue
			}
			known, err := e.knownEntriesFor(ctx, candidate, day, slot)
			if err != nil {
				return nil, err
			}
			result := e.svc.validator.Validate(candidate, day, slot, e.filter, known)
			if !result.OK() {
				all = append(all, CellViolations{Day: day, TimeSlot: slot, Violations: result.Violations})
			}
		}
	}
	return all, nil
}

func (e *RoutineEditor) knownEntriesFor(ctx context.Context, candidate models.ClassSlot, day, slot string) ([]models.TimetableEntry, error) {
	known := append([]models.TimetableEntry(nil), e.baseline...)
	seen := make(map[string]struct{}, len(known))
	for _, entry := range known {
		seen[entry.ID] = struct{}{}
	}
	merge := func(entries []models.TimetableEntry) {
		for _, entry := range entries {
			if _, ok := seen[entry.ID]; ok {
				continue
			}
			seen[entry.ID] = struct{}{}
			known = append(known, entry)
		}
	}
	if candidate.TeacherID != "" {
		entries, err := e.svc.reader.FindActiveByTeacherSlot(ctx, candidate.TeacherID, day, slot)
		if err != nil {
			return nil, err
		}
		merge(entries)
	}
	if candidate.Room != "" {
		entries, err := e.svc.reader.FindActiveByRoomSlot(ctx, e.filter.Shift, day, slot, candidate.Room)
		if err != nil {
			return nil, err
		}
		merge(entries)
	}
	return known, nil
}

// invalidateAffected evicts every cached filter the save may have touched:
// the class views of every class the operations wrote into (from the filter,
// from created entries and from the baseline rows behind updates and deletes),
// and the teacher views of every teacher appearing in those same places. A
// teacher-mode save must not leave the student view of the edited class
// serving a stale grid.
func (e *RoutineEditor) invalidateAffected(ctx context.Context, ops []models.Operation) {
	type classKey struct {
		department string
		semester   int
		session    string
	}
	classes := make(map[classKey]struct{})
	addClass := func(department string, semester int, session string) {
		if department == "" || semester == 0 {
			return
		}
		classes[classKey{department, semester, session}] = struct{}{}
	}
	teachers := make(map[string]struct{})
	addTeacher := func(teacherID string) {
		if teacherID != "" {
			teachers[teacherID] = struct{}{}
		}
	}

	addClass(e.filter.Department, e.filter.Semester, e.filter.Session)
	addTeacher(e.filter.TeacherID)

	baselineByID := make(map[string]models.TimetableEntry, len(e.baseline))
	for _, entry := range e.baseline {
		baselineByID[entry.ID] = entry
	}
	for _, op := range ops {
		switch op.Kind {
		case models.OpCreate:
			if op.Entry != nil {
				addClass(op.Entry.Department, op.Entry.Semester, op.Entry.Session)
				addTeacher(op.Entry.TeacherID)
			}
		case models.OpUpdate:
			if op.Patch != nil && op.Patch.TeacherID != nil {
				addTeacher(*op.Patch.TeacherID)
			}
			if prev, ok := baselineByID[op.EntryID]; ok {
				addClass(prev.Department, prev.Semester, prev.Session)
				addTeacher(prev.TeacherID)
			}
		case models.OpDelete:
			if prev, ok := baselineByID[op.EntryID]; ok {
				addClass(prev.Department, prev.Semester, prev.Session)
				addTeacher(prev.TeacherID)
			}
		}
	}

	partials := make([]models.PartialFilter, 0, len(classes)+len(teachers))
	for key := range classes {
		partials = append(partials, models.PartialFilter{
			Department: key.department,
			Semester:   key.semester,
			Session:    key.session,
		})
	}
	for teacherID := range teachers {
		partials = append(partials, models.PartialFilter{TeacherID: teacherID})
	}

	for _, partial := range partials {
		if err := e.svc.cache.InvalidateByFilter(ctx, partial); err != nil {
			e.svc.logger.Warn("post-save cache invalidation failed", zap.Error(err))
		}
	}
}

func knownSlot(shift models.Shift, slot string) bool {
	for _, s := range models.SlotsFor(shift) {
		if s == slot {
			return true
		}
	}
	return false
}

func classifySubmitError(err error) SaveFailure {
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrStorage.Code:
		return FailureNetwork
	case appErrors.ErrConflict.Code:
		return FailureConflict
	default:
		return FailureUnknown
	}
}

// classifyBatchFailure distinguishes a batch rejected purely by server-side
// conflict checks from one where some operations landed.
func classifyBatchFailure(result *models.BatchResult) SaveFailure {
	if result.CompletedCount > 0 {
		return FailurePartialBatch
	}
	for _, opErr := range result.Errors {
		if len(opErr.Fields) == 0 {
			return FailureUnknown
		}
	}
	return FailureConflict
}
