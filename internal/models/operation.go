package models

// OperationKind tags the three reconciliation outcomes.
type OperationKind string

const (
	OpCreate OperationKind = "CREATE"
	OpUpdate OperationKind = "UPDATE"
	OpDelete OperationKind = "DELETE"
)

// EntryPatch is a sparse set of field changes for an existing entry. Nil
// fields are untouched; pointees carry the new value (possibly empty).
type EntryPatch struct {
	SubjectName *string    `json:"subject_name,omitempty"`
	SubjectCode *string    `json:"subject_code,omitempty"`
	ClassType   *ClassType `json:"class_type,omitempty"`
	LabName     *string    `json:"lab_name,omitempty"`
	TeacherID   *string    `json:"teacher_id,omitempty"`
	TeacherName *string    `json:"teacher_name,omitempty"`
	Room        *string    `json:"room,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p EntryPatch) IsZero() bool {
	return p.SubjectName == nil && p.SubjectCode == nil && p.ClassType == nil &&
		p.LabName == nil && p.TeacherID == nil && p.TeacherName == nil && p.Room == nil
}

// Operation is the only artifact that crosses into the batch persister.
// Exactly one of Entry (create) or Patch (update) is set; Delete carries
// only the entry ID. Day and TimeSlot locate the originating cell so batch
// errors can be mapped back onto the grid.
type Operation struct {
	Kind     OperationKind   `json:"kind"`
	EntryID  string          `json:"entry_id,omitempty"`
	Entry    *TimetableEntry `json:"entry,omitempty"`
	Patch    *EntryPatch     `json:"patch,omitempty"`
	Day      string          `json:"day_of_week"`
	TimeSlot string          `json:"time_slot"`
}

// FieldErrors maps a field name to its human-readable messages.
type FieldErrors map[string][]string

// OperationError correlates a failure to the index of the operation that
// caused it within the submitted batch.
type OperationError struct {
	Index   int         `json:"operation_index"`
	Message string      `json:"message,omitempty"`
	Fields  FieldErrors `json:"fields,omitempty"`
}

// BatchResult reports the per-operation outcome of a batch submission. The
// backend applies each operation independently; Success is true only when
// every operation succeeded.
type BatchResult struct {
	CompletedCount int              `json:"completed_operations"`
	TotalCount     int              `json:"total_operations"`
	Errors         []OperationError `json:"errors,omitempty"`
	Success        bool             `json:"success"`
}
