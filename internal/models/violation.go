package models

// ViolationKind classifies a scheduling-rule violation.
type ViolationKind string

const (
	ViolationRoomConflict    ViolationKind = "ROOM_CONFLICT"
	ViolationTeacherConflict ViolationKind = "TEACHER_CONFLICT"
	ViolationFieldInvalid    ViolationKind = "FIELD_INVALID"
)

// Violation describes one reason a candidate class slot cannot be scheduled.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Field   string        `json:"field,omitempty"`
	Message string        `json:"message"`
	// Existing points at the already-scheduled entry for conflict kinds.
	Existing *TimetableEntry `json:"existing,omitempty"`
}

// ValidationResult aggregates every violation found for a candidate
// assignment. Validators return all applicable violations, not just the
// first.
type ValidationResult struct {
	Violations []Violation `json:"violations,omitempty"`
}

// OK reports whether the candidate passed every check.
func (r ValidationResult) OK() bool {
	return len(r.Violations) == 0
}

// Add appends a violation.
func (r *ValidationResult) Add(v Violation) {
	r.Violations = append(r.Violations, v)
}
