package models

// ClassSlot is the grid's cell payload. It is a comparable value type; the
// reconciler relies on == to decide whether a cell changed. A zero ClassSlot
// (empty Subject) represents an empty cell.
type ClassSlot struct {
	Subject     string    `json:"subject"`
	SubjectCode string    `json:"subject_code"`
	ClassType   ClassType `json:"class_type"`
	LabName     string    `json:"lab_name,omitempty"`
	Teacher     string    `json:"teacher,omitempty"`
	TeacherID   string    `json:"teacher_id,omitempty"`
	Room        string    `json:"room,omitempty"`
}

// IsEmpty reports whether the slot represents an unoccupied cell.
func (s ClassSlot) IsEmpty() bool {
	return s.Subject == ""
}

// RoutineGrid maps dayOfWeek -> timeSlot -> ClassSlot. It is a derived
// presentation surface, never persisted, and is rebuilt from entries on
// every fetch.
type RoutineGrid map[string]map[string]ClassSlot

// Cell returns the slot value at (day, slot); the zero value stands for an
// empty or out-of-catalog cell.
func (g RoutineGrid) Cell(day, slot string) ClassSlot {
	if row, ok := g[day]; ok {
		return row[slot]
	}
	return ClassSlot{}
}

// SetCell places a slot value at (day, slot), creating the row if needed.
func (g RoutineGrid) SetCell(day, slot string, value ClassSlot) {
	row, ok := g[day]
	if !ok {
		row = make(map[string]ClassSlot)
		g[day] = row
	}
	row[slot] = value
}

// ClearCell empties the cell at (day, slot).
func (g RoutineGrid) ClearCell(day, slot string) {
	if row, ok := g[day]; ok {
		row[slot] = ClassSlot{}
	}
}

// Clone returns a deep copy of the grid.
func (g RoutineGrid) Clone() RoutineGrid {
	out := make(RoutineGrid, len(g))
	for day, row := range g {
		cp := make(map[string]ClassSlot, len(row))
		for slot, value := range row {
			cp[slot] = value
		}
		out[day] = cp
	}
	return out
}
