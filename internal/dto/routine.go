package dto

import (
	"github.com/noah-isme/poly-routine-api/internal/models"
)

// CellPayload mirrors a grid cell on the wire. An all-empty payload (or an
// absent cell) means the cell is empty.
type CellPayload struct {
	Subject     string `json:"subject"`
	SubjectCode string `json:"subject_code"`
	ClassType   string `json:"class_type"`
	LabName     string `json:"lab_name,omitempty"`
	Teacher     string `json:"teacher,omitempty"`
	TeacherID   string `json:"teacher_id,omitempty"`
	Room        string `json:"room,omitempty"`
}

// SaveRoutineRequest carries the filter context and the full edited grid.
type SaveRoutineRequest struct {
	Mode       string                            `json:"mode" validate:"required,oneof=STUDENT TEACHER"`
	Department string                            `json:"department"`
	Semester   int                               `json:"semester"`
	Shift      string                            `json:"shift" validate:"required"`
	Session    string                            `json:"session" validate:"required"`
	TeacherID  string                            `json:"teacher_id"`
	Grid       map[string]map[string]CellPayload `json:"grid" validate:"required"`
}

// FilterContext converts the request's filter fields into a validated
// domain filter.
func (r SaveRoutineRequest) FilterContext() (models.FilterContext, error) {
	if r.Mode == string(models.ViewTeacher) {
		return models.NewTeacherFilter(r.TeacherID, models.Shift(r.Shift), r.Session, r.Department, r.Semester)
	}
	return models.NewStudentFilter(r.Department, r.Semester, models.Shift(r.Shift), r.Session)
}

// RoutineGrid converts the wire grid into the domain grid.
func (r SaveRoutineRequest) RoutineGrid() models.RoutineGrid {
	grid := make(models.RoutineGrid, len(r.Grid))
	for day, row := range r.Grid {
		for slot, cell := range row {
			grid.SetCell(day, slot, models.ClassSlot{
				Subject:     cell.Subject,
				SubjectCode: cell.SubjectCode,
				ClassType:   models.ClassType(cell.ClassType),
				LabName:     cell.LabName,
				Teacher:     cell.Teacher,
				TeacherID:   cell.TeacherID,
				Room:        cell.Room,
			})
		}
	}
	return grid
}

// RoutineGridResponse is the grid payload returned by the read and save
// endpoints. Days and Slots carry the catalog order so clients render the
// grid without hardcoding it.
type RoutineGridResponse struct {
	Filter models.FilterContext `json:"filter"`
	Days   []string             `json:"days"`
	Slots  []string             `json:"slots"`
	Grid   models.RoutineGrid   `json:"grid"`
}

// NewRoutineGridResponse assembles the response for a filter and its grid.
func NewRoutineGridResponse(filter models.FilterContext, grid models.RoutineGrid) RoutineGridResponse {
	return RoutineGridResponse{
		Filter: filter,
		Days:   models.DaysOfWeek(),
		Slots:  models.SlotsFor(filter.Shift),
		Grid:   grid,
	}
}
