package models

import "time"

// Department is read-only reference data used to populate selection widgets.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Teacher is the active-teacher roster consumed at controller start-up.
type Teacher struct {
	ID         string    `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"full_name"`
	ShortName  string    `db:"short_name" json:"short_name,omitempty"`
	Department string    `db:"department" json:"department,omitempty"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TeacherListFilter describes query params for listing teachers.
type TeacherListFilter struct {
	Department string
	ActiveOnly bool
	Page       int
	PageSize   int
}
