package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/poly-routine-api/internal/models"
)

func TestTeacherRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRoutineRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "short_name", "department", "active", "created_at"}).
		AddRow("t-1", "A. Rahman", "AR", "Computer", true, time.Now().UTC())

	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE 1=1 AND department = $1 AND active = TRUE ORDER BY full_name ASC LIMIT 20 OFFSET 0")).
		WithArgs("Computer").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("Computer").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	teachers, total, err := repo.List(context.Background(), models.TeacherListFilter{
		Department: "Computer",
		ActiveOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "t-1", teachers[0].ID)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListPagination(t *testing.T) {
	db, mock, cleanup := newRoutineRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY full_name ASC LIMIT 10 OFFSET 20")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "short_name", "department", "active", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	teachers, total, err := repo.List(context.Background(), models.TeacherListFilter{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, teachers)
	assert.Equal(t, 42, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
