package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/chenwl/attendance-api/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryExistsForYear(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE student_id = $1 AND school_year = $2")).
		WithArgs(int64(10), 2025).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsForYear(context.Background(), 10, 2025)
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE student_id = $1 AND school_year = $2")).
		WithArgs(int64(11), 2025).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsForYear(context.Background(), 11, 2025)
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListActiveByYear(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	rows := sqlmock.NewRows([]string{"enrollment_id", "student_id", "student_name", "class_id", "grade_id"}).
		AddRow(int64(1), int64(10), "王小明", int64(100), 3).
		AddRow(int64(2), int64(11), "李小華", int64(101), 12)
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments e")).
		WithArgs(2024, models.StudentStatusActive).
		WillReturnRows(rows)

	working, err := repo.ListActiveByYear(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, working, 2)
	require.Equal(t, 3, working[0].GradeID)
	require.Equal(t, int64(11), working[1].StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO enrollments (student_id, class_id, school_year) VALUES ($1, $2, $3) RETURNING id")).
		WithArgs(int64(10), int64(100), 2025).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	enrollment := &models.Enrollment{StudentID: 10, ClassID: 100, SchoolYear: 2025}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	require.Equal(t, int64(42), enrollment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
