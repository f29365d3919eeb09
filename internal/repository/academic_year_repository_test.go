package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/chenwl/attendance-api/internal/models"
)

func newYearRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func academicYearRows(id int64, year int, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "year", "name", "start_date", "end_date", "is_active", "created_at", "updated_at"}).
		AddRow(id, year, "學年", now, now.AddDate(1, 0, 0), active, now, now)
}

func TestAcademicYearRepositoryCreateActiveDeactivatesOthers(t *testing.T) {
	db, mock, cleanup := newYearRepoMock(t)
	defer cleanup()

	repo := NewAcademicYearRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_years SET is_active = FALSE, updated_at = $1 WHERE is_active = TRUE")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO academic_years (year, name, start_date, end_date, is_active, created_at, updated_at)")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectCommit()

	year := &models.AcademicYear{
		Year:      2025,
		Name:      "2025學年",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	require.NoError(t, repo.Create(context.Background(), year))
	require.Equal(t, int64(7), year.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcademicYearRepositoryCreateInactiveSkipsDeactivation(t *testing.T) {
	db, mock, cleanup := newYearRepoMock(t)
	defer cleanup()

	repo := NewAcademicYearRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO academic_years (year, name, start_date, end_date, is_active, created_at, updated_at)")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
	mock.ExpectCommit()

	year := &models.AcademicYear{Year: 2026, Name: "2026學年"}
	require.NoError(t, repo.Create(context.Background(), year))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcademicYearRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newYearRepoMock(t)
	defer cleanup()

	repo := NewAcademicYearRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM academic_years WHERE is_active = TRUE LIMIT 1")).
		WillReturnRows(academicYearRows(3, 2025, true))

	year, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2025, year.Year)
	require.True(t, year.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcademicYearRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newYearRepoMock(t)
	defer cleanup()

	repo := NewAcademicYearRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM academic_years WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
