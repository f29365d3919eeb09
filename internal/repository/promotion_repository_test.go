package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/chenwl/attendance-api/internal/models"
)

func newPromotionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPromotionRepositoryCommit(t *testing.T) {
	db, mock, cleanup := newPromotionRepoMock(t)
	defer cleanup()

	repo := NewPromotionRepository(db)
	departure := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments (student_id, class_id, school_year)")).
		WithArgs(int64(10), int64(100), 2025).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments (student_id, class_id, school_year)")).
		WithArgs(int64(11), int64(101), 2025).
		WillReturnResult(sqlmock.NewResult(0, 0)) // duplicate skipped by ON CONFLICT
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students")).
		WithArgs(models.StudentStatusGraduated, departure, "畢業", pq.Array([]int64{20, 21}), models.StudentStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	inserted, err := repo.Commit(context.Background(),
		[]models.Enrollment{
			{StudentID: 10, ClassID: 100, SchoolYear: 2025},
			{StudentID: 11, ClassID: 101, SchoolYear: 2025},
		},
		[]int64{20, 21}, departure, "畢業")
	require.NoError(t, err)
	require.Equal(t, 1, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepositoryCommitEmpty(t *testing.T) {
	db, mock, cleanup := newPromotionRepoMock(t)
	defer cleanup()

	repo := NewPromotionRepository(db)
	mock.ExpectBegin()
	mock.ExpectCommit()

	inserted, err := repo.Commit(context.Background(), nil, nil, time.Now(), "畢業")
	require.NoError(t, err)
	require.Zero(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepositoryCommitRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newPromotionRepoMock(t)
	defer cleanup()

	repo := NewPromotionRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments (student_id, class_id, school_year)")).
		WithArgs(int64(10), int64(100), 2025).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Commit(context.Background(),
		[]models.Enrollment{{StudentID: 10, ClassID: 100, SchoolYear: 2025}},
		nil, time.Now(), "畢業")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
