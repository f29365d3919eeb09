package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/chenwl/attendance-api/internal/models"
)

func newUserRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestUserRepositoryFindTeacherByIDRequiresActiveAccount(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1 AND role = $2 AND active = TRUE")).
		WithArgs(int64(5), models.RoleTeacher).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "active"}))

	_, err := repo.FindTeacherByID(context.Background(), 5)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindTeacherByID(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1 AND role = $2 AND active = TRUE")).
		WithArgs(int64(5), models.RoleTeacher).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "active"}).
			AddRow(int64(5), "teacher@school.tw", "林老師", string(models.RoleTeacher), true))

	teacher, err := repo.FindTeacherByID(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), teacher.ID)
	require.True(t, teacher.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}
