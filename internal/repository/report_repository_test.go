package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/internal/models"
)

func newReportRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReportRepositoryAttendanceByRangeFilters(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"record_id", "date", "status", "student_id", "student_name", "class_name", "grade_id", "grade_name"}).
		AddRow(int64(1), start, "absent", int64(10), "王小明", "三年級班", 3, "三年級")
	mock.ExpectQuery(regexp.QuoteMeta("c.grade_id = $3")).
		WithArgs(start, end, 3, models.AttendanceStatus("absent")).
		WillReturnRows(rows)

	result, err := repo.AttendanceByRange(context.Background(), dto.AttendanceReportFilter{
		StartDate: start,
		EndDate:   end,
		GradeID:   3,
		Status:    "absent",
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "三年級班", result[0].ClassName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryPendingLeave(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	rows := sqlmock.NewRows([]string{"request_id", "student_id", "student_name", "class_name", "grade_id", "start_date", "end_date", "reason", "age_days"}).
		AddRow(int64(5), int64(10), "李小華", "六年級班", 6, time.Now().AddDate(0, 0, -10), time.Now().AddDate(0, 0, -8), "病假", 9)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE lr.status = 'pending'")).
		WithArgs(7).
		WillReturnRows(rows)

	result, err := repo.PendingLeave(context.Background(), dto.PendingLeaveFilter{OlderThanDays: 7})
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, 9, result[0].AgeDays)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUnresolvedAbsences(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	rows := sqlmock.NewRows([]string{"record_id", "date", "student_id", "student_name", "class_name", "grade_id"}).
		AddRow(int64(2), time.Now(), int64(11), "陳小玉", "一年級班", 1)
	mock.ExpectQuery(regexp.QuoteMeta("AND NOT EXISTS")).
		WithArgs(1).
		WillReturnRows(rows)

	result, err := repo.UnresolvedAbsences(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, int64(11), result[0].StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}
