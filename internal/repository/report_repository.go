package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/chenwl/attendance-api/internal/dto"
)

// ReportRepository answers the read-only reporting queries. Nothing
// here mutates state.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// AttendanceByRange returns attendance rows within a date range,
// optionally narrowed by grade and status. The enrollment join picks the
// student's class for the school year the record's date falls in.
func (r *ReportRepository) AttendanceByRange(ctx context.Context, filter dto.AttendanceReportFilter) ([]dto.AttendanceReportRow, error) {
	query := `SELECT ar.id AS record_id, ar.date, ar.status,
        s.id AS student_id, s.name AS student_name,
        c.name AS class_name, c.grade_id, g.name AS grade_name
        FROM attendance_records ar
        JOIN students s ON s.id = ar.student_id
        JOIN enrollments e ON e.student_id = s.id
        JOIN classes c ON c.id = e.class_id
        JOIN grades g ON g.id = c.grade_id
        WHERE ar.date >= $1 AND ar.date <= $2`
	args := []interface{}{filter.StartDate, filter.EndDate}

	var conditions []string
	if filter.GradeID > 0 {
		conditions = append(conditions, fmt.Sprintf("c.grade_id = $%d", len(args)+1))
		args = append(args, filter.GradeID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("ar.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ar.date ASC, s.name ASC"

	var rows []dto.AttendanceReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("attendance report: %w", err)
	}
	return rows, nil
}

// PendingLeave returns pending leave requests older than the given
// number of days, optionally per grade.
func (r *ReportRepository) PendingLeave(ctx context.Context, filter dto.PendingLeaveFilter) ([]dto.PendingLeaveRow, error) {
	query := `SELECT lr.id AS request_id, lr.student_id, s.name AS student_name,
        c.name AS class_name, c.grade_id, lr.start_date, lr.end_date, lr.reason,
        EXTRACT(DAY FROM NOW() - lr.created_at)::int AS age_days
        FROM leave_requests lr
        JOIN students s ON s.id = lr.student_id
        JOIN enrollments e ON e.student_id = s.id
        JOIN classes c ON c.id = e.class_id
        WHERE lr.status = 'pending'
        AND lr.created_at <= NOW() - ($1 * INTERVAL '1 day')`
	args := []interface{}{filter.OlderThanDays}

	if filter.GradeID > 0 {
		query += fmt.Sprintf(" AND c.grade_id = $%d", len(args)+1)
		args = append(args, filter.GradeID)
	}
	query += " ORDER BY lr.created_at ASC"

	var rows []dto.PendingLeaveRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("pending leave report: %w", err)
	}
	return rows, nil
}

// UnresolvedAbsences returns absent records with no approved leave
// request covering their date, optionally per grade.
func (r *ReportRepository) UnresolvedAbsences(ctx context.Context, gradeID int) ([]dto.UnresolvedAbsenceRow, error) {
	query := `SELECT ar.id AS record_id, ar.date,
        s.id AS student_id, s.name AS student_name,
        c.name AS class_name, c.grade_id
        FROM attendance_records ar
        JOIN students s ON s.id = ar.student_id
        JOIN enrollments e ON e.student_id = s.id
        JOIN classes c ON c.id = e.class_id
        WHERE ar.status = 'absent'
        AND NOT EXISTS (
            SELECT 1 FROM leave_requests lr
            WHERE lr.student_id = ar.student_id
            AND lr.status = 'approved'
            AND ar.date BETWEEN lr.start_date AND lr.end_date
        )`
	var args []interface{}
	if gradeID > 0 {
		query += " AND c.grade_id = $1"
		args = append(args, gradeID)
	}
	query += " ORDER BY ar.date DESC, s.name ASC"

	var rows []dto.UnresolvedAbsenceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("unresolved absences report: %w", err)
	}
	return rows, nil
}
