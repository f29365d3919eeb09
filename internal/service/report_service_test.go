package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/pkg/config"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
)

type fakeReportStore struct {
	attendance []dto.AttendanceReportRow
	queries    int
}

func (f *fakeReportStore) AttendanceByRange(context.Context, dto.AttendanceReportFilter) ([]dto.AttendanceReportRow, error) {
	f.queries++
	return f.attendance, nil
}

func (f *fakeReportStore) PendingLeave(context.Context, dto.PendingLeaveFilter) ([]dto.PendingLeaveRow, error) {
	f.queries++
	return nil, nil
}

func (f *fakeReportStore) UnresolvedAbsences(context.Context, int) ([]dto.UnresolvedAbsenceRow, error) {
	f.queries++
	return nil, nil
}

type fakeReportCache struct {
	entries map[string][]byte
}

func (f *fakeReportCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeReportCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func reportFixtureRows() []dto.AttendanceReportRow {
	return []dto.AttendanceReportRow{{
		RecordID: 1, Date: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), Status: "absent",
		StudentID: 10, StudentName: "王小明", ClassName: "三年級班", GradeID: 3, GradeName: "三年級",
	}}
}

func TestAttendanceReportCacheAside(t *testing.T) {
	store := &fakeReportStore{attendance: reportFixtureRows()}
	cache := &fakeReportCache{entries: map[string][]byte{}}
	svc := NewReportService(store, cache, config.ReportsConfig{CacheEnabled: true, CacheTTL: time.Minute}, nil)

	filter := dto.AttendanceReportFilter{
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	first, err := svc.Attendance(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, store.queries)

	// Second read hits the cache.
	second, err := svc.Attendance(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, 1, store.queries)
}

func TestAttendanceReportCacheDisabled(t *testing.T) {
	store := &fakeReportStore{attendance: reportFixtureRows()}
	svc := NewReportService(store, nil, config.ReportsConfig{}, nil)

	filter := dto.AttendanceReportFilter{
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Attendance(context.Background(), filter)
		require.NoError(t, err)
	}
	require.Equal(t, 2, store.queries)
}

func TestAttendanceReportInvertedRange(t *testing.T) {
	svc := NewReportService(&fakeReportStore{}, nil, config.ReportsConfig{}, nil)

	_, err := svc.Attendance(context.Background(), dto.AttendanceReportFilter{
		StartDate: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrUnprocessable.Code, appErr.Code)
}

func TestExportAttendanceFormats(t *testing.T) {
	store := &fakeReportStore{attendance: reportFixtureRows()}
	svc := NewReportService(store, nil, config.ReportsConfig{}, nil)

	filter := dto.AttendanceReportFilter{
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	csvData, contentType, err := svc.ExportAttendance(context.Background(), filter, ExportFormatCSV)
	require.NoError(t, err)
	require.Equal(t, "text/csv", contentType)
	require.True(t, bytes.Contains(csvData, []byte("王小明")))

	pdfData, contentType, err := svc.ExportAttendance(context.Background(), filter, ExportFormatPDF)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", contentType)
	require.True(t, bytes.HasPrefix(pdfData, []byte("%PDF")))

	_, _, err = svc.ExportAttendance(context.Background(), filter, ExportFormat("xlsx"))
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
