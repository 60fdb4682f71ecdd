package report

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"

	"KINTAI-backend/internal/attendance"
	"KINTAI-backend/internal/leave"
	"KINTAI-backend/internal/platform/apierr"
)

var jst = time.FixedZone("JST", 9*60*60)

type stubAttendance struct{ recs []attendance.Record }

func (stubAttendance) ParseRange(from, to string) (string, string, error) {
	if _, err := time.Parse(leave.DateLayout, from); err != nil {
		return "", "", apierr.New(apierr.CodeInvalidDate, "from must be YYYY-MM-DD")
	}
	if _, err := time.Parse(leave.DateLayout, to); err != nil {
		return "", "", apierr.New(apierr.CodeInvalidDate, "to must be YYYY-MM-DD")
	}
	return from, to, nil
}

func (s stubAttendance) ListRange(context.Context, string, string) ([]attendance.Record, error) {
	return s.recs, nil
}

type stubLeaves []leave.LeaveResponse

func (s stubLeaves) ListOverlapping(context.Context, string, string) ([]leave.LeaveResponse, error) {
	return s, nil
}

func newTestService() *Service {
	in := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) // 09:00 JST
	out := in.Add(8*time.Hour + 30*time.Minute)
	approver := int64(1)
	return NewService(
		stubAttendance{recs: []attendance.Record{
			{ID: 1, EmployeeID: 2, Date: "2024-02-01", PunchIn: &in, PunchOut: &out, EmployeeName: "山田 太郎", EmployeeEmail: "taro@example.com"},
			{ID: 2, EmployeeID: 3, Date: "2024-02-01", PunchIn: &in, EmployeeName: "Hanako", EmployeeEmail: "hanako@example.com"},
		}},
		stubLeaves{
			{ID: 1, ULID: "01HQ0000000000000000000001", EmployeeID: 2, EmployeeName: "山田 太郎", StartDate: "2024-02-05", EndDate: "2024-02-06", Days: 2, Status: "approved", ApprovedBy: &approver, Reason: "通院"},
		},
		jst,
	)
}

func TestAttendanceRows(t *testing.T) {
	rows, err := newTestService().AttendanceRows(context.Background(), "2024-02-01", "2024-02-29")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "09:00", rows[0].PunchIn)
	assert.Equal(t, "17:30", rows[0].PunchOut)
	require.NotNil(t, rows[0].WorkedMinutes)
	assert.Equal(t, int64(510), *rows[0].WorkedMinutes)

	assert.Equal(t, "", rows[1].PunchOut)
	assert.Nil(t, rows[1].WorkedMinutes)
}

func TestWriteCSV(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	var utf bytes.Buffer
	require.NoError(t, svc.WriteCSV(ctx, &utf, "2024-02-01", "2024-02-29", ""))
	lines := strings.Split(strings.TrimSpace(utf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(attendanceHeader, ","), lines[0])
	assert.Equal(t, "2024-02-01,2,山田 太郎,taro@example.com,09:00,17:30,510", lines[1])
	assert.Equal(t, "2024-02-01,3,Hanako,hanako@example.com,09:00,,", lines[2])

	var sjis bytes.Buffer
	require.NoError(t, svc.WriteCSV(ctx, &sjis, "2024-02-01", "2024-02-29", "sjis"))
	assert.NotEqual(t, utf.Bytes(), sjis.Bytes())
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(sjis.Bytes())
	require.NoError(t, err)
	assert.Equal(t, utf.String(), string(decoded))

	err = svc.WriteCSV(ctx, &bytes.Buffer{}, "2024-02-01", "2024-02-29", "latin1")
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))

	err = svc.WriteCSV(ctx, &bytes.Buffer{}, "Feb", "2024-02-29", "")
	assert.True(t, apierr.Is(err, apierr.CodeInvalidDate))
}

func TestWriteCSVShiftJISUnsupportedRunes(t *testing.T) {
	rows := []Row{
		{Date: "2024-02-01", EmployeeID: 4, Name: "René Müller", Email: "rene@example.com", PunchIn: "09:00"},
		{Date: "2024-02-01", EmployeeID: 5, Name: "山田 😀", Email: "emoji@example.com", PunchIn: "10:00"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, rows, EncodingSJIS))

	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(buf.Bytes())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(decoded)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2024-02-01,4,Ren\x1a M\x1aller,rene@example.com,09:00,,", lines[1])
	assert.Equal(t, "2024-02-01,5,山田 \x1a,emoji@example.com,10:00,,", lines[2])

	// 同じ行でもハンドラ経由で 500 にならない
	in := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(stubAttendance{recs: []attendance.Record{
		{ID: 1, EmployeeID: 4, Date: "2024-02-01", PunchIn: &in, EmployeeName: "René Müller", EmployeeEmail: "rene@example.com"},
	}}, stubLeaves{}, jst)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/attendance.csv?from=2024-02-01&to=2024-02-29&encoding=sjis", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := japanese.ShiftJIS.NewDecoder().Bytes(w.Body.Bytes())
	require.NoError(t, err)
	assert.Contains(t, string(body), "Ren\x1a M\x1aller")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestService().WriteXLSX(context.Background(), &buf, "2024-02-01", "2024-02-29"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAttendance, SheetLeaves}, f.GetSheetList())

	att, err := f.GetRows(SheetAttendance)
	require.NoError(t, err)
	require.Len(t, att, 3)
	assert.Equal(t, attendanceHeader, att[0])
	assert.Equal(t, "510", att[1][6])

	lv, err := f.GetRows(SheetLeaves)
	require.NoError(t, err)
	require.Len(t, lv, 2)
	assert.Equal(t, "通院", lv[1][9])
	assert.Equal(t, "1", lv[1][8])
}

func TestReportHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestService())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/attendance.csv?from=2024-02-01&to=2024-02-29&encoding=sjis", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=Shift_JIS", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance_2024-02-01_2024-02-29.csv")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/attendance.xlsx?from=2024-02-01&to=2024-02-29", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/attendance.csv?from=bad&to=2024-02-29", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"INVALID_DATE_FORMAT"`)
}
