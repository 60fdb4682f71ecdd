// Package report は勤怠・休暇の帳票（CSV / Excel）を出力する。
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"KINTAI-backend/internal/attendance"
	"KINTAI-backend/internal/leave"
	"KINTAI-backend/internal/platform/apierr"
)

const (
	EncodingUTF8 = "utf8"
	EncodingSJIS = "sjis"

	SheetAttendance = "Attendance"
	SheetLeaves     = "Leaves"

	timeLayout = "15:04"
)

var attendanceHeader = []string{"date", "employee_id", "name", "email", "punch_in", "punch_out", "worked_minutes"}
var leaveHeader = []string{"id", "leave_ulid", "employee_id", "name", "start_date", "end_date", "days", "status", "approved_by", "reason"}

type AttendanceSource interface {
	ParseRange(from, to string) (string, string, error)
	ListRange(ctx context.Context, from, to string) ([]attendance.Record, error)
}

type LeaveSource interface {
	ListOverlapping(ctx context.Context, from, to string) ([]leave.LeaveResponse, error)
}

type Service struct {
	attendance AttendanceSource
	leaves     LeaveSource
	loc        *time.Location
}

// loc: 打刻時刻を表示するタイムゾーン
func NewService(a AttendanceSource, l LeaveSource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{attendance: a, leaves: l, loc: loc}
}

// 帳票の1行（打刻時刻は表示用に整形済み）
type Row struct {
	Date          string
	EmployeeID    int64
	Name          string
	Email         string
	PunchIn       string
	PunchOut      string
	WorkedMinutes *int64
}

func (r Row) record() []string {
	worked := ""
	if r.WorkedMinutes != nil {
		worked = strconv.FormatInt(*r.WorkedMinutes, 10)
	}
	return []string{r.Date, strconv.FormatInt(r.EmployeeID, 10), r.Name, r.Email, r.PunchIn, r.PunchOut, worked}
}

// AttendanceRows: 期間内の勤怠を帳票行に変換する
func (s *Service) AttendanceRows(ctx context.Context, from, to string) ([]Row, error) {
	recs, err := s.attendance.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(recs))
	for _, r := range recs {
		row := Row{
			Date:       r.Date,
			EmployeeID: r.EmployeeID,
			Name:       r.EmployeeName,
			Email:      r.EmployeeEmail,
			PunchIn:    s.clock(r.PunchIn),
			PunchOut:   s.clock(r.PunchOut),
		}
		if r.PunchIn != nil && r.PunchOut != nil {
			m := int64(r.PunchOut.Sub(*r.PunchIn) / time.Minute)
			row.WorkedMinutes = &m
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.loc).Format(timeLayout)
}

// WriteCSV: encoding=sjis なら Excel 向けに Shift_JIS（CP932 相当）で書く
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, from, to, encoding string) error {
	from, to, err := s.attendance.ParseRange(from, to)
	if err != nil {
		return err
	}
	enc, err := normalizeEncoding(encoding)
	if err != nil {
		return err
	}
	rows, err := s.AttendanceRows(ctx, from, to)
	if err != nil {
		return err
	}
	return writeCSV(w, rows, enc)
}

func normalizeEncoding(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "sjis", "shift_jis", "cp932":
		return EncodingSJIS, nil
	default:
		return "", apierr.Invalid("encoding must be utf8 or sjis")
	}
}

// Shift_JIS に無い文字（é や絵文字など）は SUB(0x1A) に置き換えて出力を続ける
func writeCSV(dst io.Writer, rows []Row, enc string) error {
	out := dst
	var tw *transform.Writer
	if enc == EncodingSJIS {
		tw = transform.NewWriter(dst, encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()))
		out = tw
	}

	w := csv.NewWriter(out)
	if err := w.Write(attendanceHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.record()); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if tw != nil {
		return tw.Close()
	}
	return nil
}

// WriteXLSX: 勤怠と休暇を別シートにしたブック
func (s *Service) WriteXLSX(ctx context.Context, w io.Writer, from, to string) error {
	from, to, err := s.attendance.ParseRange(from, to)
	if err != nil {
		return err
	}
	rows, err := s.AttendanceRows(ctx, from, to)
	if err != nil {
		return err
	}
	leaves, err := s.leaves.ListOverlapping(ctx, from, to)
	if err != nil {
		return err
	}

	f, err := buildWorkbook(rows, leaves)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

func buildWorkbook(rows []Row, leaves []leave.LeaveResponse) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetAttendance); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetLeaves); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	att := make([][]any, 0, len(rows)+1)
	att = append(att, toAny(attendanceHeader))
	for _, r := range rows {
		line := []any{r.Date, r.EmployeeID, r.Name, r.Email, r.PunchIn, r.PunchOut, nil}
		if r.WorkedMinutes != nil {
			line[6] = *r.WorkedMinutes
		}
		att = append(att, line)
	}
	if err := writeSheet(f, SheetAttendance, att, bold); err != nil {
		return nil, err
	}

	lv := make([][]any, 0, len(leaves)+1)
	lv = append(lv, toAny(leaveHeader))
	for _, l := range leaves {
		var approver any
		if l.ApprovedBy != nil {
			approver = *l.ApprovedBy
		}
		lv = append(lv, []any{l.ID, l.ULID, l.EmployeeID, l.EmployeeName, l.StartDate, l.EndDate, l.Days, l.Status, approver, l.Reason})
	}
	if err := writeSheet(f, SheetLeaves, lv, bold); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
