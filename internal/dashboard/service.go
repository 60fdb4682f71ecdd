// Package dashboard は管理者・社員それぞれのトップ画面に出す集約ビューを組み立てる。
package dashboard

import (
	"context"
	"time"

	"KINTAI-backend/internal/attendance"
	"KINTAI-backend/internal/employees"
	"KINTAI-backend/internal/leave"
)

type EmployeeReader interface {
	Get(ctx context.Context, id int64) (employees.EmployeeResponse, error)
	Count(ctx context.Context) (int64, error)
}

type LeaveReader interface {
	CountPending(ctx context.Context) (int64, error)
	ListPending(ctx context.Context) ([]leave.LeaveResponse, error)
	ListAll(ctx context.Context) ([]leave.LeaveResponse, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]leave.LeaveResponse, error)
}

type AttendanceReader interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]attendance.RecordResponse, error)
}

type Service struct {
	employees  EmployeeReader
	leaves     LeaveReader
	attendance AttendanceReader
}

func NewService(e EmployeeReader, l LeaveReader, a AttendanceReader) *Service {
	return &Service{employees: e, leaves: l, attendance: a}
}

// ===== DTO =====

type AdminDashboard struct {
	Admin          employees.EmployeeResponse `json:"admin"`
	TotalEmployees int64                      `json:"total_employees"`
	PendingCount   int64                      `json:"pending_count"`
	PendingLeaves  []leave.LeaveResponse      `json:"pending_leaves"`
	AllLeaves      []leave.LeaveResponse      `json:"all_leaves"`
}

// カレンダー表示用のイベント
type CalendarEvent struct {
	Title string `json:"title"`
	Start string `json:"start"`         // YYYY-MM-DD
	End   string `json:"end,omitempty"` // 終日イベントの終端（翌日、排他的）
	Kind  string `json:"kind"`          // "attendance" | "leave"
}

type EmployeeDashboard struct {
	Employee employees.EmployeeResponse `json:"employee"`
	Events   []CalendarEvent            `json:"events"`
	Leaves   []leave.LeaveResponse      `json:"leaves"`
}

// GET /dashboard
func (s *Service) Admin(ctx context.Context, adminID int64) (AdminDashboard, error) {
	me, err := s.employees.Get(ctx, adminID)
	if err != nil {
		return AdminDashboard{}, err
	}
	total, err := s.employees.Count(ctx)
	if err != nil {
		return AdminDashboard{}, err
	}
	pendingCount, err := s.leaves.CountPending(ctx)
	if err != nil {
		return AdminDashboard{}, err
	}
	pending, err := s.leaves.ListPending(ctx)
	if err != nil {
		return AdminDashboard{}, err
	}
	all, err := s.leaves.ListAll(ctx)
	if err != nil {
		return AdminDashboard{}, err
	}
	return AdminDashboard{
		Admin:          me,
		TotalEmployees: total,
		PendingCount:   pendingCount,
		PendingLeaves:  pending,
		AllLeaves:      all,
	}, nil
}

// GET /employee/dashboard
// 出勤日は "Present"、休暇は状態つきでカレンダーに並べる
func (s *Service) Employee(ctx context.Context, employeeID int64) (EmployeeDashboard, error) {
	me, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return EmployeeDashboard{}, err
	}
	records, err := s.attendance.ListByEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeDashboard{}, err
	}
	leaves, err := s.leaves.ListByEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeDashboard{}, err
	}

	events := make([]CalendarEvent, 0, len(records)+len(leaves))
	for _, r := range records {
		if r.Date == "" {
			continue
		}
		events = append(events, CalendarEvent{Title: "Present", Start: r.Date, Kind: "attendance"})
	}
	for _, l := range leaves {
		events = append(events, CalendarEvent{
			Title: "Leave (" + l.Status + ")",
			Start: l.StartDate,
			End:   exclusiveEnd(l.EndDate),
			Kind:  "leave",
		})
	}
	return EmployeeDashboard{Employee: me, Events: events, Leaves: leaves}, nil
}

// GET /employee/attendance
func (s *Service) Attendance(ctx context.Context, employeeID int64) ([]attendance.RecordResponse, error) {
	if _, err := s.employees.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	out, err := s.attendance.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []attendance.RecordResponse{}
	}
	return out, nil
}

// GET /employee/leaves
func (s *Service) Leaves(ctx context.Context, employeeID int64) ([]leave.LeaveResponse, error) {
	if _, err := s.employees.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.leaves.ListByEmployee(ctx, employeeID)
}

// GET /employee/profile
func (s *Service) Profile(ctx context.Context, employeeID int64) (employees.EmployeeResponse, error) {
	return s.employees.Get(ctx, employeeID)
}

func exclusiveEnd(day string) string {
	t, err := time.Parse(leave.DateLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(leave.DateLayout)
}
