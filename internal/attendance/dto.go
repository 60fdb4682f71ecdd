package attendance

import "time"

const (
	SortDateDesc     = "date_desc"
	SortDateAsc      = "date_asc"
	SortPunchInDesc  = "punch_in_desc"
	SortPunchInAsc   = "punch_in_asc"
	DefaultPageLimit = 50
	MaxPageLimit     = 200
	DefaultSort      = SortDateDesc
	DefaultStatsTop  = 10
	DateLayout       = "2006-01-02"
)

// 打刻画面（キオスク）はメールで本人を指定する
type PunchRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
}

type RecordResponse struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employee_id"`
	Date       string     `json:"date"` // YYYY-MM-DD
	PunchIn    *time.Time `json:"punch_in"`
	PunchOut   *time.Time `json:"punch_out"`
}

// 管理画面の一覧用（社員名つき）
type ListItem struct {
	RecordResponse
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
}

type ListQuery struct {
	EmployeeID *int64
	On         *string
	From       *string
	To         *string
	Limit      int
	Offset     int
	Sort       string
}

type StatsRequest struct {
	From  string // YYYY-MM-DD
	To    string // YYYY-MM-DD
	Limit int
}

type StatsRow struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Days         int64  `json:"days"`
}
