package leave

import "time"

const (
	DateLayout      = "2006-01-02"
	MaxReasonLength = 255
)

type SubmitRequest struct {
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
	Reason    string `json:"reason" form:"reason"`
}

type LeaveResponse struct {
	ID           int64     `json:"id"`
	ULID         string    `json:"leave_ulid"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	Days         int       `json:"days"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	ApprovedBy   *int64    `json:"approved_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GET /employee/apply-leave の応答（申請フォームの初期表示用）
type FormResponse struct {
	EmployeeID int64           `json:"employee_id"`
	Today      string          `json:"today"`
	Leaves     []LeaveResponse `json:"leaves"`
}
