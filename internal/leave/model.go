package leave

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Blocking: 新しい申請と重なってはいけない状態（却下済みは対象外）
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusApproved
}

// CanTransitionTo: pending からのみ承認・却下できる。approved / rejected は終端。
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusRejected)
}

// leave_requests の1行
type Request struct {
	ID           int64
	ULID         string
	EmployeeID   int64
	EmployeeName string // 一覧時のみ（JOIN）
	Span         Range
	Reason       string
	Status       Status
	ApprovedBy   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r Request) toDTO() LeaveResponse {
	return LeaveResponse{
		ID:           r.ID,
		ULID:         r.ULID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		StartDate:    r.Span.Start.Format(DateLayout),
		EndDate:      r.Span.End.Format(DateLayout),
		Days:         r.Span.Days(),
		Reason:       r.Reason,
		Status:       string(r.Status),
		ApprovedBy:   r.ApprovedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toDTOs(list []Request) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].toDTO())
	}
	return out
}
