package attendance

import "time"

// DB行に対応（スキャン用）
type recordRow struct {
	ID         int64
	EmployeeID int64
	Date       string // DATE → "YYYY-MM-DD"
	PunchIn    *time.Time
	PunchOut   *time.Time
}

// Service ↔ Store で使うモデル
type Record struct {
	ID         int64
	EmployeeID int64
	Date       string
	PunchIn    *time.Time
	PunchOut   *time.Time

	// 一覧 JOIN 時のみ
	EmployeeName  string
	EmployeeEmail string
}

func (r recordRow) toModel() Record {
	return Record{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		PunchIn:    utcPtr(r.PunchIn),
		PunchOut:   utcPtr(r.PunchOut),
	}
}

func (r Record) toDTO() RecordResponse {
	return RecordResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		PunchIn:    r.PunchIn,
		PunchOut:   r.PunchOut,
	}
}

func (r Record) toListItem() ListItem {
	return ListItem{
		RecordResponse: r.toDTO(),
		EmployeeName:   r.EmployeeName,
		EmployeeEmail:  r.EmployeeEmail,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
