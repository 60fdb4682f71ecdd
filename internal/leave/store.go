package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"KINTAI-backend/internal/attendance"
	"KINTAI-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

const selectLeave = `
SELECT l.id, l.leave_ulid, l.employee_id, e.name,
       DATE_FORMAT(l.start_date, '%Y-%m-%d'), DATE_FORMAT(l.end_date, '%Y-%m-%d'),
       l.reason, l.status, l.approved_by, l.created_at, l.updated_at
FROM leave_requests l
JOIN employees e ON e.id = l.employee_id
`

func scanLeave(row interface{ Scan(...any) error }) (Request, error) {
	var (
		r          Request
		start, end string
		status     string
		approvedBy sql.NullInt64
	)
	if err := row.Scan(&r.ID, &r.ULID, &r.EmployeeID, &r.EmployeeName, &start, &end,
		&r.Reason, &status, &approvedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Request{}, err
	}
	s, err := parseDay(start)
	if err != nil {
		return Request{}, fmt.Errorf("leave %d: bad start_date %q: %w", r.ID, start, err)
	}
	e, err := parseDay(end)
	if err != nil {
		return Request{}, fmt.Errorf("leave %d: bad end_date %q: %w", r.ID, end, err)
	}
	r.Span = Range{Start: s, End: e}
	r.Status = Status(status)
	if approvedBy.Valid {
		v := approvedBy.Int64
		r.ApprovedBy = &v
	}
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Request, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) getOne(ctx context.Context, q string, args ...any) (*Request, error) {
	r, err := scanLeave(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) LockEmployee(ctx context.Context, employeeID int64) (bool, error) {
	return db.LockEmployee(ctx, s.db, employeeID)
}

// ListBlocking: pending / approved の申請（id 順）
func (s *Store) ListBlocking(ctx context.Context, employeeID int64) ([]Request, error) {
	return s.query(ctx, selectLeave+`WHERE l.employee_id = ? AND l.status IN ('pending', 'approved') ORDER BY l.id`, employeeID)
}

// AttendanceDates: 出勤記録のある日の集合（同じ Tx 内で出勤台帳を読む）
func (s *Store) AttendanceDates(ctx context.Context, employeeID int64) (map[string]struct{}, error) {
	recs, err := attendance.NewStore(s.db).ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		set[r.Date] = struct{}{}
	}
	return set, nil
}

func (s *Store) Insert(ctx context.Context, r *Request) error {
	const q = `
INSERT INTO leave_requests
(leave_ulid, employee_id, start_date, end_date, reason, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	res, err := s.db.ExecContext(ctx, q,
		r.ULID, r.EmployeeID,
		r.Span.Start.Format(DateLayout), r.Span.End.Format(DateLayout),
		r.Reason, string(r.Status), r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Request, error) {
	return s.getOne(ctx, selectLeave+`WHERE l.id = ? LIMIT 1`, id)
}

func (s *Store) GetByULID(ctx context.Context, ulid string) (*Request, error) {
	return s.getOne(ctx, selectLeave+`WHERE l.leave_ulid = ? LIMIT 1`, ulid)
}

// GetForUpdate: 承認・却下用。申請行だけをロックする
func (s *Store) GetForUpdate(ctx context.Context, id int64) (*Request, error) {
	return s.getOne(ctx, selectLeave+`WHERE l.id = ? FOR UPDATE OF l`, id)
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status, approverID int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE leave_requests SET status = ?, approved_by = ?, updated_at = ? WHERE id = ?`,
		string(status), approverID, at, id)
	return err
}

func (s *Store) ListByStatus(ctx context.Context, status Status) ([]Request, error) {
	return s.query(ctx, selectLeave+`WHERE l.status = ? ORDER BY l.id`, string(status))
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID int64) ([]Request, error) {
	return s.query(ctx, selectLeave+`WHERE l.employee_id = ? ORDER BY l.start_date, l.id`, employeeID)
}

func (s *Store) ListAll(ctx context.Context) ([]Request, error) {
	return s.query(ctx, selectLeave+`ORDER BY l.id`)
}

func (s *Store) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = ?`, string(status)).Scan(&n)
	return n, err
}

// ListOverlapping: 期間 [from, to] に1日でもかかる申請（帳票用）
func (s *Store) ListOverlapping(ctx context.Context, from, to string) ([]Request, error) {
	return s.query(ctx, selectLeave+`WHERE l.start_date <= ? AND l.end_date >= ? ORDER BY l.start_date, l.id`, to, from)
}
