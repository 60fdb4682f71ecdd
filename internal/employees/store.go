package employees

import (
	"context"
	"database/sql"
	"errors"

	"KINTAI-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

const selectEmployee = `
SELECT id, name, email, password_hash, role, created_at
FROM employees
`

func scanEmployee(row interface{ Scan(...any) error }) (*Employee, error) {
	var e Employee
	var isAdmin bool
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &isAdmin, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Role = RoleFromFlag(isAdmin)
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

// GetByID: 見つからなければ (nil, nil)
func (s *Store) GetByID(ctx context.Context, id int64) (*Employee, error) {
	e, err := scanEmployee(s.db.QueryRowContext(ctx, selectEmployee+`WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// GetByEmail: 見つからなければ (nil, nil)
func (s *Store) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	e, err := scanEmployee(s.db.QueryRowContext(ctx, selectEmployee+`WHERE email = ? LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (s *Store) Create(ctx context.Context, e *Employee) error {
	const q = `
INSERT INTO employees (name, email, password_hash, role, created_at)
VALUES (?, ?, ?, ?, ?)
`
	res, err := s.db.ExecContext(ctx, q, e.Name, e.Email, e.PasswordHash, e.Role.IsAdmin(), e.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n)
	return n, err
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx, selectEmployee+`ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Employee, 0, 16)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) InsertLoginEvent(ctx context.Context, ev *LoginEvent) error {
	const q = `INSERT INTO login (employee_id, login_timestamp, login_status) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, ev.EmployeeID, ev.Timestamp, ev.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = id
	return nil
}

// ListLoginEvents: 新しい順
func (s *Store) ListLoginEvents(ctx context.Context, employeeID int64, limit int) ([]LoginEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, employee_id, login_timestamp, login_status
FROM login
WHERE employee_id = ?
ORDER BY login_timestamp DESC, id DESC
LIMIT ?`, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LoginEvent
	for rows.Next() {
		var ev LoginEvent
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Timestamp, &ev.Status); err != nil {
			return nil, err
		}
		ev.Timestamp = ev.Timestamp.UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}
