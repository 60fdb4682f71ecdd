package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"KINTAI-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

const selectRecord = `
SELECT id, employee_id, DATE_FORMAT(date, '%Y-%m-%d') AS date, punch_in, punch_out
FROM attendance
`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var r recordRow
	if err := row.Scan(&r.ID, &r.EmployeeID, &r.Date, &r.PunchIn, &r.PunchOut); err != nil {
		return Record{}, err
	}
	return r.toModel(), nil
}

// LockEmployee: 同一社員の打刻を直列化する（見つからなければ false）
func (s *Store) LockEmployee(ctx context.Context, employeeID int64) (bool, error) {
	return db.LockEmployee(ctx, s.db, employeeID)
}

// GetByDate: (社員, 日付) の記録。無ければ (nil, nil)
func (s *Store) GetByDate(ctx context.Context, employeeID int64, date string) (*Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, selectRecord+`WHERE employee_id = ? AND date = ? LIMIT 1`, employeeID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Insert: 出勤打刻。UNIQUE(employee_id, date) 違反はそのまま返す（呼び出し側で判定）
func (s *Store) Insert(ctx context.Context, employeeID int64, date string, punchIn time.Time) (Record, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (employee_id, date, punch_in) VALUES (?, ?, ?)`,
		employeeID, date, punchIn)
	if err != nil {
		return Record{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, err
	}
	in := punchIn.UTC()
	return Record{ID: id, EmployeeID: employeeID, Date: date, PunchIn: &in}, nil
}

// SetPunchOut: 未退勤の行だけ更新する
func (s *Store) SetPunchOut(ctx context.Context, id int64, punchOut time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attendance SET punch_out = ? WHERE id = ? AND punch_out IS NULL`, punchOut, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListByEmployee: 日付昇順
func (s *Store) ListByEmployee(ctx context.Context, employeeID int64) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecord+`WHERE employee_id = ? ORDER BY date ASC, id ASC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET（社員名を JOIN）
func (s *Store) List(ctx context.Context, q ListQuery) ([]Record, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`
SELECT a.id, a.employee_id, DATE_FORMAT(a.date, '%Y-%m-%d') AS date, a.punch_in, a.punch_out, e.name, e.email
FROM attendance a
JOIN employees e ON e.id = a.employee_id
`)
	// WHERE
	if q.EmployeeID != nil {
		wheres = append(wheres, "a.employee_id = ?")
		args = append(args, *q.EmployeeID)
	}
	if q.On != nil && *q.On != "" {
		wheres = append(wheres, "a.date = ?")
		args = append(args, *q.On)
	} else {
		if q.From != nil && *q.From != "" {
			wheres = append(wheres, "a.date >= ?")
			args = append(args, *q.From)
		}
		if q.To != nil && *q.To != "" {
			wheres = append(wheres, "a.date <= ?")
			args = append(args, *q.To)
		}
	}
	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}
	buf.WriteString(where)

	// ORDER
	switch q.Sort {
	case SortDateAsc:
		buf.WriteString(" ORDER BY a.date ASC, a.id ASC")
	case SortPunchInDesc:
		buf.WriteString(" ORDER BY a.punch_in DESC, a.id DESC")
	case SortPunchInAsc:
		buf.WriteString(" ORDER BY a.punch_in ASC, a.id ASC")
	default:
		buf.WriteString(" ORDER BY a.date DESC, a.id DESC")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r recordRow
		var name, email string
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.Date, &r.PunchIn, &r.PunchOut, &name, &email); err != nil {
			return nil, 0, err
		}
		m := r.toModel()
		m.EmployeeName, m.EmployeeEmail = name, email
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// COUNT（同じ WHERE で数え直す）
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance a"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Stats: 期間の出勤日数を社員別合計（TOP N）
func (s *Store) Stats(ctx context.Context, from, to string, limit int) ([]StatsRow, error) {
	if limit <= 0 {
		limit = DefaultStatsTop
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT a.employee_id, e.name, COUNT(*) AS days
FROM attendance a
JOIN employees e ON e.id = a.employee_id
WHERE a.date BETWEEN ? AND ?
GROUP BY a.employee_id, e.name
ORDER BY days DESC, a.employee_id ASC
LIMIT ?`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatsRow
	for rows.Next() {
		var row StatsRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.Days); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListRange: 帳票出力用。期間内の全件を日付・社員順で返す
func (s *Store) ListRange(ctx context.Context, from, to string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT a.id, a.employee_id, DATE_FORMAT(a.date, '%Y-%m-%d') AS date, a.punch_in, a.punch_out, e.name, e.email
FROM attendance a
JOIN employees e ON e.id = a.employee_id
WHERE a.date BETWEEN ? AND ?
ORDER BY a.date ASC, a.employee_id ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r recordRow
		var name, email string
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.Date, &r.PunchIn, &r.PunchOut, &name, &email); err != nil {
			return nil, err
		}
		m := r.toModel()
		m.EmployeeName, m.EmployeeEmail = name, email
		out = append(out, m)
	}
	return out, rows.Err()
}
