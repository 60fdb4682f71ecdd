package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"KINTAI-backend/internal/platform/apierr"
	"KINTAI-backend/internal/platform/db"
)

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Repository interface {
	LockEmployee(ctx context.Context, employeeID int64) (bool, error)
	GetByDate(ctx context.Context, employeeID int64, date string) (*Record, error)
	Insert(ctx context.Context, employeeID int64, date string, punchIn time.Time) (Record, error)
	SetPunchOut(ctx context.Context, id int64, punchOut time.Time) (bool, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]Record, error)
	List(ctx context.Context, q ListQuery) ([]Record, int64, error)
	Stats(ctx context.Context, from, to string, limit int) ([]StatsRow, error)
	ListRange(ctx context.Context, from, to string) ([]Record, error)
}

// TxFunc: fn をひとつのトランザクションで実行する
type TxFunc func(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

func sqlTx(conn *sql.DB) TxFunc {
	return func(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
		return db.RunInTx(ctx, conn, nil, func(ctx context.Context, tx db.DBTX) error {
			return fn(ctx, NewStore(tx))
		})
	}
}

type Service struct {
	repo  Repository
	inTx  TxFunc
	clock Clock
	loc   *time.Location
}

// loc: 「今日」を決めるタイムゾーン（config の timezone）
func NewService(conn *sql.DB, loc *time.Location) *Service {
	return NewServiceWith(NewStore(conn), sqlTx(conn), realClock{}, loc)
}

func NewServiceWith(repo Repository, tx TxFunc, clock Clock, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, inTx: tx, clock: clock, loc: loc}
}

// Today: 設定タイムゾーンでの暦日
func (s *Service) Today() string {
	return s.clock.Now().In(s.loc).Format(DateLayout)
}

// POST /punch-in
func (s *Service) PunchIn(ctx context.Context, employeeID int64) (RecordResponse, error) {
	now := s.clock.Now()
	today := now.In(s.loc).Format(DateLayout)

	var out Record
	err := s.inTx(ctx, func(ctx context.Context, repo Repository) error {
		ok, err := repo.LockEmployee(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("lock employee: %w", err)
		}
		if !ok {
			return apierr.NotFound("employee not found")
		}

		cur, err := repo.GetByDate(ctx, employeeID, today)
		if err != nil {
			return err
		}
		if cur != nil {
			return apierr.Newf(apierr.CodeAlreadyPunchedIn, "already punched in on %s", today)
		}

		out, err = repo.Insert(ctx, employeeID, today, now)
		if err != nil {
			// ロック外からの競合は UNIQUE(employee_id, date) が最後の砦
			if db.IsDuplicateKey(err) {
				return apierr.Newf(apierr.CodeAlreadyPunchedIn, "already punched in on %s", today)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return RecordResponse{}, err
	}
	log.Printf("[INFO] punch-in: employee=%d date=%s", employeeID, today)
	return out.toDTO(), nil
}

// POST /punch-out
func (s *Service) PunchOut(ctx context.Context, employeeID int64) (RecordResponse, error) {
	now := s.clock.Now()
	today := now.In(s.loc).Format(DateLayout)

	var out Record
	err := s.inTx(ctx, func(ctx context.Context, repo Repository) error {
		ok, err := repo.LockEmployee(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("lock employee: %w", err)
		}
		if !ok {
			return apierr.NotFound("employee not found")
		}

		cur, err := repo.GetByDate(ctx, employeeID, today)
		if err != nil {
			return err
		}
		if cur == nil || cur.PunchIn == nil {
			return apierr.Newf(apierr.CodeNotPunchedInYet, "no punch-in on %s", today)
		}
		if cur.PunchOut != nil {
			return apierr.Newf(apierr.CodeAlreadyPunchedOut, "already punched out on %s", today)
		}

		// 時計が巻き戻っても punch_out >= punch_in を守る
		outAt := now
		if outAt.Before(*cur.PunchIn) {
			outAt = *cur.PunchIn
		}
		updated, err := repo.SetPunchOut(ctx, cur.ID, outAt)
		if err != nil {
			return err
		}
		if !updated {
			return apierr.Newf(apierr.CodeAlreadyPunchedOut, "already punched out on %s", today)
		}
		out = *cur
		t := outAt.UTC()
		out.PunchOut = &t
		return nil
	})
	if err != nil {
		return RecordResponse{}, err
	}
	log.Printf("[INFO] punch-out: employee=%d date=%s", employeeID, today)
	return out.toDTO(), nil
}

// ListByEmployee: 日付昇順の全記録
func (s *Service) ListByEmployee(ctx context.Context, employeeID int64) ([]RecordResponse, error) {
	rows, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]RecordResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDTO())
	}
	return out, nil
}

// GET /attendances
func (s *Service) List(ctx context.Context, q ListQuery) ([]ListItem, int64, error) {
	for _, p := range []*string{q.On, q.From, q.To} {
		if p == nil || *p == "" {
			continue
		}
		d, err := s.parseDay(*p)
		if err != nil {
			return nil, 0, apierr.New(apierr.CodeInvalidDate, "dates must be YYYY-MM-DD or 'today'")
		}
		*p = d
	}
	if q.On == nil && q.From != nil && q.To != nil && *q.From != "" && *q.To != "" && *q.To < *q.From {
		return nil, 0, apierr.New(apierr.CodeInvalidRange, "to must be >= from")
	}
	if q.Sort == "" {
		q.Sort = DefaultSort
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ListItem, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toListItem())
	}
	return out, total, nil
}

// GET /attendances/stats
func (s *Service) Stats(ctx context.Context, req StatsRequest) ([]StatsRow, error) {
	from, to, err := s.ParseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Stats(ctx, from, to, req.Limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []StatsRow{}
	}
	return rows, nil
}

// ListRange: 帳票用
func (s *Service) ListRange(ctx context.Context, from, to string) ([]Record, error) {
	f, t, err := s.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRange(ctx, f, t)
}

// ParseRange: from/to を検証して正規化する
func (s *Service) ParseRange(from, to string) (string, string, error) {
	f, err := s.parseDay(from)
	if err != nil {
		return "", "", apierr.New(apierr.CodeInvalidDate, "from must be YYYY-MM-DD")
	}
	t, err := s.parseDay(to)
	if err != nil {
		return "", "", apierr.New(apierr.CodeInvalidDate, "to must be YYYY-MM-DD")
	}
	if t < f {
		return "", "", apierr.New(apierr.CodeInvalidRange, "to must be >= from")
	}
	return f, t, nil
}

// parseDay: "YYYY-MM-DD" / "today" を正規化（YYYY-MM-DD 同士は文字列比較で順序が決まる）
func (s *Service) parseDay(v string) (string, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "today" {
		return s.Today(), nil
	}
	d, err := time.ParseInLocation(DateLayout, v, time.UTC)
	if err != nil {
		return "", err
	}
	return d.Format(DateLayout), nil
}
