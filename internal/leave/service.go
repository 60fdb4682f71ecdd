package leave

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"KINTAI-backend/internal/platform/apierr"
	"KINTAI-backend/internal/platform/db"
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Repository interface {
	LockEmployee(ctx context.Context, employeeID int64) (bool, error)
	ListBlocking(ctx context.Context, employeeID int64) ([]Request, error)
	AttendanceDates(ctx context.Context, employeeID int64) (map[string]struct{}, error)
	Insert(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	GetByULID(ctx context.Context, ulid string) (*Request, error)
	GetForUpdate(ctx context.Context, id int64) (*Request, error)
	UpdateStatus(ctx context.Context, id int64, status Status, approverID int64, at time.Time) error
	ListByStatus(ctx context.Context, status Status) ([]Request, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	ListOverlapping(ctx context.Context, from, to string) ([]Request, error)
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

// ===== Service本体 =====

type Service struct {
	repo  Repository
	inTx  TxFunc
	clock Clock
	id    IDGen
}

func NewService(conn *sql.DB) *Service {
	return NewServiceWith(NewStore(conn), sqlTx(conn), realClock{}, ulidGen{})
}

func NewServiceWith(repo Repository, tx TxFunc, clock Clock, id IDGen) *Service {
	return &Service{repo: repo, inTx: tx, clock: clock, id: id}
}

// Submit: 休暇申請。検証は
// 日付形式 → 前後関係 → 既存申請との重なり → 出勤記録との重なり
// の順で、最初に失敗したものを返す。失敗時は何も書き込まない。
func (s *Service) Submit(ctx context.Context, employeeID int64, in SubmitRequest) (LeaveResponse, error) {
	span, err := ParseRange(in.StartDate, in.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return LeaveResponse{}, apierr.Invalid("reason is required")
	}
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		return LeaveResponse{}, apierr.Newf(apierr.CodeInvalidArgument, "reason must be at most %d characters", MaxReasonLength)
	}

	var created Request
	err = s.inTx(ctx, func(ctx context.Context, repo Repository) error {
		// 同じ社員の申請・打刻はここで直列化される
		ok, err := repo.LockEmployee(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("lock employee: %w", err)
		}
		if !ok {
			return apierr.NotFound("employee not found")
		}

		existing, err := repo.ListBlocking(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("list leaves: %w", err)
		}
		if hit := FirstOverlap(span, existing); hit != nil {
			return apierr.Newf(apierr.CodeOverlapsExistingLeave,
				"overlaps existing leave request #%d (%s, %s)", hit.ID, hit.Span, hit.Status)
		}

		attended, err := repo.AttendanceDates(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("list attendance: %w", err)
		}
		if day, hit := FirstAttendanceConflict(span, attended); hit {
			return apierr.Newf(apierr.CodeConflictsWithAttendance, "attendance already recorded on %s", day)
		}

		ref, err := s.id.New()
		if err != nil {
			return fmt.Errorf("generate ulid: %w", err)
		}
		now := s.clock.Now()
		created = Request{
			ULID:       ref,
			EmployeeID: employeeID,
			Span:       span,
			Reason:     reason,
			Status:     StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return repo.Insert(ctx, &created)
	})
	if err != nil {
		return LeaveResponse{}, err
	}
	log.Printf("[INFO] leave submitted: id=%d employee=%d %s", created.ID, employeeID, span)
	return created.toDTO(), nil
}

// ListPending: 承認待ち（申請順）
func (s *Service) ListPending(ctx context.Context) ([]LeaveResponse, error) {
	list, err := s.repo.ListByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

// Decide: pending → approved / rejected。key は数値ID か ULID。
func (s *Service) Decide(ctx context.Context, key string, decision Status, approverID int64) (LeaveResponse, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return LeaveResponse{}, apierr.Invalid("decision must be approved or rejected")
	}
	if approverID <= 0 {
		return LeaveResponse{}, apierr.Invalid("approver is required")
	}

	var out Request
	err := s.inTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := resolveID(ctx, repo, key)
		if err != nil {
			return err
		}
		cur, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return apierr.NotFound("leave request not found")
		}
		if !cur.Status.CanTransitionTo(decision) {
			return apierr.Newf(apierr.CodeInvalidTransition, "leave request #%d is already %s", cur.ID, cur.Status)
		}

		now := s.clock.Now()
		if err := repo.UpdateStatus(ctx, cur.ID, decision, approverID, now); err != nil {
			if db.IsForeignKeyViolation(err) {
				return apierr.NotFound("approver not found")
			}
			return err
		}
		out = *cur
		out.Status = decision
		out.ApprovedBy = &approverID
		out.UpdatedAt = now
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}
	log.Printf("[INFO] leave %s: id=%d by=%d", decision, out.ID, approverID)
	return out.toDTO(), nil
}

// Get: key は数値ID か ULID
func (s *Service) Get(ctx context.Context, key string) (LeaveResponse, error) {
	id, err := resolveID(ctx, s.repo, key)
	if err != nil {
		return LeaveResponse{}, err
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if r == nil {
		return LeaveResponse{}, apierr.NotFound("leave request not found")
	}
	return r.toDTO(), nil
}

func (s *Service) ListByEmployee(ctx context.Context, employeeID int64) ([]LeaveResponse, error) {
	list, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

func (s *Service) ListAll(ctx context.Context) ([]LeaveResponse, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

func (s *Service) CountPending(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, StatusPending)
}

// ListOverlapping: 帳票用。from/to は検証済みの YYYY-MM-DD
func (s *Service) ListOverlapping(ctx context.Context, from, to string) ([]LeaveResponse, error) {
	list, err := s.repo.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

// resolveID: 数値として解釈できればID、それ以外は leave_ulid とみなす
func resolveID(ctx context.Context, repo Repository, key string) (int64, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, apierr.Invalid("id or ulid is required")
	}
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		if id <= 0 {
			return 0, apierr.Invalid("id must be positive")
		}
		return id, nil
	}
	if _, err := ulid.ParseStrict(key); err != nil {
		return 0, apierr.Invalid("key must be a numeric id or a ULID")
	}
	r, err := repo.GetByULID(ctx, strings.ToUpper(key))
	if err != nil {
		return 0, err
	}
	if r == nil {
		return 0, apierr.NotFound("leave request not found")
	}
	return r.ID, nil
}
