package employees

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/mail"
	"time"

	"KINTAI-backend/internal/platform/apierr"
	"KINTAI-backend/internal/platform/auth"
	"KINTAI-backend/internal/platform/db"
)

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Employee, error)
	GetByEmail(ctx context.Context, email string) (*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]Employee, error)
	InsertLoginEvent(ctx context.Context, ev *LoginEvent) error
	ListLoginEvents(ctx context.Context, employeeID int64, limit int) ([]LoginEvent, error)
}

type Service struct {
	repo   Repository
	hasher auth.Hasher
	tokens auth.TokenIssuer
	clock  Clock
}

func NewService(conn *sql.DB, hasher auth.Hasher, tokens auth.TokenIssuer) *Service {
	return NewServiceWith(NewStore(conn), hasher, tokens, realClock{})
}

func NewServiceWith(repo Repository, hasher auth.Hasher, tokens auth.TokenIssuer, clock Clock) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens, clock: clock}
}

var errInvalidCredentials = apierr.New(apierr.CodeInvalidCredentials, "invalid email or password")

// POST /register
func (s *Service) Register(ctx context.Context, in RegisterRequest) (EmployeeResponse, error) {
	if in.Password != in.ConfirmPassword {
		return EmployeeResponse{}, apierr.New(apierr.CodePasswordMismatch, "passwords do not match")
	}

	name := normalizeName(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return EmployeeResponse{}, apierr.Invalid("name, email and password are required")
	}
	if len(name) > MaxNameLength || len(email) > MaxEmailLength {
		return EmployeeResponse{}, apierr.Invalid("name or email is too long")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return EmployeeResponse{}, apierr.Invalid("email is not a valid address")
	}
	role, ok := ParseRole(in.Role)
	if !ok {
		return EmployeeResponse{}, apierr.Invalid("role must be admin or employee")
	}

	exists, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("lookup employee: %w", err)
	}
	if exists != nil {
		return EmployeeResponse{}, apierr.New(apierr.CodeEmailTaken, "email already registered")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("hash password: %w", err)
	}

	e := &Employee{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		// 同時登録は UNIQUE(email) で弾かれる
		if db.IsDuplicateKey(err) {
			return EmployeeResponse{}, apierr.New(apierr.CodeEmailTaken, "email already registered")
		}
		return EmployeeResponse{}, fmt.Errorf("create employee: %w", err)
	}
	log.Printf("[INFO] employee registered: id=%d role=%s", e.ID, e.Role)
	return e.toDTO(), nil
}

// POST /login
// 未登録メールとパスワード不一致は区別しない。失敗ログインは記録しない。
func (s *Service) Login(ctx context.Context, in LoginRequest) (LoginResponse, error) {
	e, err := s.repo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return LoginResponse{}, fmt.Errorf("lookup employee: %w", err)
	}
	if e == nil || !s.hasher.Verify(in.Password, e.PasswordHash) {
		return LoginResponse{}, errInvalidCredentials
	}

	ev := &LoginEvent{EmployeeID: e.ID, Timestamp: s.clock.Now(), Status: true}
	if err := s.repo.InsertLoginEvent(ctx, ev); err != nil {
		return LoginResponse{}, fmt.Errorf("record login: %w", err)
	}

	token, exp, err := s.tokens.Issue(e.ID, e.Role.String())
	if err != nil {
		return LoginResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResponse{Token: token, ExpiresAt: exp, Employee: e.toDTO()}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (EmployeeResponse, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if e == nil {
		return EmployeeResponse{}, apierr.NotFound("employee not found")
	}
	return e.toDTO(), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (EmployeeResponse, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return EmployeeResponse{}, apierr.Invalid("email is required")
	}
	e, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if e == nil {
		return EmployeeResponse{}, apierr.NotFound("employee not found")
	}
	return e.toDTO(), nil
}

// ResolveID: 打刻画面はメールで本人を指定する
func (s *Service) ResolveID(ctx context.Context, email string) (int64, error) {
	e, err := s.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return e.ID, nil
}

// IsAdmin: 未登録なら NOT_FOUND
func (s *Service) IsAdmin(ctx context.Context, id int64) (bool, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if e == nil {
		return false, apierr.NotFound("employee not found")
	}
	return e.Role.IsAdmin(), nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) List(ctx context.Context) ([]EmployeeResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].toDTO())
	}
	return out, nil
}

// GET /employees/:id/logins
func (s *Service) LoginHistory(ctx context.Context, id int64, limit int) ([]LoginEventResponse, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLoginHistory
	}
	if limit > MaxLoginHistory {
		limit = MaxLoginHistory
	}
	events, err := s.repo.ListLoginEvents(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LoginEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.toDTO())
	}
	return out, nil
}

type BootstrapAdmin struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin: 社員が1人もいない時だけ初期管理者を作る（/register は admin 限定のため）
func (s *Service) EnsureAdmin(ctx context.Context, b BootstrapAdmin) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if b.Email == "" || b.Password == "" {
		log.Println("[WARN] employees is empty and no bootstrap admin is configured")
		return false, nil
	}
	name := b.Name
	if name == "" {
		name = "Administrator"
	}
	_, err = s.Register(ctx, RegisterRequest{
		Name:            name,
		Email:           b.Email,
		Password:        b.Password,
		ConfirmPassword: b.Password,
		Role:            RoleAdmin.String(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
