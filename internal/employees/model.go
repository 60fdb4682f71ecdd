package employees

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Role: DB上は role BOOL（1 = admin）
type Role int

const (
	RoleEmployee Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "employee"
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

func RoleFromFlag(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleEmployee
}

// ParseRole: 未指定は employee
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "employee", "0", "false":
		return RoleEmployee, true
	case "admin", "1", "true":
		return RoleAdmin, true
	default:
		return RoleEmployee, false
	}
}

// employees テーブルの1行
type Employee struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// login テーブルの1行（成功ログインのみ記録）
type LoginEvent struct {
	ID         int64
	EmployeeID int64
	Timestamp  time.Time
	Status     bool
}

func (e Employee) toDTO() EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role.String(),
		CreatedAt: e.CreatedAt,
	}
}

func (ev LoginEvent) toDTO() LoginEventResponse {
	return LoginEventResponse{
		ID:        ev.ID,
		Timestamp: ev.Timestamp,
		Status:    ev.Status,
	}
}

// NormalizeEmail: 全角英数や大文字の揺れを吸収してから照合する
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

func normalizeName(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}
