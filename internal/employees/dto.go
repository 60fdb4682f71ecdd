package employees

import "time"

const (
	MaxNameLength       = 100
	MaxEmailLength      = 200
	DefaultLoginHistory = 20
	MaxLoginHistory     = 200
)

type RegisterRequest struct {
	Name            string `json:"name" form:"name" binding:"required"`
	Email           string `json:"email" form:"email" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required"`
	Role            string `json:"role,omitempty" form:"role"` // "admin" or "employee"（未指定なら employee）
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type EmployeeResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Employee  EmployeeResponse `json:"employee"`
}

type LoginEventResponse struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"login_timestamp"`
	Status    bool      `json:"login_status"`
}

// 一括取込の1行ごとの結果
type ImportRowResult struct {
	Row      int               `json:"row"` // シート上の行番号（1始まり、ヘッダ含む）
	Email    string            `json:"email"`
	Employee *EmployeeResponse `json:"employee,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type ImportResult struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Rows    []ImportRowResult `json:"rows"`
}
