package employees

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"KINTAI-backend/internal/platform/apierr"
	"KINTAI-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

var errAdminOnly = apierr.New(apierr.CodeForbidden, "admin only")

// RegisterPublicRoutes: 認証なしで叩けるもの
func RegisterPublicRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/login", h.Login)
}

// RegisterAdminRoutes: RequireAuth + RequireRole(admin) 済みのグループに載せる
func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/register", h.Register)
	r.GET("/employees", h.List)
	r.GET("/employees/:id/logins", h.LoginHistory)
	r.POST("/employees/import", h.Import)
}

// RequireAdmin: トークンの role に加えて、現在も管理者かを社員台帳で確認する。
// 発行後に降格・削除された社員は 403。RequireAuth の後に置く。
func RequireAdmin(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.EmployeeID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apierr.BodyOf(errAdminOnly))
			return
		}
		admin, err := svc.IsAdmin(c.Request.Context(), id)
		if err != nil && !apierr.Is(err, apierr.CodeNotFound) {
			apierr.Respond(c, err)
			c.Abort()
			return
		}
		if !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, apierr.BodyOf(errAdminOnly))
			return
		}
		c.Next()
	}
}

// POST /register
// JSON / form どちらでも受ける（gin の ShouldBind が Content-Type で切り替える）
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		apierr.BadRequest(c, "name, email, password and confirm_password are required")
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Header("Location", "/employees/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		apierr.BadRequest(c, "email and password are required")
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /employees
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "total": len(list)})
}

// GET /employees/:id/logins?limit=
func (h *Handler) LoginHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.BadRequest(c, "id must be a positive integer")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	res, err := h.svc.LoginHistory(c.Request.Context(), id, limit)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res})
}

// POST /employees/import (multipart, field "file")
func (h *Handler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		apierr.BadRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		apierr.BadRequest(c, "cannot open uploaded file")
		return
	}
	defer f.Close()

	res, err := h.svc.Import(c.Request.Context(), f, fh.Filename)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
