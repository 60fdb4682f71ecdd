package attendance

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"KINTAI-backend/internal/platform/apierr"
)

// EmployeeResolver: メールから社員IDを引く（employees.Service が満たす）
type EmployeeResolver interface {
	ResolveID(ctx context.Context, email string) (int64, error)
}

type Handler struct {
	svc       *Service
	employees EmployeeResolver
}

// RegisterPunchRoutes: 打刻端末向け（認証なし、メールで本人指定）
func RegisterPunchRoutes(r gin.IRoutes, svc *Service, employees EmployeeResolver) {
	h := &Handler{svc: svc, employees: employees}
	r.POST("/punch-in", h.PunchIn)
	r.POST("/punch-out", h.PunchOut)
}

// RegisterAdminRoutes: 管理者向けの検索・集計
func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/attendances", h.List)
	r.GET("/attendances/stats", h.Stats)
}

func (h *Handler) resolve(c *gin.Context) (int64, bool) {
	var req PunchRequest
	if err := c.ShouldBind(&req); err != nil {
		apierr.BadRequest(c, "email is required")
		return 0, false
	}
	id, err := h.employees.ResolveID(c.Request.Context(), req.Email)
	if err != nil {
		apierr.Respond(c, err)
		return 0, false
	}
	return id, true
}

// POST /punch-in
func (h *Handler) PunchIn(c *gin.Context) {
	id, ok := h.resolve(c)
	if !ok {
		return
	}
	res, err := h.svc.PunchIn(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /punch-out
func (h *Handler) PunchOut(c *gin.Context) {
	id, ok := h.resolve(c)
	if !ok {
		return
	}
	res, err := h.svc.PunchOut(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /attendances?employee_id=&on=&from=&to=&sort=&limit=&offset=
func (h *Handler) List(c *gin.Context) {
	q := ListQuery{
		Limit:  parseIntDefault(c.Query("limit"), DefaultPageLimit),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Sort:   c.DefaultQuery("sort", DefaultSort),
	}
	if v := c.Query("employee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			apierr.BadRequest(c, "employee_id must be an integer")
			return
		}
		q.EmployeeID = &id
	}
	if v := c.Query("on"); v != "" {
		q.On = &v
	}
	if v := c.Query("from"); v != "" {
		q.From = &v
	}
	if v := c.Query("to"); v != "" {
		q.To = &v
	}

	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "limit": q.Limit, "offset": q.Offset})
}

// GET /attendances/stats?from=&to=&limit=
func (h *Handler) Stats(c *gin.Context) {
	req := StatsRequest{
		From:  c.Query("from"),
		To:    c.Query("to"),
		Limit: parseIntDefault(c.Query("limit"), DefaultStatsTop),
	}
	rows, err := h.svc.Stats(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows, "from": req.From, "to": req.To})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
