package leave

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"KINTAI-backend/internal/platform/apierr"
	"KINTAI-backend/internal/platform/auth"
)

type Handler struct {
	svc   *Service
	today func() string
}

// RegisterSelfRoutes: RequireAuth 済み。本人の申請のみ扱う
// today: フォーム初期値用の「今日」（設定タイムゾーン）
func RegisterSelfRoutes(r gin.IRoutes, svc *Service, today func() string) {
	h := &Handler{svc: svc, today: today}
	r.GET("/employee/apply-leave", h.Form)
	r.POST("/employee/apply-leave", h.Submit)
}

// RegisterAdminRoutes: RequireRole(admin) 済み
func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/leave-requests", h.ListAll)
	r.GET("/leave-requests/pending", h.ListPending)
	r.GET("/leave-requests/:key", h.Get)
	r.POST("/leave-requests/:key/approve", h.decide(StatusApproved))
	r.POST("/leave-requests/:key/reject", h.decide(StatusRejected))
}

func currentEmployee(c *gin.Context) (int64, bool) {
	id, ok := auth.EmployeeID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHENTICATED", "message": "login required"}})
	}
	return id, ok
}

// GET /employee/apply-leave
func (h *Handler) Form(c *gin.Context) {
	id, ok := currentEmployee(c)
	if !ok {
		return
	}
	leaves, err := h.svc.ListByEmployee(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, FormResponse{EmployeeID: id, Today: h.today(), Leaves: leaves})
}

// POST /employee/apply-leave
func (h *Handler) Submit(c *gin.Context) {
	id, ok := currentEmployee(c)
	if !ok {
		return
	}
	var req SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		apierr.BadRequest(c, "invalid request body")
		return
	}
	res, err := h.svc.Submit(c.Request.Context(), id, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Header("Location", "/leave-requests/"+res.ULID)
	c.JSON(http.StatusCreated, res)
}

// GET /leave-requests/pending
func (h *Handler) ListPending(c *gin.Context) {
	list, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "total": len(list)})
}

// GET /leave-requests
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "total": len(list)})
}

// GET /leave-requests/:key
func (h *Handler) Get(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /leave-requests/:key/approve | /reject
func (h *Handler) decide(decision Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		approver, ok := currentEmployee(c)
		if !ok {
			return
		}
		res, err := h.svc.Decide(c.Request.Context(), c.Param("key"), decision, approver)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
