package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"KINTAI-backend/internal/platform/apierr"
	"KINTAI-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

var errNoIdentity = apierr.New(apierr.CodeForbidden, "login required")

// RegisterAdminRoutes: RequireRole(admin) 済み
func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/dashboard", h.Admin)
}

// RegisterSelfRoutes: RequireAuth 済み。トークンの本人のみ
func RegisterSelfRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/employee/dashboard", h.Employee)
	r.GET("/employee/attendance", h.Attendance)
	r.GET("/employee/leaves", h.Leaves)
	r.GET("/employee/profile", h.Profile)
}

func self(c *gin.Context) (int64, bool) {
	id, ok := auth.EmployeeID(c)
	if !ok {
		apierr.Respond(c, errNoIdentity)
	}
	return id, ok
}

func (h *Handler) Admin(c *gin.Context) {
	id, ok := self(c)
	if !ok {
		return
	}
	res, err := h.svc.Admin(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Employee(c *gin.Context) {
	id, ok := self(c)
	if !ok {
		return
	}
	res, err := h.svc.Employee(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Attendance(c *gin.Context) {
	id, ok := self(c)
	if !ok {
		return
	}
	res, err := h.svc.Attendance(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res})
}

func (h *Handler) Leaves(c *gin.Context) {
	id, ok := self(c)
	if !ok {
		return
	}
	res, err := h.svc.Leaves(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res})
}

func (h *Handler) Profile(c *gin.Context) {
	id, ok := self(c)
	if !ok {
		return
	}
	res, err := h.svc.Profile(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
