package report

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"KINTAI-backend/internal/platform/apierr"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct{ svc *Service }

// RegisterRoutes: 管理者向け（RequireRole(admin) 済みのグループに載せる）
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/reports/attendance.csv", h.AttendanceCSV)
	r.GET("/reports/attendance.xlsx", h.AttendanceXLSX)
}

// GET /reports/attendance.csv?from=&to=&encoding=utf8|sjis
// 途中で失敗した時に JSON エラーを返せるよう、いったんバッファに書く
func (h *Handler) AttendanceCSV(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	enc := c.DefaultQuery("encoding", EncodingUTF8)

	var buf bytes.Buffer
	if err := h.svc.WriteCSV(c.Request.Context(), &buf, from, to, enc); err != nil {
		apierr.Respond(c, err)
		return
	}
	charset := "utf-8"
	if e, _ := normalizeEncoding(enc); e == EncodingSJIS {
		charset = "Shift_JIS"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance_%s_%s.csv"`, from, to))
	c.Data(http.StatusOK, "text/csv; charset="+charset, buf.Bytes())
}

// GET /reports/attendance.xlsx?from=&to=
func (h *Handler) AttendanceXLSX(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")

	var buf bytes.Buffer
	if err := h.svc.WriteXLSX(c.Request.Context(), &buf, from, to); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance_%s_%s.xlsx"`, from, to))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
