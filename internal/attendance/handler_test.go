package attendance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KINTAI-backend/internal/platform/apierr"
)

func init() { gin.SetMode(gin.TestMode) }

type mapResolver map[string]int64

func (m mapResolver) ResolveID(_ context.Context, email string) (int64, error) {
	if id, ok := m[strings.ToLower(strings.TrimSpace(email))]; ok {
		return id, nil
	}
	return 0, apierr.NotFound("employee not found")
}

func newTestRouter(svc *Service) *gin.Engine {
	r := gin.New()
	RegisterPunchRoutes(r, svc, mapResolver{"taro@example.com": 1})
	RegisterAdminRoutes(r, svc)
	return r
}

func postForm(r http.Handler, path, email string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPunchHandlers(t *testing.T) {
	svc, _, clk := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 1)
	r := newTestRouter(svc)

	w := postForm(r, "/punch-out", "taro@example.com")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"NOT_PUNCHED_IN_YET"`)

	w = postForm(r, "/punch-in", "Taro@Example.com")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"date":"2024-01-10"`)

	w = postForm(r, "/punch-in", "taro@example.com")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"ALREADY_PUNCHED_IN"`)

	clk.now = clk.now.Add(9 * time.Hour)
	w = postForm(r, "/punch-out", "taro@example.com")
	assert.Equal(t, http.StatusOK, w.Code)

	w = postForm(r, "/punch-in", "ghost@example.com")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postForm(r, "/punch-in", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminListHandlers(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 1)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/attendances?employee_id=x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/attendances/stats?from=2024-02-01&to=2024-01-01", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"INVALID_RANGE"`)

	req = httptest.NewRequest(http.MethodGet, "/attendances?from=2024-01-01&to=2024-01-31", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}
