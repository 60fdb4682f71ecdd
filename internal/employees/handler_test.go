package employees

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KINTAI-backend/internal/platform/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestRouter(svc *Service) *gin.Engine {
	r := gin.New()
	RegisterPublicRoutes(r, svc)
	RegisterAdminRoutes(r, svc)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerRegister(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := newTestRouter(svc)

	w := doJSON(r, http.MethodPost, "/register",
		`{"name":"Taro","email":"taro@example.com","password":"pw","confirm_password":"pw"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/employees/1", w.Header().Get("Location"))

	var res EmployeeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "taro@example.com", res.Email)

	w = doJSON(r, http.MethodPost, "/register",
		`{"name":"Taro","email":"taro@example.com","password":"pw","confirm_password":"pw"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"EMAIL_TAKEN"`)

	w = doJSON(r, http.MethodPost, "/register",
		`{"name":"Jiro","email":"jiro@example.com","password":"pw","confirm_password":"px"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"PASSWORD_MISMATCH"`)

	w = doJSON(r, http.MethodPost, "/register", `{"name":"Jiro"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"INVALID_ARGUMENT"`)
}

func TestHandlerLoginForm(t *testing.T) {
	svc, _, issuer := newTestService(t)
	r := newTestRouter(svc)
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	issuer.EXPECT().Issue(int64(1), "employee").Return("tok", testNow.Add(time.Hour), nil)

	form := url.Values{"email": {"taro@example.com"}, "password": {"s3cret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "tok", res.Token)

	w = doJSON(r, http.MethodPost, "/login", `{"email":"taro@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"INVALID_CREDENTIALS"`)
}

func TestHandlerLoginHistory(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := newTestRouter(svc)

	w := doJSON(r, http.MethodGet, "/employees/abc/logins", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/employees/5/logins", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerImport(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := newTestRouter(svc)

	wb := buildWorkbook(t, [][]any{
		{"name", "email", "password"},
		{"Taro", "taro@example.com", "pw"},
	})
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "staff.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(wb.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/employees/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Created)

	w = doJSON(r, http.MethodGet, "/employees", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	emp, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)
	req := validRegister()
	req.Email = "boss@example.com"
	req.Role = "admin"
	boss, err := svc.Register(ctx, req)
	require.NoError(t, err)

	call := func(id int64) int {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			if id > 0 {
				c.Set(auth.CtxEmployeeIDKey, id)
			}
			c.Next()
		}, RequireAdmin(svc), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, call(boss.ID))
	assert.Equal(t, http.StatusForbidden, call(emp.ID))
	assert.Equal(t, http.StatusForbidden, call(99))
	assert.Equal(t, http.StatusForbidden, call(0))
}
