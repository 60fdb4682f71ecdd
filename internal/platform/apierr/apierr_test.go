package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{New(CodeInvalidDate, "x"), http.StatusBadRequest},
		{New(CodeInvalidRange, "x"), http.StatusBadRequest},
		{New(CodePasswordMismatch, "x"), http.StatusBadRequest},
		{New(CodeInvalidCredentials, "x"), http.StatusUnauthorized},
		{NotFound("x"), http.StatusNotFound},
		{New(CodeOverlapsExistingLeave, "x"), http.StatusConflict},
		{New(CodeConflictsWithAttendance, "x"), http.StatusConflict},
		{New(CodeAlreadyPunchedIn, "x"), http.StatusConflict},
		{New(CodeInvalidTransition, "x"), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", New(CodeEmailTaken, "x")), http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestIsAndCodeOf(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(CodeNotPunchedInYet, "no record"))
	assert.True(t, Is(err, CodeNotPunchedInYet))
	assert.False(t, Is(err, CodeAlreadyPunchedOut))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestRespondHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Respond(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL","message":"internal error"}}`, w.Body.String())
}

func TestRespondAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/punch-in", nil)

	Respond(c, New(CodeAlreadyPunchedIn, "already punched in today"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":{"code":"ALREADY_PUNCHED_IN","message":"already punched in today"}}`, w.Body.String())
}
