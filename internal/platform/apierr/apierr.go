// Package apierr は各機能パッケージ共通のエラーモデル。
// パッケージ間でエラーを受け渡しても HTTP ステータスが崩れないよう一箇所にまとめた。
package apierr

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Code string

const (
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeInvalidDate      Code = "INVALID_DATE_FORMAT"
	CodeInvalidRange     Code = "INVALID_RANGE"
	CodePasswordMismatch Code = "PASSWORD_MISMATCH"

	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"

	CodeConflict                Code = "CONFLICT"
	CodeEmailTaken              Code = "EMAIL_TAKEN"
	CodeOverlapsExistingLeave   Code = "OVERLAPS_EXISTING_LEAVE"
	CodeConflictsWithAttendance Code = "CONFLICTS_WITH_ATTENDANCE"
	CodeAlreadyPunchedIn        Code = "ALREADY_PUNCHED_IN"
	CodeNotPunchedInYet         Code = "NOT_PUNCHED_IN_YET"
	CodeAlreadyPunchedOut       Code = "ALREADY_PUNCHED_OUT"
	CodeInvalidTransition       Code = "INVALID_TRANSITION"

	CodeInternal Code = "INTERNAL"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func New(code Code, msg string) *Error { return &Error{Code: code, Message: msg} }
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Invalid(msg string) *Error  { return New(CodeInvalidArgument, msg) }
func NotFound(msg string) *Error { return New(CodeNotFound, msg) }
func Conflict(msg string) *Error { return New(CodeConflict, msg) }
func Internal(msg string) *Error { return New(CodeInternal, msg) }

// CodeOf: APIエラーでなければ INTERNAL
func CodeOf(err error) Code {
	var api *Error
	if errors.As(err, &api) {
		return api.Code
	}
	return CodeInternal
}

// Is: err が指定コードの APIエラーか
func Is(err error, code Code) bool {
	var api *Error
	return errors.As(err, &api) && api.Code == code
}

func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArgument, CodeInvalidDate, CodeInvalidRange, CodePasswordMismatch:
		return http.StatusBadRequest
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeEmailTaken, CodeOverlapsExistingLeave, CodeConflictsWithAttendance,
		CodeAlreadyPunchedIn, CodeNotPunchedInYet, CodeAlreadyPunchedOut, CodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Body struct {
	Error *Error `json:"error"`
}

// BodyOf: 内部エラーの詳細はクライアントに返さない
func BodyOf(err error) Body {
	var api *Error
	if errors.As(err, &api) {
		return Body{Error: api}
	}
	return Body{Error: Internal("internal error")}
}

// Respond: ハンドラ共通のエラー応答。500 系だけログに残す。
func Respond(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, BodyOf(err))
}

// BadRequest: バインド失敗など、サービスに届く前の入力エラー
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Body{Error: Invalid(msg)})
}
