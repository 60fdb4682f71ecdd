// Package docs は /swagger で配信する API 定義。
//
// swag init では生成していない（ハンドラに注釈は無い）。ルートを追加・変更したら
// docTemplate を手で更新すること。docs_test.go がルートとの食い違いを検出する。
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/login": {
            "post": {
                "tags": ["employees"],
                "summary": "ログインしてトークンを発行",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "INVALID_CREDENTIALS", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/register": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["employees"],
                "summary": "社員を登録（管理者）",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Employee"}},
                    "400": {"description": "INVALID_ARGUMENT / PASSWORD_MISMATCH", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "EMAIL_TAKEN", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/employees": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["employees"],
                "summary": "社員一覧（管理者）",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/employees/{id}/logins": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["employees"],
                "summary": "ログイン履歴（管理者）",
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/employees/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["employees"],
                "summary": "社員の一括登録（.xlsx / .xls）",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "file", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "INVALID_ARGUMENT", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/punch-in": {
            "post": {
                "tags": ["attendance"],
                "summary": "出勤打刻",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PunchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Attendance"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "ALREADY_PUNCHED_IN", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/punch-out": {
            "post": {
                "tags": ["attendance"],
                "summary": "退勤打刻",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PunchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Attendance"}},
                    "409": {"description": "NOT_PUNCHED_IN_YET / ALREADY_PUNCHED_OUT", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/attendances": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "勤怠一覧（管理者）",
                "parameters": [
                    {"in": "query", "name": "employee_id", "type": "integer"},
                    {"in": "query", "name": "on", "type": "string"},
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"},
                    {"in": "query", "name": "sort", "type": "string", "enum": ["date_desc", "date_asc", "punch_in_desc", "punch_in_asc"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/attendances/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "出勤日数ランキング（管理者）",
                "parameters": [
                    {"in": "query", "name": "from", "type": "string", "required": true},
                    {"in": "query", "name": "to", "type": "string", "required": true},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/employee/apply-leave": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["leave"],
                "summary": "休暇申請フォームの初期情報",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["leave"],
                "summary": "休暇を申請",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Leave"}},
                    "400": {"description": "INVALID_DATE_FORMAT / INVALID_RANGE / INVALID_ARGUMENT", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "OVERLAPS_EXISTING_LEAVE / CONFLICTS_WITH_ATTENDANCE", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/leave-requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["leave"],
                "summary": "休暇申請一覧（管理者）",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/leave-requests/pending": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["leave"],
                "summary": "承認待ち一覧（管理者）",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/leave-requests/{key}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["leave"],
                "summary": "休暇申請の取得（id または leave_ulid）",
                "parameters": [
                    {"in": "path", "name": "key", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Leave"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/leave-requests/{key}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["leave"],
                "summary": "休暇申請を承認",
                "parameters": [
                    {"in": "path", "name": "key", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Leave"}},
                    "409": {"description": "INVALID_TRANSITION", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/leave-requests/{key}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["leave"],
                "summary": "休暇申請を却下",
                "parameters": [
                    {"in": "path", "name": "key", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Leave"}},
                    "409": {"description": "INVALID_TRANSITION", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "管理者ダッシュボード",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/employee/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "社員ダッシュボード（カレンダー）",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/employee/attendance": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "自分の勤怠一覧",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/Attendance"}}}}}
                }
            }
        },
        "/employee/leaves": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "自分の休暇申請一覧",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/Leave"}}}}}
                }
            }
        },
        "/employee/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "自分のプロフィール",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Employee"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/reports/attendance.csv": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["report"],
                "summary": "勤怠 CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string", "required": true},
                    {"in": "query", "name": "to", "type": "string", "required": true},
                    {"in": "query", "name": "encoding", "type": "string", "enum": ["utf8", "sjis"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/attendance.xlsx": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["report"],
                "summary": "勤怠・休暇 Excel",
                "parameters": [
                    {"in": "query", "name": "from", "type": "string", "required": true},
                    {"in": "query", "name": "to", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"}
                    }
                }
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "employee": {"$ref": "#/definitions/Employee"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "confirm_password": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "employee"]}
            }
        },
        "Employee": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "PunchRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "Attendance": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "employee_id": {"type": "integer"},
                "date": {"type": "string"},
                "punch_in": {"type": "string"},
                "punch_out": {"type": "string"}
            }
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "Leave": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "leave_ulid": {"type": "string"},
                "employee_id": {"type": "integer"},
                "employee_name": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "days": {"type": "integer"},
                "reason": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "approved_by": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo: main から Host などを差し替えられる
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "KINTAI API",
	Description:      "勤怠打刻と休暇申請・承認のバックエンド",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
