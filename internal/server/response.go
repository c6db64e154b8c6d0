package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/apperr"
)

func ok(ctx iris.Context, data any) {
	_ = ctx.JSON(iris.Map{"code": 0, "data": data})
}

func fail(ctx iris.Context, status int, msg string) {
	ctx.StopWithJSON(status, iris.Map{"code": status, "msg": msg})
}

// statusOf 业务错误到 HTTP 状态码
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return iris.StatusNotFound
	case apperr.InvalidInput, apperr.Conflict, apperr.InsufficientStock:
		return iris.StatusBadRequest
	case apperr.Unauthorized:
		return iris.StatusUnauthorized
	default:
		return iris.StatusInternalServerError
	}
}

func (s *Server) writeError(ctx iris.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == iris.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", ctx.Path()), zap.Error(err))
		msg = "internal server error"
	}
	fail(ctx, status, msg)
}

func (s *Server) readJSON(ctx iris.Context, v any) bool {
	if err := ctx.ReadJSON(v); err != nil {
		fail(ctx, iris.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// Int64 接受 JSON 数字或数字字符串，如 3 或 "3"
type Int64 int64

func (n *Int64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("%q is not an integer", string(b))
	}
	*n = Int64(v)
	return nil
}
