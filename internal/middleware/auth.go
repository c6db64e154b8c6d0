package middleware

import (
	"context"
	"strings"

	"github.com/kataras/iris/v12"

	"github.com/example/goshop/internal/auth"
)

const (
	// CtxUserID、CtxEmail 和 CtxToken 是写入 ctx.Values() 的键
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxToken  = "token"
)

// TokenParser 由 auth.Service 实现
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (*auth.Claims, error)
}

// BearerAuth 校验 Authorization: Bearer <token>，通过后写入用户信息
func BearerAuth(parser TokenParser) iris.Handler {
	return func(ctx iris.Context) {
		header := ctx.GetHeader("Authorization")
		token := strings.TrimSpace(header)
		if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token == "" {
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{"code": iris.StatusUnauthorized, "msg": "missing token"})
			return
		}
		claims, err := parser.ParseToken(ctx.Request().Context(), token)
		if err != nil {
			ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{"code": iris.StatusUnauthorized, "msg": "invalid token"})
			return
		}
		ctx.Values().Set(CtxUserID, claims.UserID)
		ctx.Values().Set(CtxEmail, claims.Email)
		ctx.Values().Set(CtxToken, token)
		ctx.Next()
	}
}

// UserID 取出 BearerAuth 写入的用户 id
func UserID(ctx iris.Context) string {
	return ctx.Values().GetString(CtxUserID)
}

// Token 取出 BearerAuth 校验过的原始 token
func Token(ctx iris.Context) string {
	return ctx.Values().GetString(CtxToken)
}
