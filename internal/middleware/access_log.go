package middleware

import (
	"time"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	applog "github.com/example/goshop/internal/logger"
)

// AccessLog 记录每个请求的方法、路径、状态码和耗时
func AccessLog(logger *zap.Logger) iris.Handler {
	logger = applog.OrNop(logger)
	return func(ctx iris.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.GetStatusCode()
		fields := []zap.Field{
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote", ctx.RemoteAddr()),
		}
		switch {
		case status >= 500:
			logger.Error("http request", fields...)
		case status >= 400:
			logger.Warn("http request", fields...)
		default:
			logger.Info("http request", fields...)
		}
	}
}
