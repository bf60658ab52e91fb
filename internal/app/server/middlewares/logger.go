package middlewares

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
)

// Logger 请求日志中间件
// 为每个请求生成 trace_id 并注入 Context，记录处理时长
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		traceID := c.GetHeader("X-Request-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		ctx := context.WithValue(c.Request.Context(), "trace_id", traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", traceID)

		c.Next()

		log.Infof(ctx, "%s %s status=%d duration=%v",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
