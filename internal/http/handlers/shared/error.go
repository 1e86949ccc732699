package shared

import (
	"github.com/nearshelf/internal/http/response"
	"github.com/nearshelf/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if id := RequestID(c); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回错误响应；5xx 且带原始错误时记录日志（含请求参数）。
func RespondError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil && appErr.Status >= response.CodeInternal {
		RequestLog(c).Errorw("handler_error",
			"status", appErr.Status,
			"code", appErr.Code,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"query", c.Request.URL.RawQuery,
			"params", c.Params,
			"error", appErr.Err,
		)
	} else if appErr.Err != nil {
		RequestLog(c).Debugw("handler_rejected",
			"status", appErr.Status,
			"code", appErr.Code,
			"error", appErr.Err,
		)
	}
	response.Error(c, appErr)
}
