package shared

import "github.com/gin-gonic/gin"

// RequestIDKey 请求 ID 在 gin 上下文中的 key
const RequestIDKey = "request_id"

// RequestID 读取当前请求 ID
func RequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	value, ok := c.Get(RequestIDKey)
	if !ok {
		return ""
	}
	if id, ok := value.(string); ok {
		return id
	}
	return ""
}
