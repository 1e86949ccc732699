package public

import (
	"github.com/nearshelf/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Healthz 存活探针
func (h *Handler) Healthz(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
