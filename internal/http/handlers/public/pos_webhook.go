package public

import (
	"fmt"
	"io"

	"github.com/nearshelf/internal/constants"
	"github.com/nearshelf/internal/http/handlers/shared"
	"github.com/nearshelf/internal/http/response"
	"github.com/nearshelf/internal/service"

	"github.com/gin-gonic/gin"
)

const posWebhookMaxBodyBytes = 1 << 20

// HandlePOSInventoryWebhook 接收 POS 库存盘点 webhook
func (h *Handler) HandlePOSInventoryWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, posWebhookMaxBodyBytes+1))
	if err != nil {
		respondWithMappedError(c, fmt.Errorf("%w: read body: %v", service.ErrInvalidPayload, err), webhookErrorRules, webhookFallback)
		return
	}
	if len(body) > posWebhookMaxBodyBytes {
		respondWithMappedError(c, fmt.Errorf("%w: body too large", service.ErrInvalidPayload), webhookErrorRules, webhookFallback)
		return
	}

	result, err := h.POSWebhookService.Handle(c.Request.Context(), c.GetHeader(constants.POSSignatureHeader), body)
	if err != nil {
		respondWithMappedError(c, err, webhookErrorRules, webhookFallback)
		return
	}
	shared.RequestLog(c).Debugw("pos_webhook_handled",
		"event_id", result.EventID,
		"type", result.Type,
		"queued", result.Queued,
		"ignored", result.Ignored,
	)
	response.Success(c, result)
}
