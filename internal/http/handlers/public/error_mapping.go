package public

import (
	"errors"

	"github.com/nearshelf/internal/constants"
	"github.com/nearshelf/internal/http/handlers/shared"
	"github.com/nearshelf/internal/http/response"
	"github.com/nearshelf/internal/service"

	"github.com/gin-gonic/gin"
)

const invalidParamsMessage = "Invalid request parameters"

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target  error
	status  int
	code    string
	message string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallback mappedHandlerError) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		shared.RespondError(c, response.WrapError(response.CodeBadRequest, constants.ErrorCodeInvalidParams, invalidParamsMessage, err).
			WithDetails(validationErr.Fields))
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			shared.RespondError(c, response.WrapError(rule.status, rule.code, rule.message, err))
			return
		}
	}
	shared.RespondError(c, response.WrapError(fallback.status, fallback.code, fallback.message, err))
}

var invalidParamsRule = mappedHandlerError{
	target:  service.ErrInvalidParams,
	status:  response.CodeBadRequest,
	code:    constants.ErrorCodeInvalidParams,
	message: invalidParamsMessage,
}

var searchErrorRules = []mappedHandlerError{invalidParamsRule}

var searchFallback = mappedHandlerError{
	status:  response.CodeInternal,
	code:    constants.ErrorCodeSearchError,
	message: "Search failed",
}

var suggestionFallback = mappedHandlerError{
	status:  response.CodeInternal,
	code:    constants.ErrorCodeSuggestionsError,
	message: "Failed to load suggestions",
}

var productErrorRules = []mappedHandlerError{
	invalidParamsRule,
	{target: service.ErrNotFound, status: response.CodeNotFound, code: constants.ErrorCodeProductNotFound, message: "Product not found"},
}

var productFallback = mappedHandlerError{
	status:  response.CodeInternal,
	code:    constants.ErrorCodeProductError,
	message: "Failed to load product",
}

var webhookErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidSignature, status: response.CodeUnauthorized, code: constants.ErrorCodeWebhookInvalidSignature, message: "Invalid webhook signature"},
	{target: service.ErrInvalidPayload, status: response.CodeBadRequest, code: constants.ErrorCodeWebhookInvalidPayload, message: "Invalid webhook payload"},
}

var webhookFallback = mappedHandlerError{
	status:  response.CodeInternal,
	code:    constants.ErrorCodeWebhookError,
	message: "Failed to process webhook",
}
