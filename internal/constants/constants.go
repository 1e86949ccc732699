package constants

// 搜索参数边界
const (
	SearchQueryMaxLength   = 100
	SearchRadiusMinKM      = 1
	SearchRadiusMaxKM      = 50
	SearchLimitMin         = 1
	SearchLimitMax         = 100
	SearchOverFetchFactor  = 2
	SuggestionLimitMin     = 1
	SuggestionLimitMax     = 10
	SuggestionDefaultLimit = 5
)

// 接口错误码
const (
	ErrorCodeInvalidParams           = "INVALID_PARAMS"
	ErrorCodeSearchError             = "SEARCH_ERROR"
	ErrorCodeSuggestionsError        = "SUGGESTIONS_ERROR"
	ErrorCodeProductNotFound         = "PRODUCT_NOT_FOUND"
	ErrorCodeProductError            = "PRODUCT_ERROR"
	ErrorCodeRateLimited             = "RATE_LIMITED"
	ErrorCodeWebhookInvalidSignature = "WEBHOOK_INVALID_SIGNATURE"
	ErrorCodeWebhookInvalidPayload   = "WEBHOOK_INVALID_PAYLOAD"
	ErrorCodeWebhookError            = "WEBHOOK_ERROR"
)

// 队列名称
const (
	QueueDefault   = "default"
	QueueAnalytics = "analytics"
)

// 异步任务类型
const (
	TaskSearchLogRecord    = "analytics:search_log"
	TaskPOSInventoryCounts = "pos:inventory_counts"
)

// POS webhook 事件类型
const (
	POSEventInventoryCountUpdated = "inventory.count.updated"
	POSInventoryStateInStock      = "IN_STOCK"
)

// POSSignatureHeader POS webhook 签名头
const POSSignatureHeader = "X-Pos-Signature"
