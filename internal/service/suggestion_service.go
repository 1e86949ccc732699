package service

import (
	"strings"

	"github.com/nearshelf/internal/constants"
)

// suggestionVocabulary 固定联想词表，顺序即输出顺序
var suggestionVocabulary = []string{
	"black hoodie",
	"white t-shirt",
	"denim jacket",
	"running shoes",
	"coffee beans",
	"organic honey",
	"surfboard wax",
	"sunscreen",
	"yoga mat",
	"reusable water bottle",
	"beach towel",
	"sourdough bread",
	"linen shirt",
	"scented candle",
	"board shorts",
}

// SuggestionInput 联想输入
type SuggestionInput struct {
	Query string `json:"query" validate:"max=100"`
	Limit *int   `json:"limit" validate:"omitempty,gte=1,lte=10"`
}

// SuggestionService 搜索联想
type SuggestionService struct {
	defaultLimit int
}

// NewSuggestionService 创建联想服务
func NewSuggestionService(defaultLimit int) *SuggestionService {
	if defaultLimit < constants.SuggestionLimitMin || defaultLimit > constants.SuggestionLimitMax {
		defaultLimit = constants.SuggestionDefaultLimit
	}
	return &SuggestionService{defaultLimit: defaultLimit}
}

// Suggest 返回包含查询词（忽略大小写）的前 N 个词条；查询为空时返回前 N 个
func (s *SuggestionService) Suggest(input SuggestionInput) ([]string, error) {
	input.Query = strings.TrimSpace(input.Query)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	limit := s.defaultLimit
	if input.Limit != nil {
		limit = *input.Limit
	}
	return matchSuggestions(input.Query, limit), nil
}

func matchSuggestions(query string, limit int) []string {
	needle := strings.ToLower(query)
	result := make([]string, 0, limit)
	for _, entry := range suggestionVocabulary {
		if len(result) >= limit {
			break
		}
		if needle == "" || strings.Contains(strings.ToLower(entry), needle) {
			result = append(result, entry)
		}
	}
	return result
}
