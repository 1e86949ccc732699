package public

import (
	"github.com/nearshelf/internal/http/handlers/shared"
	"github.com/nearshelf/internal/http/response"
	"github.com/nearshelf/internal/service"

	"github.com/gin-gonic/gin"
)

// searchQuery 搜索查询参数，数值类型由 ParamParser 转换以便逐字段报错
type searchQuery struct {
	Query    string `form:"query"`
	Lat      string `form:"lat"`
	Lng      string `form:"lng"`
	Radius   string `form:"radius"`
	Limit    string `form:"limit"`
	Category string `form:"category"`
	InStock  string `form:"inStock"`
}

type suggestionQuery struct {
	Query string `form:"query"`
	Limit string `form:"limit"`
}

type locationQuery struct {
	Lat string `form:"lat"`
	Lng string `form:"lng"`
}

// SearchProducts 附近商品搜索
func (h *Handler) SearchProducts(c *gin.Context) {
	var query searchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithMappedError(c, service.NewValidationError("query", err.Error()), searchErrorRules, searchFallback)
		return
	}

	var parser shared.ParamParser
	input := service.SearchInput{
		Query:     query.Query,
		Latitude:  parser.Float("lat", query.Lat),
		Longitude: parser.Float("lng", query.Lng),
		RadiusKM:  parser.Float("radius", query.Radius),
		Limit:     parser.Int("limit", query.Limit),
		Category:  query.Category,
		InStock:   parser.Bool("inStock", query.InStock),
		RequestID: shared.RequestID(c),
	}
	if err := parser.Err(); err != nil {
		respondWithMappedError(c, err, searchErrorRules, searchFallback)
		return
	}

	result, err := h.SearchService.Search(c.Request.Context(), input)
	if err != nil {
		respondWithMappedError(c, err, searchErrorRules, searchFallback)
		return
	}
	response.Success(c, result)
}

// GetSuggestions 搜索联想
func (h *Handler) GetSuggestions(c *gin.Context) {
	var query suggestionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithMappedError(c, service.NewValidationError("query", err.Error()), searchErrorRules, suggestionFallback)
		return
	}

	var parser shared.ParamParser
	input := service.SuggestionInput{
		Query: query.Query,
		Limit: parser.Int("limit", query.Limit),
	}
	if err := parser.Err(); err != nil {
		respondWithMappedError(c, err, searchErrorRules, suggestionFallback)
		return
	}

	suggestions, err := h.SuggestionService.Suggest(input)
	if err != nil {
		respondWithMappedError(c, err, searchErrorRules, suggestionFallback)
		return
	}
	response.Success(c, gin.H{"suggestions": suggestions})
}

// GetProduct 商品详情，传入经纬度时附带距离
func (h *Handler) GetProduct(c *gin.Context) {
	var query locationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithMappedError(c, service.NewValidationError("lat", err.Error()), productErrorRules, productFallback)
		return
	}

	var parser shared.ParamParser
	input := service.ProductDetailInput{
		ID:        parser.ID("id", c.Param("id")),
		Latitude:  parser.Float("lat", query.Lat),
		Longitude: parser.Float("lng", query.Lng),
	}
	if err := parser.Err(); err != nil {
		respondWithMappedError(c, err, productErrorRules, productFallback)
		return
	}

	product, err := h.CatalogService.GetProduct(c.Request.Context(), input)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, productFallback)
		return
	}
	response.Success(c, gin.H{"product": product})
}
