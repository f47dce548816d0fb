package api

// ListProductsRequest 綁定商品列表的查詢參數；
// 非數字的價格界限在綁定階段就會以 400 拒絕
// swagger:model api.ListProductsRequest
type ListProductsRequest struct {
	SearchTerm string   `query:"searchTerm"`
	Category   string   `query:"category"`
	Brand      string   `query:"brand"`
	MinPrice   *float64 `query:"minPrice"`
	MaxPrice   *float64 `query:"maxPrice"`
	Page       int      `query:"page" validate:"omitempty,gte=1"`
	Limit      int      `query:"limit" validate:"omitempty,gte=1,lte=100"`
	SortBy     string   `query:"sortBy" validate:"omitempty,oneof=name price createdAt averageRating"`
	SortOrder  string   `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}
