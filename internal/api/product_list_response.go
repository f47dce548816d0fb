package api

import "melody-mart/internal/model"

// swagger:model api.ListMeta
type ListMeta struct {
	Page  int   `json:"page" example:"1"`
	Limit int   `json:"limit" example:"10"`
	Total int64 `json:"total" example:"42"`
}

// swagger:model api.ProductListResponse
type ProductListResponse struct {
	Meta ListMeta                  `json:"meta"`
	Data []model.ProductWithRating `json:"data"`
}
