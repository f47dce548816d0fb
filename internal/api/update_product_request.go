package api

// UpdateProductRequest 支援部份更新，未帶的欄位不變動
// swagger:model api.UpdateProductRequest
type UpdateProductRequest struct {
	Name               *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Description        *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Price              *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	AllowedForDiscount *bool    `json:"allowedForDiscount,omitempty"`
	DiscountPercent    *float64 `json:"discountPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Brand              *string  `json:"brand,omitempty" validate:"omitempty,min=1"`
	Category           *string  `json:"category,omitempty"`
	Stock              *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Images             []string `json:"images,omitempty" validate:"omitempty,min=1,dive,url"`
}
