package api

// swagger:model api.CreateProductRequest
type CreateProductRequest struct {
	Name               string   `json:"name" validate:"required" example:"Fender Stratocaster"`
	Description        string   `json:"description" validate:"required"`
	Price              float64  `json:"price" validate:"required,gt=0" example:"1299.99"`
	AllowedForDiscount bool     `json:"allowedForDiscount"`
	DiscountPercent    float64  `json:"discountPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Brand              string   `json:"brand" validate:"required" example:"Fender"`
	Category           string   `json:"category" validate:"required" example:"guitars"`
	Stock              int      `json:"stock" validate:"gte=0" example:"12"`
	Images             []string `json:"images" validate:"required,min=1,dive,url"`
	AddedBy            string   `json:"addedBy" validate:"required" example:"64f1c0a8e4b0f2a1d3c4b5a6"`
}
