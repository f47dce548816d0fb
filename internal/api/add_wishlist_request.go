package api

// swagger:model api.AddWishlistRequest
type AddWishlistRequest struct {
	ProductID string `json:"productId" validate:"required" example:"64f1c0a8e4b0f2a1d3c4b5a6"`
}
