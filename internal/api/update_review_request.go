package api

// UpdateReviewRequest 支援部份更新，未帶的欄位不變動
// swagger:model api.UpdateReviewRequest
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}
