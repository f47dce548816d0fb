package api

// CreateReviewRequest 建立評論；評分在寫入端就限制於 1..5，
// 讓「星等桶總和 == 總評論數」的彙整不變量對新資料恆成立
// swagger:model api.CreateReviewRequest
type CreateReviewRequest struct {
	ProductID string `json:"productId" validate:"required" example:"64f1c0a8e4b0f2a1d3c4b5a6"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5" example:"5"`
	Comment   string `json:"comment,omitempty" example:"Great tone, fast shipping"`
}
