package api

// UpdateUserRequest 支援部份更新，未帶的欄位不變動
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName    *string `json:"lastName,omitempty" validate:"omitempty,min=1"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,e164"`
	Address     *string `json:"address,omitempty"`
	Avatar      *string `json:"avatar,omitempty" validate:"omitempty,url"`
}
