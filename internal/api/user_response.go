package api

import (
	"time"

	"melody-mart/internal/model"
)

// UserResponse 定義回傳的使用者資訊，永不包含密碼哈希
// swagger:model api.UserResponse
type UserResponse struct {
	ID          string         `json:"id" example:"64f1c0a8e4b0f2a1d3c4b5a6"`
	Role        model.Role     `json:"role" example:"user"`
	Name        model.UserName `json:"name"`
	PhoneNumber string         `json:"phoneNumber,omitempty"`
	Email       string         `json:"email" example:"alice@example.com"`
	Address     string         `json:"address,omitempty"`
	Avatar      string         `json:"avatar,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NewUserResponse 由使用者模型組裝回應
func NewUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID.Hex(),
		Role:        u.Role,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		Address:     u.Address,
		Avatar:      u.Avatar,
		CreatedAt:   u.CreatedAt,
	}
}
