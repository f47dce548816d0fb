// File: internal/model/user.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserName struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role         Role               `bson:"role" json:"role"`
	PasswordHash string             `bson:"password" json:"-"`
	Name         UserName           `bson:"name" json:"name"`
	PhoneNumber  string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser 是去除憑證欄位後的公開使用者資訊，
// 用於 populate 到評論或商品的回應中
type PublicUser struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Role        Role               `bson:"role" json:"role"`
	Name        UserName           `bson:"name" json:"name"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Email       string             `bson:"email" json:"email"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Public 投影出不含密碼哈希的公開視圖
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		Role:        u.Role,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		Address:     u.Address,
		Avatar:      u.Avatar,
	}
}
