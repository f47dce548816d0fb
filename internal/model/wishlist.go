// File: internal/model/wishlist.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WishlistItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// PopulatedWishlistItem 將 productId 解析為商品後的形狀
type PopulatedWishlistItem struct {
	WishlistItem
	Product *Product `json:"product"`
}
