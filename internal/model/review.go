// File: internal/model/review.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedReview 將 userId 解析為公開使用者後的評論，
// 使用者已被刪除時 User 為 nil，聚合不中斷
type PopulatedReview struct {
	Review
	User *PublicUser `json:"user"`
}

// ReviewSummary 單一商品所有評論的聚合視圖
type ReviewSummary struct {
	Reviews       []PopulatedReview `json:"reviews"`
	TotalReviews  int               `json:"totalReviews"`
	AverageRating float64           `json:"averageRating"`
	OneStar       int               `json:"oneStar"`
	TwoStar       int               `json:"twoStar"`
	ThreeStar     int               `json:"threeStar"`
	FourStar      int               `json:"fourStar"`
	FiveStar      int               `json:"fiveStar"`
}
