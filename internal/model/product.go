// File: internal/model/product.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category 商品分類，封閉列舉
type Category string

const (
	CategoryGuitars      Category = "guitars"
	CategoryKeyboards    Category = "keyboards"
	CategoryDrums        Category = "drums"
	CategoryViolins      Category = "violins"
	CategoryFlutes       Category = "flutes"
	CategoryTrumpets     Category = "trumpets"
	CategoryCellos       Category = "cellos"
	CategoryUkuleles     Category = "ukuleles"
	CategoryHarmonicas   Category = "harmonicas"
	CategoryBanjos       Category = "banjos"
	CategoryMandolins    Category = "mandolins"
	CategorySynthesizers Category = "synthesizers"
	CategorySaxophones   Category = "saxophones"
)

// Categories 列出所有合法分類
var Categories = []Category{
	CategoryGuitars, CategoryKeyboards, CategoryDrums, CategoryViolins,
	CategoryFlutes, CategoryTrumpets, CategoryCellos, CategoryUkuleles,
	CategoryHarmonicas, CategoryBanjos, CategoryMandolins,
	CategorySynthesizers, CategorySaxophones,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description" json:"description"`
	Price              float64            `bson:"price" json:"price"`
	AllowedForDiscount bool               `bson:"allowedForDiscount" json:"allowedForDiscount"`
	DiscountPercent    float64            `bson:"discountPercent,omitempty" json:"discountPercent,omitempty"`
	Brand              string             `bson:"brand" json:"brand"`
	Category           Category           `bson:"category" json:"category"`
	Stock              int                `bson:"stock" json:"stock"`
	Images             []string           `bson:"images" json:"images"`
	AddedBy            primitive.ObjectID `bson:"addedBy" json:"addedBy"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductWithRating 是商品列表聚合 ($lookup reviews) 後的形狀
type ProductWithRating struct {
	Product       `bson:",inline"`
	AverageRating float64 `bson:"averageRating" json:"averageRating"`
	ReviewCount   int     `bson:"reviewCount" json:"reviewCount"`
}

// PopulatedProduct 將 addedBy 解析為公開使用者後的單品回應形狀，
// 關聯失效時 AddedBy 為 nil
type PopulatedProduct struct {
	Product
	AddedBy *PublicUser `json:"addedBy"`
}
