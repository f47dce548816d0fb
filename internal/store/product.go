package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"melody-mart/internal/database"
	"melody-mart/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductFilter 商品列表的查詢條件，未設定的欄位不參與過濾
type ProductFilter struct {
	SearchTerm string
	Category   string
	Brand      string
	MinPrice   *float64
	MaxPrice   *float64
}

// ProductSort 排序與分頁選項
type ProductSort struct {
	SortBy    string
	SortOrder string // asc 或 desc
	Page      int
	Limit     int
}

func (f ProductFilter) match() bson.M {
	var and []bson.M
	if f.SearchTerm != "" {
		re := primitive.Regex{Pattern: f.SearchTerm, Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"name": re},
			{"brand": re},
			{"category": re},
		}})
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		and = append(and, bson.M{"price": price})
	}
	if f.Category != "" {
		and = append(and, bson.M{"category": f.Category})
	}
	if f.Brand != "" {
		and = append(and, bson.M{"brand": f.Brand})
	}
	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

// ratingStages 以 $lookup 接上 reviews 集合並計算平均評分與評論數
func ratingStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         database.CollectionReviews,
			"localField":   "_id",
			"foreignField": "productId",
			"as":           "reviews",
		}},
		{"$addFields": bson.M{
			"averageRating": bson.M{"$ifNull": []any{bson.M{"$avg": "$reviews.rating"}, 0}},
			"reviewCount":   bson.M{"$size": "$reviews"},
		}},
		{"$project": bson.M{"reviews": 0}},
	}
}

// ListProducts 聚合查詢商品列表，每筆附帶 averageRating 與 reviewCount，
// 回傳列表與符合條件的總筆數
func ListProducts(ctx context.Context, db database.DB, filter ProductFilter, sort ProductSort) ([]model.ProductWithRating, int64, error) {
	match := filter.match()

	order := 1
	if sort.SortOrder == "desc" {
		order = -1
	}
	sortField := sort.SortBy
	if sortField == "" {
		sortField = "createdAt"
		order = -1
	}
	page := sort.Page
	if page < 1 {
		page = 1
	}
	limit := sort.Limit
	if limit < 1 {
		limit = 10
	}

	pipeline := []bson.M{{"$match": match}}
	pipeline = append(pipeline, ratingStages()...)
	pipeline = append(pipeline,
		bson.M{"$sort": bson.M{sortField: order}},
		bson.M{"$skip": (page - 1) * limit},
		bson.M{"$limit": limit},
	)

	col := db.Collection(database.CollectionProducts)
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("ListProducts: %w", err)
	}
	var products []model.ProductWithRating
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("ListProducts: %w", err)
	}

	total, err := col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("ListProducts: %w", err)
	}
	return products, total, nil
}

// LatestProducts 取最新上架的 limit 筆商品，附帶評分聚合
func LatestProducts(ctx context.Context, db database.DB, limit int) ([]model.ProductWithRating, error) {
	if limit < 1 {
		limit = 10
	}
	pipeline := append(ratingStages(),
		bson.M{"$sort": bson.M{"createdAt": -1}},
		bson.M{"$limit": limit},
	)
	cur, err := db.Collection(database.CollectionProducts).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("LatestProducts: %w", err)
	}
	var products []model.ProductWithRating
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("LatestProducts: %w", err)
	}
	return products, nil
}

func GetProductByID(ctx context.Context, db database.DB, productID primitive.ObjectID) (*model.Product, error) {
	p := &model.Product{}
	err := db.Collection(database.CollectionProducts).
		FindOne(ctx, bson.M{"_id": productID}).
		Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("GetProductByID: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetProductByID: %w", err)
	}
	return p, nil
}

// CreateProduct 建立商品。前置條件：addedBy 必須指向現存的 admin 使用者，
// 否則回傳 ErrSellerNotFound
func CreateProduct(ctx context.Context, db database.DB, p *model.Product) (*model.Product, error) {
	ok, err := IsAdminUser(ctx, db, p.AddedBy)
	if err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("CreateProduct: %w", ErrSellerNotFound)
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := db.Collection(database.CollectionProducts).InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", err)
	}
	id, ok2 := res.InsertedID.(primitive.ObjectID)
	if !ok2 {
		return nil, fmt.Errorf("CreateProduct: missing inserted id")
	}
	p.ID = id
	return p, nil
}

// UpdateProductOwned 以單次條件更新（_id 且 addedBy 同時符合）修改商品，
// 消除先查後寫的競態；回傳是否有文件被匹配
func UpdateProductOwned(ctx context.Context, db database.DB, productID, ownerID primitive.ObjectID, set bson.M) (bool, error) {
	set["updatedAt"] = time.Now().UTC()
	res, err := db.Collection(database.CollectionProducts).UpdateOne(ctx,
		bson.M{"_id": productID, "addedBy": ownerID},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("UpdateProductOwned: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// DeleteProductOwned 以單次條件刪除移除商品；回傳是否有文件被刪除
func DeleteProductOwned(ctx context.Context, db database.DB, productID, ownerID primitive.ObjectID) (bool, error) {
	res, err := db.Collection(database.CollectionProducts).DeleteOne(ctx,
		bson.M{"_id": productID, "addedBy": ownerID},
	)
	if err != nil {
		return false, fmt.Errorf("DeleteProductOwned: %w", err)
	}
	return res.DeletedCount > 0, nil
}
