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

// AddToWishlist 新增一筆 (userId, productId) 收藏，重複項目不設限
func AddToWishlist(ctx context.Context, db database.DB, w *model.WishlistItem) (*model.WishlistItem, error) {
	w.CreatedAt = time.Now().UTC()
	res, err := db.Collection(database.CollectionWishlist).InsertOne(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("AddToWishlist: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("AddToWishlist: missing inserted id")
	}
	w.ID = id
	return w, nil
}

func GetWishlistItemByID(ctx context.Context, db database.DB, itemID primitive.ObjectID) (*model.WishlistItem, error) {
	w := &model.WishlistItem{}
	err := db.Collection(database.CollectionWishlist).
		FindOne(ctx, bson.M{"_id": itemID}).
		Decode(w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("GetWishlistItemByID: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetWishlistItemByID: %w", err)
	}
	return w, nil
}

func GetWishlistByUser(ctx context.Context, db database.DB, userID primitive.ObjectID) ([]model.WishlistItem, error) {
	cur, err := db.Collection(database.CollectionWishlist).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("GetWishlistByUser: %w", err)
	}
	var items []model.WishlistItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("GetWishlistByUser: %w", err)
	}
	return items, nil
}

// GetProductsByIDs 以單次 $in 查詢批次解析商品，查無的 ID 不在結果中
func GetProductsByIDs(ctx context.Context, db database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Product, error) {
	out := make(map[primitive.ObjectID]*model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := db.Collection(database.CollectionProducts).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("GetProductsByIDs: %w", err)
	}
	var products []model.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("GetProductsByIDs: %w", err)
	}
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

// DeleteWishlistItemOwned 以單次條件刪除移除收藏；回傳是否有文件被刪除
func DeleteWishlistItemOwned(ctx context.Context, db database.DB, itemID, ownerID primitive.ObjectID) (bool, error) {
	res, err := db.Collection(database.CollectionWishlist).DeleteOne(ctx,
		bson.M{"_id": itemID, "userId": ownerID},
	)
	if err != nil {
		return false, fmt.Errorf("DeleteWishlistItemOwned: %w", err)
	}
	return res.DeletedCount > 0, nil
}
