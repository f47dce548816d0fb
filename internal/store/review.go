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
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateReview(ctx context.Context, db database.DB, r *model.Review) (*model.Review, error) {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	res, err := db.Collection(database.CollectionReviews).InsertOne(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("CreateReview: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("CreateReview: missing inserted id")
	}
	r.ID = id
	return r, nil
}

func GetReviewByID(ctx context.Context, db database.DB, reviewID primitive.ObjectID) (*model.Review, error) {
	r := &model.Review{}
	err := db.Collection(database.CollectionReviews).
		FindOne(ctx, bson.M{"_id": reviewID}).
		Decode(r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("GetReviewByID: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetReviewByID: %w", err)
	}
	return r, nil
}

func GetReviewsByProduct(ctx context.Context, db database.DB, productID primitive.ObjectID) ([]model.Review, error) {
	cur, err := db.Collection(database.CollectionReviews).Find(ctx, bson.M{"productId": productID})
	if err != nil {
		return nil, fmt.Errorf("GetReviewsByProduct: %w", err)
	}
	var reviews []model.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("GetReviewsByProduct: %w", err)
	}
	return reviews, nil
}

func GetReviewsByUser(ctx context.Context, db database.DB, userID primitive.ObjectID) ([]model.Review, error) {
	cur, err := db.Collection(database.CollectionReviews).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("GetReviewsByUser: %w", err)
	}
	var reviews []model.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("GetReviewsByUser: %w", err)
	}
	return reviews, nil
}

// UpdateReviewOwned 以單次條件更新（_id 且 userId 同時符合）修改評論並回傳更新後文件；
// 無匹配時回傳 nil 與 nil error，由呼叫端判定 NotFound 或擁有者不符
func UpdateReviewOwned(ctx context.Context, db database.DB, reviewID, ownerID primitive.ObjectID, set bson.M) (*model.Review, error) {
	set["updatedAt"] = time.Now().UTC()
	r := &model.Review{}
	err := db.Collection(database.CollectionReviews).FindOneAndUpdate(ctx,
		bson.M{"_id": reviewID, "userId": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("UpdateReviewOwned: %w", err)
	}
	return r, nil
}

// DeleteReviewOwned 以單次條件刪除移除評論；回傳是否有文件被刪除
func DeleteReviewOwned(ctx context.Context, db database.DB, reviewID, ownerID primitive.ObjectID) (bool, error) {
	res, err := db.Collection(database.CollectionReviews).DeleteOne(ctx,
		bson.M{"_id": reviewID, "userId": ownerID},
	)
	if err != nil {
		return false, fmt.Errorf("DeleteReviewOwned: %w", err)
	}
	return res.DeletedCount > 0, nil
}
