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

func GetUserByID(ctx context.Context, db database.DB, userID primitive.ObjectID) (*model.User, error) {
	u := &model.User{}
	err := db.Collection(database.CollectionUsers).
		FindOne(ctx, bson.M{"_id": userID}).
		Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("GetUserByID: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	u := &model.User{}
	err := db.Collection(database.CollectionUsers).
		FindOne(ctx, bson.M{"email": email}).
		Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("GetUserByEmail: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := db.Collection(database.CollectionUsers).InsertOne(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// insert 未回傳文件 ID，屬伺服器錯誤而非用戶端錯誤
		return nil, fmt.Errorf("CreateUser: missing inserted id")
	}
	u.ID = id
	return u, nil
}

func ListUsers(ctx context.Context, db database.DB) ([]model.User, error) {
	cur, err := db.Collection(database.CollectionUsers).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	var users []model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

func UpdateUser(ctx context.Context, db database.DB, userID primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()
	res, err := db.Collection(database.CollectionUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("UpdateUser: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("UpdateUser: %w", ErrNotFound)
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, db database.DB, userID primitive.ObjectID, passwordHash string) error {
	res, err := db.Collection(database.CollectionUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("UpdateUserPassword: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("UpdateUserPassword: %w", ErrNotFound)
	}
	return nil
}

func DeleteUser(ctx context.Context, db database.DB, userID primitive.ObjectID) error {
	res, err := db.Collection(database.CollectionUsers).DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("DeleteUser: %w", ErrNotFound)
	}
	return nil
}

// GetPublicUsersByIDs 以單次 $in 查詢批次解析使用者，
// 投影排除密碼哈希；查無的 ID 不會出現在結果中
func GetPublicUsersByIDs(ctx context.Context, db database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.PublicUser, error) {
	out := make(map[primitive.ObjectID]*model.PublicUser, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := db.Collection(database.CollectionUsers).Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"password": 0}),
	)
	if err != nil {
		return nil, fmt.Errorf("GetPublicUsersByIDs: %w", err)
	}
	var users []model.PublicUser
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("GetPublicUsersByIDs: %w", err)
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// IsAdminUser 回報指定 ID 是否為現存的 admin 使用者
func IsAdminUser(ctx context.Context, db database.DB, userID primitive.ObjectID) (bool, error) {
	n, err := db.Collection(database.CollectionUsers).CountDocuments(ctx,
		bson.M{"_id": userID, "role": model.RoleAdmin},
	)
	if err != nil {
		return false, fmt.Errorf("IsAdminUser: %w", err)
	}
	return n > 0, nil
}
