package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"melody-mart/internal/cache"
	"melody-mart/internal/database"
	"melody-mart/internal/model"
	"melody-mart/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func restoreReviewSeams() {
	getReviewsByProduct = store.GetReviewsByProduct
	getPublicUsersByIDs = store.GetPublicUsersByIDs
	getReviewByID = store.GetReviewByID
	updateReviewOwned = store.UpdateReviewOwned
	deleteReviewOwned = store.DeleteReviewOwned
	jsonMarshal = json.Marshal
	jsonUnmarshal = json.Unmarshal
}

func TestAggregateProductReviews(t *testing.T) {
	t.Cleanup(restoreReviewSeams)
	ctx := context.Background()
	productID := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	ghost := primitive.NewObjectID()

	getReviewsByProduct = func(ctx context.Context, db database.DB, pid primitive.ObjectID) ([]model.Review, error) {
		require.Equal(t, productID, pid)
		return []model.Review{
			{UserID: alice, ProductID: pid, Rating: 5},
			{UserID: alice, ProductID: pid, Rating: 5},
			{UserID: bob, ProductID: pid, Rating: 4},
			{UserID: bob, ProductID: pid, Rating: 3},
			{UserID: ghost, ProductID: pid, Rating: 3},
		}, nil
	}
	getPublicUsersByIDs = func(ctx context.Context, db database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.PublicUser, error) {
		// 同一使用者的多則評論只查一次
		require.ElementsMatch(t, []primitive.ObjectID{alice, bob, ghost}, ids)
		return map[primitive.ObjectID]*model.PublicUser{
			alice: {ID: alice, Role: model.RoleUser},
			bob:   {ID: bob, Role: model.RoleUser},
			// ghost 已刪帳號，不在結果中
		}, nil
	}

	summary, err := AggregateProductReviews(ctx, &database.FakeDB{}, productID)
	require.NoError(t, err)
	require.Equal(t, 5, summary.TotalReviews)
	require.Equal(t, 4.0, summary.AverageRating)
	require.Equal(t, 0, summary.OneStar)
	require.Equal(t, 0, summary.TwoStar)
	require.Equal(t, 2, summary.ThreeStar)
	require.Equal(t, 1, summary.FourStar)
	require.Equal(t, 2, summary.FiveStar)
	require.Len(t, summary.Reviews, 5)
	require.Equal(t, alice, summary.Reviews[0].User.ID)
	// 評論者已刪帳號時 user 為 nil，彙整不中斷
	require.Nil(t, summary.Reviews[4].User)
}

func TestAggregateProductReviewsEmpty(t *testing.T) {
	t.Cleanup(restoreReviewSeams)
	getReviewsByProduct = func(ctx context.Context, db database.DB, pid primitive.ObjectID) ([]model.Review, error) {
		return nil, nil
	}
	getPublicUsersByIDs = func(ctx context.Context, db database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.PublicUser, error) {
		require.Empty(t, ids)
		return map[primitive.ObjectID]*model.PublicUser{}, nil
	}

	// 無評論是成功情境，回傳歸零摘要
	summary, err := AggregateProductReviews(context.Background(), &database.FakeDB{}, primitive.NewObjectID())
	require.NoError(t, err)
	require.Equal(t, 0, summary.TotalReviews)
	require.Equal(t, 0.0, summary.AverageRating)
	require.NotNil(t, summary.Reviews)
	require.Empty(t, summary.Reviews)
}

func TestAggregateProductReviewsLegacyRating(t *testing.T) {
	t.Cleanup(restoreReviewSeams)
	uid := primitive.NewObjectID()
	getReviewsByProduct = func(ctx context.Context, db database.DB, pid primitive.ObjectID) ([]model.Review, error) {
		return []model.Review{
			{UserID: uid, Rating: 5},
			{UserID: uid, Rating: 7}, // 寫入驗證導入前的舊文件
		}, nil
	}
	getPublicUsersByIDs = func(ctx context.Context, db database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.PublicUser, error) {
		return map[primitive.ObjectID]*model.PublicUser{uid: {ID: uid}}, nil
	}

	summary, err := AggregateProductReviews(context.Background(), &database.FakeDB{}, primitive.NewObjectID())
	require.NoError(t, err)
	// 區間外評分不進任何星等桶，但計入總數與平均
	require.Equal(t, 2, summary.TotalReviews)
	require.Equal(t, 6.0, summary.AverageRating)
	require.Equal(t, 1, summary.FiveStar)
	require.Equal(t, 1, summary.OneStar+summary.TwoStar+summary.ThreeStar+summary.FourStar+summary.FiveStar)
}

func TestAggregateProductReviewsErrors(t *testing.T) {
	t.Cleanup(restoreReviewSeams)
	getReviewsByProduct = func(ctx context.Context, db database.DB, pid primitive.ObjectID) ([]model.Review, error) {
		return nil, errors.New("find")
	}
	_, err := AggregateProductReviews(context.Background(), &database.FakeDB{}, primitive.NewObjectID())
	require.Error(t, err)

	getReviewsByProduct = func(ctx context.Context, db database.DB, pid primitive.ObjectID) ([]model.Review, error) {
		return []model.Review{{UserID: primitive.NewObjectID(), Rating: 4}}, nil
	}
	getPublicUsersByIDs = func(ctx context.Context, db database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.PublicUser, error) {
		return nil, errors.New("users")
	}
	_, err = AggregateProductReviews(context.Background(), &database.FakeDB{}, primitive.NewObjectID())
	require.Error(t, err)
}

func TestCachedProductReviews(t *testing.T) {
	t.Cleanup(restoreReviewSeams)
	ctx := context.Background()
	productID := primitive.NewObjectID()

	// 快取命中直接回傳，不回源
	cached, _ := json.Marshal(model.ReviewSummary{TotalReviews: 3, AverageRating: 4.5})
	c := &cache.FakeCache{GetFn: func(ctx context.Context, key string) *redis.StringCmd {
		require.Equal(t, "reviews:summary:"+productID.Hex(), key)
		return redis.NewStringResult(string(cached), nil)
	}}
	summary, err := CachedProductReviews(ctx, &database.FakeDB{}, c, productID)
	require.NoError(t, err)
	require.Equal(t, 3, summary.TotalReviews)

	// 未命中回源彙整並回填
	getReviewsByProduct = func(ctx context.Context, db database.DB, pid primitive.ObjectID) ([]model.Review, error) {
		return nil, nil
	}
	getPublicUsersByIDs = func(ctx context.Context, db database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.PublicUser, error) {
		return map[primitive.ObjectID]*model.PublicUser{}, nil
	}
	setCalled := false
	c = &cache.FakeCache{
		GetFn: func(ctx context.Context, key string) *redis.StringCmd {
			return redis.NewStringResult("", redis.Nil)
		},
		SetFn: func(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
			setCalled = true
			require.Equal(t, SummaryCacheTTL, ttl)
			return redis.NewStatusResult("OK", nil)
		},
	}
	summary, err = CachedProductReviews(ctx, &database.FakeDB{}, c, productID)
	require.NoError(t, err)
	require.Equal(t, 0, summary.TotalReviews)
	require.True(t, setCalled)

	// 快取內容損毀時回源，不當錯誤
	c = &cache.FakeCache{
		GetFn: func(ctx context.Context, key string) *redis.StringCmd {
			return redis.NewStringResult("{broken", nil)
		},
		SetFn: func(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		},
	}
	_, err = CachedProductReviews(ctx, &database.FakeDB{}, c, productID)
	require.NoError(t, err)

	// 回源失敗才是錯誤
	getReviewsByProduct = func(ctx context.Context, db database.DB, pid primitive.ObjectID) ([]model.Review, error) {
		return nil, errors.New("find")
	}
	c = &cache.FakeCache{GetFn: func(ctx context.Context, key string) *redis.StringCmd {
		return redis.NewStringResult("", redis.Nil)
	}}
	_, err = CachedProductReviews(ctx, &database.FakeDB{}, c, productID)
	require.Error(t, err)
}

func TestRefreshProductReviewCache(t *testing.T) {
	t.Cleanup(restoreReviewSeams)
	ctx := context.Background()
	productID := primitive.NewObjectID()

	getReviewsByProduct = func(ctx context.Context, db database.DB, pid primitive.ObjectID) ([]model.Review, error) {
		return nil, nil
	}
	getPublicUsersByIDs = func(ctx context.Context, db database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.PublicUser, error) {
		return map[primitive.ObjectID]*model.PublicUser{}, nil
	}
	setCalled := false
	c := &cache.FakeCache{SetFn: func(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
		setCalled = true
		return redis.NewStatusResult("OK", nil)
	}}
	require.NoError(t, RefreshProductReviewCache(ctx, &database.FakeDB{}, c, productID))
	require.True(t, setCalled)

	// 彙整失敗時作廢舊快取
	getReviewsByProduct = func(ctx context.Context, db database.DB, pid primitive.ObjectID) ([]model.Review, error) {
		return nil, errors.New("find")
	}
	delCalled := false
	c = &cache.FakeCache{DelFn: func(ctx context.Context, keys ...string) *redis.IntCmd {
		delCalled = true
		require.Equal(t, []string{"reviews:summary:" + productID.Hex()}, keys)
		return redis.NewIntResult(1, nil)
	}}
	require.Error(t, RefreshProductReviewCache(ctx, &database.FakeDB{}, c, productID))
	require.True(t, delCalled)
}

func TestUpdateReview(t *testing.T) {
	t.Cleanup(restoreReviewSeams)
	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	p := Principal{ID: owner, Role: model.RoleUser}

	// 條件更新命中
	updateReviewOwned = func(ctx context.Context, db database.DB, rid, oid primitive.ObjectID, set bson.M) (*model.Review, error) {
		require.Equal(t, reviewID, rid)
		require.Equal(t, owner, oid)
		return &model.Review{ID: rid, UserID: oid, Rating: 4}, nil
	}
	updated, err := UpdateReview(ctx, &database.FakeDB{}, reviewID, p, bson.M{"rating": 4})
	require.NoError(t, err)
	require.Equal(t, 4, updated.Rating)

	// 無匹配且紀錄屬於別人
	updateReviewOwned = func(ctx context.Context, db database.DB, rid, oid primitive.ObjectID, set bson.M) (*model.Review, error) {
		return nil, nil
	}
	getReviewByID = func(ctx context.Context, db database.DB, rid primitive.ObjectID) (*model.Review, error) {
		return &model.Review{ID: rid, UserID: primitive.NewObjectID()}, nil
	}
	_, err = UpdateReview(ctx, &database.FakeDB{}, reviewID, p, bson.M{"rating": 4})
	require.ErrorIs(t, err, ErrInvalidOwner)

	// 無匹配且紀錄不存在
	getReviewByID = func(ctx context.Context, db database.DB, rid primitive.ObjectID) (*model.Review, error) {
		return nil, store.ErrNotFound
	}
	_, err = UpdateReview(ctx, &database.FakeDB{}, reviewID, p, bson.M{"rating": 4})
	require.ErrorIs(t, err, store.ErrNotFound)

	// 判定讀取時紀錄仍屬操作者（條件更新與讀取間消失），視為不存在
	getReviewByID = func(ctx context.Context, db database.DB, rid primitive.ObjectID) (*model.Review, error) {
		return &model.Review{ID: rid, UserID: owner}, nil
	}
	_, err = UpdateReview(ctx, &database.FakeDB{}, reviewID, p, bson.M{"rating": 4})
	require.ErrorIs(t, err, store.ErrNotFound)

	// 條件更新本身失敗
	updateReviewOwned = func(ctx context.Context, db database.DB, rid, oid primitive.ObjectID, set bson.M) (*model.Review, error) {
		return nil, errors.New("update")
	}
	_, err = UpdateReview(ctx, &database.FakeDB{}, reviewID, p, bson.M{"rating": 4})
	require.Error(t, err)
}

func TestDeleteReview(t *testing.T) {
	t.Cleanup(restoreReviewSeams)
	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	p := Principal{ID: owner, Role: model.RoleUser}

	// 擁有者刪除成功，回傳被刪文件
	getReviewByID = func(ctx context.Context, db database.DB, rid primitive.ObjectID) (*model.Review, error) {
		return &model.Review{ID: rid, UserID: owner, ProductID: productID}, nil
	}
	deleteReviewOwned = func(ctx context.Context, db database.DB, rid, oid primitive.ObjectID) (bool, error) {
		return true, nil
	}
	deleted, err := DeleteReview(ctx, &database.FakeDB{}, reviewID, p)
	require.NoError(t, err)
	require.Equal(t, productID, deleted.ProductID)

	// 紀錄屬於別人
	getReviewByID = func(ctx context.Context, db database.DB, rid primitive.ObjectID) (*model.Review, error) {
		return &model.Review{ID: rid, UserID: primitive.NewObjectID()}, nil
	}
	deleteReviewOwned = func(ctx context.Context, db database.DB, rid, oid primitive.ObjectID) (bool, error) {
		return false, nil
	}
	_, err = DeleteReview(ctx, &database.FakeDB{}, reviewID, p)
	require.ErrorIs(t, err, ErrInvalidOwner)

	// 重複刪除同一 ID：第二次讀不到，回傳 NotFound
	getReviewByID = func(ctx context.Context, db database.DB, rid primitive.ObjectID) (*model.Review, error) {
		return nil, store.ErrNotFound
	}
	_, err = DeleteReview(ctx, &database.FakeDB{}, reviewID, p)
	require.ErrorIs(t, err, store.ErrNotFound)

	// 讀到但刪除零匹配且擁有者相符，視為剛被刪走
	getReviewByID = func(ctx context.Context, db database.DB, rid primitive.ObjectID) (*model.Review, error) {
		return &model.Review{ID: rid, UserID: owner}, nil
	}
	_, err = DeleteReview(ctx, &database.FakeDB{}, reviewID, p)
	require.ErrorIs(t, err, store.ErrNotFound)

	// 刪除本身失敗
	deleteReviewOwned = func(ctx context.Context, db database.DB, rid, oid primitive.ObjectID) (bool, error) {
		return false, errors.New("delete")
	}
	_, err = DeleteReview(ctx, &database.FakeDB{}, reviewID, p)
	require.Error(t, err)
}
