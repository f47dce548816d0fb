package reviews

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"melody-mart/internal/cache"
	"melody-mart/internal/database"
	"melody-mart/internal/middleware"
	"melody-mart/internal/model"
	"melody-mart/internal/service"
	"melody-mart/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nopPool 只記錄排程次數，不執行背景工作，
// 避免測試結束後 goroutine 還在碰 Fake 資源
type nopPool struct{ submitted int }

func (p *nopPool) Submit(worker.Job) { p.submitted++ }
func (p *nopPool) Stop()             {}

type structValidator struct{ v *validator.Validate }

func (s structValidator) Validate(i any) error { return s.v.Struct(i) }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = structValidator{v: validator.New()}
	return e
}

func newJSONCtx(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func reviewsDB(t *testing.T, col database.Collection) *database.FakeDB {
	t.Helper()
	return &database.FakeDB{CollectionFn: func(name string) database.Collection {
		require.Equal(t, database.CollectionReviews, name)
		return col
	}}
}

func singleResult(doc any, err error) *mongo.SingleResult {
	if doc == nil {
		doc = bson.D{}
	}
	return mongo.NewSingleResultFromDocument(doc, err, nil)
}

func TestCreateReviewHandler(t *testing.T) {
	e := newEcho()
	uid := primitive.NewObjectID()
	pid := primitive.NewObjectID()
	p := service.Principal{ID: uid, Role: model.RoleUser}
	rdb := &cache.FakeCache{}

	// 未帶 principal
	ctx, rec := newJSONCtx(e, http.MethodPost, "/", `{"productId":"`+pid.Hex()+`","rating":5}`)
	require.NoError(t, CreateReviewHandler(&database.FakeDB{}, rdb, &nopPool{})(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// 評分超出 1..5
	ctx, rec = newJSONCtx(e, http.MethodPost, "/", `{"productId":"`+pid.Hex()+`","rating":9}`)
	ctx.Set(middleware.ContextUserKey, p)
	require.NoError(t, CreateReviewHandler(&database.FakeDB{}, rdb, &nopPool{})(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// 商品不存在
	products := &database.FakeCollection{FindOneFn: func(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
		return singleResult(nil, mongo.ErrNoDocuments)
	}}
	db := &database.FakeDB{CollectionFn: func(name string) database.Collection { return products }}
	ctx, rec = newJSONCtx(e, http.MethodPost, "/", `{"productId":"`+pid.Hex()+`","rating":5}`)
	ctx.Set(middleware.ContextUserKey, p)
	require.NoError(t, CreateReviewHandler(db, rdb, &nopPool{})(ctx))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// success：評論者取自令牌並排程快取刷新
	newID := primitive.NewObjectID()
	products = &database.FakeCollection{FindOneFn: func(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
		return singleResult(model.Product{ID: pid}, nil)
	}}
	reviews := &database.FakeCollection{InsertOneFn: func(ctx context.Context, doc any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
		r := doc.(*model.Review)
		require.Equal(t, uid, r.UserID)
		require.Equal(t, pid, r.ProductID)
		require.Equal(t, 4, r.Rating)
		return &mongo.InsertOneResult{InsertedID: newID}, nil
	}}
	db = &database.FakeDB{CollectionFn: func(name string) database.Collection {
		if name == database.CollectionProducts {
			return products
		}
		return reviews
	}}
	pool := &nopPool{}
	ctx, rec = newJSONCtx(e, http.MethodPost, "/", `{"productId":"`+pid.Hex()+`","rating":4,"comment":"warm tone"}`)
	ctx.Set(middleware.ContextUserKey, p)
	require.NoError(t, CreateReviewHandler(db, rdb, pool)(ctx))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), newID.Hex())
	require.Equal(t, 1, pool.submitted)
}

func TestProductReviewsHandler(t *testing.T) {
	e := newEcho()
	pid := primitive.NewObjectID()

	// invalid id
	ctx, rec := newJSONCtx(e, http.MethodGet, "/", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues("bad")
	require.NoError(t, ProductReviewsHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// 快取命中時不回源
	cached, err := json.Marshal(model.ReviewSummary{TotalReviews: 2, AverageRating: 4.5, FourStar: 1, FiveStar: 1})
	require.NoError(t, err)
	rdb := &cache.FakeCache{GetFn: func(ctx context.Context, key string) *redis.StringCmd {
		require.Equal(t, "reviews:summary:"+pid.Hex(), key)
		return redis.NewStringResult(string(cached), nil)
	}}
	ctx, rec = newJSONCtx(e, http.MethodGet, "/", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues(pid.Hex())
	require.NoError(t, ProductReviewsHandler(&database.FakeDB{}, rdb)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"totalReviews":2`)

	// 無任何評論的商品仍是 200，回傳歸零摘要
	reviews := &database.FakeCollection{FindFn: func(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error) {
		return mongo.NewCursorFromDocuments([]any{}, nil, nil)
	}}
	rdb = &cache.FakeCache{
		GetFn: func(ctx context.Context, key string) *redis.StringCmd {
			return redis.NewStringResult("", redis.Nil)
		},
		SetFn: func(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		},
	}
	ctx, rec = newJSONCtx(e, http.MethodGet, "/", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues(pid.Hex())
	require.NoError(t, ProductReviewsHandler(reviewsDB(t, reviews), rdb)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"totalReviews":0`)
	require.Contains(t, rec.Body.String(), `"reviews":[]`)
}

func TestMyReviewsHandler(t *testing.T) {
	e := newEcho()
	uid := primitive.NewObjectID()

	ctx, rec := newJSONCtx(e, http.MethodGet, "/", "")
	require.NoError(t, MyReviewsHandler(&database.FakeDB{})(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	reviews := &database.FakeCollection{FindFn: func(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error) {
		require.Equal(t, bson.M{"userId": uid}, filter)
		return mongo.NewCursorFromDocuments([]any{
			model.Review{UserID: uid, Rating: 5, Comment: "love it"},
		}, nil, nil)
	}}
	ctx, rec = newJSONCtx(e, http.MethodGet, "/", "")
	ctx.Set(middleware.ContextUserKey, service.Principal{ID: uid, Role: model.RoleUser})
	require.NoError(t, MyReviewsHandler(reviewsDB(t, reviews))(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "love it")
}

func TestUpdateReviewHandler(t *testing.T) {
	e := newEcho()
	rid := primitive.NewObjectID()
	uid := primitive.NewObjectID()
	pid := primitive.NewObjectID()
	p := service.Principal{ID: uid, Role: model.RoleUser}
	rdb := &cache.FakeCache{}

	// 空更新
	ctx, rec := newJSONCtx(e, http.MethodPatch, "/", `{}`)
	ctx.Set(middleware.ContextUserKey, p)
	ctx.SetParamNames("id")
	ctx.SetParamValues(rid.Hex())
	require.NoError(t, UpdateReviewHandler(&database.FakeDB{}, rdb, &nopPool{})(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// 非作者：條件更新零匹配，判定讀取發現評論屬於別人
	col := &database.FakeCollection{
		FindOneAndUpdateFn: func(ctx context.Context, filter, update any, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
			require.Equal(t, bson.M{"_id": rid, "userId": uid}, filter)
			return singleResult(nil, mongo.ErrNoDocuments)
		},
		FindOneFn: func(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
			return singleResult(model.Review{ID: rid, UserID: primitive.NewObjectID()}, nil)
		},
	}
	pool := &nopPool{}
	ctx, rec = newJSONCtx(e, http.MethodPatch, "/", `{"rating":3}`)
	ctx.Set(middleware.ContextUserKey, p)
	ctx.SetParamNames("id")
	ctx.SetParamValues(rid.Hex())
	require.NoError(t, UpdateReviewHandler(reviewsDB(t, col), rdb, pool)(ctx))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Zero(t, pool.submitted)

	// 不存在
	col = &database.FakeCollection{
		FindOneAndUpdateFn: func(ctx context.Context, filter, update any, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
			return singleResult(nil, mongo.ErrNoDocuments)
		},
		FindOneFn: func(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
			return singleResult(nil, mongo.ErrNoDocuments)
		},
	}
	ctx, rec = newJSONCtx(e, http.MethodPatch, "/", `{"rating":3}`)
	ctx.Set(middleware.ContextUserKey, p)
	ctx.SetParamNames("id")
	ctx.SetParamValues(rid.Hex())
	require.NoError(t, UpdateReviewHandler(reviewsDB(t, col), rdb, &nopPool{})(ctx))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// success：更新後排程該商品的快取刷新
	col = &database.FakeCollection{
		FindOneAndUpdateFn: func(ctx context.Context, filter, update any, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
			set := update.(bson.M)["$set"].(bson.M)
			require.Equal(t, 3, set["rating"])
			return singleResult(model.Review{ID: rid, UserID: uid, ProductID: pid, Rating: 3}, nil)
		},
	}
	pool = &nopPool{}
	ctx, rec = newJSONCtx(e, http.MethodPatch, "/", `{"rating":3}`)
	ctx.Set(middleware.ContextUserKey, p)
	ctx.SetParamNames("id")
	ctx.SetParamValues(rid.Hex())
	require.NoError(t, UpdateReviewHandler(reviewsDB(t, col), rdb, pool)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"rating":3`)
	require.Equal(t, 1, pool.submitted)
}

func TestDeleteReviewHandler(t *testing.T) {
	e := newEcho()
	rid := primitive.NewObjectID()
	uid := primitive.NewObjectID()
	pid := primitive.NewObjectID()
	p := service.Principal{ID: uid, Role: model.RoleUser}
	rdb := &cache.FakeCache{}

	// 不存在
	col := &database.FakeCollection{FindOneFn: func(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
		return singleResult(nil, mongo.ErrNoDocuments)
	}}
	ctx, rec := newJSONCtx(e, http.MethodDelete, "/", "")
	ctx.Set(middleware.ContextUserKey, p)
	ctx.SetParamNames("id")
	ctx.SetParamValues(rid.Hex())
	require.NoError(t, DeleteReviewHandler(reviewsDB(t, col), rdb, &nopPool{})(ctx))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// 非作者
	col = &database.FakeCollection{
		FindOneFn: func(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
			return singleResult(model.Review{ID: rid, UserID: primitive.NewObjectID(), ProductID: pid}, nil)
		},
		DeleteOneFn: func(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
			require.Equal(t, bson.M{"_id": rid, "userId": uid}, filter)
			return &mongo.DeleteResult{DeletedCount: 0}, nil
		},
	}
	pool := &nopPool{}
	ctx, rec = newJSONCtx(e, http.MethodDelete, "/", "")
	ctx.Set(middleware.ContextUserKey, p)
	ctx.SetParamNames("id")
	ctx.SetParamValues(rid.Hex())
	require.NoError(t, DeleteReviewHandler(reviewsDB(t, col), rdb, pool)(ctx))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Zero(t, pool.submitted)

	// success
	col = &database.FakeCollection{
		FindOneFn: func(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
			return singleResult(model.Review{ID: rid, UserID: uid, ProductID: pid}, nil)
		},
		DeleteOneFn: func(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		},
	}
	pool = &nopPool{}
	ctx, rec = newJSONCtx(e, http.MethodDelete, "/", "")
	ctx.Set(middleware.ContextUserKey, p)
	ctx.SetParamNames("id")
	ctx.SetParamValues(rid.Hex())
	require.NoError(t, DeleteReviewHandler(reviewsDB(t, col), rdb, pool)(ctx))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 1, pool.submitted)
}
