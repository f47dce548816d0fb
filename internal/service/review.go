// File: internal/service/review.go
package service

import (
	"context"
	"fmt"
	"time"

	"melody-mart/internal/cache"
	"melody-mart/internal/database"
	"melody-mart/internal/model"
	"melody-mart/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	getReviewsByProduct = store.GetReviewsByProduct
	getPublicUsersByIDs = store.GetPublicUsersByIDs
	getReviewByID       = store.GetReviewByID
	updateReviewOwned   = store.UpdateReviewOwned
	deleteReviewOwned   = store.DeleteReviewOwned
)

// SummaryCacheTTL 商品評論摘要的快取存活時間
const SummaryCacheTTL = 5 * time.Minute

func summaryCacheKey(productID primitive.ObjectID) string {
	return "reviews:summary:" + productID.Hex()
}

// AggregateProductReviews 彙整單一商品的所有評論：
// 解析評論者的公開資訊（已刪除的使用者以 nil 呈現，不中斷彙整）、
// 統計 1..5 星各自的數量並計算平均評分。
// 區間外的評分（寫入驗證導入前的舊文件）不納入任何星等桶，
// 但仍計入 totalReviews 與評分總和。
// 查無評論回傳全零摘要，不是錯誤
func AggregateProductReviews(ctx context.Context, db database.DB, productID primitive.ObjectID) (*model.ReviewSummary, error) {
	reviews, err := getReviewsByProduct(ctx, db, productID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(reviews))
	seen := make(map[primitive.ObjectID]bool, len(reviews))
	for _, r := range reviews {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			ids = append(ids, r.UserID)
		}
	}
	users, err := getPublicUsersByIDs(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	summary := &model.ReviewSummary{
		Reviews: make([]model.PopulatedReview, 0, len(reviews)),
	}
	var sum int
	for _, r := range reviews {
		summary.Reviews = append(summary.Reviews, model.PopulatedReview{
			Review: r,
			User:   users[r.UserID],
		})
		summary.TotalReviews++
		sum += r.Rating
		switch r.Rating {
		case 1:
			summary.OneStar++
		case 2:
			summary.TwoStar++
		case 3:
			summary.ThreeStar++
		case 4:
			summary.FourStar++
		case 5:
			summary.FiveStar++
		}
	}
	if summary.TotalReviews > 0 {
		summary.AverageRating = float64(sum) / float64(summary.TotalReviews)
	}
	return summary, nil
}

// CachedProductReviews 先查快取，未命中再彙整並回填
func CachedProductReviews(ctx context.Context, db database.DB, c cache.Cache, productID primitive.ObjectID) (*model.ReviewSummary, error) {
	key := summaryCacheKey(productID)
	// 快取未命中或故障都不阻斷讀取，直接回源
	if raw, err := c.Get(ctx, key).Result(); err == nil {
		summary := &model.ReviewSummary{}
		if err := jsonUnmarshal([]byte(raw), summary); err == nil {
			return summary, nil
		}
	}

	summary, err := AggregateProductReviews(ctx, db, productID)
	if err != nil {
		return nil, err
	}
	if data, err := jsonMarshal(summary); err == nil {
		_ = c.Set(ctx, key, data, SummaryCacheTTL).Err()
	}
	return summary, nil
}

// RefreshProductReviewCache 重新彙整並覆寫快取，供評論異動後由 worker 執行
func RefreshProductReviewCache(ctx context.Context, db database.DB, c cache.Cache, productID primitive.ObjectID) error {
	summary, err := AggregateProductReviews(ctx, db, productID)
	if err != nil {
		_ = c.Del(ctx, summaryCacheKey(productID)).Err()
		return err
	}
	data, err := jsonMarshal(summary)
	if err != nil {
		return err
	}
	return c.Set(ctx, summaryCacheKey(productID), data, SummaryCacheTTL).Err()
}

// UpdateReview 以單次條件更新修改評論並回傳更新後文件。
// 無匹配時再讀一次判定：紀錄不存在回傳 store.ErrNotFound，
// 存在但擁有者不符回傳 ErrInvalidOwner
func UpdateReview(ctx context.Context, db database.DB, reviewID primitive.ObjectID, p Principal, set bson.M) (*model.Review, error) {
	updated, err := updateReviewOwned(ctx, db, reviewID, p.ID, set)
	if err != nil {
		return nil, err
	}
	if updated != nil {
		return updated, nil
	}

	existing, err := getReviewByID(ctx, db, reviewID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeMutation(existing.UserID, p); err != nil {
		return nil, err
	}
	// 條件更新與判定讀取之間紀錄易主或消失，視為不存在
	return nil, fmt.Errorf("UpdateReview: %w", store.ErrNotFound)
}

// DeleteReview 以單次條件刪除移除評論，判定邏輯同 UpdateReview。
// 重複刪除同一 ID 時兩次都回傳 store.ErrNotFound
func DeleteReview(ctx context.Context, db database.DB, reviewID primitive.ObjectID, p Principal) (*model.Review, error) {
	existing, err := getReviewByID(ctx, db, reviewID)
	if err != nil {
		return nil, err
	}
	deleted, err := deleteReviewOwned(ctx, db, reviewID, p.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		if err := AuthorizeMutation(existing.UserID, p); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("DeleteReview: %w", store.ErrNotFound)
	}
	return existing, nil
}
