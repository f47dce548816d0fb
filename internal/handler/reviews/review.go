// File: internal/handler/reviews/review.go
package reviews

import (
	"context"
	"errors"
	"net/http"
	"time"

	"melody-mart/internal/api"
	"melody-mart/internal/cache"
	"melody-mart/internal/database"
	"melody-mart/internal/middleware"
	"melody-mart/internal/model"
	"melody-mart/internal/service"
	"melody-mart/internal/store"
	"melody-mart/internal/worker"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// refreshTimeout 背景刷新快取的逾時
const refreshTimeout = 10 * time.Second

// scheduleRefresh 在背景工作池中刷新商品評論彙整快取。
// 請求的 context 在回應後即失效，背景工作必須自帶 context。
func scheduleRefresh(pool worker.Pool, db database.DB, rdb cache.Cache, productID primitive.ObjectID) {
	pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_ = service.RefreshProductReviewCache(ctx, db, rdb, productID)
	})
}

// CreateReviewHandler 建立商品評論
// @Summary     Create a review
// @Description 為商品建立評論，評分限 1..5；評論者取自令牌
// @Tags        reviews
// @Accept      json
// @Produce     json
// @Param       body body api.CreateReviewRequest true "評論資料"
// @Success     201 {object} model.Review
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /reviews [post]
func CreateReviewHandler(db database.DB, rdb cache.Cache, pool worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.CreateReviewRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid product ID"})
		}

		ctx := c.Request().Context()

		// 評論必須掛在現存商品上
		if _, err := store.GetProductByID(ctx, db, productID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "product not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		// 評論者一律取自令牌，不接受代打
		review := &model.Review{
			UserID:    p.ID,
			ProductID: productID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}

		created, err := store.CreateReview(ctx, db, review)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		scheduleRefresh(pool, db, rdb, productID)
		return c.JSON(http.StatusCreated, created)
	}
}

// ProductReviewsHandler 取得商品評論彙整
// @Summary     Product review summary
// @Description 回傳商品的評論列表、星等分布與平均分；無評論時回傳歸零彙整
// @Tags        reviews
// @Produce     json
// @Param       id path string true "商品 ID"
// @Success     200 {object} model.ReviewSummary
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /reviews/product/{id} [get]
func ProductReviewsHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid product ID"})
		}

		summary, err := service.CachedProductReviews(c.Request().Context(), db, rdb, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, summary)
	}
}

// MyReviewsHandler 取得當前使用者的所有評論
// @Summary     My reviews
// @Description 回傳當前使用者發表過的評論
// @Tags        reviews
// @Produce     json
// @Success     200 {array} model.Review
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /reviews/my [get]
func MyReviewsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		reviews, err := store.GetReviewsByUser(c.Request().Context(), db, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, reviews)
	}
}

// UpdateReviewHandler 更新評論（僅限作者本人）
// @Summary     Update a review
// @Description 以擁有者條件更新評論；非作者回傳 403，不存在回傳 404
// @Tags        reviews
// @Accept      json
// @Produce     json
// @Param       id   path string                  true "評論 ID"
// @Param       body body api.UpdateReviewRequest true "更新欄位"
// @Success     200 {object} model.Review
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /reviews/{id} [patch]
func UpdateReviewHandler(db database.DB, rdb cache.Cache, pool worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid review ID"})
		}

		var req api.UpdateReviewRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		set := bson.M{}
		if req.Rating != nil {
			set["rating"] = *req.Rating
		}
		if req.Comment != nil {
			set["comment"] = *req.Comment
		}
		if len(set) == 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "no fields to update"})
		}

		updated, err := service.UpdateReview(c.Request().Context(), db, id, p, set)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "review not found"})
			case errors.Is(err, service.ErrInvalidOwner):
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not the review author"})
			default:
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
			}
		}

		scheduleRefresh(pool, db, rdb, updated.ProductID)
		return c.JSON(http.StatusOK, updated)
	}
}

// DeleteReviewHandler 刪除評論（僅限作者本人）
// @Summary     Delete a review
// @Description 以擁有者條件刪除評論；非作者回傳 403，不存在回傳 404
// @Tags        reviews
// @Param       id path string true "評論 ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /reviews/{id} [delete]
func DeleteReviewHandler(db database.DB, rdb cache.Cache, pool worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid review ID"})
		}

		deleted, err := service.DeleteReview(c.Request().Context(), db, id, p)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "review not found"})
			case errors.Is(err, service.ErrInvalidOwner):
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not the review author"})
			default:
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
			}
		}

		scheduleRefresh(pool, db, rdb, deleted.ProductID)
		return c.NoContent(http.StatusNoContent)
	}
}
