// File: internal/handler/wishlist/wishlist.go
package wishlist

import (
	"errors"
	"net/http"

	"melody-mart/internal/api"
	"melody-mart/internal/database"
	"melody-mart/internal/middleware"
	"melody-mart/internal/model"
	"melody-mart/internal/service"
	"melody-mart/internal/store"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddWishlistHandler 將商品加入許願清單
// @Summary     Add to wishlist
// @Description 將商品加入當前使用者的許願清單
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Param       body body api.AddWishlistRequest true "商品 ID"
// @Success     201 {object} model.WishlistItem
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /wishlist [post]
func AddWishlistHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.AddWishlistRequest
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

		// 只允許收藏現存商品
		if _, err := store.GetProductByID(ctx, db, productID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "product not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		item := &model.WishlistItem{UserID: p.ID, ProductID: productID}
		created, err := store.AddToWishlist(ctx, db, item)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusCreated, created)
	}
}

// MyWishlistHandler 取得當前使用者的許願清單
// @Summary     My wishlist
// @Description 回傳當前使用者的許願清單，商品已下架時 product 為 null
// @Tags        wishlist
// @Produce     json
// @Success     200 {array} model.PopulatedWishlistItem
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /wishlist [get]
func MyWishlistHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		items, err := service.WishlistOfUser(c.Request().Context(), db, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, items)
	}
}

// DeleteWishlistHandler 從許願清單移除項目（僅限持有人）
// @Summary     Remove from wishlist
// @Description 以擁有者條件移除許願清單項目；非持有人回傳 403，不存在回傳 404
// @Tags        wishlist
// @Param       id path string true "清單項目 ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /wishlist/{id} [delete]
func DeleteWishlistHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid wishlist item ID"})
		}

		if _, err := service.DeleteFromWishlist(c.Request().Context(), db, id, p); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "wishlist item not found"})
			case errors.Is(err, service.ErrInvalidOwner):
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not the wishlist owner"})
			default:
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
			}
		}
		return c.NoContent(http.StatusNoContent)
	}
}
