// File: internal/handler/products/product.go
package products

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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	latestLimit  = 8
)

// ListProductsHandler 商品列表，支援搜尋、篩選、排序與分頁
// @Summary     List products
// @Description 依查詢條件回傳含平均評分的商品列表
// @Tags        products
// @Produce     json
// @Param       searchTerm query string  false "名稱或品牌關鍵字"
// @Param       category   query string  false "商品分類"
// @Param       brand      query string  false "品牌"
// @Param       minPrice   query number  false "價格下限"
// @Param       maxPrice   query number  false "價格上限"
// @Param       page       query int     false "頁碼 (預設 1)"
// @Param       limit      query int     false "每頁筆數 (預設 10)"
// @Param       sortBy     query string  false "排序欄位 (name|price|createdAt|averageRating)"
// @Param       sortOrder  query string  false "排序方向 (asc|desc)"
// @Success     200 {object} api.ProductListResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /products [get]
func ListProductsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ListProductsRequest
		// 非數字的價格界限在 Bind 階段就會被拒絕
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid query parameters"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		if req.Category != "" && !model.Category(req.Category).Valid() {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid category"})
		}
		if req.Page == 0 {
			req.Page = defaultPage
		}
		if req.Limit == 0 {
			req.Limit = defaultLimit
		}

		filter := store.ProductFilter{
			SearchTerm: req.SearchTerm,
			Category:   req.Category,
			Brand:      req.Brand,
			MinPrice:   req.MinPrice,
			MaxPrice:   req.MaxPrice,
		}
		sort := store.ProductSort{
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
			Page:      req.Page,
			Limit:     req.Limit,
		}

		items, total, err := store.ListProducts(c.Request().Context(), db, filter, sort)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, api.ProductListResponse{
			Meta: api.ListMeta{Page: req.Page, Limit: req.Limit, Total: total},
			Data: items,
		})
	}
}

// LatestProductsHandler 最新上架商品
// @Summary     Latest products
// @Description 回傳最近上架的商品（含平均評分）
// @Tags        products
// @Produce     json
// @Success     200 {array} model.ProductWithRating
// @Failure     500 {object} api.ErrorResponse
// @Router      /products/latest [get]
func LatestProductsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := store.LatestProducts(c.Request().Context(), db, latestLimit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, items)
	}
}

// GetProductHandler 取得單一商品（含上架者公開資訊）
// @Summary     Get a product by ID
// @Description 回傳商品詳細資料，addedBy 解析為公開使用者；上架者已刪除時為 null
// @Tags        products
// @Produce     json
// @Param       id path string true "商品 ID"
// @Success     200 {object} model.PopulatedProduct
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /products/{id} [get]
func GetProductHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid product ID"})
		}

		ctx := c.Request().Context()
		product, err := store.GetProductByID(ctx, db, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "product not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		populated, err := service.PopulateProduct(ctx, db, product)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, populated)
	}
}

// CreateProductHandler 上架新商品（管理員）
// @Summary     Create a product
// @Description 建立新商品，addedBy 必須是現存管理員且與操作者一致
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       body body api.CreateProductRequest true "商品資料"
// @Success     201 {object} model.Product
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /products [post]
func CreateProductHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.CreateProductRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		addedBy, err := primitive.ObjectIDFromHex(req.AddedBy)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid addedBy ID"})
		}
		if !model.Category(req.Category).Valid() {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid category"})
		}

		product := &model.Product{
			Name:               req.Name,
			Description:        req.Description,
			Price:              req.Price,
			AllowedForDiscount: req.AllowedForDiscount,
			DiscountPercent:    req.DiscountPercent,
			Brand:              req.Brand,
			Category:           model.Category(req.Category),
			Stock:              req.Stock,
			Images:             req.Images,
			AddedBy:            addedBy,
		}

		created, err := service.CreateProduct(c.Request().Context(), db, p, product)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidOwner):
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "addedBy must match the authenticated admin"})
			case errors.Is(err, store.ErrSellerNotFound):
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "requested seller not found"})
			default:
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
			}
		}
		return c.JSON(http.StatusCreated, created)
	}
}

// productUpdateSet 將部份更新請求轉為 $set 內容
func productUpdateSet(req api.UpdateProductRequest) (bson.M, error) {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.AllowedForDiscount != nil {
		set["allowedForDiscount"] = *req.AllowedForDiscount
	}
	if req.DiscountPercent != nil {
		set["discountPercent"] = *req.DiscountPercent
	}
	if req.Brand != nil {
		set["brand"] = *req.Brand
	}
	if req.Category != nil {
		if !model.Category(*req.Category).Valid() {
			return nil, errors.New("invalid category")
		}
		set["category"] = *req.Category
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.Images != nil {
		set["images"] = req.Images
	}
	return set, nil
}

// UpdateProductHandler 更新商品（僅限上架者本人）
// @Summary     Update a product
// @Description 以擁有者條件更新商品；非擁有者回傳 403，不存在回傳 404
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id   path string                   true "商品 ID"
// @Param       body body api.UpdateProductRequest true "更新欄位"
// @Success     200 {object} model.Product
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /products/{id} [patch]
func UpdateProductHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid product ID"})
		}

		var req api.UpdateProductRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		set, err := productUpdateSet(req)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		if len(set) == 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "no fields to update"})
		}

		updated, err := service.UpdateProduct(c.Request().Context(), db, id, p, set)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "product not found"})
			case errors.Is(err, service.ErrInvalidOwner):
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not the product owner"})
			default:
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
			}
		}
		return c.JSON(http.StatusOK, updated)
	}
}

// DeleteProductHandler 下架商品（僅限上架者本人）
// @Summary     Delete a product
// @Description 以擁有者條件刪除商品；非擁有者回傳 403，不存在回傳 404
// @Tags        products
// @Param       id path string true "商品 ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /products/{id} [delete]
func DeleteProductHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid product ID"})
		}

		if _, err := service.DeleteProduct(c.Request().Context(), db, id, p); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "product not found"})
			case errors.Is(err, service.ErrInvalidOwner):
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not the product owner"})
			default:
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
			}
		}
		return c.NoContent(http.StatusNoContent)
	}
}
