// File: internal/service/product.go
package service

import (
	"context"
	"errors"
	"fmt"

	"melody-mart/internal/database"
	"melody-mart/internal/model"
	"melody-mart/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	createProduct      = store.CreateProduct
	getProductByID     = store.GetProductByID
	updateProductOwned = store.UpdateProductOwned
	deleteProductOwned = store.DeleteProductOwned
	getUserByID        = store.GetUserByID
)

// CreateProduct 建立商品。宣告的 addedBy 必須等於操作者本人，
// store 層另行驗證該 ID 屬於 admin 使用者
func CreateProduct(ctx context.Context, db database.DB, p Principal, product *model.Product) (*model.Product, error) {
	if err := AuthorizeMutation(product.AddedBy, p); err != nil {
		return nil, err
	}
	return createProduct(ctx, db, product)
}

// PopulateProduct 將 addedBy 解析為公開使用者；關聯失效時 AddedBy 為 nil，
// 其餘查詢錯誤照常回傳
func PopulateProduct(ctx context.Context, db database.DB, product *model.Product) (*model.PopulatedProduct, error) {
	populated := &model.PopulatedProduct{Product: *product}
	owner, err := getUserByID(ctx, db, product.AddedBy)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return populated, nil
		}
		return nil, err
	}
	populated.AddedBy = owner.Public()
	return populated, nil
}

// UpdateProduct 以單次條件更新（_id 且 addedBy 符合）修改商品。
// 無匹配時再讀一次判定 NotFound 或擁有者不符
func UpdateProduct(ctx context.Context, db database.DB, productID primitive.ObjectID, p Principal, set bson.M) (*model.Product, error) {
	matched, err := updateProductOwned(ctx, db, productID, p.ID, set)
	if err != nil {
		return nil, err
	}
	if matched {
		return getProductByID(ctx, db, productID)
	}

	existing, err := getProductByID(ctx, db, productID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeMutation(existing.AddedBy, p); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("UpdateProduct: %w", store.ErrNotFound)
}

// DeleteProduct 以單次條件刪除移除商品，判定邏輯同 UpdateProduct
func DeleteProduct(ctx context.Context, db database.DB, productID primitive.ObjectID, p Principal) (*model.Product, error) {
	existing, err := getProductByID(ctx, db, productID)
	if err != nil {
		return nil, err
	}
	deleted, err := deleteProductOwned(ctx, db, productID, p.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		if err := AuthorizeMutation(existing.AddedBy, p); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("DeleteProduct: %w", store.ErrNotFound)
	}
	return existing, nil
}
