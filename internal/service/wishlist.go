// File: internal/service/wishlist.go
package service

import (
	"context"
	"fmt"

	"melody-mart/internal/database"
	"melody-mart/internal/model"
	"melody-mart/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	getWishlistItemByID     = store.GetWishlistItemByID
	getWishlistByUser       = store.GetWishlistByUser
	getProductsByIDs        = store.GetProductsByIDs
	deleteWishlistItemOwned = store.DeleteWishlistItemOwned
)

// WishlistOfUser 列出使用者的收藏並解析商品；
// 商品已下架時 Product 為 nil，不中斷列表
func WishlistOfUser(ctx context.Context, db database.DB, userID primitive.ObjectID) ([]model.PopulatedWishlistItem, error) {
	items, err := getWishlistByUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	products, err := getProductsByIDs(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.PopulatedWishlistItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.PopulatedWishlistItem{
			WishlistItem: it,
			Product:      products[it.ProductID],
		})
	}
	return out, nil
}

// DeleteFromWishlist 以單次條件刪除移除收藏。
// 無匹配時再讀一次判定 NotFound 或擁有者不符
func DeleteFromWishlist(ctx context.Context, db database.DB, itemID primitive.ObjectID, p Principal) (*model.WishlistItem, error) {
	existing, err := getWishlistItemByID(ctx, db, itemID)
	if err != nil {
		return nil, err
	}
	deleted, err := deleteWishlistItemOwned(ctx, db, itemID, p.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		if err := AuthorizeMutation(existing.UserID, p); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("DeleteFromWishlist: %w", store.ErrNotFound)
	}
	return existing, nil
}
