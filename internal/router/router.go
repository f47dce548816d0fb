// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"melody-mart/internal/cache"
	"melody-mart/internal/database"
	"melody-mart/internal/handler"
	"melody-mart/internal/handler/auth"
	"melody-mart/internal/handler/products"
	"melody-mart/internal/handler/reviews"
	"melody-mart/internal/handler/users"
	"melody-mart/internal/handler/wishlist"
	"melody-mart/internal/middleware"
	"melody-mart/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, pool worker.Pool) {
	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(db, rdb))

	// 註冊、登入與令牌換發
	api.POST("/auth/signup", auth.SignupHandler(db))
	api.POST("/auth/login", auth.LoginHandler(db, rdb))
	api.POST("/auth/refresh", auth.RefreshHandler(db, rdb))

	// 取得、更新當前使用者個人資料
	apiUsersMe := api.Group("/users/me", middleware.RequireAuth)
	apiUsersMe.GET("", users.GetMeHandler(db))
	apiUsersMe.PATCH("", users.UpdateMeHandler(db))
	apiUsersMe.PUT("/password", users.UpdatePasswordMeHandler(db))

	// 管理員專屬 Users CRUD
	apiUsers := api.Group("/users", middleware.RequireAdmin)
	apiUsers.GET("", users.ListUsersHandler(db))
	apiUsers.GET("/:id", users.GetUserHandler(db))
	apiUsers.PATCH("/:id", users.UpdateUserHandler(db))
	apiUsers.DELETE("/:id", users.DeleteUserHandler(db))

	// 商品瀏覽不需登入，上架與異動需權限
	apiProducts := api.Group("/products")
	apiProducts.GET("", products.ListProductsHandler(db))
	apiProducts.GET("/latest", products.LatestProductsHandler(db))
	apiProducts.GET("/:id", products.GetProductHandler(db))
	apiProducts.POST("", products.CreateProductHandler(db), middleware.RequireAdmin)
	apiProducts.PATCH("/:id", products.UpdateProductHandler(db), middleware.RequireAuth)
	apiProducts.DELETE("/:id", products.DeleteProductHandler(db), middleware.RequireAuth)

	// 評論：彙整查詢公開，其餘需登入
	apiReviews := api.Group("/reviews")
	apiReviews.GET("/product/:id", reviews.ProductReviewsHandler(db, rdb))
	apiReviews.POST("", reviews.CreateReviewHandler(db, rdb, pool), middleware.RequireAuth)
	apiReviews.GET("/my", reviews.MyReviewsHandler(db), middleware.RequireAuth)
	apiReviews.PATCH("/:id", reviews.UpdateReviewHandler(db, rdb, pool), middleware.RequireAuth)
	apiReviews.DELETE("/:id", reviews.DeleteReviewHandler(db, rdb, pool), middleware.RequireAuth)

	// 許願清單全程需登入
	apiWishlist := api.Group("/wishlist", middleware.RequireAuth)
	apiWishlist.POST("", wishlist.AddWishlistHandler(db))
	apiWishlist.GET("", wishlist.MyWishlistHandler(db))
	apiWishlist.DELETE("/:id", wishlist.DeleteWishlistHandler(db))
}
