// @title        Melody Mart API
// @version      1.0
// @description  這是 Melody Mart 樂器商城的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"melody-mart/internal/cache"
	"melody-mart/internal/database"
	"melody-mart/internal/router"
	"melody-mart/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "melody-mart/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	newMongoDatabase = database.NewMongoDatabase
	newRedisClient   = cache.NewRedisClient
	runMigrationsFn  = database.RunMigrations
	newWorkerPool    = worker.NewPool
	startServer      = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc         = os.Exit
)

func run() error {
	// .env 缺席時沿用既有環境變數
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		return fmt.Errorf("環境變數 MONGODB_URI 未設定")
	}

	dbName := os.Getenv("MONGO_DB_NAME")
	if dbName == "" {
		return fmt.Errorf("環境變數 MONGO_DB_NAME 未設定")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}

	redisIndex := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("無效的 REDIS_DB: %v", err)
		}
		redisIndex = i
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")

	workerCount := 4
	if v := os.Getenv("WORKER_COUNT"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil || c <= 0 {
			return fmt.Errorf("無效的 WORKER_COUNT: %q", v)
		}
		workerCount = c
	}

	if err := runMigrationsFn(mongoURI, dbName); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	db, err := newMongoDatabase(context.Background(), mongoURI, dbName)
	if err != nil {
		return fmt.Errorf("MongoDB 連線失敗: %v", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Printf("關閉 MongoDB 連線失敗: %v", err)
		}
	}()

	rdb, err := newRedisClient(redisAddr, redisPassword, redisIndex)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("關閉 Redis 連線失敗: %v", err)
		}
	}()

	wp := newWorkerPool(workerCount)
	defer wp.Stop()

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// 註冊路由並注入 db、rdb 與背景工作池
	router.Setup(e, db, rdb, wp)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}
	return startServer(e, addr)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
