package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoConnect 用來建立 mongo client，測試可覆寫此變數
var mongoConnect = func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error) {
	return mongo.Connect(ctx, opts...)
}

type mongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

func (m *mongoDB) Collection(name string) Collection {
	return m.db.Collection(name)
}

func (m *mongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *mongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// NewMongoDatabase 建立並回傳 DB，連線後立即 Ping 確認可用
func NewMongoDatabase(ctx context.Context, uri, dbName string) (DB, error) {
	client, err := mongoConnect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &mongoDB{client: client, db: client.Database(dbName)}, nil
}
