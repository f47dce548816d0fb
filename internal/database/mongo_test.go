package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestNewMongoDatabaseConnectError(t *testing.T) {
	orig := mongoConnect
	defer func() { mongoConnect = orig }()

	mongoConnect = func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error) {
		return nil, errors.New("connect")
	}
	db, err := NewMongoDatabase(context.Background(), "mongodb://localhost:27017", "melodymart")
	require.Error(t, err)
	require.Nil(t, db)
}

func TestNewMongoDatabasePingError(t *testing.T) {
	// 連不上的位址，短逾時讓 Ping 快速失敗
	uri := "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=100&connectTimeoutMS=100"
	db, err := NewMongoDatabase(context.Background(), uri, "melodymart")
	require.Error(t, err)
	require.Nil(t, db)
}
