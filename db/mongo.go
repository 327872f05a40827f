package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var ErrNoURI = errors.New("db: MONGO_URI is not set")

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// Init 은 전역 몽고 클라이언트를 한 번만 연결하고 인덱스를 보장한다.
func Init(ctx context.Context, uri, dbName string) error {
	if uri == "" {
		return ErrNoURI
	}
	var initErr error
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			initErr = err
			return
		}
		if err := cl.Ping(ctx, readpref.Primary()); err != nil {
			_ = cl.Disconnect(context.Background())
			initErr = err
			return
		}
		d := cl.Database(dbName)
		if err := ensureIndexes(ctx, d); err != nil {
			_ = cl.Disconnect(context.Background())
			initErr = err
			return
		}
		client = cl
		db = d
	})
	return initErr
}

func Database() *mongo.Database { return db }

func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	indexes := d.Collection("chat_logs").Indexes()

	// 예전 unique request_id 인덱스가 남아 있으면 같은 request_id 의 턴이 거부된다. 없으면 에러는 무시한다.
	_, _ = indexes.DropOne(ctx, "uniq_request_id")

	// chat_logs: event_id 는 재시도 중복 방지를 위해 unique, request_id 는 조회용
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetName("uniq_event_id").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("idx_request_id"),
		},
		{
			Keys:    bson.D{{Key: "requested_at", Value: -1}},
			Options: options.Index().SetName("idx_requested_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "route", Value: 1}, {Key: "requested_at", Value: -1}},
			Options: options.Index().SetName("idx_route_requested_at"),
		},
	})
	return err
}
