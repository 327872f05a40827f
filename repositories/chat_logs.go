package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lisa/models"
)

const ChatLogsCollection = "chat_logs"

type ChatLogRepository struct {
	col *mongo.Collection
}

func NewChatLogRepository(db *mongo.Database) *ChatLogRepository {
	return &ChatLogRepository{col: db.Collection(ChatLogsCollection)}
}

// Insert 는 event_id 기준으로 한 번만 기록한다. 같은 이벤트가 재시도로 다시 들어와도
// 기존 도큐먼트를 덮어쓰지 않는다. event_id 가 없으면 그냥 추가한다.
func (r *ChatLogRepository) Insert(ctx context.Context, log models.ChatLog) error {
	if log.RequestedAt.IsZero() {
		log.RequestedAt = time.Now()
	}
	filter, ok := dedupeFilter(log)
	if !ok {
		_, err := r.col.InsertOne(ctx, log)
		return err
	}
	_, err := r.col.UpdateOne(ctx,
		filter,
		bson.M{"$setOnInsert": log},
		options.Update().SetUpsert(true),
	)
	return err
}

// dedupeFilter 는 중복 저장 판단에 쓰는 필터를 만든다.
// request_id 는 클라이언트가 재사용할 수 있으므로 키로 쓰지 않는다.
func dedupeFilter(log models.ChatLog) (bson.M, bool) {
	if log.EventID == "" {
		return nil, false
	}
	return bson.M{"event_id": log.EventID}, true
}

// CountByRoute 는 route 별 턴 수를 집계한다.
func (r *ChatLogRepository) CountByRoute(ctx context.Context, since time.Time) (map[models.ChatRoute]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"requested_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": "$route", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Route models.ChatRoute `bson:"_id"`
		Count int64            `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[models.ChatRoute]int64, len(rows))
	for _, row := range rows {
		out[row.Route] = row.Count
	}
	return out, nil
}
