package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 5 * time.Second

// MongoSink MongoDB输出端
// 功能：把信封按BSON文档写入集合，附带运行ID、记录键与仿真时间
type MongoSink struct {
	client *mongo.Client
	col    *mongo.Collection
	runID  string
}

// NewMongoSink 连接MongoDB
// 参数：uri-连接字符串，db-数据库名，col-集合名，runID-运行ID
func NewMongoSink(uri, db, col, runID string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoSink{client: client, col: client.Database(db).Collection(col), runID: runID}, nil
}

func (s *MongoSink) Name() string { return "mongo" }

// Document 记录对应的BSON文档
func (s *MongoSink) Document(r Record, envelope []byte) (bson.D, error) {
	var body bson.D
	if err := bson.UnmarshalExtJSON(envelope, false, &body); err != nil {
		return nil, fmt.Errorf("envelope to bson: %w", err)
	}
	return bson.D{
		{Key: "run_id", Value: s.runID},
		{Key: "key", Value: r.Key},
		{Key: "t", Value: r.Time},
		{Key: "envelope", Value: body},
	}, nil
}

func (s *MongoSink) Write(r Record, envelope []byte) error {
	doc, err := s.Document(r, envelope)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	_, err = s.col.InsertOne(ctx, doc)
	return err
}

func (s *MongoSink) Close() error {
	return s.client.Disconnect(context.Background())
}
