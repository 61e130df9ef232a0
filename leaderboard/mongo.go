package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoDB is the database used when none is configured.
const DefaultMongoDB = "blockfall"

type mongoRecord struct {
	ID        string    `bson:"_id"`
	Nickname  string    `bson:"nickname"`
	Score     int       `bson:"score"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoStore keeps records in the "scores" collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to uri, pings the primary and ensures the ranking index.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: mongo uri is empty", ErrUnavailable)
	}
	if database == "" {
		database = DefaultMongoDB
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect mongo: %v", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping mongo: %v", ErrUnavailable, err)
	}

	coll := client.Database(database).Collection("scores")
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "score", Value: -1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: create index: %v", ErrUnavailable, err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Add(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.coll.InsertOne(ctx, mongoRecord{
		ID:        r.ID.String(),
		Nickname:  r.Nickname,
		Score:     r.Score,
		CreatedAt: r.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: insert score: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Top(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		return []Record{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "created_at", Value: 1}}).
		SetLimit(int64(n))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find scores: %v", ErrUnavailable, err)
	}

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: read scores: %v", ErrUnavailable, err)
	}

	records := make([]Record, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad id %q: %v", ErrUnavailable, d.ID, err)
		}
		records = append(records, Record{ID: id, Nickname: d.Nickname, Score: d.Score, CreatedAt: d.CreatedAt})
	}
	return records, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
