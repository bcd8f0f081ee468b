package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures the MongoDB plan archive.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Mongo is a MongoDB-backed Store for service deployments.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.Database == "" {
		cfg.Database = "clampgen"
	}
	if cfg.Collection == "" {
		cfg.Collection = "plans"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put archives a record.
func (s *Mongo) Put(ctx context.Context, rec *Record) error {
	_, err := s.coll.InsertOne(ctx, rec)
	if err != nil {
		return fmt.Errorf("insert plan %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *Mongo) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find plan %s: %w", id, err)
	}
	return &rec, nil
}

// List returns up to limit records, newest first.
func (s *Mongo) List(ctx context.Context, limit int) ([]*Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer cur.Close(ctx)

	var out []*Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return out, nil
}

// Delete removes a record by ID.
func (s *Mongo) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
