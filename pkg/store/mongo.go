package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "dotplot"
	DefaultCollection = "renders"
)

// MongoArchive stores records in a MongoDB collection.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoOptions configures [NewMongoArchive].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	// TTL expires records through a TTL index on created_at. Zero keeps them.
	TTL time.Duration
}

// NewMongoArchive connects, pings and ensures the indexes.
func NewMongoArchive(ctx context.Context, opts MongoOptions) (*MongoArchive, error) {
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	a := &MongoArchive{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}
	if err := a.ensureIndexes(ctx, opts.TTL); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return a, nil
}

func (a *MongoArchive) ensureIndexes(ctx context.Context, ttl time.Duration) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "input_hash", Value: 1}}},
	}
	created := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}}
	if ttl > 0 {
		created.Options = options.Index().SetExpireAfterSeconds(int32(ttl.Seconds()))
	}
	models = append(models, created)

	if _, err := a.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Save upserts r by id.
func (a *MongoArchive) Save(ctx context.Context, r Record) error {
	_, err := a.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save render %s: %w", r.ID, err)
	}
	return nil
}

func (a *MongoArchive) Get(ctx context.Context, id string) (*Record, error) {
	var r Record
	err := a.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get render %s: %w", id, err)
	}
	return &r, nil
}

// Recent returns up to limit records, newest first, without artifacts.
func (a *MongoArchive) Recent(ctx context.Context, limit int64) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"artifacts": 0})
	cur, err := a.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list renders: %w", err)
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode renders: %w", err)
	}
	return out, nil
}

// ByInput returns the newest record rendered from inputHash.
func (a *MongoArchive) ByInput(ctx context.Context, inputHash string) (*Record, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var r Record
	err := a.coll.FindOne(ctx, bson.M{"input_hash": inputHash}, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find render: %w", err)
	}
	return &r, nil
}

func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

var _ Archive = (*MongoArchive)(nil)
