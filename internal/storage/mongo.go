package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/model"
)

// Mongo implements Storage with one MongoDB collection keyed by "doc_id".
// A unique index on doc_id turns a racing duplicate insert into a
// duplicate-key error instead of a second record.
type Mongo struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongo connects, pings, and ensures the doc_id index.
func NewMongo(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Model.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	col := client.Database(cfg.Model.Database).Collection(cfg.Model.Collection)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "doc_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := col.Indexes().CreateOne(connectCtx, idx); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ensure index: %w", err)
	}

	m := newMongoFromCollection(col)
	m.client = client
	return m, nil
}

func newMongoFromCollection(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

// InsertDocument inserts one record.
func (m *Mongo) InsertDocument(ctx context.Context, doc *model.Document) error {
	_, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrDocumentExists
		}
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// FindDocument loads the first record with the given ID.
func (m *Mongo) FindDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := m.col.FindOne(ctx, bson.M{"doc_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("finding document: %w", err)
	}
	return &doc, nil
}

// DocumentExists looks up the ID with a projection so content isn't transferred.
func (m *Mongo) DocumentExists(ctx context.Context, id string) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := m.col.FindOne(ctx, bson.M{"doc_id": id}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking document: %w", err)
	}
	return true, nil
}

// DeleteDocuments removes every record with the given ID. Collections
// created before the unique index existed may hold more than one.
func (m *Mongo) DeleteDocuments(ctx context.Context, id string) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{"doc_id": id})
	if err != nil {
		return 0, fmt.Errorf("deleting documents: %w", err)
	}
	return res.DeletedCount, nil
}

// Ping checks the server connection.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}

// Close disconnects the client this store opened.
func (m *Mongo) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
