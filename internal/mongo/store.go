package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/pos/internal/kv"
	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "kv"

// Store keeps every POS collection as a single document of the "kv"
// collection. Writes are guarded by a version counter.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
	logger aqm.Logger
	config *aqm.Config
}

type document struct {
	ID        string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewStore(config *aqm.Config, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Store{
		logger: logger,
		config: config,
	}
}

func (s *Store) Start(ctx context.Context) error {
	connString := s.config.GetStringOrDef("db.mongo.url", "mongodb://localhost:27017")
	dbName := s.config.GetStringOrDef("db.mongo.name", "appetite_pos")

	clientOptions := options.Client().ApplyURI(connString).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	s.client = client
	s.db = client.Database(dbName)
	s.coll = s.db.Collection(collectionName)

	s.logger.Infof("Connected to MongoDB: %s, database: %s", connString, dbName)
	return nil
}

func (s *Store) Stop(ctx context.Context) error {
	if s.client != nil {
		if err := s.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		s.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

// GetDatabase exposes the database for the seed tracker.
func (s *Store) GetDatabase() *mongo.Database {
	return s.db
}

func (s *Store) Get(ctx context.Context, collection string) ([]byte, error) {
	doc, err := s.find(ctx, collection)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return doc.Payload, nil
}

func (s *Store) Set(ctx context.Context, collection string, data []byte) error {
	filter := bson.M{"_id": collection}
	update := bson.M{
		"$set": bson.M{"payload": data, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"version": int64(1)},
	}

	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cannot set %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, collection string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"_id": collection}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("cannot check %s: %w", collection, err)
	}
	return count > 0, nil
}

// Update performs a compare-and-swap on the document version and retries
// when another writer got there first.
func (s *Store) Update(ctx context.Context, collection string, fn kv.UpdateFunc) error {
	return kv.RetryOnConflict(ctx, kv.MaxUpdateAttempts, func(ctx context.Context) error {
		return s.updateOnce(ctx, collection, fn)
	})
}

func (s *Store) updateOnce(ctx context.Context, collection string, fn kv.UpdateFunc) error {
	doc, err := s.find(ctx, collection)
	if err != nil {
		return err
	}

	var current []byte
	if doc != nil {
		current = doc.Payload
	}

	next, err := fn(current)
	if errors.Is(err, kv.ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if doc == nil {
		_, err := s.coll.InsertOne(ctx, document{ID: collection, Payload: next, Version: 1, UpdatedAt: now})
		if mongo.IsDuplicateKeyError(err) {
			return kv.ErrConflict
		}
		if err != nil {
			return fmt.Errorf("cannot insert %s: %w", collection, err)
		}
		return nil
	}

	filter := bson.M{"_id": collection, "version": doc.Version}
	update := bson.M{"$set": bson.M{"payload": next, "version": doc.Version + 1, "updated_at": now}}

	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update %s: %w", collection, err)
	}
	if result.MatchedCount == 0 {
		return kv.ErrConflict
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": collection}); err != nil {
		return fmt.Errorf("cannot delete %s: %w", collection, err)
	}
	return nil
}

func (s *Store) find(ctx context.Context, collection string) (*document, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": collection}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot find %s: %w", collection, err)
	}
	return &doc, nil
}
