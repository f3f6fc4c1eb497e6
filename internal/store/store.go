package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotConfigured is returned by every operation when no database
	// handle was established at startup.
	ErrNotConfigured = errors.New("store: database not configured")

	// ErrNotFound is returned by FindByID when no document matches.
	ErrNotFound = errors.New("store: document not found")
)

// Store wraps a MongoDB database handle with collection-generic operations.
// The zero value is an unconfigured store: every operation fails fast with
// ErrNotConfigured instead of attempting a call.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the store handle and verifies connectivity with a ping.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return ErrNotConfigured
	}
	return nil
}

// Configured reports whether a database handle is set.
func (s *Store) Configured() bool {
	return s.ready() == nil
}

// Insert adds a document to the named collection. The store assigns and
// returns the new ObjectID.
func (s *Store) Insert(ctx context.Context, collection string, fields bson.M) (primitive.ObjectID, error) {
	if err := s.ready(); err != nil {
		return primitive.NilObjectID, err
	}

	res, err := s.db.Collection(collection).InsertOne(ctx, fields)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", collection, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: unexpected id type %T", collection, res.InsertedID)
	}
	return id, nil
}

// FindAll decodes every document matching filter into results, which must be
// a pointer to a slice. An empty filter returns the whole collection.
func (s *Store) FindAll(ctx context.Context, collection string, filter bson.M, results any) error {
	if err := s.ready(); err != nil {
		return err
	}

	cur, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	if err := cur.All(ctx, results); err != nil {
		return fmt.Errorf("decode from %s: %w", collection, err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, collection string, id primitive.ObjectID, dest any) error {
	if err := s.ready(); err != nil {
		return err
	}

	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find %s in %s: %w", id.Hex(), collection, err)
	}
	return nil
}

// UpdateByID applies set as a partial merge ($set) and reports how many
// documents matched.
func (s *Store) UpdateByID(ctx context.Context, collection string, id primitive.ObjectID, set bson.M) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update %s in %s: %w", id.Hex(), collection, err)
	}
	return res.MatchedCount, nil
}

func (s *Store) DeleteByID(ctx context.Context, collection string, id primitive.ObjectID) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete %s from %s: %w", id.Hex(), collection, err)
	}
	return res.DeletedCount, nil
}

// CollectionNames lists the collections of the configured database.
func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.db.ListCollectionNames(ctx, bson.M{})
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
