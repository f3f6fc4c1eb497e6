package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Every operation on an unconfigured store must fail fast with
// ErrNotConfigured instead of attempting a call.
func TestUnconfiguredStoreFailsFast(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()

	for name, s := range map[string]*Store{
		"zero value": {},
		"nil":        nil,
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, s.Configured())

			_, err := s.Insert(ctx, "task", bson.M{"title": "x"})
			assert.ErrorIs(t, err, ErrNotConfigured)

			var docs []bson.M
			assert.ErrorIs(t, s.FindAll(ctx, "task", bson.M{}, &docs), ErrNotConfigured)

			var doc bson.M
			assert.ErrorIs(t, s.FindByID(ctx, "task", id, &doc), ErrNotConfigured)

			_, err = s.UpdateByID(ctx, "task", id, bson.M{"completed": true})
			assert.ErrorIs(t, err, ErrNotConfigured)

			_, err = s.DeleteByID(ctx, "task", id)
			assert.ErrorIs(t, err, ErrNotConfigured)

			_, err = s.CollectionNames(ctx)
			assert.ErrorIs(t, err, ErrNotConfigured)

			assert.ErrorIs(t, s.Ping(ctx), ErrNotConfigured)

			// Close is a no-op without a client.
			assert.NoError(t, s.Close(ctx))
		})
	}
}
