package tasks

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID marks a client-supplied id that is not a well-formed ObjectID.
var ErrInvalidID = errors.New("invalid task id")

// parseTaskID validates the raw path segment before anything touches the
// store.
func parseTaskID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
