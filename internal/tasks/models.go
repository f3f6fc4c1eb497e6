package tasks

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is the stored document shape in the "task" collection. Timestamps are
// pointers because updated_at is absent until the first mutation.
type Task struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
	CreatedAt *time.Time         `bson:"created_at,omitempty"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty"`
}

// TaskView is the client-facing representation: the ObjectID rendered as a
// hex string, timestamps as RFC 3339 strings, optional fields omitted when
// unset.
type TaskView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (t Task) View() TaskView {
	v := TaskView{
		ID:        t.ID.Hex(),
		Title:     t.Title,
		Completed: t.Completed,
	}
	if t.CreatedAt != nil {
		v.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if t.UpdatedAt != nil {
		v.UpdatedAt = t.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return v
}
