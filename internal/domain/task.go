package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title"         json:"title"`
	Description string             `bson:"description"   json:"description"`
	DueDate     string             `bson:"due_date"      json:"dueDate"` // calendar date, no timezone semantics
	OwnerID     primitive.ObjectID `bson:"owner_id"      json:"-"`
	CreatedAt   time.Time          `bson:"created_at"    json:"created_at"`
}

// TaskPatch carries the mutable task fields; nil means "leave unchanged".
// OwnerID is deliberately absent — ownership never moves.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
}
