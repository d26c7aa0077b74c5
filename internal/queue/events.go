package queue

import "go.mongodb.org/mongo-driver/bson/primitive"

// Routing keys on the auth.events exchange.
const (
	Exchange       = "auth.events"
	KeyRegistered  = "user.registered"
	KeyLoggedIn    = "user.loggedin"
	KeyTaskCreated = "task.created"
)

type UserRegistered struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
}

type UserLoggedIn struct {
	UserID   primitive.ObjectID `json:"user_id"`
	Email    string             `json:"email"`
	Provider string             `json:"provider"`
}

type TaskCreated struct {
	TaskID  primitive.ObjectID `json:"task_id"`
	OwnerID primitive.ObjectID `json:"owner_id"`
	DueDate string             `json:"due_date"`
}
