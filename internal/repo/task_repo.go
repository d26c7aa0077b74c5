package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/medetbek/taskplanner/internal/domain"
)

func (s *Store) tasks() *mongo.Collection { return s.DB.Collection("tasks") }

func (s *Store) EnsureTaskIndexes(ctx context.Context) error {
	_, err := s.tasks().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	})
	return err
}

func (s *Store) ListTasks(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Task, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.tasks.list")
	defer sp.Finish()

	cur, err := s.tasks().Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		sp.SetTag("error", err)
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Task{}
	for cur.Next(ctx) {
		var t domain.Task
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}

func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.tasks.insert")
	defer sp.Finish()

	t.CreatedAt = time.Now().UTC()
	res, err := s.tasks().InsertOne(ctx, t)
	if err != nil {
		sp.SetTag("error", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return nil
}

// UpdateTask applies the patch under an {_id, owner_id} filter, so a foreign
// task id behaves exactly like a missing one.
func (s *Store) UpdateTask(ctx context.Context, ownerID, id primitive.ObjectID, p domain.TaskPatch) (*domain.Task, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.tasks.update")
	defer sp.Finish()

	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.DueDate != nil {
		set["due_date"] = *p.DueDate
	}

	var t domain.Task
	if len(set) == 0 {
		// nothing to change; still owner-checked
		err := s.tasks().FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&t)
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	err := s.tasks().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner_id": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		sp.SetTag("error", err)
		return nil, err
	}
	return &t, nil
}

// DeleteTask is idempotent: deleting a missing or foreign task succeeds.
func (s *Store) DeleteTask(ctx context.Context, ownerID, id primitive.ObjectID) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.tasks.delete")
	defer sp.Finish()

	_, err := s.tasks().DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		sp.SetTag("error", err)
	}
	return err
}
