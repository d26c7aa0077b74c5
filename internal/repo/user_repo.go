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

func (s *Store) users() *mongo.Collection { return s.DB.Collection("users") }

func (s *Store) EnsureUserIndexes(ctx context.Context) error {
	if _, err := s.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	// provider+external_id pair is the OAuth lookup key
	_, err := s.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "provider", Value: 1}, {Key: "external_id", Value: 1}},
	})
	return err
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.insert")
	defer sp.Finish()
	u.CreatedAt = time.Now().UTC()
	res, err := s.users().InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		sp.SetTag("error", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.update_password")
	defer sp.Finish()
	res, err := s.users().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash}})
	if err != nil {
		sp.SetTag("error", err)
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindOrCreateByExternalID resolves an OAuth identity to a local user.
// Order: provider link, then email (links the provider to an existing local
// account), then a fresh OAuth-only user with an empty password hash.
func (s *Store) FindOrCreateByExternalID(ctx context.Context, provider, externalID, email string) (*domain.User, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.find_or_create_external",
		tracer.Tag("provider", provider))
	defer sp.Finish()

	var u domain.User
	err := s.users().FindOne(ctx, bson.M{"provider": provider, "external_id": externalID}).Decode(&u)
	if err == nil {
		return &u, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	if existing, err := s.FindUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		_, err := s.users().UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"provider": provider, "external_id": externalID}})
		if err != nil {
			return nil, err
		}
		existing.Provider = provider
		existing.ExternalID = externalID
		return existing, nil
	}

	nu := &domain.User{Email: email, Provider: provider, ExternalID: externalID}
	if err := s.CreateUser(ctx, nu); err != nil {
		return nil, err
	}
	return nu, nil
}
