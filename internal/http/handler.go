package http

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medetbek/taskplanner/internal/config"
	"github.com/medetbek/taskplanner/internal/domain"
	"github.com/medetbek/taskplanner/internal/oauth"
	"github.com/medetbek/taskplanner/internal/queue"
	"github.com/medetbek/taskplanner/internal/session"
)

// UserStore is the credential-store surface the handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	FindOrCreateByExternalID(ctx context.Context, provider, externalID, email string) (*domain.User, error)
}

// TaskStore is the owner-scoped task surface. Every method filters by owner;
// an id belonging to someone else is indistinguishable from a missing one.
type TaskStore interface {
	ListTasks(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Task, error)
	CreateTask(ctx context.Context, t *domain.Task) error
	UpdateTask(ctx context.Context, ownerID, id primitive.ObjectID, p domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, id primitive.ObjectID) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Users    UserStore
	Tasks    TaskStore
	DB       Pinger
	Sessions session.Store
	Events   queue.Publisher

	Providers map[string]oauth.Provider
	Signer    *oauth.Signer

	SessionTTL   time.Duration
	CookieSecure bool
	FrontendURL  string
}

func NewHandler(users UserStore, tasks TaskStore, db Pinger, sessions session.Store, pub queue.Publisher, cfg config.Config) *Handler {
	return &Handler{
		Users:        users,
		Tasks:        tasks,
		DB:           db,
		Sessions:     sessions,
		Events:       pub,
		Providers:    map[string]oauth.Provider{},
		Signer:       oauth.NewSigner(cfg.OAuthStateSecret),
		SessionTTL:   time.Duration(cfg.SessionTTLHours) * time.Hour,
		CookieSecure: cfg.CookieSecure,
		FrontendURL:  cfg.FrontendURL,
	}
}
