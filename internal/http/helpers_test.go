package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medetbek/taskplanner/internal/config"
	"github.com/medetbek/taskplanner/internal/domain"
	api "github.com/medetbek/taskplanner/internal/http"
	"github.com/medetbek/taskplanner/internal/log"
	"github.com/medetbek/taskplanner/internal/queue"
	"github.com/medetbek/taskplanner/internal/repo"
	"github.com/medetbek/taskplanner/internal/session"
)

// memStore implements the handler's UserStore/TaskStore/Pinger surfaces in
// memory, with the same error contract as the mongo repo.
type memStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
	tasks map[primitive.ObjectID]*domain.Task
}

func newMemStore() *memStore {
	return &memStore{
		users: map[primitive.ObjectID]*domain.User{},
		tasks: map[primitive.ObjectID]*domain.Task{},
	}
}

func (s *memStore) Ping(ctx context.Context) error { return nil }

func (s *memStore) CreateUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.users[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	e.PasswordHash = hash
	return nil
}

func (s *memStore) FindOrCreateByExternalID(ctx context.Context, provider, externalID, email string) (*domain.User, error) {
	s.mu.Lock()
	for _, e := range s.users {
		if e.Provider == provider && e.ExternalID == externalID {
			cp := *e
			s.mu.Unlock()
			return &cp, nil
		}
	}
	for _, e := range s.users {
		if e.Email == email {
			e.Provider = provider
			e.ExternalID = externalID
			cp := *e
			s.mu.Unlock()
			return &cp, nil
		}
	}
	s.mu.Unlock()
	u := &domain.User{Email: email, Provider: provider, ExternalID: externalID}
	if err := s.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *memStore) ListTasks(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Task{}
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memStore) CreateTask(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *memStore) UpdateTask(ctx context.Context, ownerID, id primitive.ObjectID, p domain.TaskPatch) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, repo.ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) DeleteTask(ctx context.Context, ownerID, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok && t.OwnerID == ownerID {
		delete(s.tasks, id)
	}
	return nil
}

type testEnv struct {
	Store    *memStore
	Sessions *session.MemoryStore
	Handler  *api.Handler
	Router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	sessions := session.NewMemory(time.Hour)
	t.Cleanup(func() { _ = sessions.Close() })

	cfg := config.Load()
	h := api.NewHandler(store, store, store, sessions, queue.NewNoop(), cfg)
	r := api.NewRouter(h, cfg.CORSOrigin)

	return &testEnv{Store: store, Sessions: sessions, Handler: h, Router: r}
}

// do issues a request against the router; cookies (usually the session
// cookie from a login response) ride along.
func (e *testEnv) do(method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

// login registers (ignoring duplicates) and logs in, returning the session
// cookie jar for subsequent calls.
func (e *testEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	_ = e.do("POST", "/auth/register", `{"email":"`+email+`","password":"`+password+`"}`, nil)
	w := e.do("POST", "/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: code=%d body=%s", email, w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("login %s: no session cookie set", email)
	}
	return cookies
}
