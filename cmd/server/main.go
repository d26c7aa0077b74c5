package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	_ "github.com/medetbek/taskplanner/docs"
	"github.com/medetbek/taskplanner/internal/config"
	api "github.com/medetbek/taskplanner/internal/http"
	"github.com/medetbek/taskplanner/internal/log"
	"github.com/medetbek/taskplanner/internal/metrics"
	"github.com/medetbek/taskplanner/internal/oauth"
	"github.com/medetbek/taskplanner/internal/queue"
	"github.com/medetbek/taskplanner/internal/repo"
	"github.com/medetbek/taskplanner/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if _, err := log.Init(cfg.Env == "production"); err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Env == "production" {
		tracer.Start(tracer.WithService("taskplanner"))
		defer tracer.Stop()
	}

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Errorf("mongo connect: %v", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())
	if err := store.EnsureUserIndexes(ctx); err != nil {
		log.Errorf("user indexes: %v", err)
		os.Exit(1)
	}
	if err := store.EnsureTaskIndexes(ctx); err != nil {
		log.Errorf("task indexes: %v", err)
		os.Exit(1)
	}

	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	var sessions session.Store
	if cfg.RedisAddr != "" {
		rs := session.NewRedis(cfg.RedisAddr, ttl)
		if err := rs.Ping(ctx); err != nil {
			log.Errorf("redis connect: %v", err)
			os.Exit(1)
		}
		sessions = rs
	} else {
		log.Infof("REDIS_ADDR not set, using in-memory sessions")
		sessions = session.NewMemory(ttl)
	}
	defer sessions.Close()

	var pub queue.Publisher
	if cfg.RabbitURL != "" {
		rp, err := queue.NewRabbit(cfg.RabbitURL, queue.Exchange)
		if err != nil {
			log.Errorf("rabbit connect: %v", err)
			os.Exit(1)
		}
		pub = rp
	} else {
		pub = queue.NewNoop()
	}
	defer pub.Close()

	h := api.NewHandler(store, store, store, sessions, pub, cfg)
	if cfg.GoogleClientID != "" {
		h.Providers["google"] = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	}
	if cfg.GitHubClientID != "" {
		h.Providers["github"] = oauth.NewGitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURI)
	}

	r := api.NewRouter(h, cfg.CORSOrigin)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	log.Infof("taskplanner listening on :%s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Infof("signal: %s, shutting down", s)
	case err := <-srvErr:
		log.Errorf("server error: %v", err)
	}
}
