package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	SessionTTLHours int
	CookieSecure    bool
	CORSOrigin      string
	FrontendURL     string
	RabbitURL       string

	OAuthStateSecret   string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURI  string
}

func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "8080"),
		Env:             getenv("APP_ENV", "development"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "noted_db"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		SessionTTLHours: getenvInt("SESSION_TTL_HOURS", 24),
		CookieSecure:    getenv("COOKIE_SECURE", "false") == "true",
		CORSOrigin:      getenv("CORS_ORIGIN", "http://localhost:3000"),
		FrontendURL:     getenv("FRONTEND_URL", "/"),
		RabbitURL:       getenv("RABBIT_URL", ""),

		OAuthStateSecret:   getenv("OAUTH_STATE_SECRET", "dev_state_secret"),
		GoogleClientID:     getenv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getenv("GOOGLE_REDIRECT_URI", ""),
		GitHubClientID:     getenv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getenv("GITHUB_CLIENT_SECRET", ""),
		GitHubRedirectURI:  getenv("GITHUB_REDIRECT_URI", ""),
	}
}

// getenvInt keeps the default on a missing, malformed or non-positive value;
// a zero TTL would mean instantly-dead sessions.
func getenvInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
