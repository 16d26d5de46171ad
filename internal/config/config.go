package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port int `envconfig:"PORT" default:"4000"`

	PostgresDSN string `envconfig:"POSTGRES_DSN" default:"host=localhost user=user password=password dbname=collabdocs port=5432 sslmode=disable"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"`

	// JWTSecret is required by the server but not by the admin CLI, so the
	// entry points validate it themselves.
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"72h"`

	// AllowedOrigin is the browser origin admitted by CORS and the
	// websocket handshake.
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"http://localhost:3001"`

	// CoalesceWindow is the quiet period after the last edit notification
	// before a document is persisted and re-broadcast.
	CoalesceWindow time.Duration `envconfig:"COALESCE_WINDOW" default:"300ms"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
