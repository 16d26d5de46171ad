package handler

import (
	"time"

	"collabdocs/backend/internal/dochub"
	"collabdocs/backend/internal/storage"
)

// Handler carries the dependencies shared by all HTTP endpoints.
type Handler struct {
	Hub           *dochub.BrokerService
	Storage       storage.Storage
	JWTSecret     []byte
	TokenTTL      time.Duration
	AllowedOrigin string
}

func NewHandler(hub *dochub.BrokerService, s storage.Storage, jwtSecret []byte, tokenTTL time.Duration, allowedOrigin string) *Handler {
	return &Handler{
		Hub:           hub,
		Storage:       s,
		JWTSecret:     jwtSecret,
		TokenTTL:      tokenTTL,
		AllowedOrigin: allowedOrigin,
	}
}
