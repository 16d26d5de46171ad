package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"collabdocs/backend/internal/api/handler"
	"collabdocs/backend/internal/config"
	"collabdocs/backend/internal/dochub"
	"collabdocs/backend/internal/models"
	"collabdocs/backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	if err := db.AutoMigrate(&models.Document{}, &models.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting collabdocs backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	gate := dochub.NewIdentityGate([]byte(cfg.JWTSecret), s)
	hub := dochub.NewBrokerService(s, gate, cfg.CoalesceWindow)
	hub.StartBackplaneListener(s.SubscribeEvents())
	go hub.Run()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))
	r.Use(handler.CountRequests())

	h := handler.NewHandler(hub, s, []byte(cfg.JWTSecret), cfg.TokenTTL, cfg.AllowedOrigin)

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Server is running") })
	r.GET("/metrics", handler.Metrics())
	r.GET("/ws", h.ServeWebSocket)

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	docs := r.Group("/api/documents")
	{
		docs.GET("", h.ListDocuments)
		docs.GET("/:id", h.GetDocument)

		protected := docs.Group("")
		protected.Use(h.RequireAuth())
		protected.POST("", h.CreateDocument)
		protected.PUT("/:id", h.UpdateDocument)
		protected.DELETE("/:id", h.DeleteDocument)
	}

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Server is running on port %d", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
