package main

import (
	"fmt"
	"log"
	"os"

	"collabdocs/backend/internal/auth"
	"collabdocs/backend/internal/config"
	"collabdocs/backend/internal/models"
	"collabdocs/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Operator CLI for account and document maintenance. Talks straight to
// PostgreSQL; redis is not needed here.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	s := storage.NewStorageService(db, nil)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "create-user":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin create-user <username> <password>")
			os.Exit(1)
		}
		if err := createUser(s, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
		fmt.Printf("User %s created.\n", os.Args[2])

	case "list-docs":
		docs, err := s.ListDocuments()
		if err != nil {
			log.Fatalf("Error listing documents: %v", err)
		}
		for _, d := range docs {
			fmt.Printf("%s\tv%d\tlast modified by %q\n", d.ID, d.Version, d.LastModifiedBy)
		}

	case "delete-doc":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-doc <document_id>")
			os.Exit(1)
		}
		if err := s.DeleteDocument(os.Args[2]); err != nil {
			log.Fatalf("Error deleting document: %v", err)
		}
		fmt.Printf("Document %s deleted.\n", os.Args[2])

	default:
		usage()
	}
}

func createUser(s *storage.Service, username, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.CreateUser(&models.User{Username: username, PasswordHash: hash})
}

func usage() {
	fmt.Println("Usage: admin <create-user|list-docs|delete-doc> [args]")
	os.Exit(1)
}
