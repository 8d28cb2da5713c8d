// seed inserts a development account for local testing. Idempotent: skips
// the insert if the dev account (dev@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"single-session-auth/backend/internal/config"
	"single-session-auth/backend/internal/db"
	"single-session-auth/backend/internal/identity/domain"
	"single-session-auth/backend/internal/identity/repository"
	"single-session-auth/backend/internal/security"
)

const (
	devEmail    = "dev@example.com"
	devPassword = "password123"
	devPhone    = "0811111111"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	accounts := repository.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := accounts.GetByEmail(ctx, devEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		os.Exit(0)
	}

	cipher, err := security.NewCredentialCipher([]byte(cfg.CryptoSecret))
	if err != nil {
		log.Fatalf("cipher: %v", err)
	}
	stored, err := cipher.Encrypt(devPassword)
	if err != nil {
		log.Fatalf("encrypt password: %v", err)
	}

	account := &domain.Account{
		Email:         devEmail,
		MobilePhone:   devPhone,
		Password:      stored,
		DisabledLogin: false,
		RegisterDate:  time.Now().UTC(),
	}
	if err := accounts.Create(ctx, account); err != nil {
		log.Fatalf("create dev account: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Dev login: %s / %s\n", devEmail, devPassword)
}
