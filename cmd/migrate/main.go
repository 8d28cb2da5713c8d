// migrate applies the auth schema migrations embedded in internal/db;
// run via go run ./cmd/migrate.
package main

import (
	"errors"
	"flag"
	"log"

	"single-session-auth/backend/internal/config"
	"single-session-auth/backend/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("auth schema already up to date")
			return
		}
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("auth schema migrated (%s)", *direction)
}
