package main

import (
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"travel-companion-service/internal/adapters/repositories"
	"travel-companion-service/internal/platform/db"
)

// dbtool initializes the postgres schema for server-backed deployments.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pgDB, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pgDB.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchemaPostgres(pgDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
