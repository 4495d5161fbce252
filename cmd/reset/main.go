package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/meridwen/QuestBoard_Go/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if os.Getenv("STORAGE_BACKEND") == "jsonfile" {
		resetSnapshot()
		return
	}
	resetDatabase()
}

// resetSnapshot wipes the jsonfile backend's snapshot.
func resetSnapshot() {
	path := os.Getenv("DATA_PATH")
	if path == "" {
		path = "data/quests.json"
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			log.Printf("Snapshot %s does not exist, nothing to reset.\n", path)
			return
		}
		log.Fatalf("Failed to remove snapshot: %v", err)
	}
	log.Printf("Snapshot %s removed.\n", path)
	log.Println("✅ Board reset complete!")
}

// resetDatabase drops and recreates the postgres database.
func resetDatabase() {
	dbName := os.Getenv("DB_NAME")

	// Connect to the server-level postgres database to manage the target.
	serverConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
	)

	serverPool, err := database.NewPool(serverConnString, 10, 30*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL server: %v", err)
	}
	defer serverPool.Close()

	ctx := context.Background()

	log.Printf("Terminating existing connections to database %s...\n", dbName)
	_, err = serverPool.Exec(ctx, fmt.Sprintf(`
		SELECT pg_terminate_backend(pg_stat_activity.pid)
		FROM pg_stat_activity
		WHERE pg_stat_activity.datname = '%s'
		AND pid <> pg_backend_pid()
	`, dbName))
	if err != nil {
		log.Printf("Warning: Failed to terminate connections: %v\n", err)
	}

	log.Printf("Dropping database %s if it exists...\n", dbName)
	if _, err = serverPool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}

	log.Printf("Creating database %s...\n", dbName)
	if _, err = serverPool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}

	log.Println("✅ Database reset complete!")
	log.Println("Next step: Run the setup tool to apply the schema")
}
