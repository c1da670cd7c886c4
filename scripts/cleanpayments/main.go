package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Marks payment records failed when they have been stuck in pending for more
// than 7 days. These are lifecycle callbacks that never arrived; the wallet
// SDK will not drive them any further.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM payments WHERE status = 'pending' AND created_at < NOW() - INTERVAL '7 days'`).Scan(&count)
	if err != nil {
		log.Fatalf("Failed to count stale payments: %v", err)
	}

	if count == 0 {
		log.Println("No stale pending payments found")
		return
	}

	log.Printf("Found %d stale pending payments", count)

	res, err := db.Exec(`UPDATE payments SET status = 'failed' WHERE status = 'pending' AND created_at < NOW() - INTERVAL '7 days'`)
	if err != nil {
		log.Fatalf("Failed to fail stale payments: %v", err)
	}

	affected, _ := res.RowsAffected()
	log.Printf("Marked %d payments failed", affected)
}
