package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/linemk/lemonade-shop/internal/config"
	"github.com/linemk/lemonade-shop/internal/storage"
	"github.com/linemk/lemonade-shop/migrations"
)

func main() {
	var migrationsPathFlag string
	flag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files (embedded migrations are used by default)")

	// MustLoad сам вызывает flag.Parse
	cfg := config.MustLoad()

	// по умолчанию берём миграции, встроенные в бинарник
	var source fs.FS = migrations.FS
	migrationsPath := migrationsPathFlag
	if migrationsPath == "" && cfg.Migrations.Path != "" {
		if _, err := os.Stat(cfg.Migrations.Path); err == nil {
			migrationsPath = cfg.Migrations.Path
		}
	}
	if migrationsPath != "" {
		source = os.DirFS(migrationsPath)
		log.Printf("Using migrations from %s", migrationsPath)
	} else {
		log.Println("Using embedded migrations")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db, source); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("Migrations applied successfully")

	rows, err := db.Query(`
		SELECT table_name 
		FROM information_schema.tables 
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
	if err != nil {
		log.Fatalf("failed to query tables: %v", err)
	}
	defer rows.Close()

	fmt.Println("Current tables in the database:")
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			log.Fatalf("failed to scan row: %v", err)
		}
		fmt.Println(" -", tableName)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("error reading rows: %v", err)
	}
}
