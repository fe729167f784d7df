package main

import (
	"flag"
	"log"
	"os"

	"maia-sss/app/database"

	"github.com/golang-migrate/migrate/v4"
)

func main() {
	down := flag.Bool("down", false, "roll back one migration instead of applying all")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	if !*down {
		if err := database.RunMigrations(databaseURL); err != nil {
			log.Fatal(err)
		}
		return
	}

	m, err := database.NewMigrator(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Failed to roll back migration:", err)
	}
	log.Println("Rolled back one migration")
}
