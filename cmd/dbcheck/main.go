package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/comiclib/comiclib-api/internal/config"
	"github.com/comiclib/comiclib-api/internal/pkg/database"
)

var tables = []string{"comics", "comic_character", "photo_info", "photo_sequence"}

func main() {
	migrate := flag.Bool("migrate", false, "apply embedded migrations before inspecting")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.ClosePostgres(db)

	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	for _, table := range tables {
		var columns []struct {
			Name string `db:"column_name"`
			Type string `db:"data_type"`
		}
		err := db.SelectContext(ctx, &columns,
			`SELECT column_name, data_type FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position`, table)
		if err != nil {
			log.Printf("Failed to query %s columns: %v", table, err)
			continue
		}
		if len(columns) == 0 {
			fmt.Printf("--- %s: missing ---\n", table)
			continue
		}

		var count int64
		if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table); err != nil {
			log.Printf("Failed to count %s: %v", table, err)
		}

		fmt.Printf("--- %s (%d rows) ---\n", table, count)
		for _, c := range columns {
			fmt.Printf("%s (%s)\n", c.Name, c.Type)
		}
	}

	// photo rows whose character is gone; there is no foreign key
	var orphans int64
	if err := db.GetContext(ctx, &orphans, `
		SELECT COUNT(*) FROM photo_info p
		LEFT JOIN comic_character c ON c.id = p.character_id
		WHERE c.id IS NULL`); err != nil {
		log.Printf("Failed to count orphan photos: %v", err)
		return
	}
	fmt.Printf("--- orphan photo rows: %d ---\n", orphans)
}
