// Command cleargames resets hunt games without touching the item catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cbodonnell/huntboard/pkg/log"
	"github.com/cbodonnell/huntboard/pkg/repositories"
)

func main() {
	dbPath := flag.String("db", "huntboard.db", "Path to the SQLite database file")
	sqliteMigrations := flag.String("sqlite-migrations", "migrations/sqlite", "Path to the SQLite migrations directory")
	postgresMigrations := flag.String("postgres-migrations", "migrations/postgres", "Path to the Postgres migrations directory")
	all := flag.Bool("all", false, "Delete all games and completions")
	completions := flag.Bool("completions", false, "Delete all completions but keep games")
	flag.Parse()

	ctx := context.Background()

	var repository repositories.Repository
	var err error
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		repository, err = repositories.NewPostgresRepository(ctx, connStr, *postgresMigrations)
	} else {
		repository, err = repositories.NewSQLiteRepository(ctx, *dbPath, *sqliteMigrations)
	}
	if err != nil {
		log.Error("Failed to open repository: %v", err)
		os.Exit(1)
	}
	defer repository.Close(ctx)

	stats, err := repository.Stats(ctx)
	if err != nil {
		log.Error("Failed to read stats: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Games: %d\nHunt items: %d\nCompletions: %d\n", stats.Games, stats.HuntItems, stats.Completions)

	switch {
	case *all:
		if err := repository.ClearGames(ctx); err != nil {
			log.Error("Failed to clear games: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d games and %d completions\n", stats.Games, stats.Completions)
	case *completions:
		if err := repository.ClearCompletions(ctx); err != nil {
			log.Error("Failed to clear completions: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d completions\n", stats.Completions)
	}
}
