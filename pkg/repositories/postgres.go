package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cbodonnell/huntboard/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolationCode = "23505"

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a Repository backed by a Postgres connection pool.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	dir, err := os.ReadDir(migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, entry := range dir {
		if entry.IsDir() {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if _, err := pool.Exec(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) ReloadCatalog(ctx context.Context, records []models.CatalogRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM hunt_items;`); err != nil {
		return fmt.Errorf("failed to clear hunt items: %v", err)
	}

	for _, record := range records {
		q := `
		INSERT INTO hunt_items (item_name, points) VALUES ($1, $2);
		`
		if _, err := tx.Exec(ctx, q, record.Name, record.Points); err != nil {
			return fmt.Errorf("failed to insert hunt item %q: %v", record.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *PostgresRepository) CreateGame(ctx context.Context, game models.Game) error {
	q := `
	INSERT INTO games (id, name, created_at) VALUES ($1, $2, $3);
	`
	if _, err := r.pool.Exec(ctx, q, game.ID, game.Name, game.CreatedAt); err != nil {
		if isPgUniqueViolation(err) {
			return &ErrDuplicateID{ID: game.ID}
		}
		return fmt.Errorf("failed to insert game: %v", err)
	}

	return nil
}

func (r *PostgresRepository) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	q := `
	SELECT id, name, created_at FROM games WHERE id = $1;
	`
	game := &models.Game{}
	if err := r.pool.QueryRow(ctx, q, gameID).Scan(&game.ID, &game.Name, &game.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{Kind: "game", ID: gameID}
		}
		return nil, fmt.Errorf("failed to scan game: %v", err)
	}

	return game, nil
}

func (r *PostgresRepository) ListGames(ctx context.Context) ([]models.GameSummary, error) {
	q := `
	SELECT g.id, g.name, g.created_at, COALESCE(SUM(hi.points), 0) AS total_points
	FROM games g
	LEFT JOIN completions c ON g.id = c.game_id
	LEFT JOIN hunt_items hi ON c.item_id = hi.id
	GROUP BY g.id, g.name, g.created_at
	ORDER BY g.created_at DESC;
	`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %v", err)
	}
	defer rows.Close()

	games := []models.GameSummary{}
	for rows.Next() {
		var game models.GameSummary
		if err := rows.Scan(&game.ID, &game.Name, &game.CreatedAt, &game.TotalPoints); err != nil {
			return nil, fmt.Errorf("failed to scan game: %v", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %v", err)
	}

	return games, nil
}

func (r *PostgresRepository) ToggleItem(ctx context.Context, gameID string, itemID int64) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	var exists int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM games WHERE id = $1;`, gameID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check game: %v", err)
	}
	if exists == 0 {
		return false, &ErrNotFound{Kind: "game", ID: gameID}
	}

	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM hunt_items WHERE id = $1;`, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check hunt item: %v", err)
	}
	if exists == 0 {
		return false, &ErrNotFound{Kind: "item", ID: fmt.Sprintf("%d", itemID)}
	}

	var completed int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM completions WHERE game_id = $1 AND item_id = $2;`, gameID, itemID).Scan(&completed); err != nil {
		return false, fmt.Errorf("failed to check completion: %v", err)
	}

	nowCompleted := false
	if completed > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM completions WHERE game_id = $1 AND item_id = $2;`, gameID, itemID); err != nil {
			return false, fmt.Errorf("failed to delete completion: %v", err)
		}
	} else {
		q := `
		INSERT INTO completions (game_id, item_id, completed_at) VALUES ($1, $2, $3);
		`
		if _, err := tx.Exec(ctx, q, gameID, itemID, time.Now().UTC()); err != nil {
			if isPgUniqueViolation(err) {
				return false, &ErrConflict{GameID: gameID, ItemID: itemID}
			}
			return false, fmt.Errorf("failed to insert completion: %v", err)
		}
		nowCompleted = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nowCompleted, nil
}

func (r *PostgresRepository) TotalPoints(ctx context.Context, gameID string) (int, error) {
	q := `
	SELECT COALESCE(SUM(hi.points), 0) AS total_points
	FROM completions c
	JOIN hunt_items hi ON c.item_id = hi.id
	WHERE c.game_id = $1;
	`
	var total int
	if err := r.pool.QueryRow(ctx, q, gameID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to scan total points: %v", err)
	}

	return total, nil
}

func (r *PostgresRepository) Progress(ctx context.Context, gameID string) ([]models.ItemProgress, error) {
	q := `
	SELECT hi.id, hi.item_name, hi.points,
	       CASE WHEN c.item_id IS NOT NULL THEN true ELSE false END AS completed
	FROM hunt_items hi
	LEFT JOIN completions c ON hi.id = c.item_id AND c.game_id = $1
	ORDER BY hi.points DESC, hi.id ASC;
	`
	rows, err := r.pool.Query(ctx, q, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %v", err)
	}
	defer rows.Close()

	progress := []models.ItemProgress{}
	for rows.Next() {
		var item models.ItemProgress
		if err := rows.Scan(&item.ItemID, &item.Name, &item.Points, &item.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %v", err)
		}
		progress = append(progress, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress rows: %v", err)
	}

	return progress, nil
}

func (r *PostgresRepository) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM games;`).Scan(&stats.Games); err != nil {
		return nil, fmt.Errorf("failed to count games: %v", err)
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hunt_items;`).Scan(&stats.HuntItems); err != nil {
		return nil, fmt.Errorf("failed to count hunt items: %v", err)
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM completions;`).Scan(&stats.Completions); err != nil {
		return nil, fmt.Errorf("failed to count completions: %v", err)
	}

	return stats, nil
}

func (r *PostgresRepository) ClearGames(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	// completions reference games, so they go first
	if _, err := tx.Exec(ctx, `DELETE FROM completions;`); err != nil {
		return fmt.Errorf("failed to clear completions: %v", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM games;`); err != nil {
		return fmt.Errorf("failed to clear games: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *PostgresRepository) ClearCompletions(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM completions;`); err != nil {
		return fmt.Errorf("failed to clear completions: %v", err)
	}

	return nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolationCode
}
