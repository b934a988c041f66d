package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cbodonnell/huntboard/pkg/repositories/models"
	"github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
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

		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) ReloadCatalog(ctx context.Context, records []models.CatalogRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hunt_items;`); err != nil {
		return fmt.Errorf("failed to clear hunt items: %v", err)
	}

	for _, record := range records {
		q := `
		INSERT INTO hunt_items (item_name, points) VALUES (?, ?);
		`
		if _, err := tx.ExecContext(ctx, q, record.Name, record.Points); err != nil {
			return fmt.Errorf("failed to insert hunt item %q: %v", record.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) CreateGame(ctx context.Context, game models.Game) error {
	q := `
	INSERT INTO games (id, name, created_at) VALUES (?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, q, game.ID, game.Name, game.CreatedAt); err != nil {
		if isSQLiteConstraintErr(err) {
			return &ErrDuplicateID{ID: game.ID}
		}
		return fmt.Errorf("failed to insert game: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	q := `
	SELECT id, name, created_at FROM games WHERE id = ?;
	`
	game := &models.Game{}
	if err := r.db.QueryRowContext(ctx, q, gameID).Scan(&game.ID, &game.Name, &game.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{Kind: "game", ID: gameID}
		}
		return nil, fmt.Errorf("failed to scan game: %v", err)
	}

	return game, nil
}

func (r *SQLiteRepository) ListGames(ctx context.Context) ([]models.GameSummary, error) {
	q := `
	SELECT g.id, g.name, g.created_at, COALESCE(SUM(hi.points), 0) AS total_points
	FROM games g
	LEFT JOIN completions c ON g.id = c.game_id
	LEFT JOIN hunt_items hi ON c.item_id = hi.id
	GROUP BY g.id, g.name, g.created_at
	ORDER BY g.created_at DESC;
	`
	rows, err := r.db.QueryContext(ctx, q)
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

func (r *SQLiteRepository) ToggleItem(ctx context.Context, gameID string, itemID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE id = ?;`, gameID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check game: %v", err)
	}
	if exists == 0 {
		return false, &ErrNotFound{Kind: "game", ID: gameID}
	}

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM hunt_items WHERE id = ?;`, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check hunt item: %v", err)
	}
	if exists == 0 {
		return false, &ErrNotFound{Kind: "item", ID: fmt.Sprintf("%d", itemID)}
	}

	var completed int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions WHERE game_id = ? AND item_id = ?;`, gameID, itemID).Scan(&completed); err != nil {
		return false, fmt.Errorf("failed to check completion: %v", err)
	}

	nowCompleted := false
	if completed > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM completions WHERE game_id = ? AND item_id = ?;`, gameID, itemID); err != nil {
			return false, fmt.Errorf("failed to delete completion: %v", err)
		}
	} else {
		q := `
		INSERT INTO completions (game_id, item_id, completed_at) VALUES (?, ?, ?);
		`
		if _, err := tx.ExecContext(ctx, q, gameID, itemID, time.Now().UTC()); err != nil {
			if isSQLiteConstraintErr(err) {
				return false, &ErrConflict{GameID: gameID, ItemID: itemID}
			}
			return false, fmt.Errorf("failed to insert completion: %v", err)
		}
		nowCompleted = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nowCompleted, nil
}

func (r *SQLiteRepository) TotalPoints(ctx context.Context, gameID string) (int, error) {
	q := `
	SELECT COALESCE(SUM(hi.points), 0) AS total_points
	FROM completions c
	JOIN hunt_items hi ON c.item_id = hi.id
	WHERE c.game_id = ?;
	`
	var total int
	if err := r.db.QueryRowContext(ctx, q, gameID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to scan total points: %v", err)
	}

	return total, nil
}

func (r *SQLiteRepository) Progress(ctx context.Context, gameID string) ([]models.ItemProgress, error) {
	q := `
	SELECT hi.id, hi.item_name, hi.points,
	       CASE WHEN c.item_id IS NOT NULL THEN 1 ELSE 0 END AS completed
	FROM hunt_items hi
	LEFT JOIN completions c ON hi.id = c.item_id AND c.game_id = ?
	ORDER BY hi.points DESC, hi.id ASC;
	`
	rows, err := r.db.QueryContext(ctx, q, gameID)
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

func (r *SQLiteRepository) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games;`).Scan(&stats.Games); err != nil {
		return nil, fmt.Errorf("failed to count games: %v", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hunt_items;`).Scan(&stats.HuntItems); err != nil {
		return nil, fmt.Errorf("failed to count hunt items: %v", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions;`).Scan(&stats.Completions); err != nil {
		return nil, fmt.Errorf("failed to count completions: %v", err)
	}

	return stats, nil
}

func (r *SQLiteRepository) ClearGames(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	// completions reference games, so they go first
	if _, err := tx.ExecContext(ctx, `DELETE FROM completions;`); err != nil {
		return fmt.Errorf("failed to clear completions: %v", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM games;`); err != nil {
		return fmt.Errorf("failed to clear games: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) ClearCompletions(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM completions;`); err != nil {
		return fmt.Errorf("failed to clear completions: %v", err)
	}

	return nil
}

func isSQLiteConstraintErr(err error) bool {
	sqliteErr, ok := err.(sqlite3.Error)
	if !ok {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrConstraint
}
