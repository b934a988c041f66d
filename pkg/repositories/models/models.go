package models

import "time"

// HuntItem is one catalog entry with a fixed point value.
type HuntItem struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// CatalogRecord is one row of a catalog import.
type CatalogRecord struct {
	Name   string `json:"item"`
	Points int    `json:"points"`
}

type Game struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GameSummary is a game row with its current point total.
type GameSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	TotalPoints int       `json:"total_points"`
}

// ItemProgress is one catalog item with its completion state for a game.
type ItemProgress struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	Completed bool   `json:"completed"`
}

// Stats reports row counts for the maintenance CLI.
type Stats struct {
	Games       int `json:"games"`
	HuntItems   int `json:"hunt_items"`
	Completions int `json:"completions"`
}
