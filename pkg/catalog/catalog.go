// Package catalog parses hunt item catalogs from CSV files.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cbodonnell/huntboard/pkg/repositories/models"
)

// LoadFile reads a catalog CSV from disk. The file must have a header row
// with "item" and "points" columns.
func LoadFile(path string) ([]models.CatalogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %v", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads catalog records from CSV data.
func Parse(r io.Reader) ([]models.CatalogRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("catalog is empty")
		}
		return nil, fmt.Errorf("failed to read catalog header: %v", err)
	}

	itemCol, pointsCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "item":
			itemCol = i
		case "points":
			pointsCol = i
		}
	}
	if itemCol < 0 || pointsCol < 0 {
		return nil, fmt.Errorf("catalog header must contain item and points columns, got %v", header)
	}

	records := []models.CatalogRecord{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row: %v", err)
		}

		name := strings.TrimSpace(row[itemCol])
		if name == "" {
			return nil, fmt.Errorf("catalog line %d: empty item name", line)
		}

		points, err := strconv.Atoi(strings.TrimSpace(row[pointsCol]))
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: invalid points value %q", line, row[pointsCol])
		}

		records = append(records, models.CatalogRecord{
			Name:   name,
			Points: points,
		})
	}

	return records, nil
}
