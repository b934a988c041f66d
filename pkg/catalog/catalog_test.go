package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cbodonnell/huntboard/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []models.CatalogRecord
		wantErr bool
	}{
		{
			name:  "basic catalog",
			input: "item,points\nGolden snitch,10\nChocolate frog,5\n",
			want: []models.CatalogRecord{
				{Name: "Golden snitch", Points: 10},
				{Name: "Chocolate frog", Points: 5},
			},
		},
		{
			name:  "reordered columns with extra whitespace",
			input: "points, item\n10, Golden snitch\n",
			want: []models.CatalogRecord{
				{Name: "Golden snitch", Points: 10},
			},
		},
		{
			name:  "header only",
			input: "item,points\n",
			want:  []models.CatalogRecord{},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "missing points column",
			input:   "item,value\nGolden snitch,10\n",
			wantErr: true,
		},
		{
			name:    "non-numeric points",
			input:   "item,points\nGolden snitch,lots\n",
			wantErr: true,
		},
		{
			name:    "empty item name",
			input:   "item,points\n,10\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hunt_items.csv")
	err := os.WriteFile(path, []byte("item,points\nGolden snitch,10\n"), 0644)
	require.NoError(t, err)

	records, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Golden snitch", records[0].Name)
	assert.Equal(t, 10, records[0].Points)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
