package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/store"
)

// legacyImport is the on-disk format of a legacy activity export: one
// record per pre-session-model activity, referencing shoes by name.
type legacyImport struct {
	Shoe      string    `json:"shoe"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Steps     int       `json:"steps"`
	Distance  float64   `json:"distance"`
}

// importLegacyEntries loads the export file at path and persists each
// record against its shoe.
func importLegacyEntries(db store.DB, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading import file: %w", err)
	}

	var records []legacyImport

	err = json.Unmarshal(b, &records)
	if err != nil {
		return 0, fmt.Errorf("parsing import file: %w", err)
	}

	for i, r := range records {
		shoe, err := db.ShoeByName(r.Shoe)
		if err != nil {
			return i, fmt.Errorf("record %d: %w", i+1, err)
		}

		entry := &models.LegacyEntry{
			ID:        uuid.NewString(),
			ShoeID:    shoe.ID,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Steps:     r.Steps,
			Distance:  r.Distance,
		}

		err = db.SaveLegacyEntry(entry)
		if err != nil {
			return i, fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	return len(records), nil
}
