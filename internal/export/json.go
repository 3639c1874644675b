package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/mediorg/internal/health"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Records    []jsonRecord `json:"records"`
}

type jsonRecord struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	OccurredAt string  `json:"occurred_at"`
	Notes      string  `json:"notes,omitempty"`
}

// ToJSON writes records to path as indented JSON, offsets rendered in loc.
func ToJSON(records []health.ActivityRecord, loc *time.Location, path string) error {
	loc = orLocal(loc)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	for _, r := range records {
		export.Records = append(export.Records, jsonRecord{
			ID:         r.ID,
			Type:       string(r.Type),
			Value:      r.Value,
			Unit:       r.Type.Unit(),
			OccurredAt: r.OccurredAt.In(loc).Format(time.RFC3339),
			Notes:      r.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// Filename is the default export file name for the given extension and day.
func Filename(ext string, day time.Time) string {
	return fmt.Sprintf("mediorg-export-%s.%s", day.Format("2006-01-02"), ext)
}
