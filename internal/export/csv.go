package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/mediorg/internal/health"
)

// ToCSV writes records to path with dates and times in loc. A nil loc
// means time.Local.
func ToCSV(records []health.ActivityRecord, loc *time.Location, path string) error {
	loc = orLocal(loc)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Type", "Value", "Unit", "Date", "Time", "Notes"}); err != nil {
		return err
	}

	for _, r := range records {
		at := r.OccurredAt.In(loc)
		row := []string{
			r.ID,
			string(r.Type),
			formatValue(r.Value),
			r.Type.Unit(),
			at.Format("2006-01-02"),
			at.Format("15:04"),
			r.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
