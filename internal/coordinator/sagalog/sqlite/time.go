package sqlite

import (
	"fmt"
	"time"
)

// journalTimeLayout sorts lexically, so updated_at can be compared as TEXT.
const journalTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(journalTimeLayout)
}

// parseTime reads updated_at. Rows written by hand from the sqlite shell
// with datetime('now') use the space separated layout.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("sqlite: parse journal time %q", s)
}
