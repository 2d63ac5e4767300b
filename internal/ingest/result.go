// Package ingest runs one poll cycle: fetch the odds feed, normalize it into
// snapshot records, and append them to the store.
package ingest

import (
	"fmt"
	"time"
)

// Result tracks counts from one poll cycle.
type Result struct {
	Games    int
	Records  int
	Inserted int
	Duration time.Duration
}

// Summary returns a human-readable summary of the poll cycle.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"games=%d records=%d inserted=%d dur=%s",
		r.Games, r.Records, r.Inserted, r.Duration.Round(time.Millisecond),
	)
}
