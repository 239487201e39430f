package domain

import "time"

// RunStats holds statistics about a single reconciliation run.
type RunStats struct {
	Enumerated int
	New        int
	Refreshed  int
	Skipped    int
	Published  int
	Errors     int
	Generated  string
	Duration   time.Duration
}
