package models

import "time"

// Setting is one row of the local key-value settings table. Version grows
// by one on every write and backs compare-and-swap updates.
type Setting struct {
	Key       string
	Value     string
	Version   int64
	UpdatedAt time.Time
}
