package store

import "time"

// Slot is one keyed value in device-local storage.
type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
