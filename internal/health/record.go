package health

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActivityRecord is one logged measurement. Records are immutable once built.
type ActivityRecord struct {
	ID         string       `json:"id"`
	Type       ActivityType `json:"type"`
	Value      float64      `json:"value"`
	OccurredAt time.Time    `json:"date"`
	Notes      string       `json:"notes,omitempty"`
}

// ValidationError is a user-displayable rejection of submitted input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var errInvalidAmount = &ValidationError{Field: "value", Msg: "Please enter a valid amount."}

// ParseValue parses a submitted amount. Only finite values > 0 are accepted.
func ParseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, errInvalidAmount
	}
	return v, nil
}

// AtClock places an "HH:MM" clock time on day's calendar date, in day's
// location. An empty clock keeps day unchanged.
func AtClock(day time.Time, clock string) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return day, nil
	}
	hm, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "time", Msg: "Please enter a time as HH:MM."}
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, day.Location()), nil
}

// NewRecord validates raw and builds a record with a fresh identifier.
// Identifiers are UUIDv7, so identifier order follows creation order.
func NewRecord(t ActivityType, raw string, at time.Time, notes string) (ActivityRecord, error) {
	if !t.Valid() {
		return ActivityRecord{}, &ValidationError{Field: "type", Msg: "Please choose an activity type."}
	}
	v, err := ParseValue(raw)
	if err != nil {
		return ActivityRecord{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ActivityRecord{
		ID:         id.String(),
		Type:       t,
		Value:      v,
		OccurredAt: at,
		Notes:      strings.TrimSpace(notes),
	}, nil
}

// Validate checks the stored-record invariants.
func (r ActivityRecord) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Msg: "Record is missing an identifier."}
	}
	if !r.Type.Valid() {
		return &ValidationError{Field: "type", Msg: "Please choose an activity type."}
	}
	if !(r.Value > 0) || math.IsInf(r.Value, 0) {
		return errInvalidAmount
	}
	return nil
}
