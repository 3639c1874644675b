// Package health holds the activity data model and the local aggregation
// layer: the record store, daily/weekly statistics, the rolling history
// window and user goals.
package health

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActivityType is the closed set of things a user can log.
type ActivityType string

const (
	Water ActivityType = "WATER"
	Steps ActivityType = "STEPS"
	Sleep ActivityType = "SLEEP"
)

// Types lists every activity type in display order.
var Types = []ActivityType{Water, Steps, Sleep}

// Meta is the display metadata for one activity type.
type Meta struct {
	Label       string
	Unit        string
	Step        float64
	Placeholder string
	Color       string
	DefaultGoal int
}

// Meta returns the display metadata for t. ok is false for unknown types.
func (t ActivityType) Meta() (m Meta, ok bool) {
	switch t {
	case Water:
		return Meta{Label: "Water", Unit: "glasses", Step: 1, Placeholder: "e.g., 2", Color: "#22D3EE", DefaultGoal: DefaultWaterGoal}, true
	case Steps:
		return Meta{Label: "Steps", Unit: "steps", Step: 100, Placeholder: "e.g., 5000", Color: "#34D399", DefaultGoal: 10000}, true
	case Sleep:
		return Meta{Label: "Sleep", Unit: "hours", Step: 0.5, Placeholder: "e.g., 7.5", Color: "#A78BFA", DefaultGoal: 8}, true
	}
	return Meta{Label: string(t)}, false
}

func (t ActivityType) Label() string {
	m, _ := t.Meta()
	return m.Label
}

func (t ActivityType) Unit() string {
	m, _ := t.Meta()
	return m.Unit
}

func (t ActivityType) Valid() bool {
	_, ok := t.Meta()
	return ok
}

// ParseActivityType accepts the wire names case-insensitively.
func ParseActivityType(s string) (ActivityType, error) {
	t := ActivityType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &ValidationError{Field: "type", Msg: fmt.Sprintf("Unknown activity type %q.", s)}
	}
	return t, nil
}

func (t *ActivityType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseActivityType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
