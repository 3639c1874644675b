package health

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultWaterGoal applies when no goal has been saved.
const DefaultWaterGoal = 8

// GoalStore holds one target per activity type. Only water is configurable.
type GoalStore struct {
	storage Storage
	log     zerolog.Logger
}

func NewGoalStore(s Storage, log zerolog.Logger) *GoalStore {
	return &GoalStore{storage: s, log: log}
}

// WaterGoal returns the saved water goal, or DefaultWaterGoal when the slot
// is absent, unreadable or not a positive integer.
func (g *GoalStore) WaterGoal() int {
	raw, ok, err := g.storage.Get(WaterGoalKey)
	if err != nil {
		g.log.Warn().Err(err).Str("slot", WaterGoalKey).Msg("read water goal failed, using default")
		return DefaultWaterGoal
	}
	if !ok {
		return DefaultWaterGoal
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		g.log.Warn().Str("slot", WaterGoalKey).Str("value", raw).Msg("water goal unparsable, using default")
		return DefaultWaterGoal
	}
	return v
}

// SetWaterGoal persists v as-is; callers validate it first.
func (g *GoalStore) SetWaterGoal(v int) error {
	return g.storage.Set(WaterGoalKey, strconv.Itoa(v))
}

// Goal returns the target for t.
func (g *GoalStore) Goal(t ActivityType) int {
	if t == Water {
		return g.WaterGoal()
	}
	m, _ := t.Meta()
	return m.DefaultGoal
}

// ParseGoal validates a goal typed by the user.
func ParseGoal(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return 0, &ValidationError{Field: "goal", Msg: "Goal must be a whole number above zero."}
	}
	return v, nil
}

// Progress is value/goal clamped to [0, 1]. A non-positive goal yields 0.
func Progress(value float64, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	p := value / float64(goal)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
