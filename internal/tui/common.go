package tui

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/mediorg/internal/health"
	"github.com/sadopc/mediorg/internal/session"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewLog
	viewHistory
	viewSettings
)

var viewNames = []string{"Dashboard", "Log", "History", "Settings"}

// --- Messages ---

type authDoneMsg struct {
	user *session.User
	err  error
}

type loggedOutMsg struct{}

type recordSavedMsg struct {
	record health.ActivityRecord
}

type logFailedMsg struct {
	err error
}

type logCancelledMsg struct{}

type onboardingDoneMsg struct{}

type goalSavedMsg struct {
	goal int
}

type insightMsg struct {
	text string
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatAmount renders a value rounded to two decimals, without trailing
// zeros and with thousands separators.
func formatAmount(v float64) string {
	return humanize.Commaf(math.Round(v*100) / 100)
}

func formatWithUnit(t health.ActivityType, v float64) string {
	return fmt.Sprintf("%s %s", formatAmount(v), t.Unit())
}

// dateLabel turns a "2006-01-02" key into "Today", "Yesterday" or "Mon, Jan 02".
func dateLabel(key string, now time.Time) string {
	d, err := time.ParseInLocation(health.DateLayout, key, now.Location())
	if err != nil {
		return key
	}
	today := now.Format(health.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(health.DateLayout)
	switch key {
	case today:
		return "Today"
	case yesterday:
		return "Yesterday"
	}
	return d.Format("Mon, Jan 02")
}

func greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	}
	return "Good evening"
}
