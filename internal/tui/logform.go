package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/mediorg/internal/health"
)

type logModel struct {
	records *health.RecordStore
	stats   *health.Aggregator
	width   int
	height  int

	formActive bool
	form       *huh.Form
	errMsg     string

	// Form values as pointers (survive value copies)
	kind   *health.ActivityType
	amount *string
	clock  *string
	notes  *string
}

func newLogModel(records *health.RecordStore, stats *health.Aggregator) logModel {
	kind := health.Water
	amount, clock, notes := "", "", ""
	return logModel{
		records: records,
		stats:   stats,
		kind:    &kind,
		amount:  &amount,
		clock:   &clock,
		notes:   &notes,
	}
}

func (l *logModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

// open starts a fresh form preselected to t, with the clock set to now.
func (l logModel) open(t health.ActivityType) (logModel, tea.Cmd) {
	*l.kind = t
	*l.amount = ""
	*l.clock = l.stats.Now().Format("15:04")
	*l.notes = ""
	l.errMsg = ""
	return l.showForm()
}

func (l logModel) showForm() (logModel, tea.Cmd) {
	kind := l.kind
	now := l.stats.Now

	options := make([]huh.Option[health.ActivityType], 0, len(health.Types))
	for _, t := range health.Types {
		options = append(options, huh.NewOption(typeIcon(t)+" "+t.Label(), t))
	}

	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[health.ActivityType]().
				Title("Activity").
				Options(options...).
				Value(l.kind),
			huh.NewInput().
				TitleFunc(func() string {
					return fmt.Sprintf("Amount (%s)", kind.Unit())
				}, l.kind).
				PlaceholderFunc(func() string {
					m, _ := kind.Meta()
					return m.Placeholder
				}, l.kind).
				Validate(func(s string) error {
					_, err := health.ParseValue(s)
					return err
				}).
				Value(l.amount),
			huh.NewInput().
				Title("Time (HH:MM)").
				Validate(func(s string) error {
					_, err := health.AtClock(now(), s)
					return err
				}).
				Value(l.clock),
			huh.NewText().
				Title("Notes").
				Placeholder("Optional").
				CharLimit(280).
				Lines(3).
				Value(l.notes),
		).Title("Log activity"),
	).WithShowHelp(true).WithShowErrors(true)

	l.formActive = true
	return l, l.form.Init()
}

func (l logModel) update(msg tea.Msg) (logModel, tea.Cmd) {
	if msg, ok := msg.(logFailedMsg); ok {
		l.errMsg = failureText(msg.err)
		return l.showForm()
	}
	if !l.formActive || l.form == nil {
		return l, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			l.formActive = false
			l.form = nil
			return l, func() tea.Msg { return logCancelledMsg{} }
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.formActive = false
		return l, l.save()
	}
	return l, cmd
}

// save builds a record from the form and prepends it to the store.
// Nothing is written when validation fails.
func (l logModel) save() tea.Cmd {
	kind, amount, clock, notes := *l.kind, *l.amount, *l.clock, *l.notes
	records, now := l.records, l.stats.Now
	return func() tea.Msg {
		at, err := health.AtClock(now(), clock)
		if err != nil {
			return logFailedMsg{err: err}
		}
		rec, err := health.NewRecord(kind, amount, at, notes)
		if err != nil {
			return logFailedMsg{err: err}
		}
		if _, err := records.Append(rec); err != nil {
			return logFailedMsg{err: err}
		}
		return recordSavedMsg{record: rec}
	}
}

func failureText(err error) string {
	if health.IsValidation(err) {
		return err.Error()
	}
	return fmt.Sprintf("Could not save: %v", err)
}

func (l logModel) view() string {
	w := l.width - 4
	title := titleStyle.Render("Log Activity")

	if !l.formActive || l.form == nil {
		hint := mutedStyle.Render("Press n to log an activity")
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", hint))
	}

	rows := []string{title, ""}
	if l.errMsg != "" {
		rows = append(rows, errorStyle.Render(l.errMsg), "")
	}
	rows = append(rows, l.form.View(), "", mutedStyle.Render("esc: cancel"))
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
