package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/mediorg/internal/health"
	"github.com/sadopc/mediorg/internal/session"
	"github.com/sadopc/mediorg/internal/store"
)

// slotLister enumerates the persisted slots for the storage summary.
type slotLister interface {
	ListSlots() ([]store.Slot, error)
}

type settingsModel struct {
	goals  *health.GoalStore
	lister slotLister
	user   *session.User
	width  int
	height int

	waterGoal  int
	slots      []store.Slot
	slotsErr   error
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	goalInput *string
}

func newSettingsModel(g *health.GoalStore, l slotLister) settingsModel {
	gi := ""
	return settingsModel{
		goals:     g,
		lister:    l,
		waterGoal: health.DefaultWaterGoal,
		goalInput: &gi,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	waterGoal int
	slots     []store.Slot
	slotsErr  error
}

func (s settingsModel) refresh() tea.Cmd {
	goals, lister := s.goals, s.lister
	return func() tea.Msg {
		msg := settingsDataMsg{waterGoal: goals.WaterGoal()}
		if lister != nil {
			msg.slots, msg.slotsErr = lister.ListSlots()
		}
		return msg
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.waterGoal = msg.waterGoal
		s.slots, s.slotsErr = msg.slots, msg.slotsErr
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.goalInput = strconv.Itoa(s.goals.WaterGoal())

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily water goal (glasses)").
				Validate(func(v string) error {
					_, err := health.ParseGoal(v)
					return err
				}).
				Value(s.goalInput),
		).Title("Goals"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveGoal(*s.goalInput)
	}

	return s, cmd
}

func (s settingsModel) saveGoal(raw string) tea.Cmd {
	goals := s.goals
	return func() tea.Msg {
		v, err := health.ParseGoal(raw)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		if err := goals.SetWaterGoal(v); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return goalSavedMsg{goal: v}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View(), "", mutedStyle.Render("esc: cancel")),
		)
	}

	row := func(k, v string) string {
		label := lipgloss.NewStyle().Width(24).Render(k)
		return fmt.Sprintf("  %s %s", label, highlightStyle.Render(v))
	}

	var rows []string
	rows = append(rows, title, "")

	if s.user != nil {
		rows = append(rows, subtitleStyle.Render("Account"))
		rows = append(rows, row("Name", s.user.Name))
		rows = append(rows, row("Email", s.user.Email))
		rows = append(rows, "")
	}

	rows = append(rows, subtitleStyle.Render("Daily goals"))
	for _, t := range health.Types {
		goal := s.waterGoal
		if t != health.Water {
			m, _ := t.Meta()
			goal = m.DefaultGoal
		}
		rows = append(rows, row(t.Label(), formatWithUnit(t, float64(goal))))
	}

	if s.lister != nil {
		rows = append(rows, "", subtitleStyle.Render("Storage"))
		switch {
		case s.slotsErr != nil:
			rows = append(rows, errorStyle.Render("  "+s.slotsErr.Error()))
		case len(s.slots) == 0:
			rows = append(rows, mutedStyle.Render("  Nothing stored yet"))
		}
		for _, sl := range s.slots {
			label := lipgloss.NewStyle().Width(30).Render(sl.Key)
			rows = append(rows, fmt.Sprintf("  %s %s", label, mutedStyle.Render(slotSummary(sl))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit the water goal, L to log out"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func slotSummary(sl store.Slot) string {
	size := humanize.Bytes(uint64(len(sl.Value)))
	if sl.UpdatedAt.IsZero() {
		return size
	}
	return fmt.Sprintf("%s, updated %s", size, humanize.Time(sl.UpdatedAt))
}
