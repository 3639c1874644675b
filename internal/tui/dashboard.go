package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/mediorg/internal/health"
	"github.com/sadopc/mediorg/internal/insight"
	"github.com/sadopc/mediorg/internal/session"
)

const insightTimeout = 30 * time.Second

type dashboardModel struct {
	stats      *health.Aggregator
	goals      *health.GoalStore
	onboarding *health.Onboarding
	insight    *insight.Generator
	user       *session.User
	width      int
	height     int

	loaded    bool
	today     health.DailyStats
	targets   map[health.ActivityType]int
	onboarded bool

	insightText    string
	insightLoading bool
	spinner        spinner.Model
}

func newDashboardModel(stats *health.Aggregator, goals *health.GoalStore, ob *health.Onboarding, gen *insight.Generator) dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = highlightStyle
	return dashboardModel{
		stats:      stats,
		goals:      goals,
		onboarding: ob,
		insight:    gen,
		spinner:    sp,
		onboarded:  true,
		// Init always fetches an insight.
		insightLoading: true,
	}
}

// Init loads today's numbers and asks for a fresh insight.
func (d dashboardModel) Init() tea.Cmd {
	return tea.Batch(d.loadData(), d.fetchInsight(), d.spinner.Tick)
}

// start is Init for a dashboard that has already been shown once.
func (d dashboardModel) start() (dashboardModel, tea.Cmd) {
	d.insightLoading = true
	d.insightText = ""
	return d, d.Init()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	today     health.DailyStats
	targets   map[health.ActivityType]int
	onboarded bool
}

func (d dashboardModel) loadData() tea.Cmd {
	stats, goals, ob := d.stats, d.goals, d.onboarding
	return func() tea.Msg {
		targets := make(map[health.ActivityType]int, len(health.Types))
		for _, t := range health.Types {
			targets[t] = goals.Goal(t)
		}
		return dashboardDataMsg{
			today:     stats.Today(),
			targets:   targets,
			onboarded: ob.Complete(),
		}
	}
}

func (d dashboardModel) fetchInsight() tea.Cmd {
	stats, gen := d.stats, d.insight
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), insightTimeout)
		defer cancel()
		return insightMsg{text: gen.Insight(ctx, stats.Today())}
	}
}

func (d dashboardModel) completeOnboarding() tea.Cmd {
	ob := d.onboarding
	return func() tea.Msg {
		if err := ob.MarkComplete(); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return onboardingDoneMsg{}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loaded = true
		d.today = msg.today
		d.targets = msg.targets
		d.onboarded = msg.onboarded
		return d, nil

	case insightMsg:
		d.insightText = msg.text
		d.insightLoading = false
		return d, nil

	case spinner.TickMsg:
		if !d.insightLoading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case onboardingDoneMsg:
		d.onboarded = true
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			if !d.onboarded {
				return d, d.completeOnboarding()
			}
		case key.Matches(msg, keys.Refresh):
			// One request in flight at a time.
			if d.insightLoading {
				return d, nil
			}
			d.insightLoading = true
			return d, tea.Batch(d.fetchInsight(), d.spinner.Tick)
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	var panels []string
	if !d.onboarded {
		panels = append(panels, d.renderWelcomePanel(contentWidth))
	}
	panels = append(panels,
		d.renderTodayPanel(contentWidth),
		d.renderInsightPanel(contentWidth),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (d dashboardModel) renderWelcomePanel(w int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Welcome to mediorg"),
		"",
		"Log a glass of water, a walk or a night's sleep with n.",
		"Daily totals and progress toward your goals show up here.",
		"The History tab keeps the last seven days.",
		"",
		mutedStyle.Render("Press enter to get started"),
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	name := "there"
	if d.user != nil && d.user.Name != "" {
		name = d.user.Name
	}
	header := fmt.Sprintf("%s  %s",
		titleStyle.Render(fmt.Sprintf("%s, %s", greeting(d.stats.Now()), name)),
		mutedStyle.Render(d.stats.Now().Format("Monday, Jan 02")),
	)

	if !d.loaded {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, mutedStyle.Render("Loading...")))
	}

	barWidth := w - 48
	if barWidth < 10 {
		barWidth = 10
	}

	rows := []string{header, ""}
	for _, t := range health.Types {
		value := d.today[t]
		goal := d.targets[t]

		bar := progress.New(
			progress.WithSolidFill(string(typeColor(t))),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		)

		label := typeStyle(t).Width(10).Render(typeIcon(t) + " " + t.Label())
		amount := lipgloss.NewStyle().Width(22).Render(
			fmt.Sprintf("%s / %s %s", formatAmount(value), formatAmount(float64(goal)), t.Unit()),
		)
		p := health.Progress(value, goal)
		pct := mutedStyle.Render(fmt.Sprintf("%3.0f%%", p*100))
		if p >= 1 {
			pct = successStyle.Render(" ✓  ")
		}
		rows = append(rows, fmt.Sprintf("  %s %s %s %s", label, amount, bar.ViewAs(p), pct))
	}

	rows = append(rows, "", mutedStyle.Render("  n: log activity  g: change water goal"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderInsightPanel(w int) string {
	title := titleStyle.Render("Daily insight")

	var body string
	switch {
	case d.insightLoading:
		body = d.spinner.View() + mutedStyle.Render(" Thinking...")
	case d.insightText == "":
		body = mutedStyle.Render("No insight yet")
	default:
		body = insightStyle.Width(w - 6).Render(d.insightText)
	}

	hint := mutedStyle.Render("r: new insight")
	if !d.insight.Available() {
		hint = warningStyle.Render("Set GEMINI_API_KEY to enable insights")
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}
