package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/sadopc/mediorg/internal/export"
	"github.com/sadopc/mediorg/internal/health"
	"github.com/sadopc/mediorg/internal/insight"
	"github.com/sadopc/mediorg/internal/session"
)

// Deps bundles the services the UI drives.
type Deps struct {
	Records    *health.RecordStore
	Stats      *health.Aggregator
	Goals      *health.GoalStore
	Onboarding *health.Onboarding
	Session    *session.Manager
	Insight    *insight.Generator
	Log        zerolog.Logger

	// Slots backs the storage summary in settings; nil hides it.
	Slots slotLister

	// ExportDir defaults to the user's home directory.
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	width  int
	height int

	user          *session.User
	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	login     loginModel
	dashboard dashboardModel
	logForm   logModel
	history   historyModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(d Deps) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		deps:       d,
		activeView: viewDashboard,
		login:      newLoginModel(d.Session),
		dashboard:  newDashboardModel(d.Stats, d.Goals, d.Onboarding, d.Insight),
		logForm:    newLogModel(d.Records, d.Stats),
		history:    newHistoryModel(d.Stats),
		settings:   newSettingsModel(d.Goals, d.Slots),
		help:       h,
	}
	a.setUser(d.Session.Current())
	return a
}

func (a *App) setUser(u *session.User) {
	a.user = u
	a.dashboard.user = u
	a.settings.user = u
}

func (a App) Init() tea.Cmd {
	if a.user == nil {
		return a.login.Init()
	}
	return a.dashboard.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.logForm.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.user == nil {
			var cmd tea.Cmd
			a.login, cmd = a.login.update(msg)
			return a, cmd
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Logout):
			return a, a.logout()
		case key.Matches(msg, keys.New), key.Matches(msg, keys.Tab2):
			return a.openLog()
		case key.Matches(msg, keys.Goal):
			a.activeView = viewSettings
			var cmd tea.Cmd
			a.settings, cmd = a.settings.showForm()
			return a, cmd
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			next := (a.activeView + 1) % viewState(len(viewNames))
			if next == viewLog {
				return a.openLog()
			}
			a.activeView = next
			return a, a.refreshCurrentView()
		}

	case authDoneMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			a.login, cmd = a.login.fail(msg.err)
			return a, cmd
		}
		a.setUser(msg.user)
		a.activeView = viewDashboard
		a.status = "Signed in as " + msg.user.Email
		a.statusErr = false
		a.deps.Log.Info().Str("email", msg.user.Email).Msg("signed in")
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.start()
		return a, cmd

	case loggedOutMsg:
		a.setUser(nil)
		a.exportPicking = false
		a.status = "Signed out"
		a.statusErr = false
		var cmd tea.Cmd
		a.login, cmd = a.login.reset()
		return a, cmd

	case recordSavedMsg:
		a.activeView = viewDashboard
		a.status = fmt.Sprintf("Logged %s of %s", formatWithUnit(msg.record.Type, msg.record.Value), msg.record.Type.Label())
		a.statusErr = false
		return a, tea.Batch(a.dashboard.loadData(), a.history.refresh())

	case logCancelledMsg:
		a.activeView = viewDashboard
		return a, a.dashboard.loadData()

	case goalSavedMsg:
		a.settings.waterGoal = msg.goal
		a.status = fmt.Sprintf("Water goal set to %d glasses", msg.goal)
		a.statusErr = false
		return a, a.dashboard.loadData()

	// Insight results and spinner ticks belong to the dashboard regardless
	// of which view is showing.
	case insightMsg, spinner.TickMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	if a.user == nil {
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) openLog() (tea.Model, tea.Cmd) {
	a.activeView = viewLog
	var cmd tea.Cmd
	a.logForm, cmd = a.logForm.open(health.Water)
	return a, cmd
}

func (a App) logout() tea.Cmd {
	sessions := a.deps.Session
	return func() tea.Msg {
		if err := sessions.Logout(); err != nil {
			return statusMsg{text: fmt.Sprintf("Logout error: %v", err), isError: true}
		}
		return loggedOutMsg{}
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewLog:
		a.logForm, cmd = a.logForm.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewLog:
		return a.logForm.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewHistory:
		return a.history.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	if a.user == nil {
		content = a.login.view()
	} else {
		switch a.activeView {
		case viewDashboard:
			content = a.dashboard.view()
		case viewLog:
			content = a.logForm.view()
		case viewHistory:
			content = a.history.view()
		case viewSettings:
			content = a.settings.view()
		}
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("mediorg")
	if a.user == nil {
		return headerStyle.Render(title)
	}

	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	left := ""
	if a.user != nil {
		left = footerStyle.Render(a.help.View(keys))
	}

	right := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		right = style.Render(" " + a.status)
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("%d records", a.deps.Records.Len())))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	records, stats, dir, log := a.deps.Records, a.deps.Stats, a.deps.ExportDir, a.deps.Log
	return func() tea.Msg {
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			dir = home
		}

		all := records.All()
		day := stats.Now()

		var path string
		if format == 0 {
			path = filepath.Join(dir, export.Filename("csv", day))
			if err := export.ToCSV(all, day.Location(), path); err != nil {
				log.Error().Err(err).Str("path", path).Msg("csv export failed")
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, export.Filename("json", day))
			if err := export.ToJSON(all, day.Location(), path); err != nil {
				log.Error().Err(err).Str("path", path).Msg("json export failed")
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		log.Info().Str("path", path).Int("records", len(all)).Msg("exported")
		return exportDoneMsg{path: path}
	}
}
