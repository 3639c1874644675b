package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/mediorg/internal/health"
)

// historyFilters is the filter cycle; the empty type means every type.
var historyFilters = append([]health.ActivityType{""}, health.Types...)

type historyModel struct {
	stats  *health.Aggregator
	width  int
	height int

	filter  int
	history health.History
	week    []health.DayStats
	now     time.Time
	offset  int
	chart   barchart.Model
}

func newHistoryModel(stats *health.Aggregator) historyModel {
	return historyModel{
		stats: stats,
		chart: barchart.New(60, 10),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
	h.buildChart()
}

type historyDataMsg struct {
	history health.History
	week    []health.DayStats
	now     time.Time
}

func (h historyModel) refresh() tea.Cmd {
	stats := h.stats
	return func() tea.Msg {
		return historyDataMsg{
			history: stats.HistoryLast7Days(),
			week:    stats.Week(),
			now:     stats.Now(),
		}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.history = msg.history
		h.week = msg.week
		h.now = msg.now
		h.offset = 0
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Filter):
			h.filter = (h.filter + 1) % len(historyFilters)
			h.offset = 0
			h.buildChart()
		case key.Matches(msg, keys.Left):
			h.filter = (h.filter + len(historyFilters) - 1) % len(historyFilters)
			h.offset = 0
			h.buildChart()
		case key.Matches(msg, keys.Up):
			if h.offset > 0 {
				h.offset--
			}
		case key.Matches(msg, keys.Down):
			if h.offset < len(h.lines())-1 {
				h.offset++
			}
		}
	}
	return h, nil
}

func (h historyModel) activeFilter() health.ActivityType {
	return historyFilters[h.filter]
}

// chartType is the filtered type, or steps when showing everything.
func (h historyModel) chartType() health.ActivityType {
	if t := h.activeFilter(); t != "" {
		return t
	}
	return health.Steps
}

// visible applies the type filter to the loaded window.
func (h historyModel) visible() health.History {
	if t := h.activeFilter(); t != "" {
		return h.history.Filter(t)
	}
	return h.history
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if h.height > 30 {
		chartHeight = 12
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	t := h.chartType()
	style := typeStyle(t)

	var bars []barchart.BarData
	for _, day := range h.week {
		label := day.Date
		if d, err := time.Parse(health.DateLayout, day.Date); err == nil {
			label = d.Format("Mon 02")
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  t.Label(),
				Value: day.Stats[t],
				Style: style,
			}},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

// lines renders the grouped list, newest day first. Records within a day
// follow identifier order.
func (h historyModel) lines() []string {
	view := h.visible()

	var out []string
	for _, date := range view.Dates() {
		recs := health.SortByID(view[date])
		out = append(out, highlightStyle.Render(dateLabel(date, h.now))+mutedStyle.Render(fmt.Sprintf("  (%d)", len(recs))))
		for _, r := range recs {
			line := fmt.Sprintf("  %s  %s %-6s %s",
				r.OccurredAt.In(h.now.Location()).Format("15:04"),
				typeIcon(r.Type),
				typeStyle(r.Type).Render(r.Type.Label()),
				formatWithUnit(r.Type, r.Value),
			)
			if r.Notes != "" {
				line += mutedStyle.Render("  " + r.Notes)
			}
			out = append(out, line)
		}
	}
	return out
}

func (h historyModel) view() string {
	w := h.width - 4

	var tabs []string
	for i, t := range historyFilters {
		name := "All"
		if t != "" {
			name = t.Label()
		}
		if i == h.filter {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...), "  ",
		mutedStyle.Render("last 7 days"),
	)

	chartTitle := mutedStyle.Render(fmt.Sprintf("%s per day (%s)", h.chartType().Label(), h.chartType().Unit()))
	chartPanel := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, chartTitle, h.chart.View()))

	lines := h.lines()
	var list string
	if len(lines) == 0 {
		list = mutedStyle.Render("No activities in the last 7 days")
	} else {
		avail := h.height - lipgloss.Height(header) - lipgloss.Height(chartPanel) - 6
		if avail < 3 {
			avail = 3
		}
		start := h.offset
		if start > len(lines) {
			start = len(lines)
		}
		end := start + avail
		if end > len(lines) {
			end = len(lines)
		}
		list = lipgloss.JoinVertical(lipgloss.Left, lines[start:end]...)
	}
	listPanel := panelStyle.Width(w).Render(list)

	hint := mutedStyle.Render("  ←/→: filter  ↑/↓: scroll")
	return lipgloss.JoinVertical(lipgloss.Left, header, chartPanel, listPanel, hint)
}
