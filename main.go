package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sadopc/mediorg/internal/config"
	"github.com/sadopc/mediorg/internal/health"
	"github.com/sadopc/mediorg/internal/insight"
	"github.com/sadopc/mediorg/internal/logging"
	"github.com/sadopc/mediorg/internal/session"
	"github.com/sadopc/mediorg/internal/store"
	"github.com/sadopc/mediorg/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run owns every resource so deferred closes happen before main exits.
func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closer.Close()
	appLog := logging.For(log, logging.ComponentApp)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		storeLog := logging.For(log, logging.ComponentStore)
		storeLog.Error().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	appLog.Info().
		Str("db", cfg.DBPath).
		Bool("insights", cfg.InsightsEnabled()).
		Msg("starting")

	records := health.NewRecordStore(s, logging.For(log, logging.ComponentRecords))
	deps := tui.Deps{
		Records:    records,
		Stats:      health.NewAggregator(records, nil, nil),
		Goals:      health.NewGoalStore(s, logging.For(log, logging.ComponentGoals)),
		Onboarding: health.NewOnboarding(s),
		Session: session.NewManager(s,
			session.NewLocalAccounts(s),
			logging.For(log, logging.ComponentSession)),
		Insight: insight.FromConfig(context.Background(), cfg.APIKey, cfg.Model,
			logging.For(log, logging.ComponentInsight)),
		Log:   logging.For(log, logging.ComponentTUI),
		Slots: s,
	}

	p := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		appLog.Error().Err(err).Msg("ui exited with error")
		return err
	}
	appLog.Info().Msg("bye")
	return nil
}
