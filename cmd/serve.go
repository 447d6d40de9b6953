package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/example/verbbot/internal/bot"
	"github.com/example/verbbot/internal/config"
	"github.com/example/verbbot/internal/database"
	"github.com/example/verbbot/internal/scheduler"
	"github.com/example/verbbot/internal/selector"
	"github.com/example/verbbot/internal/trainer"
	"github.com/example/verbbot/internal/vocabulary"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	logger := newLogger()

	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	catalogue, err := vocabulary.Load(resolveVerbsPath(cmd, cfg.VerbsPath))
	if err != nil {
		return err
	}
	logger.Printf("loaded %d verbs", catalogue.Len())

	store, closeStore, err := database.OpenStore(cfg.StateDriver, cfg.StateDSN, catalogue)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Printf("close state store: %v", err)
		}
	}()
	logger.Printf("user state kept in %s store", cfg.StateDriver)

	ctrl := trainer.New(store, selector.New(catalogue), logger, trainer.Options{
		SpeedDuration: cfg.SpeedDuration,
		ReminderAfter: cfg.ReminderInactivity,
	})

	b, err := bot.New(cfg.TelegramBotToken, ctrl, bot.Config{
		UpdateTimeout: cfg.UpdateTimeoutSec,
		Debug:         cfg.Debug,
	}, logger)
	if err != nil {
		return err
	}

	jobs := scheduler.New(ctrl, b, scheduler.Config{
		ReminderEnabled:       cfg.ReminderEnabled,
		ReminderInactivity:    cfg.ReminderInactivity,
		ReminderCheckInterval: cfg.ReminderCheckInterval,
		StartHour:             cfg.ReminderStartHour,
		EndHour:               cfg.ReminderEndHour,
		SweepInterval:         cfg.SpeedSweepInterval,
	}, logger)
	if err := jobs.Start(); err != nil {
		return err
	}
	defer jobs.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Println("bot started, press Ctrl+C to stop")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot stopped: %w", err)
	}
	logger.Println("bot stopped")
	return nil
}
