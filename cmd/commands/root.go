package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/senyabanana/freelance-market/internal/logger"
	"github.com/senyabanana/freelance-market/internal/router/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "freelance-market",
	Short: "Freelance marketplace: projects, bids, deliverables and reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute запускает корневую команду; ошибка уже выведена в stderr.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing app.env")
}

// setup загружает конфигурацию и строит логгер для любой подкоманды.
func setup() (config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return cfg, zerolog.Nop(), fmt.Errorf("cannot load config: %w", err)
	}
	log, err := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	return cfg, log.With().Str("env", cfg.AppEnv).Logger(), nil
}
