package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/scrollflux/scrollflux/internal/config"
	"github.com/scrollflux/scrollflux/internal/observability"
)

var (
	cfgFile string
	cfg     = config.NewDefaultConfig()
)

// NewRootCommand builds the base command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "scrollflux",
		Short:   "scrollflux maps scroll positions to interpolated style properties in a headless browser.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(); err != nil {
				return err
			}

			freshCfg := config.NewDefaultConfig()
			if err := viper.Unmarshal(freshCfg); err != nil {
				observability.Initialize(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "scrollflux"})
				return fmt.Errorf("failed to unmarshal config: %w", err)
			}
			if err := freshCfg.Validate(); err != nil {
				observability.Initialize(freshCfg.Logger)
				return fmt.Errorf("invalid configuration: %w", err)
			}
			cfg = freshCfg

			observability.Initialize(cfg.Logger)
			observability.GetLogger().Info("starting scrollflux", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newRunCmd())
	return rootCmd
}

// Execute runs the CLI with a signal-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer observability.Sync()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// initializeConfig reads the config file and environment variables.
func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SCROLLFLUX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars carry the day.
	}
	return nil
}
