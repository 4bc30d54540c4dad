package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scrollflux/scrollflux/internal/config"
	"github.com/scrollflux/scrollflux/internal/observability"
	"github.com/scrollflux/scrollflux/pkg/browser"
	"github.com/scrollflux/scrollflux/pkg/driver"
	"github.com/scrollflux/scrollflux/pkg/instance"
)

// newRunCmd creates the `run` command, which drives the configured scenes
// against a live page until interrupted.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [url]",
		Short: "Load a page and drive the configured scroll scenes against it",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			url := args[0]

			// Flags were bound in PreRunE, after the root command's first
			// unmarshal; re-unmarshal so flag overrides take precedence.
			if err := viper.Unmarshal(cfg); err != nil {
				return fmt.Errorf("failed to re-unmarshal config with flag overrides: %w", err)
			}

			if len(cfg.Scenes) == 0 {
				return fmt.Errorf("no scenes configured; nothing to drive")
			}

			sess, err := browser.NewSession(ctx, logger, cfg.Browser)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Navigate(url, cfg.Browser.NavigationTimeout); err != nil {
				return err
			}
			if err := sess.WatchResizes(sess.Context()); err != nil {
				return err
			}

			frames := browser.NewFrameTicker(cfg.Driver.FrameInterval)
			defer frames.Stop()

			d := driver.New(logger, sess, sess, frames, sess, driver.Options{
				ResizeDebounce: cfg.Driver.ResizeDebounce,
			})

			for i, scene := range cfg.Scenes {
				instCfg := sceneToInstanceConfig(scene, logger)
				if _, err := d.Create(sess.Context(), instCfg); err != nil {
					return fmt.Errorf("scenes[%d]: %w", i, err)
				}
			}
			d.Start()
			logger.Info("scenes running", zap.Int("count", len(cfg.Scenes)), zap.String("url", url))

			g, gctx := errgroup.WithContext(sess.Context())
			g.Go(func() error { return d.Run(gctx) })

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	runCmd.Flags().Bool("headless", true, "run the browser headless")
	return runCmd
}

// sceneToInstanceConfig maps a declarative scene onto an engine config,
// wiring transition callbacks to debug logs.
func sceneToInstanceConfig(scene config.SceneConfig, logger *zap.Logger) instance.Config {
	props := make([]instance.PropConfig, len(scene.Props))
	for i, p := range scene.Props {
		pc := instance.PropConfig{Name: p.Name, From: p.From, To: p.To}
		if p.Easing != "" {
			pc.Easing = p.Easing
		}
		props[i] = pc
	}

	return instance.Config{
		From:    scene.From,
		To:      scene.To,
		Element: scene.Element,
		Direct:  scene.Direct,
		Tracked: scene.Tracked,
		Props:   props,
		Inside: func(in *instance.Instance, raw float64, _ []instance.PropValue) {
			logger.Debug("scene inside range",
				zap.String("instance_id", in.ID()), zap.Float64("raw_percent", raw))
		},
		Outside: func(in *instance.Instance, raw float64, _ []instance.PropValue) {
			logger.Debug("scene outside range",
				zap.String("instance_id", in.ID()), zap.Float64("raw_percent", raw))
		},
	}
}
