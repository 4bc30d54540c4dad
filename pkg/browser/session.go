// Package browser implements the driver's collaborator contracts on top of
// a headless Chrome tab controlled over CDP: live scroll and viewport
// measurements, element geometry, inline-style property application, resize
// signals, and a frame tick source.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/scrollflux/scrollflux/internal/config"
)

// Session owns the browser process and a single tab. Its context must be
// used for every collaborator call so CDP commands reach the right target.
type Session struct {
	logger *zap.Logger

	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	resizeCh chan struct{}
}

// NewSession launches the browser and verifies it is responsive.
func NewSession(ctx context.Context, logger *zap.Logger, cfg config.BrowserConfig) (*Session, error) {
	s := &Session{
		logger:   logger.Named("browser_session"),
		resizeCh: make(chan struct{}, 1),
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	s.allocCancel = allocCancel

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	s.tabCtx = tabCtx
	s.tabCancel = tabCancel

	// Confirm the browser starts and responds before handing it out.
	startupTimeout := cfg.StartupTimeout
	if startupTimeout <= 0 {
		startupTimeout = 30 * time.Second
	}
	startCtx, cancel := context.WithTimeout(tabCtx, startupTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx, chromedp.Navigate("about:blank")); err != nil {
		allocCancel()
		return nil, fmt.Errorf("browser failed to start or respond: %w", err)
	}

	s.logger.Info("browser launched", zap.Bool("headless", cfg.Headless))
	return s, nil
}

// Context returns the tab context. Collaborator calls and the driver loop
// must run against this context or one derived from it.
func (s *Session) Context() context.Context { return s.tabCtx }

// Navigate loads the page the instances will observe.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	navCtx := s.tabCtx
	if timeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(s.tabCtx, timeout)
		defer cancel()
	}
	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("browser: navigate to %s: %w", url, err)
	}
	s.logger.Info("page loaded", zap.String("url", url))
	return nil
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.tabCancel()
	s.allocCancel()
}
