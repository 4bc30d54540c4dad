package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/scrollflux/scrollflux/pkg/interfaces"
)

var _ interfaces.ResizeSource = (*Session)(nil)

// resizeBinding is the CDP binding name the in-page listener calls.
const resizeBinding = "__scrollfluxResize"

const resizeListenerJS = `window.addEventListener('resize', () => { window.` + resizeBinding + `(''); });`

// WatchResizes installs an in-page resize listener that forwards window
// resize events through a CDP binding into the session's resize channel.
// Must be called after navigation; re-call it if the page is replaced.
func (s *Session) WatchResizes(ctx context.Context) error {
	if err := chromedp.Run(ctx, runtime.AddBinding(resizeBinding)); err != nil {
		return fmt.Errorf("browser: add resize binding: %w", err)
	}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		b, ok := ev.(*runtime.EventBindingCalled)
		if !ok || b.Name != resizeBinding {
			return
		}
		s.signalResize()
	})

	if err := chromedp.Run(ctx, chromedp.Evaluate(resizeListenerJS, nil)); err != nil {
		return fmt.Errorf("browser: install resize listener: %w", err)
	}

	s.logger.Debug("resize listener installed", zap.String("binding", resizeBinding))
	return nil
}

// signalResize forwards one resize signal without blocking. The driver
// debounces, so collapsing a burst into one pending signal loses nothing.
func (s *Session) signalResize() {
	select {
	case s.resizeCh <- struct{}{}:
	default:
	}
}

// Resizes returns the channel resize signals arrive on.
func (s *Session) Resizes() <-chan struct{} { return s.resizeCh }
