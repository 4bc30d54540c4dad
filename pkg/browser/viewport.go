package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/scrollflux/scrollflux/pkg/interfaces"
	"github.com/scrollflux/scrollflux/pkg/scrollval"
)

var _ interfaces.Viewport = (*Session)(nil)

// geometryJS reads an element's box relative to the viewport at call time.
const geometryJS = `(selector) => {
	const el = document.querySelector(selector);
	if (!el) return null;
	const rect = el.getBoundingClientRect();
	return { top: rect.top, height: rect.height };
}`

type elementRect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// ScrollOffset returns the vertical document scroll position.
func (s *Session) ScrollOffset(ctx context.Context) (float64, error) {
	var offset float64
	if err := chromedp.Run(ctx, chromedp.Evaluate(`window.pageYOffset`, &offset)); err != nil {
		return 0, fmt.Errorf("browser: read scroll offset: %w", err)
	}
	return offset, nil
}

// Height returns the CSS visual viewport height.
func (s *Session) Height(ctx context.Context) (float64, error) {
	var cssVisualViewport *page.VisualViewport
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(c context.Context) (err error) {
		_, _, _, _, cssVisualViewport, _, err = page.GetLayoutMetrics().Do(c)
		return err
	}))
	if err != nil {
		return 0, fmt.Errorf("browser: layout metrics: %w", err)
	}
	if cssVisualViewport == nil {
		return 0, fmt.Errorf("browser: layout metrics carried no visual viewport")
	}
	return cssVisualViewport.ClientHeight, nil
}

// ElementGeometry queries the element's live box. A nil result means the
// selector matched nothing.
func (s *Session) ElementGeometry(ctx context.Context, selector string) (scrollval.Geometry, error) {
	var rect *elementRect
	err := chromedp.Run(ctx, chromedp.CallFunctionOn(geometryJS, &rect, nil, selector))
	if err != nil {
		return scrollval.Geometry{}, fmt.Errorf("browser: geometry of %q: %w", selector, err)
	}
	if rect == nil {
		return scrollval.Geometry{}, fmt.Errorf("browser: selector %q matched no element", selector)
	}
	return scrollval.Geometry{Top: rect.Top, Height: rect.Height}, nil
}
