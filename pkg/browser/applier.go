package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/scrollflux/scrollflux/pkg/instance"
	"github.com/scrollflux/scrollflux/pkg/interfaces"
)

var _ interfaces.PropertySink = (*Session)(nil)

// applyJS writes each computed value as an inline style on the target. A
// null selector addresses the process-wide default target, the document
// root element.
const applyJS = `(selector, props) => {
	const el = selector === null ? document.documentElement : document.querySelector(selector);
	if (!el) return false;
	for (const p of props) el.style.setProperty(p.name, p.value);
	return true;
}`

type jsProp struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Apply writes the computed properties onto the resolved target element.
func (s *Session) Apply(ctx context.Context, target instance.Target, props []instance.PropValue) error {
	if len(props) == 0 {
		return nil
	}

	selector, jsProps := sinkArgs(target, props)

	var ok bool
	if err := chromedp.Run(ctx, chromedp.CallFunctionOn(applyJS, &ok, nil, selector, jsProps)); err != nil {
		return fmt.Errorf("browser: apply properties: %w", err)
	}
	if !ok {
		return fmt.Errorf("browser: apply target %q matched no element", target.Selector)
	}
	return nil
}

// sinkArgs builds the arguments applyJS is called with. The selector for
// the process-wide default target marshals to JSON null, which applyJS maps
// to the document root element.
func sinkArgs(target instance.Target, props []instance.PropValue) (any, []jsProp) {
	jsProps := make([]jsProp, len(props))
	for i, p := range props {
		jsProps[i] = jsProp{Name: p.Name, Value: p.Value}
	}
	var selector any
	if target.Kind != instance.TargetGlobal {
		selector = target.Selector
	}
	return selector, jsProps
}
