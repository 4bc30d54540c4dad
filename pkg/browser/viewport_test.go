package browser

import (
	"encoding/json"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementRectDecodesGeometryResult(t *testing.T) {
	var rect *elementRect
	require.NoError(t, json.Unmarshal([]byte(`{"top":12.5,"height":40}`), &rect))
	require.NotNil(t, rect)
	assert.Equal(t, 12.5, rect.Top)
	assert.Equal(t, 40.0, rect.Height)
}

func TestElementRectDecodesNullForMissingElement(t *testing.T) {
	rect := &elementRect{Top: 1, Height: 1}
	require.NoError(t, json.Unmarshal([]byte(`null`), &rect))
	assert.Nil(t, rect, "geometryJS returns null when the selector matches nothing")
}

func TestGeometryActionInvokesFunctionWithArgs(t *testing.T) {
	var rect *elementRect
	action := chromedp.CallFunctionOn(geometryJS, &rect, nil, "#hero")
	require.NotNil(t, action, "geometryJS is a function declaration and must be called, not evaluated")
}
