package instance

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrollflux/scrollflux/pkg/scrollval"
)

// fixedGeometry returns the same geometry for every selector.
func fixedGeometry(g scrollval.Geometry) GeometryFunc {
	return func(string) (scrollval.Geometry, error) { return g, nil }
}

func requireKind(t *testing.T, err error, kind ErrorKind) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "want *ValidationError, got %T: %v", err, err)
	assert.Equal(t, kind, verr.Kind, "error: %v", verr)
	return verr
}

func TestValidateAppliesDefaults(t *testing.T) {
	in, err := Validate(Config{From: "0", To: "100"}, 0, 800, nil, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, in.ID())
	assert.True(t, in.Tracked())
	assert.False(t, in.IsActive())
	assert.Equal(t, Target{Kind: TargetGlobal}, in.Target())
	assert.Empty(t, in.Properties())

	// Defaulted callbacks are no-ops, not nil: evaluation must not panic.
	assert.NotPanics(t, func() { in.Evaluate(50) })
}

func TestValidateRequiresFromAndTo(t *testing.T) {
	_, err := Validate(Config{To: "100"}, 0, 800, nil, nil)
	verr := requireKind(t, err, ErrMissingField)
	assert.Equal(t, "from", verr.Field)

	_, err = Validate(Config{From: "0"}, 0, 800, nil, nil)
	verr = requireKind(t, err, ErrMissingField)
	assert.Equal(t, "to", verr.Field)
}

func TestValidateParsesAbsoluteBounds(t *testing.T) {
	in, err := Validate(Config{From: "-13.5px", To: "870px"}, 0, 800, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, scrollval.Value{Magnitude: -13.5, Unit: "px"}, in.From())
	assert.Equal(t, scrollval.Value{Magnitude: 870, Unit: "px"}, in.To())
}

func TestValidateRejectsRelativeBoundsWithoutElement(t *testing.T) {
	_, err := Validate(Config{From: "top-bottom", To: "100"}, 0, 800, nil, nil)
	requireKind(t, err, ErrInvalidValueSyntax)
}

func TestValidateResolvesRelativeBounds(t *testing.T) {
	geom := fixedGeometry(scrollval.Geometry{Top: 200, Height: 100})
	in, err := Validate(Config{
		Element: "#hero",
		From:    "top-bottom",
		To:      "bottom-top",
	}, 0, 800, geom, nil)
	require.NoError(t, err)

	assert.Equal(t, scrollval.Value{Magnitude: -600, Unit: "px"}, in.From())
	assert.Equal(t, scrollval.Value{Magnitude: 300, Unit: "px"}, in.To())
}

func TestValidateMixedBounds(t *testing.T) {
	// An absolute bound passes through untouched next to a relative one.
	geom := fixedGeometry(scrollval.Geometry{Top: 200, Height: 100})
	in, err := Validate(Config{Element: "#hero", From: "50", To: "bottom-top"}, 0, 800, geom, nil)
	require.NoError(t, err)
	assert.Equal(t, 50.0, in.From().Magnitude)
	assert.Equal(t, 300.0, in.To().Magnitude)
}

func TestValidatePropagatesGeometryErrors(t *testing.T) {
	geomErr := fmt.Errorf("no such element")
	geom := func(string) (scrollval.Geometry, error) { return scrollval.Geometry{}, geomErr }

	_, err := Validate(Config{Element: "#gone", From: "top-top", To: "100"}, 0, 800, geom, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, geomErr)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "collaborator failures are not validation errors")
}

func TestValidateRejectsDegenerateRange(t *testing.T) {
	_, err := Validate(Config{From: "100", To: "100"}, 0, 800, nil, nil)
	requireKind(t, err, ErrDegenerateRange)

	// Also when both bounds resolve to the same offset via geometry.
	geom := fixedGeometry(scrollval.Geometry{Top: 200, Height: 0})
	_, err = Validate(Config{Element: "#flat", From: "top-top", To: "bottom-top"}, 0, 800, geom, nil)
	requireKind(t, err, ErrDegenerateRange)
}

func TestValidateTargetVariants(t *testing.T) {
	testCases := []struct {
		name    string
		direct  any
		element string
		want    Target
		kind    ErrorKind
		wantErr bool
	}{
		{name: "nil is global", direct: nil, want: Target{Kind: TargetGlobal}},
		{name: "false is global", direct: false, want: Target{Kind: TargetGlobal}},
		{name: "true targets anchor", direct: true, element: "#hero", want: Target{Kind: TargetSelf, Selector: "#hero"}},
		{name: "selector targets element", direct: "#banner", want: Target{Kind: TargetElement, Selector: "#banner"}},
		{name: "true without anchor fails", direct: true, wantErr: true, kind: ErrMissingAnchorElement},
		{name: "unsupported type fails", direct: 7, wantErr: true, kind: ErrInvalidType},
		{name: "empty selector fails", direct: "", wantErr: true, kind: ErrInvalidType},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := Validate(Config{From: "0", To: "100", Element: tc.element, Direct: tc.direct}, 0, 800, nil, nil)
			if tc.wantErr {
				requireKind(t, err, tc.kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, in.Target())
		})
	}
}

func TestValidatePropertyBoundsMustBeAbsolute(t *testing.T) {
	_, err := Validate(Config{
		From: "0", To: "100",
		Props: []PropConfig{{Name: "opacity", From: "top-bottom", To: "1"}},
	}, 0, 800, nil, nil)
	verr := requireKind(t, err, ErrInvalidValueSyntax)
	assert.Equal(t, "props[0].from", verr.Field)
}

func TestValidatePropertyRequiresName(t *testing.T) {
	_, err := Validate(Config{
		From: "0", To: "100",
		Props: []PropConfig{{From: "0", To: "1"}},
	}, 0, 800, nil, nil)
	requireKind(t, err, ErrMissingField)
}

func TestValidateEasingResolution(t *testing.T) {
	t.Run("omitted is identity", func(t *testing.T) {
		in, err := Validate(Config{
			From: "0", To: "100",
			Props: []PropConfig{{Name: "opacity", From: "0", To: "1"}},
		}, 0, 800, nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.42, in.Properties()[0].Easing(0.42), 1e-12)
	})

	t.Run("named is looked up once", func(t *testing.T) {
		in, err := Validate(Config{
			From: "0", To: "100",
			Props: []PropConfig{{Name: "opacity", From: "0", To: "1", Easing: "ease-in-quad"}},
		}, 0, 800, nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, in.Properties()[0].Easing(0.5), 1e-12)
	})

	t.Run("custom table", func(t *testing.T) {
		table := Table{"snap": func(float64) float64 { return 1 }}
		in, err := Validate(Config{
			From: "0", To: "100",
			Props: []PropConfig{{Name: "opacity", From: "0", To: "1", Easing: "snap"}},
		}, 0, 800, nil, table)
		require.NoError(t, err)
		assert.Equal(t, 1.0, in.Properties()[0].Easing(0.1))
	})

	t.Run("callable passes through", func(t *testing.T) {
		in, err := Validate(Config{
			From: "0", To: "100",
			Props: []PropConfig{{Name: "opacity", From: "0", To: "1", Easing: func(t float64) float64 { return t * t }}},
		}, 0, 800, nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, in.Properties()[0].Easing(0.5), 1e-12)
	})

	t.Run("unknown name fails", func(t *testing.T) {
		_, err := Validate(Config{
			From: "0", To: "100",
			Props: []PropConfig{{Name: "opacity", From: "0", To: "1", Easing: "bounce"}},
		}, 0, 800, nil, nil)
		requireKind(t, err, ErrUnknownEasing)
	})

	t.Run("wrong type fails", func(t *testing.T) {
		_, err := Validate(Config{
			From: "0", To: "100",
			Props: []PropConfig{{Name: "opacity", From: "0", To: "1", Easing: 3}},
		}, 0, 800, nil, nil)
		requireKind(t, err, ErrInvalidType)
	})
}

func TestValidateIsDeterministic(t *testing.T) {
	cfg := Config{
		From: "0", To: "100",
		Props: []PropConfig{
			{Name: "opacity", From: "1", To: "0"},
			{Name: "padding-top", From: "0", To: "100px", Easing: "ease-out-sine"},
		},
	}
	a, err := Validate(cfg, 0, 800, nil, nil)
	require.NoError(t, err)
	b, err := Validate(cfg, 0, 800, nil, nil)
	require.NoError(t, err)

	// Compare through the evaluated output, which is the observable surface.
	diff := cmp.Diff(a.ComputeProgress(33).Props, b.ComputeProgress(33).Props)
	assert.Empty(t, diff)
}

func TestStartStopToggleActivity(t *testing.T) {
	in, err := Validate(Config{From: "0", To: "100"}, 0, 800, nil, nil)
	require.NoError(t, err)

	assert.False(t, in.IsActive())
	in.Start()
	assert.True(t, in.IsActive())
	in.Stop()
	assert.False(t, in.IsActive())
}

func TestRecalculateReResolvesFromRawConfig(t *testing.T) {
	top := 200.0
	geom := func(string) (scrollval.Geometry, error) {
		return scrollval.Geometry{Top: top, Height: 100}, nil
	}

	in, err := Validate(Config{Element: "#hero", From: "top-top", To: "bottom-top"}, 0, 800, geom, nil)
	require.NoError(t, err)
	require.Equal(t, 200.0, in.From().Magnitude)
	require.Equal(t, 300.0, in.To().Magnitude)

	in.Start()
	top = 400 // the layout shifted

	p, err := in.Recalculate(450, 800, geom, nil)
	require.NoError(t, err)

	assert.Equal(t, 400.0, in.From().Magnitude)
	assert.Equal(t, 500.0, in.To().Magnitude)
	assert.Equal(t, 50.0, p.Raw, "recalculate evaluates once at the given offset")
	assert.True(t, in.IsActive(), "activity survives recalculation")
}

func TestRecalculateSurfacesValidationFailures(t *testing.T) {
	geom := fixedGeometry(scrollval.Geometry{Top: 200, Height: 100})
	in, err := Validate(Config{Element: "#hero", From: "top-top", To: "bottom-top"}, 0, 800, geom, nil)
	require.NoError(t, err)

	// After a relayout the element collapsed, making the range degenerate.
	collapsed := fixedGeometry(scrollval.Geometry{Top: 200, Height: 0})
	_, err = in.Recalculate(0, 800, collapsed, nil)
	requireKind(t, err, ErrDegenerateRange)

	// The instance keeps its previous resolved state on failure.
	assert.Equal(t, 200.0, in.From().Magnitude)
	assert.Equal(t, 300.0, in.To().Magnitude)
}
