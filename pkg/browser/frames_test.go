package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameTickerDeliversTicks(t *testing.T) {
	f := NewFrameTicker(time.Millisecond)
	defer f.Stop()

	select {
	case <-f.Frames():
	case <-time.After(time.Second):
		t.Fatal("no frame tick arrived")
	}
}

func TestFrameTickerDefaultsInterval(t *testing.T) {
	f := NewFrameTicker(0)
	defer f.Stop()
	assert.NotNil(t, f.Frames())
}
