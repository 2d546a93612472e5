package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// lockedBuffer is safe to write from the animation goroutine.
type lockedBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinnerTo(&lockedBuffer{}, "Fetching", false)
	assert.Equal(t, "Fetching", s.Label())
	assert.Equal(t, SpinnerPending, s.State())
}

func TestSpinner_Success(t *testing.T) {
	var buf lockedBuffer
	s := NewSpinnerTo(&buf, "Fetching", true)

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(2 * spinnerFrames.FPS)
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	out := buf.String()
	assert.Contains(t, out, "Fetching...")
	assert.Contains(t, out, SymbolSuccess+" Fetching")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestSpinner_FailWithoutAnimation(t *testing.T) {
	var buf lockedBuffer
	s := NewSpinnerTo(&buf, "Fetching", false)

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	out := buf.String()
	assert.NotContains(t, out, "...", "no frames when not animated")
	assert.Contains(t, out, SymbolFail+" Fetching")
}

func TestSpinner_FinishTwice(t *testing.T) {
	var buf lockedBuffer
	s := NewSpinnerTo(&buf, "x", false)

	s.Success()
	assert.Empty(t, buf.String(), "finishing before Start prints nothing")

	s.Start()
	s.Success()
	s.Fail()
	assert.Equal(t, SpinnerSuccess, s.State())
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50*time.Millisecond))
	assert.Equal(t, "1.2s", formatDuration(1200*time.Millisecond))
}
