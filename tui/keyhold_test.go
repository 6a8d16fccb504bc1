package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianokey/config"
)

func TestKeyHoldRepeatAndRelease(t *testing.T) {
	h := newKeyHold(time.Millisecond)

	repeat, cmd1 := h.press("q")
	assert.False(t, repeat)
	require.NotNil(t, cmd1)

	repeat, cmd2 := h.press("q")
	assert.True(t, repeat)

	// the first timer was superseded by the second press
	first := cmd1().(releaseMsg)
	assert.False(t, h.release(first))

	second := cmd2().(releaseMsg)
	assert.True(t, h.release(second))
	assert.False(t, h.release(second))

	repeat, _ = h.press("q")
	assert.False(t, repeat)
}

func TestKeyHoldIndependentKeys(t *testing.T) {
	h := newKeyHold(time.Millisecond)

	_, cq := h.press("q")
	repeat, _ := h.press("w")
	assert.False(t, repeat)

	assert.True(t, h.release(cq().(releaseMsg)))
	assert.Equal(t, []string{"w"}, h.releaseAll())
	assert.Empty(t, h.releaseAll())
}

// The release window has to outlast the delay before the first OS
// auto-repeat, otherwise that repeat arrives as a fresh key-down.
func TestDefaultReleaseOutlastsRepeatDelay(t *testing.T) {
	const x11RepeatDelay = 660 * time.Millisecond
	assert.Greater(t, int64(config.DefaultConfig().ReleaseAfter()), int64(x11RepeatDelay))
}
