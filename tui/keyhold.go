package tui

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// releaseMsg fires when a held key has gone quiet for releaseAfter
type releaseMsg struct {
	key string
	gen uint64
}

// keyHold reconstructs key-down/repeat/key-up from terminal input, which
// only reports presses. The first press of a key is a key-down, presses
// while it is held are repeats, and a key is released once no press has
// arrived for releaseAfter.
type keyHold struct {
	releaseAfter time.Duration
	held         map[string]uint64 // key -> generation of its latest press
	seq          uint64
}

func newKeyHold(releaseAfter time.Duration) *keyHold {
	return &keyHold{
		releaseAfter: releaseAfter,
		held:         make(map[string]uint64),
	}
}

// press records a press and returns whether it is a repeat, plus the
// command that will deliver the release
func (h *keyHold) press(key string) (repeat bool, cmd tea.Cmd) {
	_, repeat = h.held[key]
	h.seq++
	gen := h.seq
	h.held[key] = gen
	return repeat, tea.Tick(h.releaseAfter, func(time.Time) tea.Msg {
		return releaseMsg{key: key, gen: gen}
	})
}

// release reports whether msg is the latest timer for a still-held key.
// Timers superseded by a later press are ignored.
func (h *keyHold) release(msg releaseMsg) bool {
	gen, ok := h.held[msg.key]
	if !ok || gen != msg.gen {
		return false
	}
	delete(h.held, msg.key)
	return true
}

// releaseAll forgets every held key and returns them in sorted order
func (h *keyHold) releaseAll() []string {
	keys := make([]string, 0, len(h.held))
	for k := range h.held {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h.held = make(map[string]uint64)
	return keys
}
