package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianokey/note"
	"go-pianokey/theme"
)

type fakeKey struct {
	name    note.Name
	pressed bool
	binding string
}

func (k *fakeKey) Note() note.Name { return k.name }
func (k *fakeKey) IsFlat() bool    { return k.name.IsSharp() }
func (k *fakeKey) Pressed() bool   { return k.pressed }
func (k *fakeKey) Binding() string { return k.binding }

func octave(oct int) []PianoKey {
	labels := []string{"q", "2", "w", "3", "e", "r", "5", "t", "6", "y", "7", "u"}
	keys := make([]PianoKey, 0, 12)
	for p := range note.Pitches {
		keys = append(keys, &fakeKey{name: note.New(p, oct), binding: labels[p]})
	}
	return keys
}

func TestHitTest(t *testing.T) {
	kb := NewKeyboard(theme.New(nil), octave(3))
	require.Equal(t, 28, kb.Width())

	tests := []struct {
		x, y int
		want note.Name
	}{
		{0, 0, "C3"},
		{3, 0, "C#3"},
		{4, 1, "C#3"},
		{3, 2, "C3"},
		{4, 3, "D3"},
		{5, 0, "D3"},
		{11, 0, "E3"},
		{12, 0, "F3"},
		{15, 1, "F#3"},
		{27, 3, "B3"},
	}
	keys := octave(3)
	for _, tt := range tests {
		i, ok := kb.HitTest(tt.x, tt.y)
		require.True(t, ok, "(%d,%d)", tt.x, tt.y)
		assert.Equal(t, tt.want, keys[i].Note(), "(%d,%d)", tt.x, tt.y)
	}

	for _, p := range [][2]int{{28, 0}, {-1, 0}, {0, 4}, {0, -1}} {
		_, ok := kb.HitTest(p[0], p[1])
		assert.False(t, ok, p)
	}
}

func TestViewShape(t *testing.T) {
	keys := append(octave(3), octave(4)...)
	keys[0].(*fakeKey).pressed = true
	keys[13].(*fakeKey).binding = ""
	kb := NewKeyboard(theme.New(nil), keys)

	view := kb.View()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, kb.Height())
	for _, l := range lines {
		assert.Equal(t, kb.Width(), lipgloss.Width(l))
	}

	assert.Contains(t, lines[KeyboardHeight], "C3")
	assert.Contains(t, lines[KeyboardHeight], "C4")
	assert.Contains(t, lines[KeyboardHeight-1], "q")
	assert.Contains(t, lines[1], "2")
	assert.Contains(t, lines[1], "·")
	assert.Contains(t, lines[0], "▓")
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{
		{Title: "octave", Keys: []KeyBinding{{Key: "[", Desc: "down"}, {Key: "]", Desc: "up"}}},
		{Keys: []KeyBinding{{Key: "esc", Desc: "quit"}}},
	})
	assert.Equal(t, "octave    [:down  ]:up\nesc:quit", out)
}
