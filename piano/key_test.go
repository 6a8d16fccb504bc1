package piano

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianokey/input"
	"go-pianokey/keymap"
	"go-pianokey/note"
)

// recorder collects callback invocations as "engage:C3" / "disengage:C3"
type recorder struct {
	calls []string
}

func (r *recorder) engage(n note.Name)    { r.calls = append(r.calls, "engage:"+string(n)) }
func (r *recorder) disengage(n note.Name) { r.calls = append(r.calls, "disengage:"+string(n)) }

func (r *recorder) options(n note.Name) KeyOptions {
	return KeyOptions{Note: n, IsFlat: n.IsSharp(), OnEngage: r.engage, OnDisengage: r.disengage}
}

// tracingSource wraps a Surface and logs subscribe/unsubscribe order
type tracingSource struct {
	surface *input.Surface
	log     []string
	label   string
}

func (s *tracingSource) Subscribe(fn input.KeyHandler) func() {
	label := s.label
	s.log = append(s.log, "sub:"+label)
	stop := s.surface.Subscribe(fn)
	return func() {
		s.log = append(s.log, "unsub:"+label)
		stop()
	}
}

func mustTable(t *testing.T, octaves keymap.OctaveSet) *keymap.Table {
	t.Helper()
	tbl, err := keymap.Build(octaves)
	require.NoError(t, err)
	return tbl
}

func TestKeyboardKeyPressRelease(t *testing.T) {
	s := input.NewSurface()
	rec := &recorder{}
	k := NewKey(rec.options("C3"))
	k.Bind(s, mustTable(t, keymap.OctaveSet{3, 4, 5}))
	require.Equal(t, "q", k.Binding())

	s.KeyDown("q", false)
	s.KeyDown("q", true)
	s.KeyDown("q", true)
	assert.True(t, k.Pressed())
	s.KeyUp("q")

	assert.Equal(t, []string{"engage:C3", "disengage:C3"}, rec.calls)
	assert.Equal(t, Released, k.State())
}

func TestDoublePressWithoutReleaseEngagesOnce(t *testing.T) {
	s := input.NewSurface()
	rec := &recorder{}
	k := NewKey(rec.options("A4"))
	k.Bind(s, mustTable(t, keymap.OctaveSet{3, 4, 5}))
	require.Equal(t, "c", k.Binding())

	// A4 sits on "c" in the middle slot; "y" is A3
	k2 := NewKey(rec.options("A3"))
	k2.Bind(s, mustTable(t, keymap.OctaveSet{3, 4, 5}))
	require.Equal(t, "y", k2.Binding())

	s.KeyDown("y", false)
	s.KeyDown("y", false)
	s.KeyUp("y")

	assert.Equal(t, []string{"engage:A3", "disengage:A3"}, rec.calls)
	assert.False(t, k.Pressed())
}

func TestOctaveScenario(t *testing.T) {
	// A4 is bound to "y" when 4 is the lowest octave slot
	s := input.NewSurface()
	rec := &recorder{}
	k := NewKey(rec.options("A4"))
	k.Bind(s, mustTable(t, keymap.OctaveSet{4, 5, 6}))
	require.Equal(t, "y", k.Binding())

	s.KeyDown("y", false)
	s.KeyUp("y")
	s.KeyDown("y", false)
	s.KeyDown("y", false)

	assert.Equal(t, []string{"engage:A4", "disengage:A4", "engage:A4"}, rec.calls)
}

func TestUnmatchedKeysIgnored(t *testing.T) {
	s := input.NewSurface()
	rec := &recorder{}
	k := NewKey(rec.options("C3"))
	k.Bind(s, mustTable(t, keymap.OctaveSet{3, 4, 5}))

	s.KeyDown("w", false)
	s.KeyUp("w")
	s.KeyDown("Q", false)

	assert.Empty(t, rec.calls)
	assert.False(t, k.Pressed())
}

func TestUnboundNoteRespondsOnlyToPointer(t *testing.T) {
	s := input.NewSurface()
	rec := &recorder{}
	k := NewKey(rec.options("C7"))
	k.Bind(s, mustTable(t, keymap.OctaveSet{3, 4, 5}))

	assert.Equal(t, "", k.Binding())
	assert.Equal(t, 0, s.Len())

	k.HandlePointer(input.PointerEvent{Kind: input.PointerDown, Buttons: input.ButtonPrimary})
	assert.Equal(t, []string{"engage:C7"}, rec.calls)
}

func TestPointer(t *testing.T) {
	tests := []struct {
		name   string
		events []input.PointerEvent
		want   []string
		held   bool
	}{
		{
			name:   "down then up",
			events: []input.PointerEvent{{Kind: input.PointerDown, Buttons: input.ButtonPrimary}, {Kind: input.PointerUp}},
			want:   []string{"engage:C3", "disengage:C3"},
		},
		{
			name:   "down with secondary only",
			events: []input.PointerEvent{{Kind: input.PointerDown, Buttons: input.ButtonSecondary}},
			want:   nil,
		},
		{
			name:   "down with primary and secondary",
			events: []input.PointerEvent{{Kind: input.PointerDown, Buttons: input.ButtonPrimary | input.ButtonSecondary}},
			want:   []string{"engage:C3"},
			held:   true,
		},
		{
			name:   "enter with primary held",
			events: []input.PointerEvent{{Kind: input.PointerEnter, Buttons: input.ButtonPrimary}},
			want:   []string{"engage:C3"},
			held:   true,
		},
		{
			name:   "hover enter does nothing",
			events: []input.PointerEvent{{Kind: input.PointerEnter}},
			want:   nil,
		},
		{
			name:   "leave without engage still disengages",
			events: []input.PointerEvent{{Kind: input.PointerEnter}, {Kind: input.PointerLeave}},
			want:   []string{"disengage:C3"},
		},
		{
			name:   "leave with button held releases",
			events: []input.PointerEvent{{Kind: input.PointerEnter, Buttons: input.ButtonPrimary}, {Kind: input.PointerLeave, Buttons: input.ButtonPrimary}},
			want:   []string{"engage:C3", "disengage:C3"},
		},
		{
			name:   "repeated down is idempotent",
			events: []input.PointerEvent{{Kind: input.PointerDown, Buttons: input.ButtonPrimary}, {Kind: input.PointerDown, Buttons: input.ButtonPrimary}},
			want:   []string{"engage:C3"},
			held:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			k := NewKey(rec.options("C3"))
			for _, ev := range tt.events {
				k.HandlePointer(ev)
			}
			assert.Equal(t, tt.want, rec.calls)
			assert.Equal(t, tt.held, k.Pressed())
		})
	}
}

func TestPressStateFollowsCalls(t *testing.T) {
	rec := &recorder{}
	k := NewKey(KeyOptions{Note: "E3"})
	var states []PressState
	k.SetOptions(KeyOptions{
		Note: "E3",
		OnEngage: func(n note.Name) {
			rec.engage(n)
			states = append(states, k.State())
		},
		OnDisengage: func(n note.Name) {
			rec.disengage(n)
			states = append(states, k.State())
		},
	})

	k.Engage()
	k.Engage()
	k.Disengage()
	k.Engage()

	assert.Equal(t, []string{"engage:E3", "disengage:E3", "engage:E3"}, rec.calls)
	assert.Equal(t, []PressState{Pressed, Released, Pressed}, states)
	assert.Equal(t, "pressed", k.State().String())
}

func TestHandlerUsesLatestCallbacks(t *testing.T) {
	s := input.NewSurface()
	first := &recorder{}
	second := &recorder{}
	k := NewKey(first.options("C3"))
	k.Bind(s, mustTable(t, keymap.OctaveSet{3, 4, 5}))

	opts := second.options("C3")
	k.SetOptions(opts)
	s.KeyDown("q", false)

	assert.Empty(t, first.calls)
	assert.Equal(t, []string{"engage:C3"}, second.calls)
	assert.Equal(t, 1, s.Len())
}

func TestNoteChangeRebindsAndReleases(t *testing.T) {
	s := input.NewSurface()
	src := &tracingSource{surface: s, label: "C3"}
	rec := &recorder{}
	k := NewKey(rec.options("C3"))
	k.Bind(src, mustTable(t, keymap.OctaveSet{3, 4, 5}))

	s.KeyDown("q", false)
	src.label = "D3"
	k.SetOptions(rec.options("D3"))

	assert.Equal(t, "w", k.Binding())
	assert.Equal(t, []string{"sub:C3", "unsub:C3", "sub:D3"}, src.log)
	assert.Equal(t, []string{"engage:C3", "disengage:C3"}, rec.calls)
	assert.Equal(t, 1, s.Len())

	s.KeyDown("q", false)
	s.KeyDown("w", false)
	assert.Equal(t, []string{"engage:C3", "disengage:C3", "engage:D3"}, rec.calls)
}

func TestRebindDuringDispatchDropsStaleHandler(t *testing.T) {
	s := input.NewSurface()
	rec := &recorder{}
	tbl := mustTable(t, keymap.OctaveSet{3, 4, 5})
	k := NewKey(rec.options("C3"))

	// subscribed before k, rebinds k while the first event is in flight
	rebound := false
	s.Subscribe(func(ev input.KeyEvent) {
		if !rebound {
			rebound = true
			k.Bind(s, tbl)
		}
	})
	k.Bind(s, tbl)

	s.KeyDown("q", false)
	assert.Empty(t, rec.calls)

	s.KeyDown("q", false)
	assert.Equal(t, []string{"engage:C3"}, rec.calls)
}

func TestClose(t *testing.T) {
	s := input.NewSurface()
	rec := &recorder{}
	k := NewKey(rec.options("C3"))
	k.Bind(s, mustTable(t, keymap.OctaveSet{3, 4, 5}))

	s.KeyDown("q", false)
	k.Close()
	s.KeyUp("q")
	s.KeyDown("q", false)

	assert.Equal(t, []string{"engage:C3"}, rec.calls)
	assert.Equal(t, Released, k.State())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", k.Binding())
}

func TestNilCallbacks(t *testing.T) {
	k := NewKey(KeyOptions{Note: "C3"})
	assert.NotPanics(t, func() {
		k.Engage()
		k.Disengage()
	})
}
