// Package piano turns keyboard and pointer input into engage/disengage
// events for individual piano keys.
package piano

import (
	"go-pianokey/debug"
	"go-pianokey/input"
	"go-pianokey/keymap"
	"go-pianokey/note"
)

// PressState is the visual state of one key
type PressState int

const (
	Released PressState = iota
	Pressed
)

func (s PressState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// KeyOptions configures a key. OnEngage and OnDisengage may be nil.
type KeyOptions struct {
	Note        note.Name
	IsFlat      bool
	OnEngage    func(note.Name)
	OnDisengage func(note.Name)
}

// Subscriber is the keyboard event source a key listens to.
// *input.Surface implements it.
type Subscriber interface {
	Subscribe(fn input.KeyHandler) (stop func())
}

// Key is one rendered piano key. It is not safe for concurrent use; all
// calls are expected on the UI goroutine.
type Key struct {
	opts  KeyOptions // latest options, read at dispatch time
	state PressState

	source  Subscriber
	table   *keymap.Table
	binding string // physical key currently subscribed, "" if none
	stop    func()
	gen     uint64 // bumped on every unsubscribe; stale handlers compare against it
}

// NewKey creates a released, unbound key
func NewKey(opts KeyOptions) *Key {
	return &Key{opts: opts}
}

// Bind subscribes the key to source using the physical key that table
// assigns to its note. Any previous subscription is released first.
// A note the table does not cover stays unbound and only responds to the
// pointer.
func (k *Key) Bind(source Subscriber, table *keymap.Table) {
	k.source = source
	k.table = table
	k.bind()
}

// SetOptions replaces the key's note and callbacks. Handlers pick up the new
// values on the next event. If the note changes the key is rebound, and a
// key held under the old note is disengaged first.
func (k *Key) SetOptions(opts KeyOptions) {
	k.apply(opts, k.table)
}

func (k *Key) apply(opts KeyOptions, table *keymap.Table) {
	prev := k.opts
	if k.state == Pressed && prev.Note != opts.Note {
		k.Disengage()
	}
	k.opts = opts
	if k.source != nil && (prev.Note != opts.Note || table != k.table) {
		k.table = table
		k.bind()
	}
}

func (k *Key) bind() {
	k.unbind()
	key, ok := k.table.KeyFor(k.opts.Note)
	if !ok {
		return
	}
	k.binding = key
	k.stop = k.source.Subscribe(k.keyHandler(k.gen, key))
	debug.Log("key", "bind %s -> %q", k.opts.Note, key)
}

func (k *Key) unbind() {
	if k.stop != nil {
		k.stop()
		k.stop = nil
		debug.Log("key", "unbind %s <- %q", k.opts.Note, k.binding)
	}
	k.gen++
	k.binding = ""
}

func (k *Key) keyHandler(gen uint64, bound string) input.KeyHandler {
	return func(ev input.KeyEvent) {
		if k.gen != gen || ev.Key != bound {
			return
		}
		if !ev.Down {
			k.Disengage()
			return
		}
		if ev.Repeat {
			return
		}
		k.Engage()
	}
}

// HandlePointer applies a pointer transition on this key's hit area.
// Entering only engages while the primary button is held (glissando);
// leaving always disengages so a note can't stick.
func (k *Key) HandlePointer(ev input.PointerEvent) {
	switch ev.Kind {
	case input.PointerDown, input.PointerEnter:
		if ev.PrimaryHeld() {
			k.Engage()
		}
	case input.PointerUp, input.PointerLeave:
		k.Disengage()
	}
}

// Engage presses the key. Engaging a pressed key does nothing.
func (k *Key) Engage() {
	if k.state == Pressed {
		return
	}
	k.state = Pressed
	if fn := k.opts.OnEngage; fn != nil {
		fn(k.opts.Note)
	}
}

// Disengage releases the key and always notifies the owner, even when the
// key was not pressed.
func (k *Key) Disengage() {
	k.state = Released
	if fn := k.opts.OnDisengage; fn != nil {
		fn(k.opts.Note)
	}
}

// Close drops the subscription and returns the key to Released without
// notifying the owner
func (k *Key) Close() {
	k.unbind()
	k.source = nil
	k.state = Released
}

// State returns the press state
func (k *Key) State() PressState {
	return k.state
}

// Pressed reports whether the key is engaged
func (k *Key) Pressed() bool {
	return k.state == Pressed
}

// Note returns the current note
func (k *Key) Note() note.Name {
	return k.opts.Note
}

// IsFlat reports whether the key renders as a black key
func (k *Key) IsFlat() bool {
	return k.opts.IsFlat
}

// Binding returns the physical key the key listens for, or "" if unbound
func (k *Key) Binding() string {
	return k.binding
}
