package piano

import (
	"fmt"

	"go-pianokey/debug"
	"go-pianokey/keymap"
	"go-pianokey/note"
)

// Callbacks receive engage/disengage events from every key of a Keyboard
type Callbacks struct {
	OnEngage    func(note.Name)
	OnDisengage func(note.Name)
}

// Keyboard holds one Key per binding of the current OctaveSet. Keys keep
// their identity across octave changes; only their notes move.
type Keyboard struct {
	source Subscriber
	table  *keymap.Table
	keys   []*Key
	cb     Callbacks
}

// NewKeyboard builds the keys for octaves and subscribes them to source
func NewKeyboard(source Subscriber, octaves keymap.OctaveSet, cb Callbacks) (*Keyboard, error) {
	table, err := keymap.Build(octaves)
	if err != nil {
		return nil, fmt.Errorf("build keymap: %w", err)
	}

	kb := &Keyboard{
		source: source,
		table:  table,
		keys:   make([]*Key, 0, table.Len()),
		cb:     cb,
	}
	for _, b := range table.Bindings() {
		k := NewKey(kb.options(b.Note))
		k.Bind(source, table)
		kb.keys = append(kb.keys, k)
	}
	return kb, nil
}

func (kb *Keyboard) options(n note.Name) KeyOptions {
	return KeyOptions{
		Note:        n,
		IsFlat:      n.IsSharp(),
		OnEngage:    kb.cb.OnEngage,
		OnDisengage: kb.cb.OnDisengage,
	}
}

// SetOctaves moves every key to the new octaves. Each key drops its old
// subscription before taking the new one, and held keys are released
// under their old note. On error the keyboard is left unchanged.
func (kb *Keyboard) SetOctaves(octaves keymap.OctaveSet) error {
	if octaves == kb.table.Octaves() {
		return nil
	}
	table, err := keymap.Build(octaves)
	if err != nil {
		return fmt.Errorf("build keymap: %w", err)
	}
	debug.Log("keyboard", "octaves %s -> %s", kb.table.Octaves(), octaves)

	kb.table = table
	for i, b := range table.Bindings() {
		kb.keys[i].apply(kb.options(b.Note), table)
	}
	return nil
}

// ShiftOctaves moves the octave set up or down by delta
func (kb *Keyboard) ShiftOctaves(delta int) error {
	return kb.SetOctaves(kb.table.Octaves().Shift(delta))
}

// Octaves returns the current octave set
func (kb *Keyboard) Octaves() keymap.OctaveSet {
	return kb.table.Octaves()
}

// Table returns the current bindings
func (kb *Keyboard) Table() *keymap.Table {
	return kb.table
}

// Keys returns the keys lowest note first
func (kb *Keyboard) Keys() []*Key {
	return kb.keys
}

// Key returns the key currently playing n, or nil
func (kb *Keyboard) Key(n note.Name) *Key {
	for _, k := range kb.keys {
		if k.Note() == n {
			return k
		}
	}
	return nil
}

// Engage presses the key for n. It reports false when no key plays n.
func (kb *Keyboard) Engage(n note.Name) bool {
	k := kb.Key(n)
	if k == nil {
		return false
	}
	k.Engage()
	return true
}

// Disengage releases the key for n. It reports false when no key plays n.
func (kb *Keyboard) Disengage(n note.Name) bool {
	k := kb.Key(n)
	if k == nil {
		return false
	}
	k.Disengage()
	return true
}

// Held returns the notes of all pressed keys
func (kb *Keyboard) Held() []note.Name {
	var held []note.Name
	for _, k := range kb.keys {
		if k.Pressed() {
			held = append(held, k.Note())
		}
	}
	return held
}

// Close releases every key's subscription
func (kb *Keyboard) Close() {
	for _, k := range kb.keys {
		k.Close()
	}
}
