// Package keymap binds the notes of three consecutive octave slots to
// physical computer-keyboard keys.
package keymap

import (
	"errors"
	"fmt"

	"go-pianokey/note"
)

var (
	// ErrNoteCollision means two layout slots produced the same note name,
	// which happens when an octave appears twice in the OctaveSet
	ErrNoteCollision = errors.New("note bound twice")
	// ErrKeyCollision means one physical key was assigned to two notes
	ErrKeyCollision = errors.New("key bound twice")
)

// Size is the number of bindings in a table (12 pitches x 3 octaves)
const Size = 36

// OctaveSet is the ordered triple of octaves mapped onto the keyboard
type OctaveSet [3]int

// Shift returns the set moved by delta octaves
func (o OctaveSet) Shift(delta int) OctaveSet {
	return OctaveSet{o[0] + delta, o[1] + delta, o[2] + delta}
}

func (o OctaveSet) String() string {
	return fmt.Sprintf("%d,%d,%d", o[0], o[1], o[2])
}

// layout[slot][pitch] is the physical key for that pitch in octave slot.
// Naturals run along the letter rows, sharps along the row above.
var layout = [3][12]string{
	{"q", "2", "w", "3", "e", "r", "5", "t", "6", "y", "7", "u"},
	{"i", "9", "o", "0", "p", "z", "s", "x", "d", "c", "f", "v"},
	{"b", "h", "n", "j", "m", ",", "l", ".", ";", "a", "4", "k"},
}

// Binding pairs a note with the physical key that plays it
type Binding struct {
	Note note.Name
	Key  string
}

// Table is an immutable note <-> key lookup built for one OctaveSet
type Table struct {
	octaves  OctaveSet
	bindings []Binding
	byNote   map[note.Name]string
	byKey    map[string]note.Name
}

// Build assigns the fixed layout to the given octaves
func Build(octaves OctaveSet) (*Table, error) {
	t := &Table{
		octaves:  octaves,
		bindings: make([]Binding, 0, Size),
		byNote:   make(map[note.Name]string, Size),
		byKey:    make(map[string]note.Name, Size),
	}
	for slot, oct := range octaves {
		for pitch, key := range layout[slot] {
			n := note.New(pitch, oct)
			if prev, ok := t.byNote[n]; ok {
				return nil, fmt.Errorf("%w: %s on %q and %q (octaves %s)", ErrNoteCollision, n, prev, key, octaves)
			}
			if prev, ok := t.byKey[key]; ok {
				return nil, fmt.Errorf("%w: %q for %s and %s", ErrKeyCollision, key, prev, n)
			}
			t.byNote[n] = key
			t.byKey[key] = n
			t.bindings = append(t.bindings, Binding{Note: n, Key: key})
		}
	}
	return t, nil
}

// Octaves returns the set the table was built for
func (t *Table) Octaves() OctaveSet {
	return t.octaves
}

// KeyFor returns the physical key bound to n
func (t *Table) KeyFor(n note.Name) (string, bool) {
	if t == nil {
		return "", false
	}
	k, ok := t.byNote[n]
	return k, ok
}

// NoteFor returns the note bound to the physical key
func (t *Table) NoteFor(key string) (note.Name, bool) {
	if t == nil {
		return "", false
	}
	n, ok := t.byKey[key]
	return n, ok
}

// Bindings returns all bindings, lowest octave slot first, chromatic within
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Len is the number of bindings
func (t *Table) Len() int {
	return len(t.bindings)
}
