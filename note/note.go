// Package note names musical pitches at a specific octave ("C#4") and
// converts them to MIDI note numbers.
package note

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidName is returned by Parse for strings that are not a note name
var ErrInvalidName = errors.New("invalid note name")

// Pitches in chromatic order starting at C
var Pitches = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Name is a pitch letter, optional sharp and octave number, e.g. "C#4"
type Name string

// New builds a name from a pitch class (0-11, C=0) and an octave
func New(pitch, octave int) Name {
	pitch = ((pitch % 12) + 12) % 12
	return Name(Pitches[pitch] + strconv.Itoa(octave))
}

// Parse validates s and returns it as a Name
func Parse(s string) (Name, error) {
	if _, _, ok := split(s); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return Name(s), nil
}

// FromMIDI converts a MIDI note number to a name (60 = C4)
func FromMIDI(n uint8) Name {
	return New(int(n)%12, int(n)/12-1)
}

// split breaks s into pitch class and octave
func split(s string) (pitch, octave int, ok bool) {
	if len(s) < 2 {
		return 0, 0, false
	}
	i := 1
	if s[1] == '#' {
		i = 2
	}
	if i >= len(s) {
		return 0, 0, false
	}
	pitch = -1
	for p, name := range Pitches {
		if name == s[:i] {
			pitch = p
			break
		}
	}
	if pitch < 0 {
		return 0, 0, false
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil || s[i] == '+' {
		return 0, 0, false
	}
	return pitch, octave, true
}

// Valid reports whether n is a well-formed note name
func (n Name) Valid() bool {
	_, _, ok := split(string(n))
	return ok
}

// Pitch returns the pitch class (C=0 ... B=11), or -1 if n is malformed
func (n Name) Pitch() int {
	p, _, ok := split(string(n))
	if !ok {
		return -1
	}
	return p
}

// Octave returns the octave number, or 0 if n is malformed
func (n Name) Octave() int {
	_, o, _ := split(string(n))
	return o
}

// IsSharp reports whether n is an accidental (a black key)
func (n Name) IsSharp() bool {
	p := n.Pitch()
	return p >= 0 && len(Pitches[p]) == 2
}

// MIDI returns the MIDI note number. ok is false when the name is malformed
// or lies outside 0-127.
func (n Name) MIDI() (num uint8, ok bool) {
	p, o, valid := split(string(n))
	if !valid {
		return 0, false
	}
	v := (o+1)*12 + p
	if v < 0 || v > 127 {
		return 0, false
	}
	return uint8(v), true
}

func (n Name) String() string {
	return string(n)
}
