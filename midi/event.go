package midi

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// NoteEvent is a note played on an external MIDI keyboard
type NoteEvent struct {
	Type     uint8 // NoteOn or NoteOff
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// IsOn reports whether the event starts a note. A Note On with velocity 0
// counts as a release.
func (e NoteEvent) IsOn() bool {
	return e.Type == NoteOn && e.Velocity > 0
}
