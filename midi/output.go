package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-pianokey/debug"
	"go-pianokey/note"
)

// Output sends piano notes to a MIDI port as Note On / Note Off
type Output struct {
	name     string
	port     drivers.Out
	send     func(gomidi.Message) error
	channel  uint8 // 0-15
	velocity uint8

	mu   sync.Mutex
	held map[uint8]bool // notes with an outstanding Note On
}

// OpenOutput opens port for sending on channel (1-16) at velocity
func OpenOutput(port drivers.Out, channel int, velocity uint8) (*Output, error) {
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", port.String(), err)
	}
	o, err := newOutput(port.String(), send, channel, velocity)
	if err != nil {
		return nil, err
	}
	o.port = port
	return o, nil
}

func newOutput(name string, send func(gomidi.Message) error, channel int, velocity uint8) (*Output, error) {
	if channel < 1 || channel > 16 {
		return nil, fmt.Errorf("midi channel %d out of range 1-16", channel)
	}
	if velocity > 127 {
		velocity = 127
	}
	return &Output{
		name:     name,
		send:     send,
		channel:  uint8(channel - 1),
		velocity: velocity,
		held:     make(map[uint8]bool),
	}, nil
}

// Name returns the port name
func (o *Output) Name() string {
	return o.name
}

// NoteOn starts n. Notes without a MIDI number are skipped.
func (o *Output) NoteOn(n note.Name) error {
	key, ok := n.MIDI()
	if !ok {
		debug.Log("midi", "skip note on %s: no midi number", n)
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.send(gomidi.NoteOn(o.channel, key, o.velocity)); err != nil {
		return fmt.Errorf("note on %s: %w", n, err)
	}
	o.held[key] = true
	return nil
}

// NoteOff stops n. Notes that are not sounding are skipped, so pointer
// leave events over idle keys send nothing.
func (o *Output) NoteOff(n note.Name) error {
	key, ok := n.MIDI()
	if !ok {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.held[key] {
		return nil
	}
	delete(o.held, key)
	if err := o.send(gomidi.NoteOff(o.channel, key)); err != nil {
		return fmt.Errorf("note off %s: %w", n, err)
	}
	return nil
}

// AllOff releases every note still sounding
func (o *Output) AllOff() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var firstErr error
	for key := range o.held {
		if err := o.send(gomidi.NoteOff(o.channel, key)); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(o.held, key)
	}
	return firstErr
}

// Close releases held notes and closes the port
func (o *Output) Close() error {
	err := o.AllOff()
	if o.port != nil {
		if cerr := o.port.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
