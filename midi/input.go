package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Input listens to an external MIDI keyboard
type Input struct {
	id       string
	stopFunc func()
	noteChan chan NoteEvent

	mu     sync.Mutex
	closed bool
}

// OpenInput starts listening on inPort
func OpenInput(inPort drivers.In) (*Input, error) {
	in := newInput(inPort.String())
	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		in.handle(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	in.stopFunc = stop
	return in, nil
}

func newInput(id string) *Input {
	return &Input{
		id:       id,
		noteChan: make(chan NoteEvent, 32),
	}
}

// handle runs on the driver's goroutine; events are dropped if the
// consumer falls behind
func (in *Input) handle(msg gomidi.Message) {
	var channel, key, velocity uint8
	var ev NoteEvent
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		ev = NoteEvent{Type: NoteOn, Channel: channel, Note: key, Velocity: velocity}
	case msg.GetNoteOff(&channel, &key, &velocity):
		ev = NoteEvent{Type: NoteOff, Channel: channel, Note: key, Velocity: velocity}
	default:
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	select {
	case in.noteChan <- ev:
	default:
	}
}

// ID returns the port name
func (in *Input) ID() string {
	return in.id
}

// NoteEvents delivers note on/off events; closed by Close
func (in *Input) NoteEvents() <-chan NoteEvent {
	return in.noteChan
}

// Close stops listening. Safe to call more than once.
func (in *Input) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return nil
	}
	in.closed = true
	if in.stopFunc != nil {
		in.stopFunc()
	}
	close(in.noteChan)
	return nil
}
