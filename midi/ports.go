package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

var (
	// ErrPortNotFound is returned when no port matches the requested name
	ErrPortNotFound = errors.New("midi port not found")
	// ErrTimeout is returned when the driver does not answer a port scan
	ErrTimeout = errors.New("midi port scan timed out")
)

// ScanTimeout bounds a port scan (CoreMIDI can hang)
const ScanTimeout = 3 * time.Second

// Ports lists the available input and output ports
type Ports struct {
	Ins  []drivers.In
	Outs []drivers.Out
}

// Scan lists ports, giving up after timeout
func Scan(timeout time.Duration) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{Ins: gomidi.GetInPorts(), Outs: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(timeout):
		// user needs to run: sudo killall coreaudiod midiserver
		return Ports{}, ErrTimeout
	}
}

// InNames returns the input port names
func (p Ports) InNames() []string {
	names := make([]string, 0, len(p.Ins))
	for _, in := range p.Ins {
		names = append(names, in.String())
	}
	return names
}

// OutNames returns the output port names
func (p Ports) OutNames() []string {
	names := make([]string, 0, len(p.Outs))
	for _, out := range p.Outs {
		names = append(names, out.String())
	}
	return names
}

// FindIn returns the first input whose name contains name (case-insensitive)
func (p Ports) FindIn(name string) (drivers.In, error) {
	i := matchPort(p.InNames(), name)
	if i < 0 {
		return nil, fmt.Errorf("%w: input %q", ErrPortNotFound, name)
	}
	return p.Ins[i], nil
}

// FindOut returns the first output whose name contains name (case-insensitive)
func (p Ports) FindOut(name string) (drivers.Out, error) {
	i := matchPort(p.OutNames(), name)
	if i < 0 {
		return nil, fmt.Errorf("%w: output %q", ErrPortNotFound, name)
	}
	return p.Outs[i], nil
}

// matchPort prefers an exact name match, then a substring match
func matchPort(names []string, name string) int {
	if name == "" {
		return -1
	}
	for i, n := range names {
		if n == name {
			return i
		}
	}
	want := strings.ToLower(name)
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), want) {
			return i
		}
	}
	return -1
}
