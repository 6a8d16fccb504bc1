package midi

import (
	"context"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2/drivers"

	"go-pianokey/debug"
)

// DeviceEvent is emitted when the watched keyboard connects/disconnects
type DeviceEvent struct {
	Type  DeviceEventType
	Input *Input
	ID    string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug of MIDI keyboards whose port name matches
// a pattern
type DeviceManager struct {
	match    string
	inputs   map[string]*Input
	mu       sync.RWMutex
	events   chan DeviceEvent
	pollRate time.Duration

	scanPorts func(time.Duration) (Ports, error)
	openInput func(drivers.In) (*Input, error)
}

// NewDeviceManager watches for inputs whose name contains match, or every
// input when match is empty
func NewDeviceManager(match string) *DeviceManager {
	return &DeviceManager{
		match:     match,
		inputs:    make(map[string]*Input),
		events:    make(chan DeviceEvent, 16),
		pollRate:  time.Second,
		scanPorts: Scan,
		openInput: OpenInput,
	}
}

// Events returns a channel of connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Inputs returns a snapshot of connected inputs
func (dm *DeviceManager) Inputs() map[string]*Input {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]*Input, len(dm.inputs))
	for k, v := range dm.inputs {
		out[k] = v
	}
	return out
}

// Run polls for devices until ctx is cancelled (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	ports, err := dm.scanPorts(ScanTimeout)
	if err != nil {
		debug.Log("midi", "scan: %v", err)
		return
	}

	dm.mu.RLock()
	connected := make(map[string]bool, len(dm.inputs))
	for id := range dm.inputs {
		connected[id] = true
	}
	dm.mu.RUnlock()

	added, removed := diffPorts(connected, ports.InNames(), dm.match)

	for _, id := range added {
		in, err := ports.FindIn(id)
		if err != nil {
			continue
		}
		input, err := dm.openInput(in)
		if err != nil {
			debug.Log("midi", "open %s: %v", id, err)
			continue
		}
		dm.mu.Lock()
		dm.inputs[id] = input
		dm.mu.Unlock()
		debug.Log("midi", "connected %s", id)
		dm.events <- DeviceEvent{Type: DeviceConnected, Input: input, ID: id}
	}

	for _, id := range removed {
		dm.mu.Lock()
		input := dm.inputs[id]
		delete(dm.inputs, id)
		dm.mu.Unlock()
		if input != nil {
			input.Close()
		}
		debug.Log("midi", "disconnected %s", id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
}

// diffPorts compares the connected set with the names seen in a scan.
// Only names matching the pattern are considered for connection; an empty
// pattern matches every input.
func diffPorts(connected map[string]bool, seen []string, match string) (added, removed []string) {
	seenSet := make(map[string]bool, len(seen))
	for _, name := range seen {
		seenSet[name] = true
	}
	queued := make(map[string]bool)
	for _, name := range seen {
		if connected[name] || queued[name] {
			continue
		}
		if match != "" && matchPort([]string{name}, match) != 0 {
			continue
		}
		queued[name] = true
		added = append(added, name)
	}
	for id := range connected {
		if !seenSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, in := range dm.inputs {
		in.Close()
	}
	dm.inputs = make(map[string]*Input)
}
