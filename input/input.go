// Package input defines the raw keyboard and pointer events fed to piano
// keys, and the process-wide Surface that keyboard listeners subscribe to.
package input

import "sync"

// KeyEvent is a physical key transition
type KeyEvent struct {
	Key    string // key label as produced by the terminal, e.g. "q" or ","
	Down   bool   // false for key-up
	Repeat bool   // auto-repeat of a key that is already held
}

// PointerKind identifies a pointer transition relative to one key's hit area
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerUp
	PointerEnter
	PointerLeave
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	case PointerEnter:
		return "enter"
	case PointerLeave:
		return "leave"
	}
	return "unknown"
}

// Button bits, matching the DOM MouseEvent.buttons mask
const (
	ButtonPrimary   uint8 = 1 << 0
	ButtonSecondary uint8 = 1 << 1
	ButtonMiddle    uint8 = 1 << 2
)

// PointerEvent is a pointer transition on a single key
type PointerEvent struct {
	Kind    PointerKind
	Buttons uint8 // buttons held when the event fired
}

// PrimaryHeld reports whether the primary button is down
func (e PointerEvent) PrimaryHeld() bool {
	return e.Buttons&ButtonPrimary != 0
}

// KeyHandler receives keyboard events from a Surface
type KeyHandler func(KeyEvent)

// Surface fans keyboard events out to every subscriber, in subscription
// order. Handlers may subscribe or unsubscribe while an event is being
// dispatched; the change takes effect from the next event.
type Surface struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

type subscription struct {
	id uint64
	fn KeyHandler
}

// NewSurface creates an empty surface
func NewSurface() *Surface {
	return &Surface{}
}

// Subscribe registers fn and returns the function that removes it.
// The stop function is safe to call more than once.
func (s *Surface) Subscribe(fn KeyHandler) (stop func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Surface) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			// copy so an in-flight snapshot is never mutated
			next := make([]subscription, 0, len(s.subs)-1)
			next = append(next, s.subs[:i]...)
			s.subs = append(next, s.subs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers ev to all current subscribers
func (s *Surface) Dispatch(ev KeyEvent) {
	s.mu.Lock()
	snapshot := s.subs
	s.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn(ev)
	}
}

// KeyDown dispatches a key-down event
func (s *Surface) KeyDown(key string, repeat bool) {
	s.Dispatch(KeyEvent{Key: key, Down: true, Repeat: repeat})
}

// KeyUp dispatches a key-up event
func (s *Surface) KeyUp(key string) {
	s.Dispatch(KeyEvent{Key: key})
}

// Len is the number of active subscriptions
func (s *Surface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
