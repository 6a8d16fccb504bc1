package piano

import "go-pianokey/input"

// PointerRouter turns pointer positions, already hit-tested to a key,
// into enter/leave/down/up transitions on individual keys
type PointerRouter struct {
	over *Key
}

// Move reports the key under the pointer (nil when outside every key)
func (r *PointerRouter) Move(k *Key, buttons uint8) {
	if k == r.over {
		return
	}
	if r.over != nil {
		r.over.HandlePointer(input.PointerEvent{Kind: input.PointerLeave, Buttons: buttons})
	}
	r.over = k
	if k != nil {
		k.HandlePointer(input.PointerEvent{Kind: input.PointerEnter, Buttons: buttons})
	}
}

// Down reports a button press at the key under the pointer
func (r *PointerRouter) Down(k *Key, buttons uint8) {
	r.Move(k, buttons)
	if k != nil {
		k.HandlePointer(input.PointerEvent{Kind: input.PointerDown, Buttons: buttons})
	}
}

// Up reports a button release at the key under the pointer
func (r *PointerRouter) Up(k *Key, buttons uint8) {
	r.Move(k, buttons)
	if k != nil {
		k.HandlePointer(input.PointerEvent{Kind: input.PointerUp, Buttons: buttons})
	}
}

// Over returns the key under the pointer
func (r *PointerRouter) Over() *Key {
	return r.over
}
