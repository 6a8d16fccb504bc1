package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-pianokey/debug"
	"go-pianokey/input"
	"go-pianokey/keymap"
	"go-pianokey/midi"
	"go-pianokey/note"
	"go-pianokey/piano"
	"go-pianokey/theme"
	"go-pianokey/widgets"
)

// Options configures a Model. Output and DeviceMgr may be nil.
type Options struct {
	Octaves      keymap.OctaveSet
	ReleaseAfter time.Duration
	Output       *midi.Output
	DeviceMgr    *midi.DeviceManager
	Theme        *theme.Theme
}

// layoutBounds holds cached layout info
type layoutBounds struct {
	keyboardTop  int
	keyboardLeft int
}

type Model struct {
	Keyboard  *piano.Keyboard
	Surface   *input.Surface
	Output    *midi.Output
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme

	view    *widgets.Keyboard
	pointer piano.PointerRouter
	buttons uint8
	hold    *keyHold
	input   *midi.Input
	fromIn  map[note.Name]bool // notes engaged by the MIDI input
	bounds  layoutBounds

	status   string
	quitting bool
}

type DeviceEventMsg midi.DeviceEvent

type noteMsg struct {
	in *midi.Input
	ev midi.NoteEvent
}

type inputClosedMsg struct{}

// NewModel builds the keyboard for opts.Octaves and wires its callbacks to
// the MIDI output
func NewModel(opts Options) (*Model, error) {
	m := &Model{
		Surface:   input.NewSurface(),
		Output:    opts.Output,
		DeviceMgr: opts.DeviceMgr,
		Theme:     opts.Theme,
		hold:      newKeyHold(opts.ReleaseAfter),
		fromIn:    make(map[note.Name]bool),
	}
	if m.Theme == nil {
		m.Theme = theme.New(nil)
	}

	kb, err := piano.NewKeyboard(m.Surface, opts.Octaves, piano.Callbacks{
		OnEngage:    m.noteOn,
		OnDisengage: m.noteOff,
	})
	if err != nil {
		return nil, err
	}
	m.Keyboard = kb
	m.view = widgets.NewKeyboard(m.Theme, m.widgetKeys())
	m.bounds.keyboardTop = 3
	return m, nil
}

func (m *Model) widgetKeys() []widgets.PianoKey {
	keys := m.Keyboard.Keys()
	out := make([]widgets.PianoKey, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

func (m *Model) noteOn(n note.Name) {
	debug.Log("note", "on  %s", n)
	if m.Output == nil {
		return
	}
	if err := m.Output.NoteOn(n); err != nil {
		m.status = err.Error()
		debug.Log("midi", "%v", err)
	}
}

func (m *Model) noteOff(n note.Name) {
	debug.Log("note", "off %s", n)
	if m.Output == nil {
		return
	}
	if err := m.Output.NoteOff(n); err != nil {
		m.status = err.Error()
		debug.Log("midi", "%v", err)
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func ListenForNotes(in *midi.Input) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-in.NoteEvents()
		if !ok {
			return inputClosedMsg{}
		}
		return noteMsg{in: in, ev: ev}
	}
}

func (m *Model) Init() tea.Cmd {
	if m.DeviceMgr == nil {
		return nil
	}
	return ListenForDevices(m.DeviceMgr)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case releaseMsg:
		if m.hold.release(msg) {
			m.Surface.KeyUp(msg.key)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			// the newest keyboard wins; notes it can no longer release are let go
			m.releaseInputNotes()
			m.input = event.Input
			m.status = "input: " + event.ID
			return m, tea.Batch(ListenForNotes(event.Input), ListenForDevices(m.DeviceMgr))
		case midi.DeviceDisconnected:
			if m.input != nil && m.input.ID() == event.ID {
				m.input = nil
				m.status = "input disconnected: " + event.ID
				m.releaseInputNotes()
			}
		}
		return m, ListenForDevices(m.DeviceMgr)

	case noteMsg:
		// a replaced input's loop ends here
		if msg.in != m.input {
			return m, nil
		}
		n := note.FromMIDI(msg.ev.Note)
		if msg.ev.IsOn() {
			if m.Keyboard.Engage(n) {
				m.fromIn[n] = true
			}
		} else {
			delete(m.fromIn, n)
			m.Keyboard.Disengage(n)
		}
		if msg.in == nil {
			return m, nil
		}
		return m, ListenForNotes(msg.in)

	case inputClosedMsg:
		// a reconnect arrives as a new DeviceEventMsg
	}

	return m, nil
}

// releaseInputNotes lets go of the keys the MIDI input is holding, leaving
// terminal and mouse presses alone
func (m *Model) releaseInputNotes() {
	for n := range m.fromIn {
		if k := m.Keyboard.Key(n); k != nil && k.Pressed() {
			k.Disengage()
		}
	}
	m.fromIn = make(map[note.Name]bool)
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "ctrl+c", "esc":
		m.quit()
		return tea.Quit
	case "[":
		m.shift(-1)
		return nil
	case "]":
		m.shift(1)
		return nil
	}

	if _, bound := m.Keyboard.Table().NoteFor(key); !bound {
		return nil
	}
	repeat, cmd := m.hold.press(key)
	m.Surface.KeyDown(key, repeat)
	return cmd
}

// shift releases held terminal keys, then moves the octaves
func (m *Model) shift(delta int) {
	for _, key := range m.hold.releaseAll() {
		m.Surface.KeyUp(key)
	}
	// keys held under the old octaves are released by the shift itself
	m.fromIn = make(map[note.Name]bool)
	if err := m.Keyboard.ShiftOctaves(delta); err != nil {
		m.status = err.Error()
		return
	}
	m.view.SetKeys(m.widgetKeys())
	m.status = ""
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	var key *piano.Key
	if i, ok := m.view.HitTest(msg.X-m.bounds.keyboardLeft, msg.Y-m.bounds.keyboardTop); ok {
		key = m.Keyboard.Keys()[i]
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.buttons |= input.ButtonPrimary
		case tea.MouseButtonRight:
			m.buttons |= input.ButtonSecondary
		case tea.MouseButtonMiddle:
			m.buttons |= input.ButtonMiddle
		default:
			return // wheel
		}
		m.pointer.Down(key, m.buttons)
	case tea.MouseActionRelease:
		m.buttons = 0
		m.pointer.Up(key, m.buttons)
	case tea.MouseActionMotion:
		m.pointer.Move(key, m.buttons)
	}
}

func (m *Model) quit() {
	m.quitting = true
	m.Keyboard.Close()
	if m.Output != nil {
		m.Output.AllOff()
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	out := "-"
	if m.Output != nil {
		out = m.Output.Name()
	}
	in := "-"
	if m.input != nil {
		in = m.input.ID()
	}
	header := headerStyle.Render(fmt.Sprintf("go-pianokey  octaves %s  out:%s  in:%s", m.Keyboard.Octaves(), out, in))

	held := m.Keyboard.Held()
	names := make([]string, len(held))
	for i, n := range held {
		names[i] = n.String()
	}
	heldLine := dimStyle.Render("held: " + strings.Join(names, " "))

	help := dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{
		{Title: "play", Keys: []widgets.KeyBinding{{Key: "q2w3…", Desc: "keys"}, {Key: "mouse", Desc: "click/drag"}}},
		{Title: "octave", Keys: []widgets.KeyBinding{{Key: "[", Desc: "down"}, {Key: "]", Desc: "up"}}},
		{Keys: []widgets.KeyBinding{{Key: "esc", Desc: "quit"}}},
	}))

	// keyboard starts after the leading newline, header and blank line
	m.bounds.keyboardTop = 1 + lipgloss.Height(header) + 1
	m.bounds.keyboardLeft = 0

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(m.view.View())
	b.WriteString("\n\n")
	b.WriteString(heldLine)
	b.WriteString("\n")
	b.WriteString(help)
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(m.Theme.FG()).Render(m.status))
	}
	return b.String()
}
