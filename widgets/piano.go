package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-pianokey/note"
	"go-pianokey/theme"
)

// PianoKey is what the keyboard widget needs to draw a key
type PianoKey interface {
	Note() note.Name
	IsFlat() bool
	Pressed() bool
	Binding() string
}

// Cell geometry. Every natural is naturalWidth columns wide, the last one
// being a separator; sharps straddle the separator in the upper rows.
const (
	naturalWidth = 4
	sharpWidth   = 2
	upperRows    = 2
	lowerRows    = 2
	// KeyboardHeight is the number of rows drawn for the keys (labels excluded)
	KeyboardHeight = upperRows + lowerRows
)

// keyRect is the area a key owns, half-open on both axes
type keyRect struct {
	index      int
	x0, x1     int
	y0, y1     int
	flat       bool
	labelCol   int
	labelRow   int
	octaveMark bool
}

func (r keyRect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

// Keyboard draws piano keys and maps screen cells back to keys
type Keyboard struct {
	Theme *theme.Theme
	keys  []PianoKey
	rects []keyRect
	width int
}

// NewKeyboard lays out keys, lowest note first
func NewKeyboard(th *theme.Theme, keys []PianoKey) *Keyboard {
	kb := &Keyboard{Theme: th}
	kb.SetKeys(keys)
	return kb
}

// SetKeys replaces the keys and recomputes the layout
func (kb *Keyboard) SetKeys(keys []PianoKey) {
	kb.keys = keys
	kb.rects = kb.rects[:0]

	naturals := 0
	for i, k := range keys {
		if k.IsFlat() && naturals > 0 {
			x0 := (naturals-1)*naturalWidth + naturalWidth - 1
			kb.rects = append(kb.rects, keyRect{
				index: i, flat: true,
				x0: x0, x1: x0 + sharpWidth,
				y0: 0, y1: upperRows,
				labelCol: x0, labelRow: upperRows - 1,
			})
			continue
		}
		x0 := naturals * naturalWidth
		kb.rects = append(kb.rects, keyRect{
			index: i,
			x0: x0, x1: x0 + naturalWidth,
			y0: 0, y1: KeyboardHeight,
			labelCol: x0 + 1, labelRow: KeyboardHeight - 1,
			octaveMark: k.Note().Pitch() == 0,
		})
		naturals++
	}
	kb.width = naturals * naturalWidth
}

// Width is the number of columns the keyboard occupies
func (kb *Keyboard) Width() int {
	return kb.width
}

// Height is the number of rows View returns
func (kb *Keyboard) Height() int {
	return KeyboardHeight + 1
}

// HitTest returns the index of the key drawn at (x, y), relative to the
// top-left of the widget. Sharps win over the naturals beneath them.
func (kb *Keyboard) HitTest(x, y int) (int, bool) {
	for _, r := range kb.rects {
		if r.flat && r.contains(x, y) {
			return r.index, true
		}
	}
	for _, r := range kb.rects {
		if !r.flat && r.contains(x, y) {
			return r.index, true
		}
	}
	return -1, false
}

type cell struct {
	ch    rune
	key   int // -1 for background
	label bool
}

// View renders the keys followed by one row of octave names
func (kb *Keyboard) View() string {
	grid := make([][]cell, KeyboardHeight)
	for y := range grid {
		grid[y] = make([]cell, kb.width)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' ', key: -1}
		}
	}

	sym := kb.Theme.Symbols
	paint := func(r keyRect) {
		k := kb.keys[r.index]
		fill := sym.WhiteKey
		if r.flat {
			fill = sym.BlackKey
		}
		if k.Pressed() {
			fill = sym.Pressed
		}
		for y := r.y0; y < r.y1; y++ {
			for x := r.x0; x < r.x1 && x < kb.width; x++ {
				ch := fill
				if !r.flat && x == r.x1-1 {
					ch = sym.Separator
				}
				grid[y][x] = cell{ch: ch, key: r.index}
			}
		}
		label := k.Binding()
		if label == "" {
			label = string(sym.Unbound)
		}
		if r.labelCol < kb.width {
			grid[r.labelRow][r.labelCol] = cell{ch: []rune(label)[0], key: r.index, label: true}
		}
	}
	for _, r := range kb.rects {
		if !r.flat {
			paint(r)
		}
	}
	for _, r := range kb.rects {
		if r.flat {
			paint(r)
		}
	}

	var out strings.Builder
	for _, row := range grid {
		out.WriteString(kb.renderRow(row))
		out.WriteString("\n")
	}
	out.WriteString(kb.octaveRow())
	return out.String()
}

// renderRow styles runs of cells that share a key and role
func (kb *Keyboard) renderRow(row []cell) string {
	var out strings.Builder
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].key == row[start].key && row[i].label == row[start].label {
			continue
		}
		run := make([]rune, 0, i-start)
		for _, c := range row[start:i] {
			run = append(run, c.ch)
		}
		out.WriteString(kb.cellStyle(row[start]).Render(string(run)))
		start = i
	}
	return out.String()
}

func (kb *Keyboard) cellStyle(c cell) lipgloss.Style {
	if c.key < 0 {
		return lipgloss.NewStyle()
	}
	k := kb.keys[c.key]
	flat, pressed := k.IsFlat(), k.Pressed()
	if c.label {
		return lipgloss.NewStyle().
			Foreground(kb.Theme.LabelColor(flat, pressed)).
			Background(kb.Theme.KeyColor(flat, pressed)).
			Bold(true)
	}
	return lipgloss.NewStyle().Foreground(kb.Theme.KeyColor(flat, pressed))
}

// octaveRow names the first C of each octave
func (kb *Keyboard) octaveRow() string {
	line := []rune(strings.Repeat(" ", kb.width))
	for _, r := range kb.rects {
		if !r.octaveMark {
			continue
		}
		name := []rune(kb.keys[r.index].Note().String())
		for i, ch := range name {
			if r.x0+i < len(line) {
				line[r.x0+i] = ch
			}
		}
	}
	return lipgloss.NewStyle().Foreground(kb.Theme.Muted()).Render(string(line))
}
