package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols used to draw keys
type Symbols struct {
	WhiteKey  rune // █ natural at rest
	BlackKey  rune // █ sharp at rest
	Pressed   rune // ▓ any key held
	Separator rune // │ gap between naturals
	Unbound   rune // · label for a key without a binding
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			WhiteKey:  '█',
			BlackKey:  '█',
			Pressed:   '▓',
			Separator: '│',
			Unbound:   '·',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG           = 0.0
	RoleBlackKey     = 0.1
	RoleMuted        = 0.3
	RolePressedBlack = 0.55
	RolePressedWhite = 0.65
	RoleAccent       = 0.7
	RoleWhiteKey     = 0.9
	RoleFG           = 1.0
)

func (t *Theme) BG() lipgloss.Color {
	return t.Color(RoleBG)
}

func (t *Theme) FG() lipgloss.Color {
	return t.Color(RoleFG)
}

func (t *Theme) Muted() lipgloss.Color {
	return t.Color(RoleMuted)
}

func (t *Theme) Accent() lipgloss.Color {
	return t.Color(RoleAccent)
}

// KeyColor returns the fill color for a key in the given state
func (t *Theme) KeyColor(flat, pressed bool) lipgloss.Color {
	switch {
	case flat && pressed:
		return t.Color(RolePressedBlack)
	case flat:
		return t.Color(RoleBlackKey)
	case pressed:
		return t.Color(RolePressedWhite)
	default:
		return t.Color(RoleWhiteKey)
	}
}

// LabelColor returns a text color readable on KeyColor(flat, pressed)
func (t *Theme) LabelColor(flat, pressed bool) lipgloss.Color {
	if flat && !pressed {
		return t.Color(RoleWhiteKey)
	}
	return t.Color(RoleBG)
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}
