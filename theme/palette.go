package theme

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type RGB [3]uint8

// Hex formats the color as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Palette is an ordered color ramp, dark to light
type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette is used when no palette file is configured
func DefaultPalette() *Palette {
	return &Palette{
		Name: "ivory",
		Colors: []RGB{
			{0x10, 0x10, 0x14},
			{0x2a, 0x28, 0x30},
			{0x5a, 0x56, 0x60},
			{0x9a, 0x94, 0x8c},
			{0xd8, 0x8a, 0x3c},
			{0xe8, 0xc0, 0x60},
			{0xf4, 0xee, 0xe0},
			{0xff, 0xff, 0xff},
		},
	}
}

// LoadGPL reads a GIMP palette file
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	return p, nil
}

// ParseGPL parses GIMP palette text
func ParseGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		// R G B [name]
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		var c RGB
		ok := true
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(fields[i], 10, 8)
			if err != nil {
				ok = false
				break
			}
			c[i] = uint8(v)
		}
		if ok {
			p.Colors = append(p.Colors, c)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found")
	}
	return p, nil
}

// Lookup returns interpolated color for normalized value 0-1
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 || len(p.Colors) == 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i]
	c1 := p.Colors[i+1]

	return RGB{
		lerp(c0[0], c1[0], frac),
		lerp(c0[1], c1[1], frac),
		lerp(c0[2], c1[2], frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}
