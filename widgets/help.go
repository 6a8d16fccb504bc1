package widgets

import (
	"fmt"
	"strings"
)

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderKeyHelp renders one line per section:
// "title  key:desc  key:desc"
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		parts := make([]string, 0, len(sec.Keys)+1)
		if sec.Title != "" {
			parts = append(parts, fmt.Sprintf("%-8s", sec.Title))
		}
		for _, k := range sec.Keys {
			parts = append(parts, k.Key+":"+k.Desc)
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	return strings.Join(lines, "\n")
}
