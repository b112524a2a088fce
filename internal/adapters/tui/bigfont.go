package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// digitMap holds the 5-line block glyphs for the countdown. Digits are at
// most 4 cells wide, the colon 1.
var digitMap = map[rune][5]string{
	'0': {
		"████",
		"█  █",
		"█  █",
		"█  █",
		"████",
	},
	'1': {
		" █ ",
		"██ ",
		" █ ",
		" █ ",
		"███",
	},
	'2': {
		"████",
		"   █",
		"████",
		"█   ",
		"████",
	},
	'3': {
		"████",
		"   █",
		"████",
		"   █",
		"████",
	},
	'4': {
		"█  █",
		"█  █",
		"████",
		"   █",
		"   █",
	},
	'5': {
		"████",
		"█   ",
		"████",
		"   █",
		"████",
	},
	'6': {
		"████",
		"█   ",
		"████",
		"█  █",
		"████",
	},
	'7': {
		"████",
		"   █",
		"  █ ",
		" █  ",
		" █  ",
	},
	'8': {
		"████",
		"█  █",
		"████",
		"█  █",
		"████",
	},
	'9': {
		"████",
		"█  █",
		"████",
		"   █",
		"████",
	},
	':': {
		" ",
		"█",
		" ",
		"█",
		" ",
	},
}

// bigTimeWidth returns the rendered width of timeStr in the big font.
func bigTimeWidth(timeStr string) int {
	width := 0
	for _, ch := range timeStr {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		if width > 0 {
			width++
		}
		width += len([]rune(glyph[0]))
	}
	return width
}

// renderBigTime renders a clock string like "3:59:07" as five lines of
// block glyphs. Characters without a glyph are dropped. When the terminal
// is too narrow for the glyphs it falls back to a single bold line.
func renderBigTime(timeStr string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < bigTimeWidth(timeStr)+4 {
		return style.Render(timeStr)
	}

	var lines [5]strings.Builder
	for _, ch := range timeStr {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		for i := range lines {
			if lines[i].Len() > 0 {
				lines[i].WriteString(" ")
			}
			lines[i].WriteString(glyph[i])
		}
	}

	styled := make([]string, len(lines))
	for i := range lines {
		styled[i] = style.Render(lines[i].String())
	}
	return strings.Join(styled, "\n")
}
