// Package tui provides the Bubble Tea speech practice interface.
package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	r       rune
	width   int
	isSpace bool
	// breakAfter marks runes that may end a line without a space, such as CJK ideographs.
	breakAfter bool
}

func buildCells(text string) []cell {
	text = strings.Join(strings.Fields(text), " ")
	out := make([]cell, 0, len(text))
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		out = append(out, cell{
			r:          r,
			width:      w,
			isSpace:    r == ' ',
			breakAfter: w > 1 || unicode.Is(unicode.Han, r),
		})
	}
	return out
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteRune(c.r)
	}
	return b.String()
}

// wrapText breaks text into lines no wider than width terminal cells. Lines break at
// spaces, after wide runes, or mid-word when a word alone exceeds the width.
func wrapText(text string, width int) []string {
	cells := buildCells(text)
	if len(cells) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{renderCells(cells)}
	}
	var lines []string
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastBreak := -1

	for i := 0; i < len(cells); {
		c := cells[i]
		if lineWidth+c.width > width && len(line) > 0 {
			if c.isSpace {
				lines = append(lines, renderCells(line))
				line = line[:0]
				lineWidth = 0
				lastBreak = -1
				i++
				continue
			}
			if lastBreak >= 0 {
				head := line[:lastBreak+1]
				if head[len(head)-1].isSpace {
					head = head[:len(head)-1]
				}
				lines = append(lines, renderCells(head))
				line = append([]cell{}, line[lastBreak+1:]...)
			} else {
				lines = append(lines, renderCells(line))
				line = line[:0]
			}
			lineWidth = widthOf(line)
			lastBreak = lastBreakIndex(line)
			continue
		}
		if c.isSpace && len(line) == 0 {
			i++
			continue
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace || c.breakAfter {
			lastBreak = len(line) - 1
		}
		i++
	}
	if len(line) > 0 {
		lines = append(lines, renderCells(line))
	}
	return lines
}

func widthOf(line []cell) int {
	total := 0
	for _, c := range line {
		total += c.width
	}
	return total
}

func lastBreakIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace || line[i].breakAfter {
			return i
		}
	}
	return -1
}
