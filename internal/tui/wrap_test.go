package tui

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	lines := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestWrapTextSplitsLongWord(t *testing.T) {
	lines := wrapText("abcdefgh", 3)
	want := []string{"abc", "def", "gh"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	lines := wrapText("发音清晰流利", 5)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lines)
	}
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > 5 {
			t.Fatalf("line %q is %d cells wide", line, w)
		}
	}
}

func TestWrapTextCollapsesWhitespace(t *testing.T) {
	lines := wrapText("  good \n\t job  ", 0)
	if len(lines) != 1 || lines[0] != "good job" {
		t.Fatalf("unexpected lines %q", lines)
	}
	if wrapText("   ", 10) != nil {
		t.Fatalf("expected nil for blank text")
	}
}
