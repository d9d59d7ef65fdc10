package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Topic", "Attempts", "Avg"}
	rows := [][]string{
		{"travel", "12", "81.5"},
		{"business", "3", "7.0"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Topic    Attempts  Avg" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "travel         12 81.5" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "business        3  7.0" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Text", "N"}, [][]string{{"你好", "1"}, {"hi", "2"}}, map[int]bool{1: true})
	if lines[1] != "你好 1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "hi   2" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := truncate("a  very\nlong practice sentence", 10); displayWidth(got) > 10 {
		t.Fatalf("truncated text too wide: %q", got)
	}
}
