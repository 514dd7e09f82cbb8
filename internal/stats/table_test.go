package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Outcome", "Count", "Share"}
	rows := [][]string{
		{"correct", "12", "80.00%"},
		{"skipped", "3", "20.00%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Outcome Count  Share" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "correct    12 80.00%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "skipped     3 20.00%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := formatTable([]string{"Answer", "Outcome"}, [][]string{{"abc", ""}}, nil)
	if lines[1] != "abc" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestDisplayWidthCountsWideRunes(t *testing.T) {
	if got := displayWidth("🔥"); got != 2 {
		t.Fatalf("expected width 2, got %d", got)
	}
}
