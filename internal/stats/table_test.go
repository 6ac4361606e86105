package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Activity", "Today", "Days"}
	rows := [][]string{
		{"Feeding", "12.5 oz", "7"},
		{"Sleep", "1h 5m", "12"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Activity   Today Days" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Feeding  12.5 oz    7" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Sleep      1h 5m   12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Food", "N"}, [][]string{{"お粥", "1"}, {"rice", "2"}}, nil)
	if lines[1] != "お粥 1" || lines[2] != "rice 2" {
		t.Fatalf("expected wide runes to take two cells: %q", lines)
	}
}
