package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableRendersHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableTo(&buf, "ACTION", "MAC", "STATUS")
	table.Row("block_client", "aa:bb:cc:dd:ee:01", "ok")
	table.Row("restart_device", "aa:bb:cc:dd:ee:02", "failed")
	table.Flush()

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header, divider and 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ACTION") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "------") {
		t.Errorf("divider = %q", lines[1])
	}
	if !strings.Contains(lines[2], "aa:bb:cc:dd:ee:01") {
		t.Errorf("row = %q", lines[2])
	}

	// Columns align: MAC starts at the same offset in every row.
	col := strings.Index(lines[0], "MAC")
	for _, line := range lines[2:] {
		if !strings.HasPrefix(line[col:], "aa:bb:cc") {
			t.Errorf("misaligned row: %q", line)
		}
	}
}

func TestTableEmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableTo(&buf, "ACTION", "STATUS")
	table.Flush()
	if buf.Len() != 0 {
		t.Errorf("empty table produced output: %q", buf.String())
	}
}
