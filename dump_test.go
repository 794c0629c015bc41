package bptree

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpEmptyTree(t *testing.T) {
	tree := newTestTree(t, 3)

	var buf bytes.Buffer
	tree.Dump(&buf)

	if !strings.Contains(buf.String(), "(empty)") {
		t.Errorf("unexpected dump: %q", buf.String())
	}
}

func TestDumpLevels(t *testing.T) {
	tree := newTestTree(t, 3)
	mustInsert(t, tree, 1, 2, 3, 4)

	var buf bytes.Buffer
	tree.Dump(&buf)
	out := buf.String()

	if !strings.Contains(out, "level 0: [3]") {
		t.Errorf("missing root level in dump:\n%s", out)
	}
	if !strings.Contains(out, "level 1: [1 2] [3 4]") {
		t.Errorf("missing leaf level in dump:\n%s", out)
	}
}
