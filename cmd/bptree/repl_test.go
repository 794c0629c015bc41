package main

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/abiiranathan/bptree"
)

func newTestREPL(t *testing.T, order int) (*repl, *bytes.Buffer) {
	t.Helper()
	tree, err := bptree.New(order)
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	out := &bytes.Buffer{}
	return newREPL(bufio.NewScanner(strings.NewReader("")), tree, out), out
}

// runSession feeds a whole script through the scan loop and returns
// everything the shell printed.
func runSession(t *testing.T, order int, input string) string {
	t.Helper()
	tree, err := bptree.New(order)
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	out := &bytes.Buffer{}
	newREPL(bufio.NewScanner(strings.NewReader(input)), tree, out).start()
	return out.String()
}

func TestREPLSetAndGet(t *testing.T) {
	r, out := newTestREPL(t, 4)

	r.processInput("SET 5 hello world")
	if !strings.Contains(out.String(), "OK (1 entries)") {
		t.Errorf("expected insert confirmation, got %q", out.String())
	}

	out.Reset()
	r.processInput("GET 5")
	if !strings.Contains(out.String(), "hello world") {
		t.Errorf("expected stored payload, got %q", out.String())
	}

	out.Reset()
	r.processInput("GET 99")
	if !strings.Contains(out.String(), "Key not found.") {
		t.Errorf("expected not-found message, got %q", out.String())
	}
}

func TestREPLDelete(t *testing.T) {
	r, out := newTestREPL(t, 4)
	r.processInput("SET 1 first")
	r.processInput("SET 2 second")

	out.Reset()
	r.processInput("DEL 1")
	if !strings.Contains(out.String(), "Deleted (1 entries left)") {
		t.Errorf("expected delete confirmation, got %q", out.String())
	}

	out.Reset()
	r.processInput("DEL 1")
	if !strings.Contains(out.String(), "Key not found.") {
		t.Errorf("expected not-found message, got %q", out.String())
	}
}

func TestREPLInvalidKey(t *testing.T) {
	r, out := newTestREPL(t, 4)
	r.processInput("GET abc")
	if !strings.Contains(out.String(), `Invalid key "abc"`) {
		t.Errorf("expected invalid key message, got %q", out.String())
	}
}

func TestREPLUnknownCommand(t *testing.T) {
	r, out := newTestREPL(t, 4)
	r.processInput("FROB 1")
	if !strings.Contains(out.String(), `Unknown command "FROB"`) {
		t.Errorf("expected unknown command message, got %q", out.String())
	}
}

func TestREPLUsageMessages(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"set without args", "SET", "Usage: SET <key> <payload...>"},
		{"set without payload", "SET 1", "Usage: SET <key> <payload...>"},
		{"get without key", "GET", "Usage: GET <key>"},
		{"del with extra args", "DEL 1 2", "Usage: DEL <key>"},
		{"range with one bound", "RANGE 1", "Usage: RANGE <lo> <hi>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newTestREPL(t, 4)
			r.processInput(tt.input)
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestREPLRange(t *testing.T) {
	r, out := newTestREPL(t, 4)
	for i := 1; i <= 10; i++ {
		r.processInput(fmt.Sprintf("SET %d v", i))
	}

	out.Reset()
	r.processInput("RANGE 3 6")
	got := out.String()
	for _, want := range []string{"3 => v", "4 => v", "5 => v", "6 => v", "4 entries"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected range output to contain %q, got %q", want, got)
		}
	}
	if strings.Contains(got, "7 => v") {
		t.Errorf("range output leaked key outside bounds: %q", got)
	}
}

func TestREPLScan(t *testing.T) {
	r, out := newTestREPL(t, 3)
	r.processInput("SET 30 c")
	r.processInput("SET 10 a")
	r.processInput("SET 20 b")

	out.Reset()
	r.processInput("SCAN")
	got := out.String()
	for _, want := range []string{"10 => a", "20 => b", "30 => c", "3 entries"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected scan output to contain %q, got %q", want, got)
		}
	}
	if strings.Index(got, "10 =>") > strings.Index(got, "20 =>") {
		t.Errorf("scan output not in key order: %q", got)
	}
}

func TestREPLStats(t *testing.T) {
	r, out := newTestREPL(t, 4)
	r.processInput("SET 1 x")
	r.processInput("SET 2 x")

	out.Reset()
	r.processInput("STATS")
	got := out.String()
	for _, want := range []string{"order=4", "entries=2", "height=1", "leaves=1"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected stats to contain %q, got %q", want, got)
		}
	}
}

func TestREPLCheckAndDump(t *testing.T) {
	r, out := newTestREPL(t, 3)
	for _, cmd := range []string{"SET 1 a", "SET 2 b", "SET 3 c", "SET 4 d"} {
		r.processInput(cmd)
	}

	out.Reset()
	r.processInput("CHECK")
	if !strings.Contains(out.String(), "OK.") {
		t.Errorf("expected check to pass, got %q", out.String())
	}

	out.Reset()
	r.processInput("DUMP")
	got := out.String()
	if !strings.Contains(got, "level 0:") || !strings.Contains(got, "level 1:") {
		t.Errorf("expected two dump levels, got %q", got)
	}
}

func TestREPLClear(t *testing.T) {
	r, out := newTestREPL(t, 4)
	r.processInput("SET 1 a")

	out.Reset()
	r.processInput("CLEAR")
	if !strings.Contains(out.String(), "Cleared.") {
		t.Errorf("expected clear confirmation, got %q", out.String())
	}

	out.Reset()
	r.processInput("GET 1")
	if !strings.Contains(out.String(), "Key not found.") {
		t.Errorf("expected cleared tree to miss, got %q", out.String())
	}
}

func TestREPLExit(t *testing.T) {
	r, _ := newTestREPL(t, 4)
	if !r.processInput("SET 1 a") {
		t.Error("expected session to continue after SET")
	}
	if !r.processInput("") {
		t.Error("expected session to continue after blank line")
	}
	if r.processInput("EXIT") {
		t.Error("expected EXIT to end the session")
	}
	if r.processInput("quit") {
		t.Error("expected lowercase quit to end the session")
	}
}

func TestREPLStartLoop(t *testing.T) {
	out := runSession(t, 4, "SET 7 seven\nGET 7\nEXIT\nGET 7\n")
	if !strings.Contains(out, "Available Commands:") {
		t.Errorf("expected help banner, got %q", out)
	}
	if !strings.Contains(out, "seven") {
		t.Errorf("expected GET output, got %q", out)
	}
	// EXIT stops the loop, so the trailing GET never runs.
	if strings.Count(out, "seven") != 1 {
		t.Errorf("expected session to stop at EXIT, got %q", out)
	}
}

func TestRun_BadFlag(t *testing.T) {
	exitCode := run([]string{"-order", "abc"})
	if exitCode != 2 {
		t.Errorf("expected exit code 2 for bad flag value, got %d", exitCode)
	}
}

func TestRun_InvalidOrder(t *testing.T) {
	exitCode := run([]string{"-order", "1"})
	if exitCode != 1 {
		t.Errorf("expected exit code 1 for invalid order, got %d", exitCode)
	}
}

func TestSeedTreeWithTestRecords(t *testing.T) {
	tree, err := bptree.New(8)
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	seedTreeWithTestRecords(tree, 200)
	if tree.Len() != 200 {
		t.Errorf("expected 200 seeded entries, got %d", tree.Len())
	}
	if err := tree.Check(); err != nil {
		t.Errorf("seeded tree failed invariant check: %v", err)
	}

	seedTreeWithTestRecords(tree, 0)
	if tree.Len() != 200 {
		t.Errorf("expected zero records to be a no-op, got %d entries", tree.Len())
	}
}
