package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/abiiranathan/bptree"
)

// repl reads commands line by line and applies them to a tree.
// Output goes to out so tests can capture it.
type repl struct {
	scanner *bufio.Scanner
	tree    *bptree.Tree
	out     io.Writer

	prompt *color.Color
	result *color.Color
	failed *color.Color
	info   *color.Color
}

func newREPL(scanner *bufio.Scanner, tree *bptree.Tree, out io.Writer) *repl {
	return &repl{
		scanner: scanner,
		tree:    tree,
		out:     out,
		prompt:  color.New(color.FgCyan, color.Bold),
		result:  color.New(color.FgGreen),
		failed:  color.New(color.FgRed),
		info:    color.New(color.FgYellow),
	}
}

func (r *repl) start() {
	r.printHelp()
	r.printPrompt()
	for r.scanner.Scan() {
		if !r.processInput(r.scanner.Text()) {
			return
		}
		r.printPrompt()
	}
}

func (r *repl) printPrompt() {
	r.prompt.Fprint(r.out, "bptree> ")
}

func (r *repl) printHelp() {
	r.info.Fprintln(r.out, `
Available Commands:
  SET <key> <payload...>  Insert an entry into the tree
  GET <key>               Retrieve the payload stored under key
  DEL <key>               Remove the first entry matching key
  RANGE <lo> <hi>         List entries with lo <= key <= hi
  SCAN                    List every entry in key order
  STATS                   Show tree statistics
  CHECK                   Verify the tree's structural invariants
  DUMP                    Print the tree level by level
  CLEAR                   Remove all entries
  HELP                    Show this help
  EXIT                    Terminate this session`)
}

// processInput runs a single command line. It returns false when the
// session should end.
func (r *repl) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch strings.ToUpper(fields[0]) {
	case "SET":
		r.processSetCommand(fields[1:])
	case "GET":
		r.processGetCommand(fields[1:])
	case "DEL":
		r.processDeleteCommand(fields[1:])
	case "RANGE":
		r.processRangeCommand(fields[1:])
	case "SCAN":
		r.processScanCommand()
	case "STATS":
		r.processStatsCommand()
	case "CHECK":
		r.processCheckCommand()
	case "DUMP":
		r.tree.Dump(r.out)
	case "CLEAR":
		r.tree.Clear()
		r.result.Fprintln(r.out, "Cleared.")
	case "HELP":
		r.printHelp()
	case "EXIT", "QUIT":
		return false
	default:
		r.failed.Fprintf(r.out, "Unknown command %q\n", fields[0])
	}
	return true
}

func (r *repl) processSetCommand(args []string) {
	if len(args) < 2 {
		r.info.Fprintln(r.out, "Usage: SET <key> <payload...>")
		return
	}
	key, ok := r.parseKey(args[0])
	if !ok {
		return
	}
	if err := r.tree.Insert(key, strings.Join(args[1:], " ")); err != nil {
		r.failed.Fprintf(r.out, "Insert failed: %v\n", err)
		return
	}
	r.result.Fprintf(r.out, "OK (%d entries)\n", r.tree.Len())
}

func (r *repl) processGetCommand(args []string) {
	if len(args) != 1 {
		r.info.Fprintln(r.out, "Usage: GET <key>")
		return
	}
	key, ok := r.parseKey(args[0])
	if !ok {
		return
	}
	payload, found := r.tree.Search(key)
	if !found {
		r.failed.Fprintln(r.out, "Key not found.")
		return
	}
	r.result.Fprintf(r.out, "%v\n", payload)
}

func (r *repl) processDeleteCommand(args []string) {
	if len(args) != 1 {
		r.info.Fprintln(r.out, "Usage: DEL <key>")
		return
	}
	key, ok := r.parseKey(args[0])
	if !ok {
		return
	}
	if !r.tree.Delete(key) {
		r.failed.Fprintln(r.out, "Key not found.")
		return
	}
	r.result.Fprintf(r.out, "Deleted (%d entries left)\n", r.tree.Len())
}

func (r *repl) processRangeCommand(args []string) {
	if len(args) != 2 {
		r.info.Fprintln(r.out, "Usage: RANGE <lo> <hi>")
		return
	}
	lo, ok := r.parseKey(args[0])
	if !ok {
		return
	}
	hi, ok := r.parseKey(args[1])
	if !ok {
		return
	}
	it := r.tree.Range(lo, hi)
	defer it.Close()
	count := 0
	for key, payload, more := it.Next(); more; key, payload, more = it.Next() {
		r.result.Fprintf(r.out, "%d => %v\n", key, payload)
		count++
	}
	r.info.Fprintf(r.out, "%d entries\n", count)
}

func (r *repl) processScanCommand() {
	it := r.tree.All()
	defer it.Close()
	count := 0
	for key, payload, more := it.Next(); more; key, payload, more = it.Next() {
		r.result.Fprintf(r.out, "%d => %v\n", key, payload)
		count++
	}
	r.info.Fprintf(r.out, "%d entries\n", count)
}

func (r *repl) processStatsCommand() {
	stats := r.tree.Stats()
	r.result.Fprintf(r.out, "order=%d entries=%d height=%d leaves=%d internal=%d\n",
		r.tree.Order(), r.tree.Len(), stats.Height, stats.LeafNodes, stats.InternalNodes)
}

func (r *repl) processCheckCommand() {
	if err := r.tree.Check(); err != nil {
		r.failed.Fprintf(r.out, "Corrupt: %v\n", err)
		return
	}
	r.result.Fprintln(r.out, "OK.")
}

func (r *repl) parseKey(s string) (int64, bool) {
	key, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		r.failed.Fprintf(r.out, "Invalid key %q\n", s)
		return 0, false
	}
	return key, true
}
