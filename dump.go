package bptree

import (
	"fmt"
	"io"

	"github.com/abiiranathan/bptree/internal/arena"
)

// Dump writes a level-by-level rendering of the tree to w. Each line
// holds one level's nodes as bracketed key lists, root first. Dump is a
// debugging aid and makes no formatting promises.
func (t *Tree) Dump(w io.Writer) {
	if t.root == arena.None {
		fmt.Fprintln(w, "(empty)")
		return
	}

	level := []arena.Index{t.root}
	for depth := 0; len(level) > 0; depth++ {
		fmt.Fprintf(w, "level %d:", depth)

		var next []arena.Index
		for _, idx := range level {
			n := t.arena.Get(idx)
			fmt.Fprintf(w, " %v", n.keys)
			if !n.isLeaf() {
				next = append(next, n.children...)
			}
		}

		fmt.Fprintln(w)
		level = next
	}
}
