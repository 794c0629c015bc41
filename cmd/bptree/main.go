// Package main provides the interactive bptree shell.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-faker/faker/v4"
	"go.uber.org/zap"

	"github.com/abiiranathan/bptree"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns an exit code.
// This is separated from main() to facilitate testing.
func run(args []string) int {
	fs := flag.NewFlagSet("bptree", flag.ContinueOnError)
	order := fs.Int("order", bptree.DefaultOrder, "Maximum number of keys per node.")
	maxNodes := fs.Int("max-nodes", 0, "Cap on live nodes, 0 for unbounded.")
	shouldSeed := fs.Bool("seed", false, "Seed the tree using records created with go-faker.")
	seedRecords := fs.Int("records", 1000, "Amount of records to seed the tree with upon startup.")
	verbose := fs.Bool("verbose", false, "Log structural events to stderr.")
	fs.Usage = func() {
		fmt.Println("\nbptree shell\n\nArguments:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	opts := bptree.DefaultOptions().
		WithOrder(*order).
		WithMaxNodes(*maxNodes)

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
			return 1
		}
		defer logger.Sync()
		opts = opts.WithLogger(logger)
	}

	tree, err := bptree.NewWithOptions(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create tree: %v\n", err)
		return 1
	}

	if *shouldSeed {
		seedTreeWithTestRecords(tree, *seedRecords)
	}

	scanner := bufio.NewScanner(os.Stdin)
	newREPL(scanner, tree, os.Stdout).start()
	return 0
}

// seedTreeWithTestRecords fills the tree with random keys and
// faker-generated payloads so the shell has something to browse.
func seedTreeWithTestRecords(tree *bptree.Tree, records int) {
	if records <= 0 {
		return
	}
	for i := 0; i < records; i++ {
		key := rand.Int63n(int64(records) * 10)
		payload := faker.Word() + " " + faker.Word()
		if err := tree.Insert(key, payload); err != nil {
			fmt.Fprintf(os.Stderr, "seeding stopped after %d records: %v\n", i, err)
			return
		}
	}
}
