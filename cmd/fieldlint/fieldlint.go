// fieldlint is a tool that checks a schema document for structural
// problems and prints them if there are any.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"github.com/recordkit/recordkit/internal/record"
)

func main() {
	requireUnique := flag.Bool("require-unique-names", false, "flag duplicate field names as an error")
	reformat := flag.Bool("reformat", false, "rewrite the schema file with defaulted format hints filled in")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] schema.json\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	file := flag.Arg(0)

	bs, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read schema document: %v\n", err)
		os.Exit(1)
	}

	lint, err := record.LintSchemaDocument(bs, *requireUnique)
	if err != nil {
		fmt.Println(err)
		fmt.Println("Schema document has 1 error.")
		os.Exit(1)
	}

	for _, problem := range lint.Problems {
		fmt.Println(problem)
	}

	changed := false
	if *reformat && len(lint.Problems) == 0 {
		normalized, err := record.NormalizeSchemaDocument(bs)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if !bytes.Equal(bytes.TrimSpace(bs), bytes.TrimSpace(normalized)) {
			if err := atomic.WriteFile(file, bytes.NewReader(normalized)); err != nil {
				fmt.Printf("reformatting %q: %v\n", file, err)
				os.Exit(1)
			}
			changed = true
		}
	}

	fmt.Println("")

	if total := len(lint.Problems); total > 0 {
		fmt.Printf("Schema document has %d problem(s).\n", total)
		os.Exit(1)
	} else if changed {
		fmt.Println("Schema document is valid, rewrote to canonical format.")
	} else {
		fmt.Println("Schema document is valid.")
	}
}
