// blockgen turns a block graph into chaincode or a plain-language
// description.
//
// Usage:
//
//	blockgen -in=graph.json -backend=go -fmt > chaincode.go
//	cat graph.json | blockgen -backend=natural
//
// Diagnostics go to stderr. Alerts never stop generation, but they make the
// command exit with status 2 when -strict is set.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"blockgen"
	"blockgen/internal/gen"
	"blockgen/internal/gen/block"
	"blockgen/pkg"

	"github.com/rs/zerolog"
)

const (
	exitOK = iota
	exitError
	exitAlert
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	defaults := gen.DefaultOptions()

	flags := flag.NewFlagSet("blockgen", flag.ContinueOnError)
	flags.SetOutput(stderr)
	in := flags.String("in", "-", "input block graph JSON file, - for stdin")
	backend := flags.String("backend", gen.BackendGo, fmt.Sprintf("output backend %v", gen.DefaultRegistry.Names()))
	format := flags.Bool("fmt", false, "gofmt the emitted chaincode")
	loopTrap := flags.Bool("loop-trap", false, "guard loop bodies with an iteration limit")
	loopLimit := flags.Int("loop-limit", defaults.LoopTrapLimit, "iterations allowed by the loop guard")
	wrap := flags.Int("wrap", defaults.CommentWrap, "comment wrap width")
	asJSON := flags.Bool("json", false, "print the whole result as JSON")
	strict := flags.Bool("strict", false, "exit with status 2 when an alert is raised")
	verbose := flags.Bool("v", false, "log progress to stderr")

	if err := flags.Parse(args); err != nil {
		return exitError
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := blockgen.NewLoggerTo(stderr).Level(level)

	graph, err := readGraph(*in, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "blockgen: %v\n", err)
		return exitError
	}
	logger.Debug().Str("input", *in).Int("blocks", len(graph.Blocks)).Msg("Graph loaded")

	generator, err := gen.NewGenerator(*backend, gen.Options{
		CommentWrap:   *wrap,
		LoopTrap:      *loopTrap,
		LoopTrapLimit: *loopLimit,
		Format:        *format,
	})
	if err != nil {
		fmt.Fprintf(stderr, "blockgen: %v\n", err)
		return exitError
	}

	result, err := generator.Generate(graph)
	if err != nil {
		fmt.Fprintf(stderr, "blockgen: %v\n", err)
		return exitError
	}
	logger.Debug().Str("pass", result.PassID).Str("backend", result.Backend).Msg("Generation complete")

	if *asJSON {
		if err := pkg.PrettyPrint(stdout, result); err != nil {
			fmt.Fprintf(stderr, "blockgen: %v\n", err)
			return exitError
		}
	} else {
		fmt.Fprint(stdout, result.Code)
	}

	alerts := 0
	for _, d := range result.Diagnostics {
		fmt.Fprintln(stderr, d.String())
		if d.Blocking() {
			alerts++
		}
	}
	if *strict && alerts > 0 {
		return exitAlert
	}
	return exitOK
}

func readGraph(path string, stdin io.Reader) (*block.Graph, error) {
	if path == "-" {
		return block.Parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read input file: %w", err)
	}
	defer f.Close()
	return block.Parse(f)
}
