// Package main provides sortcli, the command-line driver for the
// external merge-sort engine.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/extsort/extsort/internal/archive"
	"github.com/extsort/extsort/internal/genutil"
	"github.com/extsort/extsort/internal/sortengine"
	"github.com/extsort/extsort/internal/tempdir"
	"github.com/extsort/extsort/internal/validate"
)

// Version information
const (
	Version   = "1.0.0"
	BuildDate = "2026-07-31"
)

// defaultMemoryElems and defaultFanIn mirror the original engine's
// DEFAULT_MEMORY_SIZE and DEFAULT_MERGE_RANK: a working-memory budget
// of 512 elements split across a fan-in of 5.
const (
	defaultMemoryElems = 512
	defaultFanIn       = 5
)

// Global state for graceful shutdown
var (
	shutdownChan = make(chan os.Signal, 1)
	cleanupFuncs []func()
)

func main() {
	setupSignalHandler()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "sort":
		runSort(os.Args[2:])
	case "generate":
		runGenerate(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "archive":
		runArchive(os.Args[2:])
	case "version":
		fmt.Printf("sortcli v%s (%s)\n", Version, BuildDate)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func setupSignalHandler() {
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	go handleShutdown()
}

func handleShutdown() {
	<-shutdownChan
	fmt.Fprintln(os.Stderr, "\n⚠️  Received shutdown signal, cleaning up...")

	for i := len(cleanupFuncs) - 1; i >= 0; i-- {
		cleanupFuncs[i]()
	}

	fmt.Fprintln(os.Stderr, "✅ Cleanup complete")
	os.Exit(130)
}

func printUsage() {
	fmt.Println(`sortcli - External k-way merge sort for files of u64 elements

Usage:
    sortcli <command> [arguments]

Commands:
    sort      Sort a file-of-elements file under a fixed memory budget
    generate  Generate a random/adversarial test input file
    validate  Check that an output file is the sorted counterpart of an input file
    archive   Compress or decompress a finished output file
    version   Show version
    help      Show this help

Use "sortcli <command> --help" for command-specific options.`)
}

// runSort handles the sort command.
func runSort(args []string) {
	fs := flag.NewFlagSet("sort", flag.ExitOnError)

	input := fs.String("input", "", "Input file-of-elements path (required)")
	output := fs.String("output", "", "Output file-of-elements path (required)")
	memory := fs.Int("memory", defaultMemoryElems, "Working-memory budget, in elements")
	fanIn := fs.Int("fan-in", defaultFanIn, "Merge fan-in (runs merged per cascade step)")
	tempBase := fs.String("temp-dir", "", "Base directory for scratch run files (default: OS temp dir)")
	namePattern := fs.String("run-pattern", tempdir.DefaultPattern, "printf-style run-file naming pattern")

	_ = fs.Parse(args)

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Error: --input and --output are required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	in, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open input: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	out, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	policy, err := tempdir.New(*tempBase, *namePattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cleanupFuncs = append(cleanupFuncs, func() { policy.Close() })
	defer policy.Close()

	if err := sortengine.Sort(in, out, *memory, *fanIn, sortengine.WithTempDirPolicy(policy)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ sorted %s -> %s (memory=%d fan-in=%d)\n", *input, *output, *memory, *fanIn)
}

// runGenerate handles the generate command.
func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)

	output := fs.String("output", "", "Output file-of-elements path (required)")
	count := fs.Uint64("count", 0, "Number of elements to generate (required)")
	random := fs.Bool("random", false, "Generate uniform-random values instead of the descending worst case")
	seed := fs.Int64("seed", 0, "PRNG seed, used only with --random")

	_ = fs.Parse(args)

	if *output == "" || *count == 0 {
		fmt.Fprintln(os.Stderr, "Error: --output and --count are required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	opts := genutil.Options{Random: *random, Seed: *seed}
	if err := genutil.Generate(*output, *count, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ generated %d elements to %s\n", *count, *output)
}

// runValidate handles the validate command.
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)

	input := fs.String("input", "", "Input file-of-elements path (required)")
	output := fs.String("output", "", "Output file-of-elements path to check (required)")
	window := fs.Int("window", defaultMemoryElems, "Elements held in memory per validation window")

	_ = fs.Parse(args)

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Error: --input and --output are required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	if err := validate.Validate(*input, *output, *window); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ output is a valid sort of input")
}

// runArchive handles the archive command.
func runArchive(args []string) {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)

	mode := fs.String("mode", "compress", `"compress" or "decompress"`)
	input := fs.String("input", "", "Source file path (required)")
	output := fs.String("output", "", "Destination file path (required)")

	_ = fs.Parse(args)

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Error: --input and --output are required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	var err error
	switch *mode {
	case "compress":
		err = archive.Compress(*input, *output)
	case "decompress":
		err = archive.Decompress(*input, *output)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown --mode %q, must be \"compress\" or \"decompress\"\n", *mode)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ %sed %s -> %s\n", *mode, *input, *output)
}
