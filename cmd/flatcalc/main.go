// Command flatcalc evaluates flat-notation arithmetic expressions.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"nickandperla.net/flatcalc/pkg/flatcalc"
)

// Exit codes.
const (
	exitOK    = 0
	exitEval  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main with its environment passed in, so tests can drive it.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("flatcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath   = fs.String("config", "", "YAML config file")
		dbPath       = fs.String("db", "", "SQLite database path for evaluation history")
		history      = fs.Int("history", 0, "Print the last N recorded evaluations and exit")
		legacyGroups = fs.Bool("legacy-groups", false, "Drop nested group markers, flattening nested groups")
		maxDepth     = fs.Int("max-depth", 0, "Maximum group nesting, 0 for unlimited")
		noColor      = fs.Bool("no-color", false, "Disable coloured output")
		verbose      = fs.Bool("v", false, "Log debug tracing to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: flatcalc [flags] EXPRESSION")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	// Flags override the config file
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["db"] {
		cfg.DB = *dbPath
	}
	if set["legacy-groups"] {
		cfg.GroupMode = "balanced"
		if *legacyGroups {
			cfg.GroupMode = "legacy"
		}
	}
	if set["max-depth"] {
		cfg.MaxDepth = *maxDepth
	}
	if set["no-color"] {
		enabled := !*noColor
		cfg.Color = &enabled
	}
	if cfg.MaxDepth < 0 {
		fmt.Fprintln(stderr, "Error: -max-depth must not be negative")
		return exitUsage
	}
	mode, err := cfg.groupMode()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Build options
	opts := []flatcalc.Option{
		flatcalc.WithGroupMode(mode),
		flatcalc.WithMaxDepth(cfg.MaxDepth),
		flatcalc.WithLogger(logger),
	}
	if cfg.DB != "" {
		opts = append(opts, flatcalc.WithSQLiteStore(cfg.DB))
	}

	runtime := flatcalc.New(opts...)
	defer runtime.Close()

	out := &printer{w: stdout, errColor: color.New(color.FgRed, color.Bold)}
	if (cfg.Color != nil && !*cfg.Color) || !isTerminal(stdout) {
		out.errColor.DisableColor()
	}

	if *history > 0 {
		if cfg.DB == "" {
			fmt.Fprintln(stderr, "Error: -history requires -db or a db entry in the config file")
			return exitUsage
		}
		if err := out.history(runtime, *history); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitEval
		}
		return exitOK
	}

	switch {
	case fs.NArg() > 1:
		fs.Usage()
		return exitUsage

	case fs.NArg() == 1:
		if !out.evaluate(runtime, fs.Arg(0)) {
			return exitEval
		}
		return exitOK

	case isTerminal(stdin):
		runREPL(runtime, out)
		return exitOK

	default:
		// Piped input: one expression per line
		status := exitOK
		reader := bufio.NewReader(stdin)
		for {
			line, err := reader.ReadString('\n')
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if line != "" && !out.evaluate(runtime, line) {
				status = exitEval
			}
			if err == io.EOF {
				return status
			}
			if err != nil {
				fmt.Fprintf(stderr, "Error reading stdin: %v\n", err)
				return exitEval
			}
		}
	}
}

// printer writes evaluation output.
type printer struct {
	w        io.Writer
	errColor *color.Color
}

// evaluate prints the evaluation of one expression and reports success.
func (p *printer) evaluate(runtime *flatcalc.Runtime, expression string) bool {
	fmt.Fprintf(p.w, "Evaluating %s\n", expression)
	v, err := runtime.Eval(expression)
	if err != nil {
		p.errColor.Fprint(p.w, "Error:")
		fmt.Fprintf(p.w, " %v\n", err)
		return false
	}
	fmt.Fprintf(p.w, "Result: %s\n", flatcalc.FormatResult(v))
	return true
}

// history prints the most recent recorded evaluations.
func (p *printer) history(runtime *flatcalc.Runtime, limit int) error {
	entries, err := runtime.History(limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		outcome := "Result: " + flatcalc.FormatResult(e.Result)
		if !e.OK() {
			outcome = "Error: " + e.Err
		}
		fmt.Fprintf(p.w, "%d\t%s\t%s\t%s\n", e.ID, e.Ts.Local().Format("2006-01-02 15:04:05"), e.Expression, outcome)
	}
	return nil
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
