package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/flatcalc/pkg/flatcalc"
)

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "flatcalc REPL (Ctrl+D to exit)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  digits    number       a b c d   + - * /")
	fmt.Fprintln(w, "  e ... f   group        :history  recent evaluations")
	fmt.Fprintln(w)
}

func runREPL(runtime *flatcalc.Runtime, out *printer) {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		return
	}
	defer term.Restore(fd, oldState)

	// Terminal translates \n to \r\n while in raw mode
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, out.w}, ">>> ")
	repl := &printer{w: t, errColor: out.errColor}

	printBanner(t)

	for {
		line, err := t.ReadLine()
		if err != nil {
			// io.EOF on Ctrl+D
			return
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":history":
			if err := repl.history(runtime, 20); err != nil {
				fmt.Fprintf(t, "Error: %v\n", err)
			}
			continue
		case ":quit", ":q":
			return
		}

		repl.evaluate(runtime, line)
	}
}
