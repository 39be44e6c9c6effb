package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

// executor is the command surface the REPL needs. *App satisfies it.
type executor interface {
	isLoggedIn() bool
	Execute(ctx context.Context, args []string) error
}

func helpText() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return "Available commands: " + strings.Join(names, ", ") + ", help, exit"
}

// runREPL reads commands line by line and executes them until EOF or
// "exit"/"quit". Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a executor, reader *bufio.Reader, w io.Writer) {
	for {
		status := ""
		if a.isLoggedIn() {
			status = "(logged in) "
		}
		fmt.Fprintf(w, "cb %s> ", status)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			fmt.Fprintln(w, helpText())
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			if err := a.Execute(ctx, parts); err != nil {
				fmt.Fprintln(w, "Error:", err)
			}
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// Root runs the interactive REPL on the app's input and output.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to contactbook CLI (type 'help' for commands)")
	runREPL(ctx, a, a.reader, a.out)
}
