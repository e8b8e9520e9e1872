package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const (
	helpLoggedOut = "Available commands: signup, login, help, exit"
	helpLoggedIn  = "Available commands: list, search, show <id>, add, edit <id>, delete <id>, logout, help, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit". Employee
// commands require a session. Command errors are printed and the loop goes
// on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "staffbook %s> ", statusFn())

		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}

		case "signup":
			cmdErr = a.Signup(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "list", "l", "search", "show", "add", "edit", "delete":
			if !a.isLoggedIn() {
				fmt.Fprintln(out, "Please log in first.")
				continue
			}
			cmdErr = dispatchEmployee(ctx, a, cmd, args, out)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}

func dispatchEmployee(ctx context.Context, a execIface, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "list", "l":
		return a.List(ctx)
	case "search":
		return a.Search(ctx)
	case "add":
		return a.Add(ctx)
	}

	if len(args) == 0 {
		fmt.Fprintf(out, "Usage: %s <id>\n", cmd)
		return nil
	}
	switch cmd {
	case "show":
		return a.Show(ctx, args[0])
	case "edit":
		return a.Edit(ctx, args[0])
	default:
		return a.Delete(ctx, args[0])
	}
}
