package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight
// stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	VerifyEmail(ctx context.Context) error
	ResendVerification(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Reveal(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	Search(ctx context.Context) error
	GeneratePassword(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the VaultPass CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are printed here and the loop
// continues; a failed command never terminates the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	for {
		fmt.Fprintf(w, "vp %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: (l)ist, show, reveal, add, edit, delete, search, genpw, whoami, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, verify, resend, forgot, reset, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "verify":
			err = a.VerifyEmail(ctx)

		case "resend":
			err = a.ResendVerification(ctx)

		case "forgot":
			err = a.ForgotPassword(ctx)

		case "reset":
			err = a.ResetPassword(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "show":
			err = a.Show(ctx)

		case "reveal":
			err = a.Reveal(ctx)

		case "add":
			err = a.Add(ctx)

		case "edit":
			err = a.Edit(ctx)

		case "delete":
			err = a.Delete(ctx)

		case "search":
			err = a.Search(ctx)

		case "genpw":
			err = a.GeneratePassword(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	}
}
