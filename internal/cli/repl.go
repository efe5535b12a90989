package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Confirm(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	UpdateEmail(ctx context.Context) error
	UpdatePassword(ctx context.Context) error
	Theme(ctx context.Context) error
	Notifications(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// runREPL starts the interactive command loop for the Veritas client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Command handlers report their own errors to the user, so the returned
// errors are ignored here and the loop keeps running.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("veritas %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, email, password, theme, notifications, export, import, delete, logout, exit")
			} else {
				printlnFn("Available commands: register, confirm, login, theme, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "confirm":
			_ = a.Confirm(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "email":
			_ = a.UpdateEmail(ctx)

		case "password":
			_ = a.UpdatePassword(ctx)

		case "theme":
			_ = a.Theme(ctx)

		case "notifications":
			_ = a.Notifications(ctx)

		case "export":
			_ = a.Export(ctx)

		case "import":
			_ = a.Import(ctx)

		case "delete":
			_ = a.DeleteAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
