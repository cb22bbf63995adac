package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// notifyInterrupt scopes Ctrl+C to the running command: it cancels the
// returned context instead of killing the process.
var notifyInterrupt = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Ping(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Scan(ctx context.Context, args []string) error
	Collections(ctx context.Context) error
	Collection(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	reportError(ctx context.Context, err error)
}

const (
	guestHelp = "Available commands: ping, scan <image>, login, register, whoami, exit"
	userHelp  = "Available commands: ping, scan <image>, collections, collection [id], add <code> [id], remove <code> [id], whoami, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the merry CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current user (from statusFn) and accepts commands:
//
//	Always:
//	  - help                   - show available commands
//	  - ping                   - check the server
//	  - scan <image>           - recognise a card photo and browse matches
//	  - whoami                 - show the current session
//	  - exit | quit            - leave the program
//
//	Not logged in:
//	  - register               - create an account and log in
//	  - login                  - authenticate
//
//	Logged in:
//	  - collections            - list collections
//	  - collection [id]        - show a collection (default: all cards)
//	  - add <code> [id]        - add one copy of an illustration
//	  - remove <code> [id]     - remove one copy of an illustration
//	  - logout                 - log out
//
// Each command runs with its own interruptible context. Errors are handed
// to reportError and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("merry (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		cmdCtx, stop := notifyInterrupt(ctx)
		err = dispatch(cmdCtx, a, cmd, args)
		if err != nil {
			a.reportError(cmdCtx, err)
		}
		stop()

		if ctx.Err() != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(userHelp)
		} else {
			printlnFn(guestHelp)
		}
		return nil

	case "ping":
		return a.Ping(ctx)

	case "register":
		return a.Register(ctx)

	case "login":
		return a.Login(ctx)

	case "logout":
		return a.Logout(ctx)

	case "whoami":
		return a.WhoAmI(ctx)

	case "scan":
		return a.Scan(ctx, args)

	case "collections":
		return a.Collections(ctx)

	case "collection":
		return a.Collection(ctx, args)

	case "add":
		return a.Add(ctx, args)

	case "remove":
		return a.Remove(ctx, args)

	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}
