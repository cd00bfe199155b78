package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Init(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Register(ctx context.Context) error
	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error
	Unregister(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit" and
// dispatches them to a. Handler errors are printed and the loop goes on.
//
// Commands that need a session print a hint when nobody is logged in;
// users and toggle additionally need an admin session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("shop %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
			switch {
			case a.isAdmin():
				printlnFn("Available commands: whoami, profile, passwd, users, toggle, unregister, logout, init, exit")
			case a.isLoggedIn():
				printlnFn("Available commands: whoami, profile, passwd, unregister, logout, init, exit")
			default:
				printlnFn("Available commands: register, login, init, exit")
			}

		case "init":
			cmdErr = a.Init(ctx)

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout", "whoami", "profile", "passwd", "unregister":
			if !a.isLoggedIn() {
				cmdErr = common.ErrNotAuthenticated
				break
			}
			switch cmd {
			case "logout":
				cmdErr = a.Logout(ctx)
			case "whoami":
				cmdErr = a.WhoAmI(ctx)
			case "profile":
				cmdErr = a.Profile(ctx)
			case "passwd":
				cmdErr = a.Passwd(ctx)
			case "unregister":
				cmdErr = a.Unregister(ctx)
			}

		case "users", "toggle":
			if !a.isAdmin() {
				cmdErr = common.ErrForbidden
				break
			}
			if cmd == "users" {
				cmdErr = a.Users(ctx, args)
			} else {
				cmdErr = a.Toggle(ctx, args)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
