package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: whoami, dashboard, ask <text>, image <prompt> (premium), history, clear, " +
		"docs, upload <path>, doc <id>, rmdoc <id>, use <id|all>, plan <free|standard|premium>, password, " +
		"users (admin), saveimage <path>, logout, exit"
)

// printer is where the REPL writes prompts and notices. The App passes its
// Renderer so the prompt shares a lock with asynchronous replies.
type printer interface {
	Println(a ...any)
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Ask(ctx context.Context, text string) error
	Image(ctx context.Context, prompt string) error
	History(ctx context.Context) error
	Clear(ctx context.Context) error
	Docs(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	ShowDoc(ctx context.Context, id string) error
	RemoveDoc(ctx context.Context, id string) error
	UseDoc(ctx context.Context, id string) error
	ChangePlan(ctx context.Context, plan string) error
	ChangePassword(ctx context.Context) error
	Users(ctx context.Context) error
	SaveImage(ctx context.Context, path string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the chatdesk CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the rest of the line as its argument. Commands that need a session
// are refused while logged out. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out printer) {
	for {
		out.Println(fmt.Sprintf("chatdesk %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				out.Println(helpLoggedIn)
			} else {
				out.Println(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			out.Println("Bye!")
			return
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "register":
				_ = a.Register(ctx)
			case "login":
				_ = a.Login(ctx)
			default:
				if _, known := needsArg[cmd]; known || loggedInOnly[cmd] {
					out.Println("Please login first")
				} else {
					out.Println("Unknown command:", cmd)
				}
			}
			continue
		}

		if usage, ok := needsArg[cmd]; ok && arg == "" {
			out.Println("Usage:", usage)
			continue
		}

		switch cmd {
		case "register", "login":
			out.Println("Already logged in; use 'logout' first")
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "dashboard":
			_ = a.Dashboard(ctx)
		case "ask":
			_ = a.Ask(ctx, arg)
		case "image":
			_ = a.Image(ctx, arg)
		case "history":
			_ = a.History(ctx)
		case "clear":
			_ = a.Clear(ctx)
		case "docs":
			_ = a.Docs(ctx)
		case "upload":
			_ = a.Upload(ctx, arg)
		case "doc":
			_ = a.ShowDoc(ctx, arg)
		case "rmdoc":
			_ = a.RemoveDoc(ctx, arg)
		case "use":
			_ = a.UseDoc(ctx, arg)
		case "plan":
			_ = a.ChangePlan(ctx, arg)
		case "password":
			_ = a.ChangePassword(ctx)
		case "users":
			_ = a.Users(ctx)
		case "saveimage":
			_ = a.SaveImage(ctx, arg)
		case "logout":
			_ = a.Logout(ctx)
		default:
			out.Println("Unknown command:", cmd)
		}
	}
}

var needsArg = map[string]string{
	"ask":       "ask <text>",
	"image":     "image <prompt>",
	"upload":    "upload <path>",
	"doc":       "doc <id>",
	"rmdoc":     "rmdoc <id>",
	"use":       "use <id|all>",
	"plan":      "plan <free|standard|premium>",
	"saveimage": "saveimage <path>",
}

var loggedInOnly = map[string]bool{
	"whoami": true, "dashboard": true, "history": true, "clear": true,
	"docs": true, "password": true, "users": true, "logout": true,
}
