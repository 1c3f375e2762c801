package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/minjae-ok/todo-sync/internal/client"
	"github.com/minjae-ok/todo-sync/internal/model"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func run(args []string) int {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("todoctl", flag.ExitOnError)
	baseURL := fs.String("url", envOr("TODO_API_URL", "http://localhost:8080"), "server base URL")
	token := fs.String("token", os.Getenv("TODO_TOKEN"), "bearer token")
	devUser := fs.String("dev-user", os.Getenv("TODO_DEV_USER"), "user id for servers in auth dev mode")
	timeout := fs.Duration("timeout", 10*time.Second, "per-call timeout")
	fs.Usage = printHelp
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) == 0 {
		printHelp()
		return 2
	}
	cmd, a := rest[0], rest[1:]

	if cmd == "help" {
		printHelp()
		return 0
	}

	opts := []client.Option{client.WithTimeout(*timeout)}
	if *token != "" {
		opts = append(opts, client.WithToken(*token))
	}
	if *devUser != "" {
		opts = append(opts, client.WithDevUser(*devUser))
	}

	sync := client.NewSynchronizer(client.New(*baseURL, opts...), client.NotifierFuncs{
		OnSuccess: func(msg string) { fmt.Fprintln(os.Stderr, msg) },
		OnError:   func(msg string) { fmt.Fprintln(os.Stderr, "error: "+msg) },
	})

	ctx := context.Background()
	if err := sync.Refresh(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load todos:", err)
		return 1
	}

	switch cmd {
	case "ls":
		printTodos(sync.Snapshot())
		return 0

	case "add":
		if len(a) == 0 {
			fmt.Fprintln(os.Stderr, "usage: todoctl add <label...>")
			return 2
		}
		if err := sync.Add(ctx, strings.Join(a, " ")); err != nil {
			return 1
		}

	case "done", "undo":
		if len(a) != 1 {
			fmt.Fprintf(os.Stderr, "usage: todoctl %s <id>\n", cmd)
			return 2
		}
		if err := sync.Toggle(ctx, a[0], cmd == "done"); err != nil {
			return 1
		}

	case "edit":
		if len(a) < 2 {
			fmt.Fprintln(os.Stderr, "usage: todoctl edit <id> <label...>")
			return 2
		}
		if err := sync.Edit(ctx, a[0], strings.Join(a[1:], " ")); err != nil {
			return 1
		}

	case "rm":
		if len(a) != 1 {
			fmt.Fprintln(os.Stderr, "usage: todoctl rm <id>")
			return 2
		}
		if err := sync.Delete(ctx, a[0]); err != nil {
			return 1
		}

	case "clear":
		if err := sync.ClearCompleted(ctx); err != nil {
			return 1
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown subcommand:", cmd)
		printHelp()
		return 2
	}

	printTodos(sync.Snapshot())
	return 0
}

func printTodos(todos []model.Todo) {
	if len(todos) == 0 {
		fmt.Println("no todos")
		return
	}
	for _, todo := range todos {
		box := "[ ]"
		if todo.Completed {
			box = "[x]"
		}
		fmt.Printf("%s %s  %s\n", box, todo.ID, todo.Label)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `todoctl - todo list client

Usage:
  todoctl [flags] <subcommand> [args]

Subcommands:
  ls                 List todos
  add <label...>     Add a todo
  done <id>          Mark a todo completed
  undo <id>          Mark a todo active again
  edit <id> <label>  Rewrite a todo's label
  rm <id>            Remove a todo
  clear              Remove every completed todo

Flags:
  -url       server base URL (default $TODO_API_URL or http://localhost:8080)
  -token     bearer token (default $TODO_TOKEN)
  -dev-user  user id for servers in auth dev mode (default $TODO_DEV_USER)
  -timeout   per-call timeout (default 10s)
`)
}
