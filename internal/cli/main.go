package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) status() string {
	if a.isLoggedIn() {
		return "unlocked"
	}
	return "locked"
}

func (a *App) Main(ctx context.Context) {
	fmt.Println("WorkVault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("workvault %s > ", a.status())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: list, add, show, archive, archives, contents, exports, week, track, todo, todos, done, passwd, logout, exit")
			} else {
				fmt.Println("Available commands: setup, login, exit")
			}
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		case "setup":
			a.Setup(ctx)
		case "login":
			a.Login(ctx)
		default:
			if !a.isLoggedIn() {
				fmt.Println("Log in first.")
				continue
			}
			a.dispatch(ctx, cmd, args)
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "list":
		a.ListPeople(ctx)
	case "add":
		a.AddPerson(ctx)
	case "show":
		if len(args) == 0 {
			fmt.Println("Usage: show <uid>")
			return
		}
		a.ShowPerson(ctx, args[0])
	case "archive":
		if len(args) == 0 {
			fmt.Println("Usage: archive <uid>")
			return
		}
		a.ArchivePerson(ctx, args[0])
	case "archives":
		a.ListArchives(ctx)
	case "contents":
		if len(args) == 0 {
			fmt.Println("Usage: contents <archive>")
			return
		}
		a.ShowArchive(ctx, args[0])
	case "exports":
		a.ListExports(ctx)
	case "week":
		a.ShowWeek(ctx)
	case "track":
		a.AppendToday(ctx, strings.Join(args, " "))
	case "todo":
		a.AddTodo(ctx, strings.Join(args, " "))
	case "todos":
		a.ListTodos(ctx)
	case "done":
		if len(args) == 0 {
			fmt.Println("Usage: done <id>")
			return
		}
		a.CompleteTodo(ctx, args[0])
	case "passwd":
		a.ChangePassword(ctx)
	case "logout":
		a.Logout()
	default:
		fmt.Println("Unknown command. Type 'help'.")
	}
}
