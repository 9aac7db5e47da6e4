package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (a *App) ListTodos(ctx context.Context) {
	todos, err := a.todos.List(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if len(todos) == 0 {
		fmt.Println("No todos.")
		return
	}
	for _, td := range todos {
		mark := " "
		if td.Completed {
			mark = "x"
		}
		fmt.Printf("[%s] %4d  %s\n", mark, td.ID, td.Text)
	}
}

func (a *App) AddTodo(ctx context.Context, text string) {
	if text == "" {
		fmt.Println("Usage: todo <text>")
		return
	}
	id, err := a.todos.Add(ctx, text)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Added todo %d\n", id)
}

func (a *App) CompleteTodo(ctx context.Context, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Println("Usage: done <id>")
		return
	}
	if err := a.todos.Complete(ctx, id); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Done. Logged to this week's tracker.")
}
