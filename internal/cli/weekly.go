package cli

import (
	"context"
	"fmt"

	"github.com/workvault/workvault/internal/models"
)

func (a *App) ShowWeek(ctx context.Context) {
	week, err := a.weekly.CurrentWeek(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("Week %s .. %s\n", week.WeekStart, week.WeekEnd)
	for _, day := range models.WeekdayNames {
		entry := week.Days[day]
		if entry.Content == "" {
			continue
		}
		fmt.Printf("%s:\n", day)
		fmt.Println("  " + entry.Content)
	}
}

func (a *App) AppendToday(ctx context.Context, line string) {
	if line == "" {
		fmt.Println("Usage: track <text>")
		return
	}
	if err := a.weekly.AppendToToday(ctx, line); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Added to today.")
}
