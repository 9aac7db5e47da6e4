package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/models"
)

func (a *App) ListPeople(ctx context.Context) {
	people, err := a.people.GetAll(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if len(people) == 0 {
		fmt.Println("No records.")
		return
	}
	for _, p := range people {
		flag := " "
		if p.Basic.Removed {
			flag = "x"
		}
		fmt.Printf("[%s] %-30s %-12s %s\n", flag, p.Basic.Name, p.Basic.Branch, p.UID)
	}
}

func (a *App) AddPerson(ctx context.Context) {
	p := &models.Person{}

	fields := []struct {
		prompt string
		dest   *string
	}{
		{"Name: ", &p.Basic.Name},
		{"Employee ID: ", &p.Basic.EmployeeID},
		{"Branch: ", &p.Basic.Branch},
		{"Job name: ", &p.Basic.JobName},
		{"NEO scheduled date (M/D/YYYY): ", &p.Basic.NEOScheduledDate},
		{"SSN (optional): ", &p.Sensitive.SSN},
		{"Date of birth (optional): ", &p.Sensitive.DateOfBirth},
	}
	for _, f := range fields {
		v, err := a.readLine(f.prompt)
		if err != nil {
			fmt.Println(err.Error())
			return
		}
		*f.dest = v
	}

	uid, err := a.people.Put(ctx, p)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Saved %s\n", uid)
}

func (a *App) ShowPerson(ctx context.Context, uid string) {
	p, err := a.people.Get(ctx, uid)
	if errors.Is(err, common.ErrNotFound) {
		fmt.Println("No such record.")
		return
	}
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("Name:       %s\n", p.Basic.Name)
	fmt.Printf("Employee:   %s\n", p.Basic.EmployeeID)
	fmt.Printf("Branch:     %s\n", p.Basic.Branch)
	fmt.Printf("Job:        %s\n", p.Basic.JobName)
	fmt.Printf("NEO date:   %s\n", p.Basic.NEOScheduledDate)
	fmt.Printf("Removed:    %v\n", p.Basic.Removed)
	if !p.Sensitive.IsZero() {
		fmt.Println("Sensitive data on file: yes")
	}
	for k, v := range p.Extra {
		fmt.Printf("%s: %s\n", k, v)
	}
}

func (a *App) ArchivePerson(ctx context.Context, uid string) {
	archivePassword, err := readPassword("Archive password: ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	start, err := a.readLine("NEO start time (HH:MM, optional): ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	end, err := a.readLine("NEO end time (HH:MM, optional): ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	name, err := a.archive.ArchivePerson(ctx, uid, archivePassword, start, end)
	if errors.Is(err, common.ErrInvalidArchivePassword) {
		fmt.Println("Invalid archive password.")
		return
	}
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Archived into %s. Sensitive data purged.\n", name)
}
