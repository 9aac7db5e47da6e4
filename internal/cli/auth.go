package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/workvault/workvault/internal/common"
)

func (a *App) Setup(ctx context.Context) {
	if a.manager.Configured() {
		fmt.Println("Already configured. Use 'login'.")
		return
	}

	password, err := readPassword("Choose a program password: ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if password != confirm {
		fmt.Println("Passwords do not match.")
		return
	}

	sess, err := a.manager.Setup(password)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if err := a.bindServices(ctx, sess); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Success!")
}

func (a *App) Login(ctx context.Context) {
	if !a.manager.Configured() {
		fmt.Println("Not configured yet. Use 'setup'.")
		return
	}

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	sess, err := a.manager.Login(password)
	if errors.Is(err, common.ErrAuthFailure) {
		fmt.Println("Invalid password.")
		return
	}
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if err := a.bindServices(ctx, sess); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Success!")
}

func (a *App) ChangePassword(ctx context.Context) {
	current, err := readPassword("Current password: ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	next, err := readPassword("New password: ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	confirm, err := readPassword("Repeat new password: ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if next != confirm {
		fmt.Println("Passwords do not match.")
		return
	}

	if err := a.vault.ChangePassword(ctx, current, next); err != nil {
		if errors.Is(err, common.ErrAuthFailure) {
			fmt.Println("Invalid password.")
			return
		}
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Password changed. All records re-encrypted.")
}

func (a *App) Logout() {
	a.sess.Close()
	fmt.Println("Logged out.")
}
