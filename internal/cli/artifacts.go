package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/models"
)

func (a *App) ListArchives(ctx context.Context) {
	names, err := a.archive.List(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if len(names) == 0 {
		fmt.Println("No archives.")
		return
	}
	for _, n := range names {
		fmt.Println(n)
	}
}

func (a *App) ShowArchive(ctx context.Context, name string) {
	archivePassword, err := readPassword("Archive password: ")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	members, err := a.archive.Contents(ctx, name, archivePassword)
	if errors.Is(err, common.ErrInvalidArchivePassword) {
		fmt.Println("Invalid archive password.")
		return
	}
	if errors.Is(err, common.ErrNotFound) {
		fmt.Println("No such archive.")
		return
	}
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	for _, m := range members {
		fmt.Println(m)
	}
}

func (a *App) ListExports(ctx context.Context) {
	names, err := a.artifacts.List(ctx, models.ArtifactKindExport)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if len(names) == 0 {
		fmt.Println("No exports.")
		return
	}
	for _, n := range names {
		fmt.Println(n)
	}
}
