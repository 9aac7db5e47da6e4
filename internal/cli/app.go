// Package cli implements the interactive terminal front end.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/workvault/workvault/internal/cache"
	"github.com/workvault/workvault/internal/config"
	"github.com/workvault/workvault/internal/filex"
	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/services"
	"github.com/workvault/workvault/internal/session"
	"github.com/workvault/workvault/internal/store"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	repos   *store.Repositories
	manager *session.Manager
	sess    *session.Session

	people    services.PeopleService
	weekly    services.WeeklyService
	artifacts services.ArtifactService
	todos     services.TodoService
	archive   services.ArchiveService
	vault     services.VaultService

	reader *bufio.Reader
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	if err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, err
	}

	db, repos, err := store.InitDatabase(ctx, c.DatabasePath())
	if err != nil {
		log.Error("error initializing database", "error", err)
		return nil, err
	}

	return &App{
		config:  c,
		log:     log,
		db:      db,
		repos:   repos,
		manager: session.NewManager(c.DataDir, log),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.sess.Active()
}

// bindServices wires the service layer to an authenticated session and runs
// the one-time legacy import.
func (a *App) bindServices(ctx context.Context, sess *session.Session) error {
	a.sess = sess

	c := cache.New(a.repos.Cache, sess, a.config.CacheDir, a.log)

	a.people = services.NewPeopleService(a.db, a.repos, sess, a.log)
	a.weekly = services.NewWeeklyService(a.db, a.repos, sess, a.log)
	a.artifacts = services.NewArtifactService(a.db, a.repos, sess, a.log)
	a.todos = services.NewTodoService(a.db, a.repos, sess, a.log)
	a.archive = services.NewArchiveService(a.db, a.repos, sess, c, a.config.ArchiveCacheTTL, a.log)
	a.vault = services.NewVaultService(a.db, a.repos, a.manager, sess, a.log)

	migrator := services.NewLegacyMigrator(a.db, a.repos, sess, services.LegacyPaths{
		PeopleFile: a.config.LegacyPeopleFile(),
		WeeklyDir:  a.config.LegacyWeeklyDir(),
		ArchiveDir: a.config.LegacyArchiveDir(),
		ExportsDir: a.config.LegacyExportsDir(),
	}, a.log)
	if err := migrator.Run(ctx); err != nil {
		a.log.Warn("legacy migration failed", "error", err)
	}
	return nil
}

func (a *App) Close() error {
	a.sess.Close()
	return a.db.Close()
}
