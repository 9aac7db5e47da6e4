package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/workvault/workvault/internal/archive"
	"github.com/workvault/workvault/internal/cache"
	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/dbx"
	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/models"
	"github.com/workvault/workvault/internal/session"
	"github.com/workvault/workvault/internal/store"
	"github.com/workvault/workvault/internal/store/repositories/artifacts"
	"github.com/workvault/workvault/internal/store/repositories/people"
)

// DefaultArchiveCacheTTL bounds how long decrypted archive listings and
// members may be served from the sensitive cache tier.
const DefaultArchiveCacheTTL = 10 * time.Minute

type ArchiveService interface {
	// ArchivePerson renders the person into the month's archive (keyed by
	// their schedule date), stores the result as an encrypted artifact, flags
	// the person removed, and purges their sensitive row, all in one
	// transaction. Returns the archive's artifact name.
	ArchivePerson(ctx context.Context, uid, archivePassword, startTime, endTime string) (string, error)

	// List returns stored archive names, newest first.
	List(ctx context.Context) ([]string, error)

	// Contents enumerates member names inside one archive.
	Contents(ctx context.Context, name, archivePassword string) ([]string, error)

	// ReadFile extracts one member from an archive.
	ReadFile(ctx context.Context, name, member, archivePassword string) ([]byte, error)
}

type archiveService struct {
	db       *sql.DB
	repos    *store.Repositories
	sess     *session.Session
	cache    *cache.Cache
	cacheTTL time.Duration
	log      logging.Logger
	now      func() time.Time
}

func NewArchiveService(db *sql.DB, repos *store.Repositories, sess *session.Session, c *cache.Cache, cacheTTL time.Duration, log logging.Logger) ArchiveService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultArchiveCacheTTL
	}
	return &archiveService{db: db, repos: repos, sess: sess, cache: c, cacheTTL: cacheTTL, log: log, now: time.Now}
}

func (s *archiveService) ArchivePerson(ctx context.Context, uid, archivePassword, startTime, endTime string) (string, error) {
	if archivePassword == "" {
		return "", fmt.Errorf("archive password is required")
	}
	sec, err := s.sess.Security()
	if err != nil {
		return "", err
	}

	row, err := s.repos.People.Get(ctx, uid)
	if err != nil {
		return "", err
	}
	person, err := decryptPerson(sec, row)
	if err != nil {
		return "", err
	}

	year, month, err := archive.ParseScheduleDate(person.Basic.NEOScheduledDate)
	if err != nil {
		return "", err
	}
	monthKey := archive.MonthKey(year, month)
	name := archive.ArchiveName(year, month)

	now := s.now()
	text := archive.RenderPersonText(person, startTime, endTime, now)
	personJSON, err := json.MarshalIndent(person, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal person: %w", err)
	}
	base := archive.SanitizeName(person.Basic.Name)
	members := []archive.Member{
		{Name: base + ".txt", Body: []byte(text)},
		{Name: base + ".json", Body: personJSON},
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		artifactRepo := artifacts.NewSQLiteRepository(tx)

		var existing []byte
		stored, err := artifactRepo.Get(ctx, string(models.ArtifactKindArchive), name)
		switch {
		case errors.Is(err, common.ErrNotFound):
		case err != nil:
			return err
		default:
			existing, err = sec.DecryptBytes(stored.PayloadEnc)
			if err != nil {
				return err
			}
		}

		newBytes, err := archive.NewBuilder(monthKey).Append(existing, archivePassword, members)
		if err != nil {
			return err
		}
		enc, err := sec.EncryptBytes(newBytes)
		if err != nil {
			return err
		}
		if err := artifactRepo.Upsert(ctx, &artifacts.Row{
			Kind:       string(models.ArtifactKindArchive),
			Name:       name,
			CreatedAt:  now.UTC().Format(models.TimestampLayout),
			Mime:       "application/zip",
			PayloadEnc: enc,
		}); err != nil {
			return err
		}

		// the person is archived: flag removed, purge the sensitive row
		person.Basic.Removed = true
		basicEnc, err := sec.EncryptJSON(person.ToBasicPayload())
		if err != nil {
			return err
		}
		peopleRepo := people.NewSQLiteRepository(tx)
		if err := peopleRepo.Upsert(ctx, &people.Row{
			UID:        person.UID,
			Name:       person.Basic.Name,
			Branch:     person.Basic.Branch,
			Removed:    true,
			PayloadEnc: basicEnc,
			UpdatedAt:  now.UTC().Format(models.TimestampLayout),
		}); err != nil {
			return err
		}
		return peopleRepo.DeleteSensitive(ctx, person.UID)
	})
	if err != nil {
		return "", err
	}

	// stale listings for this archive may be cached; drop them eagerly
	if err := s.cache.DeleteSensitive(ctx, contentsCacheKey(name, archivePassword)); err != nil {
		s.log.Warn("failed to invalidate archive cache", "archive", name, "error", err)
	}

	s.log.Info("person archived", "uid", uid, "archive", name)
	return name, nil
}

func (s *archiveService) List(ctx context.Context) ([]string, error) {
	return s.repos.Artifact.ListNames(ctx, string(models.ArtifactKindArchive))
}

func (s *archiveService) Contents(ctx context.Context, name, archivePassword string) ([]string, error) {
	key := contentsCacheKey(name, archivePassword)

	var cached []string
	ok, err := s.cache.GetSensitive(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if ok {
		return cached, nil
	}

	data, err := s.openArchive(ctx, name)
	if err != nil {
		return nil, err
	}
	names, err := archive.ListMembers(data, archivePassword)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSensitive(ctx, key, names, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache archive contents", "archive", name, "error", err)
	}
	return names, nil
}

func (s *archiveService) ReadFile(ctx context.Context, name, member, archivePassword string) ([]byte, error) {
	key := cache.KeyWithSecret("archive:file:"+name+":"+member, archivePassword)

	var cached []byte
	ok, err := s.cache.GetSensitive(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if ok {
		return cached, nil
	}

	data, err := s.openArchive(ctx, name)
	if err != nil {
		return nil, err
	}
	body, err := archive.ReadMember(data, archivePassword, member)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSensitive(ctx, key, body, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache archive member", "archive", name, "error", err)
	}
	return body, nil
}

// openArchive loads and decrypts the stored archive artifact under the
// program password. An ErrAuthFailure here means the program password is
// wrong; archive-password failures surface later, from the zip layer.
func (s *archiveService) openArchive(ctx context.Context, name string) ([]byte, error) {
	sec, err := s.sess.Security()
	if err != nil {
		return nil, err
	}
	row, err := s.repos.Artifact.Get(ctx, string(models.ArtifactKindArchive), name)
	if err != nil {
		return nil, err
	}
	return sec.DecryptBytes(row.PayloadEnc)
}

func contentsCacheKey(name, archivePassword string) string {
	return cache.KeyWithSecret("archive:contents:"+name, archivePassword)
}
