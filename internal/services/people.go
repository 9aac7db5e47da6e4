// Package services implements the application operations on top of the
// encrypted store. Every mutating operation runs inside a single
// transaction, and every operation takes its key material from an explicit
// authenticated session.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workvault/workvault/internal/cryptox"
	"github.com/workvault/workvault/internal/dbx"
	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/models"
	"github.com/workvault/workvault/internal/session"
	"github.com/workvault/workvault/internal/store"
	"github.com/workvault/workvault/internal/store/repositories/people"
)

type PeopleService interface {
	// Put inserts or updates a person, assigning a uid when absent. The
	// sensitive partition is upserted when non-empty and deleted when empty,
	// in the same transaction as the basic row.
	Put(ctx context.Context, p *models.Person) (string, error)

	// Get returns one decrypted person by uid.
	Get(ctx context.Context, uid string) (*models.Person, error)

	// GetAll returns every person, decrypted and ordered by name. Any decrypt
	// failure aborts the whole read; partial data is never returned.
	GetAll(ctx context.Context) ([]models.Person, error)

	// PurgeSensitive irreversibly deletes the sensitive row for uid. Callers
	// must archive first.
	PurgeSensitive(ctx context.Context, uid string) error

	// Remove hard-deletes both partitions.
	Remove(ctx context.Context, uid string) error
}

type peopleService struct {
	db    *sql.DB
	repos *store.Repositories
	sess  *session.Session
	log   logging.Logger
	now   func() time.Time
}

func NewPeopleService(db *sql.DB, repos *store.Repositories, sess *session.Session, log logging.Logger) PeopleService {
	return &peopleService{db: db, repos: repos, sess: sess, log: log, now: time.Now}
}

func (s *peopleService) Put(ctx context.Context, p *models.Person) (string, error) {
	sec, err := s.sess.Security()
	if err != nil {
		return "", err
	}

	if p.UID == "" {
		p.UID = uuid.NewString()
	}
	now := s.now().UTC().Format(models.TimestampLayout)

	basicEnc, err := sec.EncryptJSON(p.ToBasicPayload())
	if err != nil {
		return "", err
	}

	var sensitiveEnc []byte
	if !p.Sensitive.IsZero() {
		sensitiveEnc, err = sec.EncryptJSON(p.Sensitive)
		if err != nil {
			return "", err
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := people.NewSQLiteRepository(tx)
		row := &people.Row{
			UID:        p.UID,
			Name:       p.Basic.Name,
			Branch:     p.Basic.Branch,
			Removed:    p.Basic.Removed,
			PayloadEnc: basicEnc,
			UpdatedAt:  now,
		}
		if err := repo.Upsert(ctx, row); err != nil {
			return err
		}
		if sensitiveEnc == nil {
			return repo.DeleteSensitive(ctx, p.UID)
		}
		return repo.UpsertSensitive(ctx, &people.SensitiveRow{
			UID:        p.UID,
			PayloadEnc: sensitiveEnc,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to save person: %w", err)
	}
	return p.UID, nil
}

func (s *peopleService) Get(ctx context.Context, uid string) (*models.Person, error) {
	sec, err := s.sess.Security()
	if err != nil {
		return nil, err
	}
	row, err := s.repos.People.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	return decryptPerson(sec, row)
}

func (s *peopleService) GetAll(ctx context.Context) ([]models.Person, error) {
	sec, err := s.sess.Security()
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.People.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.Person, 0, len(rows))
	for i := range rows {
		p, err := decryptPerson(sec, &rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, nil
}

func (s *peopleService) PurgeSensitive(ctx context.Context, uid string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return people.NewSQLiteRepository(tx).DeleteSensitive(ctx, uid)
	})
}

func (s *peopleService) Remove(ctx context.Context, uid string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return people.NewSQLiteRepository(tx).Delete(ctx, uid)
	})
}

// decryptPerson merges both partitions of a joined row. Every failure is
// returned as is so an auth failure never degrades into partial data.
func decryptPerson(sec *cryptox.SecurityManager, row *people.JoinedRow) (*models.Person, error) {
	p := &models.Person{UID: row.UID}

	var payload models.BasicPayload
	if err := sec.DecryptJSON(row.PayloadEnc, &payload); err != nil {
		return nil, err
	}
	p.ApplyBasicPayload(payload)
	p.Basic.Removed = row.Removed

	if row.SensitivePayloadEnc != nil {
		if err := sec.DecryptJSON(row.SensitivePayloadEnc, &p.Sensitive); err != nil {
			return nil, err
		}
	}

	if t, err := time.Parse(models.TimestampLayout, row.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	return p, nil
}
