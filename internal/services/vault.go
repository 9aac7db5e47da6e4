package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/workvault/workvault/internal/cryptox"
	"github.com/workvault/workvault/internal/dbx"
	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/models"
	"github.com/workvault/workvault/internal/session"
	"github.com/workvault/workvault/internal/store"
	"github.com/workvault/workvault/internal/store/repositories/artifacts"
	"github.com/workvault/workvault/internal/store/repositories/people"
	"github.com/workvault/workvault/internal/store/repositories/weekly"
)

// VaultService owns whole-store operations: changing the program password
// re-encrypts every stored row, since each row's encryption key is derived
// from the password itself.
type VaultService interface {
	// ChangePassword verifies current, re-encrypts all rows under next in
	// one transaction, then replaces the stored credential and rebinds the
	// session. The sensitive cache tier is dropped rather than re-encrypted.
	ChangePassword(ctx context.Context, current, next string) error
}

type vaultService struct {
	db      *sql.DB
	repos   *store.Repositories
	manager *session.Manager
	sess    *session.Session
	log     logging.Logger
	now     func() time.Time
}

func NewVaultService(db *sql.DB, repos *store.Repositories, manager *session.Manager, sess *session.Session, log logging.Logger) VaultService {
	return &vaultService{db: db, repos: repos, manager: manager, sess: sess, log: log, now: time.Now}
}

func (s *vaultService) ChangePassword(ctx context.Context, current, next string) error {
	// verify against the stored credential up front, so the expensive
	// re-encryption never runs with an unverified password
	probe, err := s.manager.Login(current)
	if err != nil {
		return err
	}
	probe.Close()

	oldSec := cryptox.NewSecurityManager(current)
	newSec := cryptox.NewSecurityManager(next)
	now := s.now().UTC().Format(models.TimestampLayout)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := reencryptPeople(ctx, tx, oldSec, newSec, now); err != nil {
			return err
		}
		if err := reencryptWeekly(ctx, tx, oldSec, newSec, now); err != nil {
			return err
		}
		if err := reencryptArtifacts(ctx, tx, oldSec, newSec); err != nil {
			return err
		}
		// cached values are disposable; dropping beats re-encrypting
		_, err := tx.ExecContext(ctx, `DELETE FROM secure_cache`)
		return err
	})
	if err != nil {
		return err
	}

	// rows are committed under the new password; the credential swap must
	// follow, never precede
	if err := s.manager.ChangePassword(s.sess, current, next); err != nil {
		s.log.Error("credential replace failed after re-encryption; retry the password change", "error", err)
		return err
	}

	s.log.Info("program password changed")
	return nil
}

func reencryptPeople(ctx context.Context, tx dbx.DBTX, oldSec, newSec *cryptox.SecurityManager, now string) error {
	repo := people.NewSQLiteRepository(tx)
	rows, err := repo.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		payload, err := reencrypt(oldSec, newSec, row.PayloadEnc)
		if err != nil {
			return err
		}
		row.PayloadEnc = payload
		row.UpdatedAt = now
		if err := repo.Upsert(ctx, &row.Row); err != nil {
			return err
		}
		if row.SensitivePayloadEnc == nil {
			continue
		}
		sensitive, err := reencrypt(oldSec, newSec, row.SensitivePayloadEnc)
		if err != nil {
			return err
		}
		if err := repo.UpsertSensitive(ctx, &people.SensitiveRow{
			UID:        row.UID,
			PayloadEnc: sensitive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func reencryptWeekly(ctx context.Context, tx dbx.DBTX, oldSec, newSec *cryptox.SecurityManager, now string) error {
	repo := weekly.NewSQLiteRepository(tx)
	starts, err := repo.ListWeekStarts(ctx)
	if err != nil {
		return err
	}
	for _, start := range starts {
		row, err := repo.Get(ctx, start)
		if err != nil {
			return err
		}
		row.PayloadEnc, err = reencrypt(oldSec, newSec, row.PayloadEnc)
		if err != nil {
			return err
		}
		row.UpdatedAt = now
		if err := repo.Upsert(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

func reencryptArtifacts(ctx context.Context, tx dbx.DBTX, oldSec, newSec *cryptox.SecurityManager) error {
	repo := artifacts.NewSQLiteRepository(tx)
	for _, kind := range []models.ArtifactKind{models.ArtifactKindArchive, models.ArtifactKindExport} {
		names, err := repo.ListNames(ctx, string(kind))
		if err != nil {
			return err
		}
		for _, name := range names {
			row, err := repo.Get(ctx, string(kind), name)
			if err != nil {
				return err
			}
			row.PayloadEnc, err = reencrypt(oldSec, newSec, row.PayloadEnc)
			if err != nil {
				return err
			}
			if err := repo.Upsert(ctx, row); err != nil {
				return err
			}
		}
	}
	return nil
}

func reencrypt(oldSec, newSec *cryptox.SecurityManager, blob []byte) ([]byte, error) {
	plain, err := oldSec.DecryptBytes(blob)
	if err != nil {
		return nil, err
	}
	return newSec.EncryptBytes(plain)
}
