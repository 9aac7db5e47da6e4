package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/workvault/workvault/internal/dbx"
	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/models"
	"github.com/workvault/workvault/internal/session"
	"github.com/workvault/workvault/internal/store"
	"github.com/workvault/workvault/internal/store/repositories/artifacts"
)

type ArtifactService interface {
	// Put encrypts and upserts an artifact by (kind, name).
	Put(ctx context.Context, kind models.ArtifactKind, name string, data []byte, mime string) error

	// Get returns one artifact's decrypted bytes.
	Get(ctx context.Context, kind models.ArtifactKind, name string) ([]byte, error)

	// List returns artifact names of one kind, newest first.
	List(ctx context.Context, kind models.ArtifactKind) ([]string, error)

	// Delete removes an artifact.
	Delete(ctx context.Context, kind models.ArtifactKind, name string) error
}

type artifactService struct {
	db    *sql.DB
	repos *store.Repositories
	sess  *session.Session
	log   logging.Logger
	now   func() time.Time
}

func NewArtifactService(db *sql.DB, repos *store.Repositories, sess *session.Session, log logging.Logger) ArtifactService {
	return &artifactService{db: db, repos: repos, sess: sess, log: log, now: time.Now}
}

func (s *artifactService) Put(ctx context.Context, kind models.ArtifactKind, name string, data []byte, mime string) error {
	sec, err := s.sess.Security()
	if err != nil {
		return err
	}
	enc, err := sec.EncryptBytes(data)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return artifacts.NewSQLiteRepository(tx).Upsert(ctx, &artifacts.Row{
			Kind:       string(kind),
			Name:       name,
			CreatedAt:  s.now().UTC().Format(models.TimestampLayout),
			Mime:       mime,
			PayloadEnc: enc,
		})
	})
}

func (s *artifactService) Get(ctx context.Context, kind models.ArtifactKind, name string) ([]byte, error) {
	sec, err := s.sess.Security()
	if err != nil {
		return nil, err
	}
	row, err := s.repos.Artifact.Get(ctx, string(kind), name)
	if err != nil {
		return nil, err
	}
	return sec.DecryptBytes(row.PayloadEnc)
}

func (s *artifactService) List(ctx context.Context, kind models.ArtifactKind) ([]string, error) {
	return s.repos.Artifact.ListNames(ctx, string(kind))
}

func (s *artifactService) Delete(ctx context.Context, kind models.ArtifactKind, name string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return artifacts.NewSQLiteRepository(tx).Delete(ctx, string(kind), name)
	})
}
