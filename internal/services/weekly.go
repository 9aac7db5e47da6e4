package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/cryptox"
	"github.com/workvault/workvault/internal/dbx"
	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/models"
	"github.com/workvault/workvault/internal/session"
	"github.com/workvault/workvault/internal/store"
	"github.com/workvault/workvault/internal/store/repositories/weekly"
)

type WeeklyService interface {
	// UpsertWeek stores the whole week as one encrypted blob.
	UpsertWeek(ctx context.Context, w *models.Week) error

	// GetWeek returns one decrypted week by its start date.
	GetWeek(ctx context.Context, weekStart string) (*models.Week, error)

	// CurrentWeek returns the week containing today, empty if never stored.
	CurrentWeek(ctx context.Context) (*models.Week, error)

	// AppendToToday appends a line to today's entry as a single atomic
	// read-decrypt-modify-encrypt-write.
	AppendToToday(ctx context.Context, line string) error

	// ListWeeks returns stored week start dates, newest first.
	ListWeeks(ctx context.Context) ([]string, error)
}

type weeklyService struct {
	db    *sql.DB
	repos *store.Repositories
	sess  *session.Session
	log   logging.Logger
	now   func() time.Time
}

func NewWeeklyService(db *sql.DB, repos *store.Repositories, sess *session.Session, log logging.Logger) WeeklyService {
	return &weeklyService{db: db, repos: repos, sess: sess, log: log, now: time.Now}
}

func (s *weeklyService) UpsertWeek(ctx context.Context, w *models.Week) error {
	sec, err := s.sess.Security()
	if err != nil {
		return err
	}
	w.Normalize()
	w.UpdatedAt = s.now().UTC().Format(models.TimestampLayout)

	enc, err := sec.EncryptJSON(w)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return weekly.NewSQLiteRepository(tx).Upsert(ctx, &weekly.Row{
			WeekStart:  w.WeekStart,
			WeekEnd:    w.WeekEnd,
			UpdatedAt:  w.UpdatedAt,
			PayloadEnc: enc,
		})
	})
}

func (s *weeklyService) GetWeek(ctx context.Context, weekStart string) (*models.Week, error) {
	sec, err := s.sess.Security()
	if err != nil {
		return nil, err
	}
	row, err := s.repos.Weekly.Get(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	return decryptWeek(sec, row)
}

func (s *weeklyService) CurrentWeek(ctx context.Context) (*models.Week, error) {
	week, err := s.GetWeek(ctx, s.currentWeekStart())
	if errors.Is(err, common.ErrNotFound) {
		start, end := models.CurrentWeek(s.now())
		return models.NewWeek(start.Format(models.DateLayout), end.Format(models.DateLayout)), nil
	}
	return week, err
}

func (s *weeklyService) AppendToToday(ctx context.Context, line string) error {
	sec, err := s.sess.Security()
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return appendToToday(ctx, tx, sec, s.now(), line)
	})
}

func (s *weeklyService) ListWeeks(ctx context.Context) ([]string, error) {
	return s.repos.Weekly.ListWeekStarts(ctx)
}

func (s *weeklyService) currentWeekStart() string {
	start, _ := models.CurrentWeek(s.now())
	return start.Format(models.DateLayout)
}

// appendToToday performs the read-decrypt-modify-encrypt-write cycle on the
// current week inside the caller's transaction, so callers can combine it
// with other writes (completing a todo) atomically.
func appendToToday(ctx context.Context, tx dbx.DBTX, sec *cryptox.SecurityManager, now time.Time, line string) error {
	start, end := models.CurrentWeek(now)
	weekStart := start.Format(models.DateLayout)

	repo := weekly.NewSQLiteRepository(tx)

	var week *models.Week
	row, err := repo.Get(ctx, weekStart)
	switch {
	case errors.Is(err, common.ErrNotFound):
		week = models.NewWeek(weekStart, end.Format(models.DateLayout))
	case err != nil:
		return err
	default:
		week, err = decryptWeek(sec, row)
		if err != nil {
			return err
		}
	}

	week.AppendToDay(now.Weekday().String(), line)
	week.UpdatedAt = now.UTC().Format(models.TimestampLayout)

	enc, err := sec.EncryptJSON(week)
	if err != nil {
		return err
	}
	return repo.Upsert(ctx, &weekly.Row{
		WeekStart:  week.WeekStart,
		WeekEnd:    week.WeekEnd,
		UpdatedAt:  week.UpdatedAt,
		PayloadEnc: enc,
	})
}

func decryptWeek(sec *cryptox.SecurityManager, row *weekly.Row) (*models.Week, error) {
	var week models.Week
	if err := sec.DecryptJSON(row.PayloadEnc, &week); err != nil {
		return nil, err
	}
	week.WeekStart = row.WeekStart
	week.WeekEnd = row.WeekEnd
	week.Normalize()
	return &week, nil
}
