package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/cryptox"
	"github.com/workvault/workvault/internal/dbx"
	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/models"
	"github.com/workvault/workvault/internal/session"
	"github.com/workvault/workvault/internal/store"
	"github.com/workvault/workvault/internal/store/repositories/artifacts"
	"github.com/workvault/workvault/internal/store/repositories/meta"
	"github.com/workvault/workvault/internal/store/repositories/people"
	"github.com/workvault/workvault/internal/store/repositories/weekly"
)

// schemaVersionKey gates migration: present means migrated, forever.
const (
	schemaVersionKey   = "schema_version"
	schemaVersionValue = "1"
)

// LegacyPaths locates the pre-database on-disk data to import. Any path may
// be empty or missing; absent sources are skipped.
type LegacyPaths struct {
	PeopleFile string // encrypted JSON array of person objects
	WeeklyDir  string // Week_<start>_to_<end>.json files
	ArchiveDir string // loose monthly .zip archives
	ExportsDir string // csv/txt/json export files
}

// LegacyMigrator imports the legacy on-disk formats into the store, once.
// Every step is best-effort by contract: a failed step is logged and skipped,
// the migration is still marked done, and no legacy source file is ever
// modified or deleted. Re-running a repair against the untouched sources
// remains possible.
type LegacyMigrator struct {
	db    *sql.DB
	repos *store.Repositories
	sess  *session.Session
	paths LegacyPaths
	log   logging.Logger
	now   func() time.Time
}

func NewLegacyMigrator(db *sql.DB, repos *store.Repositories, sess *session.Session, paths LegacyPaths, log logging.Logger) *LegacyMigrator {
	return &LegacyMigrator{db: db, repos: repos, sess: sess, paths: paths, log: log, now: time.Now}
}

// Run performs the one-time import. Idempotent: once the schema-version meta
// key exists, Run returns immediately, even if legacy files are still around.
func (m *LegacyMigrator) Run(ctx context.Context) error {
	_, err := m.repos.Meta.Get(ctx, schemaVersionKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	sec, err := m.sess.Security()
	if err != nil {
		return err
	}
	now := m.now().UTC().Format(models.TimestampLayout)

	if err := m.migratePeople(ctx, sec, now); err != nil {
		m.log.Warn("legacy people import skipped", "error", err)
	}
	if err := m.migrateWeekly(ctx, sec, now); err != nil {
		m.log.Warn("legacy weekly tracker import skipped", "error", err)
	}
	if err := m.migrateArchives(ctx, sec, now); err != nil {
		m.log.Warn("legacy archive import skipped", "error", err)
	}
	if err := m.migrateExports(ctx, sec, now); err != nil {
		m.log.Warn("legacy export import skipped", "error", err)
	}

	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return meta.NewSQLiteRepository(tx).Set(ctx, schemaVersionKey, schemaVersionValue)
	})
}

func (m *LegacyMigrator) migratePeople(ctx context.Context, sec *cryptox.SecurityManager, now string) error {
	if m.paths.PeopleFile == "" {
		return nil
	}
	if _, err := os.Stat(m.paths.PeopleFile); os.IsNotExist(err) {
		return nil
	}

	plain, err := sec.DecryptFile(m.paths.PeopleFile)
	if err != nil {
		return err
	}
	var raw []map[string]any
	if err := json.Unmarshal(plain, &raw); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCorruptData, err)
	}

	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := people.NewSQLiteRepository(tx)
		for _, fields := range raw {
			p := personFromLegacy(fields)
			if p == nil {
				continue
			}
			basicEnc, err := sec.EncryptJSON(p.ToBasicPayload())
			if err != nil {
				return err
			}
			if err := repo.Upsert(ctx, &people.Row{
				UID:        p.UID,
				Name:       p.Basic.Name,
				Branch:     p.Basic.Branch,
				Removed:    p.Basic.Removed,
				PayloadEnc: basicEnc,
				UpdatedAt:  now,
			}); err != nil {
				return err
			}
			if !p.Sensitive.IsZero() {
				sensitiveEnc, err := sec.EncryptJSON(p.Sensitive)
				if err != nil {
					return err
				}
				if err := repo.UpsertSensitive(ctx, &people.SensitiveRow{
					UID:        p.UID,
					PayloadEnc: sensitiveEnc,
					CreatedAt:  now,
					UpdatedAt:  now,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (m *LegacyMigrator) migrateWeekly(ctx context.Context, sec *cryptox.SecurityManager, now string) error {
	files, err := listFiles(m.paths.WeeklyDir, ".json")
	if err != nil || len(files) == 0 {
		return err
	}

	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := weekly.NewSQLiteRepository(tx)
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				m.log.Warn("failed to read legacy week file", "path", path, "error", err)
				continue
			}
			week := weekFromLegacy(filepath.Base(path), data)
			if week == nil {
				m.log.Warn("unparseable legacy week file", "path", path)
				continue
			}
			week.UpdatedAt = now
			enc, err := sec.EncryptJSON(week)
			if err != nil {
				return err
			}
			if err := repo.Upsert(ctx, &weekly.Row{
				WeekStart:  week.WeekStart,
				WeekEnd:    week.WeekEnd,
				UpdatedAt:  now,
				PayloadEnc: enc,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *LegacyMigrator) migrateArchives(ctx context.Context, sec *cryptox.SecurityManager, now string) error {
	return m.migrateFilesAsArtifacts(ctx, sec, now, m.paths.ArchiveDir, models.ArtifactKindArchive, map[string]string{
		".zip": "application/zip",
	})
}

func (m *LegacyMigrator) migrateExports(ctx context.Context, sec *cryptox.SecurityManager, now string) error {
	return m.migrateFilesAsArtifacts(ctx, sec, now, m.paths.ExportsDir, models.ArtifactKindExport, map[string]string{
		".csv":  "text/csv",
		".txt":  "text/plain",
		".json": "application/json",
	})
}

func (m *LegacyMigrator) migrateFilesAsArtifacts(ctx context.Context, sec *cryptox.SecurityManager, now, dir string, kind models.ArtifactKind, mimes map[string]string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := artifacts.NewSQLiteRepository(tx)
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			mime, ok := mimes[strings.ToLower(filepath.Ext(e.Name()))]
			if !ok {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				m.log.Warn("failed to read legacy artifact", "path", e.Name(), "error", err)
				continue
			}
			enc, err := sec.EncryptBytes(data)
			if err != nil {
				return err
			}
			if err := repo.Upsert(ctx, &artifacts.Row{
				Kind:       string(kind),
				Name:       e.Name(),
				CreatedAt:  now,
				Mime:       mime,
				PayloadEnc: enc,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func listFiles(dir, ext string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// legacyFieldMap maps the legacy flat field names onto the partitioned
// model. Unknown fields land in Extra, never dropped.
func personFromLegacy(fields map[string]any) *models.Person {
	str := func(key string) string {
		v, ok := fields[key]
		if !ok || v == nil {
			return ""
		}
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t)
		case bool:
			if t {
				return "true"
			}
			return "false"
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
		default:
			return fmt.Sprintf("%v", t)
		}
	}

	uid := str("uid")
	if uid == "" {
		uid = uuid.NewString()
	}

	p := &models.Person{
		UID: uid,
		Basic: models.BasicInfo{
			Name:             str("Name"),
			EmployeeID:       str("Employee ID"),
			Branch:           str("Branch"),
			JobName:          str("Job Name"),
			JobLocation:      str("Job Location"),
			ManagerName:      str("Manager Name"),
			OnboardingStatus: str("Status"),
			NEOScheduledDate: str("NEO Scheduled Date"),
			ShirtSize:        str("Shirt Size"),
			PantsSize:        str("Pants Size"),
			BootsSize:        str("Boots"),
			Notes:            str("Notes"),
			Removed:          strings.EqualFold(str("Removed"), "true"),
		},
		Sensitive: models.SensitiveInfo{
			DateOfBirth:      str("DOB"),
			SSN:              str("Social"),
			IDType:           str("Other ID"),
			IDState:          str("State"),
			IDNumber:         str("ID No."),
			IDExpiration:     str("Exp."),
			BankName:         str("Bank Name"),
			RoutingNumber:    str("Routing Number"),
			AccountNumber:    str("Account Number"),
			ECFirstName:      str("EC First Name"),
			ECLastName:       str("EC Last Name"),
			ECRelationship:   str("EC Relationship"),
			ECPhone:          str("EC Phone Number"),
			BackgroundStatus: str("CORI Status"),
			BackgroundDate:   str("Background Completion Date"),
		},
	}

	known := map[string]struct{}{
		"uid": {}, "Name": {}, "Employee ID": {}, "Branch": {}, "Job Name": {},
		"Job Location": {}, "Manager Name": {}, "Status": {}, "NEO Scheduled Date": {},
		"Shirt Size": {}, "Pants Size": {}, "Boots": {}, "Notes": {}, "Removed": {},
		"DOB": {}, "Social": {}, "Other ID": {}, "State": {}, "ID No.": {}, "Exp.": {},
		"Bank Name": {}, "Routing Number": {}, "Account Number": {},
		"EC First Name": {}, "EC Last Name": {}, "EC Relationship": {}, "EC Phone Number": {},
		"CORI Status": {}, "Background Completion Date": {},
	}
	for key := range fields {
		if _, ok := known[key]; ok {
			continue
		}
		if v := str(key); v != "" {
			if p.Extra == nil {
				p.Extra = map[string]string{}
			}
			p.Extra[key] = v
		}
	}
	return p
}

// weekFromLegacy parses one legacy week file. The week bounds come from the
// Week_<start>_to_<end>.json name; a non-conforming name falls back to the
// bare stem for both bounds, matching the legacy importer.
func weekFromLegacy(fileName string, data []byte) *models.Week {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	weekStart, weekEnd := stem, stem
	if rest, ok := strings.CutPrefix(stem, "Week_"); ok {
		if start, end, ok := strings.Cut(rest, "_to_"); ok {
			weekStart, weekEnd = start, end
		}
	}

	week := models.NewWeek(weekStart, weekEnd)

	var days map[string]models.DayEntry
	if err := json.Unmarshal(data, &days); err == nil {
		for name, entry := range days {
			week.Days[name] = entry
		}
		return week
	}

	// older files store plain content strings per day
	var plain map[string]string
	if err := json.Unmarshal(data, &plain); err == nil {
		for name, content := range plain {
			week.Days[name] = models.DayEntry{Content: content}
		}
		return week
	}
	return nil
}
