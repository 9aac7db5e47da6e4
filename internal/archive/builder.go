// Package archive builds the password-protected monthly zip archives.
// Each calendar month gets one archive; appending re-creates the zip with
// every existing member copied over, the new members added, and a refreshed
// README. Archives are append-only: a member is never edited in place.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/yeka/zip"

	"github.com/workvault/workvault/internal/common"
)

const readmeName = "README.txt"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeName maps an arbitrary display name onto a zip-member-safe one.
func SanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
}

// MonthKey formats the per-month folder and archive key, e.g. "2025_01".
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d_%02d", year, int(month))
}

// ArchiveName is the artifact name under which a month's archive is stored.
func ArchiveName(year int, month time.Month) string {
	return "Archive_" + MonthKey(year, month)
}

// ParseScheduleDate extracts year and month from an "M/D/YYYY" schedule date.
func ParseScheduleDate(s string) (int, time.Month, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 3 {
		return 0, 0, fmt.Errorf("invalid schedule date %q", s)
	}
	var month, day, year int
	if _, err := fmt.Sscanf(parts[0], "%d", &month); err != nil {
		return 0, 0, fmt.Errorf("invalid schedule date %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &day); err != nil {
		return 0, 0, fmt.Errorf("invalid schedule date %q", s)
	}
	if _, err := fmt.Sscanf(parts[2], "%d", &year); err != nil {
		return 0, 0, fmt.Errorf("invalid schedule date %q", s)
	}
	if month < 1 || month > 12 || year < 1900 {
		return 0, 0, fmt.Errorf("invalid schedule date %q", s)
	}
	return year, time.Month(month), nil
}

// Member is one file to append to an archive. Name is relative to the month
// folder and includes the extension, e.g. "John_Doe.txt".
type Member struct {
	Name string
	Body []byte
}

// Builder appends members to one month's archive.
type Builder struct {
	MonthKey string
	Version  string

	now func() time.Time
}

func NewBuilder(monthKey string) *Builder {
	return &Builder{MonthKey: monthKey, now: time.Now}
}

// Append returns the bytes of a new archive containing every member of
// existing (which may be nil for a fresh month) plus the given members, all
// encrypted under password. Existing members are re-enumerated under the
// same password first; a wrong password surfaces as
// common.ErrInvalidArchivePassword before anything is written.
func (b *Builder) Append(existing []byte, password string, members []Member) ([]byte, error) {
	kept := map[string][]byte{}
	createdDate := b.now().Format("2006-01-02")

	if len(existing) > 0 {
		zr, err := zip.NewReader(bytes.NewReader(existing), int64(len(existing)))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open archive: %v", common.ErrCorruptData, err)
		}
		for _, f := range zr.File {
			data, err := readZipFile(f, password)
			if err != nil {
				return nil, err
			}
			if f.Name == readmeName {
				createdDate = readCreatedDate(string(data), createdDate)
				continue
			}
			kept[f.Name] = data
		}
	}

	for _, m := range members {
		name := b.MonthKey + "/" + m.Name
		if _, taken := kept[name]; taken {
			for counter := 2; ; counter++ {
				candidate := withSuffix(b.MonthKey+"/"+m.Name, counter)
				if _, taken := kept[candidate]; !taken {
					name = candidate
					break
				}
			}
		}
		kept[name] = m.Body
	}

	readme := b.renderReadme(createdDate, countRecords(kept, b.MonthKey))

	names := make([]string, 0, len(kept))
	for name := range kept {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		if err := writeEncrypted(zw, name, kept[name], password); err != nil {
			return nil, err
		}
	}
	if err := writeEncrypted(zw, readmeName, []byte(readme), password); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// ListMembers enumerates member names inside an archive under password.
func ListMembers(data []byte, password string) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open archive: %v", common.ErrCorruptData, err)
	}
	var names []string
	for _, f := range zr.File {
		// force a decrypt so a wrong password fails here, not on first read
		if _, err := readZipFile(f, password); err != nil {
			return nil, err
		}
		names = append(names, f.Name)
	}
	return names, nil
}

// ReadMember extracts one member by name; common.ErrNotFound when absent.
func ReadMember(data []byte, password, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open archive: %v", common.ErrCorruptData, err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			return readZipFile(f, password)
		}
	}
	return nil, common.ErrNotFound
}

func readZipFile(f *zip.File, password string) ([]byte, error) {
	if f.IsEncrypted() {
		f.SetPassword(password)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, mapZipError(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, mapZipError(err)
	}
	return data, nil
}

// mapZipError translates the zip library's own authentication errors into
// the wrong-archive-password condition; anything else is corrupt data. The
// two must never be conflated with a program-password failure.
func mapZipError(err error) error {
	if errors.Is(err, zip.ErrDecryption) || errors.Is(err, zip.ErrPassword) || errors.Is(err, zip.ErrChecksum) {
		return fmt.Errorf("%w: %v", common.ErrInvalidArchivePassword, err)
	}
	return fmt.Errorf("%w: %v", common.ErrCorruptData, err)
}

func writeEncrypted(zw *zip.Writer, name string, data []byte, password string) error {
	w, err := zw.Encrypt(name, password, zip.AES256Encryption)
	if err != nil {
		return fmt.Errorf("failed to add archive member %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write archive member %s: %w", name, err)
	}
	return nil
}

func withSuffix(name string, counter int) string {
	if ext := strings.LastIndex(name, "."); ext >= 0 {
		return fmt.Sprintf("%s_%d%s", name[:ext], counter, name[ext:])
	}
	return fmt.Sprintf("%s_%d", name, counter)
}

func countRecords(members map[string][]byte, monthKey string) int {
	prefix := monthKey + "/"
	n := 0
	for name := range members {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(strings.ToLower(name), ".txt") {
			n++
		}
	}
	return n
}

func readCreatedDate(readme, fallback string) string {
	for _, line := range strings.Split(readme, "\n") {
		if strings.HasPrefix(strings.ToLower(line), "archive created:") {
			if _, value, ok := strings.Cut(line, ":"); ok {
				if v := strings.TrimSpace(value); v != "" {
					return v
				}
			}
		}
	}
	return fallback
}

func (b *Builder) renderReadme(createdDate string, recordCount int) string {
	lines := []string{"WorkVault Archive"}
	if b.Version != "" {
		lines = append(lines, "Program Version: "+b.Version)
	}
	lines = append(lines,
		"Archive Created: "+createdDate,
		"Last Updated: "+b.now().Format("2006-01-02"),
		fmt.Sprintf("People in Archive: %d", recordCount),
		"",
		"Contents:",
		"This archive contains exported candidate records.",
		"Handle as sensitive PII: keep files secure, share only with authorized staff,",
		"and delete when no longer needed.",
	)
	return strings.Join(lines, "\n")
}
