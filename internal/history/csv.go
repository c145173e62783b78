package history

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/flock"

	"traineewatch/internal/domain"
	"traineewatch/internal/logging"
)

// Schema v1. The header row is the version marker: loads reject any file
// whose header doesn't match a known column set.
var columnsV1 = []string{
	"id", "title", "organization", "location", "category", "duration",
	"start_date", "end_date", "deadline", "reference", "description",
	"link", "first_seen",
}

const timeLayout = "2006-01-02 15:04:05"

// CSVStore appends listing rows to a flat file. Writers are serialized via
// a flock sidecar so overlapping scheduled runs cannot interleave rows.
type CSVStore struct {
	path string
	lock *flock.Flock
	log  *logging.Logger
}

func OpenCSV(path string, log *logging.Logger) *CSVStore {
	return &CSVStore{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  log.With("store", "csv", "path", path),
	}
}

// Load reads the full history back. Per the store contract it degrades to
// an empty history instead of failing: a missing file is a first run, an
// unreadable or mismatched file is logged and treated as empty, and
// malformed rows (e.g. a torn trailing write) are skipped row-wise.
func (s *CSVStore) Load() ([]domain.Listing, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("no history file found, treating as first run")
		return nil, nil
	}
	if err != nil {
		s.log.Error("history file unreadable, treating as empty", "error", err)
		return nil, nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		s.log.Error("history header unreadable, treating as empty", "error", err)
		return nil, nil
	}
	if !equalHeader(header, columnsV1) {
		s.log.Error("history header does not match schema v1, treating as empty", "header", header)
		return nil, nil
	}

	var out []domain.Listing
	for row := 1; ; row++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.log.Warn("skipping unreadable history row", "row", row, "error", err)
			continue
		}
		if len(rec) != len(columnsV1) {
			s.log.Warn("skipping malformed history row", "row", row, "fields", len(rec))
			continue
		}
		out = append(out, fromRow(rec))
	}

	s.log.Info("loaded history", "records", len(out))
	return out, nil
}

// Append durably adds the given records. The write is a single buffered
// flush under an exclusive lock: either every row lands or the error is
// reported with the file untouched past its previous end.
func (s *CSVStore) Append(listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock history file: %w", err)
	}
	defer s.lock.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat history file: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if st.Size() == 0 {
		if err := w.Write(columnsV1); err != nil {
			return err
		}
		s.log.Info("created new history file with schema v1 header")
	}
	for _, l := range listings {
		if err := w.Write(toRow(l)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append history rows: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync history file: %w", err)
	}

	s.log.Info("appended history rows", "records", len(listings))
	return nil
}

func (s *CSVStore) Close() error { return nil }

func toRow(l domain.Listing) []string {
	return []string{
		l.ID, l.Title, l.Organization, l.Location, l.Category, l.Duration,
		l.StartDate, l.EndDate, l.Deadline, l.Reference, l.Description,
		l.URL, l.FirstSeen.Format(timeLayout),
	}
}

func fromRow(rec []string) domain.Listing {
	firstSeen, _ := time.Parse(timeLayout, rec[12])
	return domain.Listing{
		ID:           rec[0],
		Title:        rec[1],
		Organization: rec[2],
		Location:     rec[3],
		Category:     rec[4],
		Duration:     rec[5],
		StartDate:    rec[6],
		EndDate:      rec[7],
		Deadline:     rec[8],
		Reference:    rec[9],
		Description:  rec[10],
		URL:          rec[11],
		FirstSeen:    firstSeen,
	}
}

func equalHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
