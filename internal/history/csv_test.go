package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traineewatch/internal/domain"
	"traineewatch/internal/logging"
)

func sample(id, title string) domain.Listing {
	return domain.Listing{
		ID:           id,
		Title:        title,
		Organization: "Acme GmbH",
		Location:     "Berlin, Germany",
		Category:     "Engineering",
		Duration:     "6 months",
		StartDate:    "01/09/2025",
		Deadline:     "15/08/2025",
		Description:  "A description with, commas and \"quotes\" in it.",
		URL:          "https://example.org/t/" + id,
		FirstSeen:    time.Date(2025, 8, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestCSVLoadMissingFileIsFirstRun(t *testing.T) {
	s := OpenCSV(filepath.Join(t.TempDir(), "history.csv"), logging.Nop())
	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	s := OpenCSV(path, logging.Nop())

	in := []domain.Listing{sample("aaa", "First Posting"), sample("bbb", "Second Posting")}
	require.NoError(t, s.Append(in))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, in[0], got[0])
	assert.Equal(t, in[1], got[1])
}

func TestCSVAppendPreservesPriorRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	s := OpenCSV(path, logging.Nop())

	require.NoError(t, s.Append([]domain.Listing{sample("aaa", "First")}))
	require.NoError(t, s.Append([]domain.Listing{sample("bbb", "Second")}))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "aaa", got[0].ID)
	assert.Equal(t, "bbb", got[1].ID)

	// header written exactly once
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), "id,title,organization"))
}

func TestCSVAppendEmptyIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	s := OpenCSV(path, logging.Nop())

	require.NoError(t, s.Append(nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCSVLoadSkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	s := OpenCSV(path, logging.Nop())
	require.NoError(t, s.Append([]domain.Listing{sample("aaa", "First")}))

	// simulate a torn write
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("bbb,truncated row\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "aaa", got[0].ID)
}

func TestCSVLoadRejectsUnknownHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("some,other,schema\n1,2,3\n"), 0o644))

	s := OpenCSV(path, logging.Nop())
	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}
