package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traineewatch/internal/domain"
	"traineewatch/internal/logging"
)

func openSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteLoadEmpty(t *testing.T) {
	s := openSQLiteStore(t)
	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := openSQLiteStore(t)

	in := []domain.Listing{sample("aaa", "First Posting"), sample("bbb", "Second Posting")}
	require.NoError(t, s.Append(in))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, in[0].ID, got[0].ID)
	assert.Equal(t, in[0].Title, got[0].Title)
	assert.Equal(t, in[0].Description, got[0].Description)
	assert.Equal(t, in[1].ID, got[1].ID)
}

func TestSQLiteAppendIgnoresDuplicates(t *testing.T) {
	s := openSQLiteStore(t)

	require.NoError(t, s.Append([]domain.Listing{sample("aaa", "First")}))
	require.NoError(t, s.Append([]domain.Listing{sample("aaa", "First"), sample("bbb", "Second")}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteAppendEmptyIsNoOp(t *testing.T) {
	s := openSQLiteStore(t)
	require.NoError(t, s.Append(nil))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}
