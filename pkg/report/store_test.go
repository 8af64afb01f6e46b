package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "discover.last.json"), nil)
}

func TestPersistAndLoad(t *testing.T) {
	s := newTestStore(t)
	records := []peer.Record{
		{Name: peer.StringPtr("Bob"), Address: "fe80::1", Port: 8770, ID: "aa11bb22cc33", Flags: 1, Discoverable: true},
		{Address: "fe80::2", Port: 8770, ID: "bbbbbbbbbbbb", Flags: peer.SupportsDiscoverMaybe},
	}

	require.NoError(t, s.Persist(records))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestPersistOverwrites(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Persist([]peer.Record{{ID: "first", Address: "fe80::1", Port: 1}}))
	require.NoError(t, s.Persist([]peer.Record{{ID: "second", Address: "fe80::2", Port: 2}}))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "second", loaded[0].ID)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestPersistEmptyCatalogWritesArray(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Persist(nil))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestPersistFailureIsSurfaced(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := NewStore(filepath.Join(blocker, "report.json"), nil)
	err := s.Persist([]peer.Record{})
	require.Error(t, err)
	assert.True(t, errors.IsPersist(err))
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load()
	require.Error(t, err)
	assert.True(t, errors.IsMissingReport(err))
}

func TestLoadCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0644))

	_, err := s.Load()
	require.Error(t, err)
	assert.True(t, errors.IsPersist(err))
}

func TestLoadLiteralReport(t *testing.T) {
	s := newTestStore(t)
	literal := `[{"name":"Bob","address":"fe80::1","port":8770,"id":"aa11bb22cc33","flags":1,"discoverable":true}]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(literal), 0644))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Bob", loaded[0].DisplayName())
	assert.Equal(t, peer.Flags(1), loaded[0].Flags)
	assert.True(t, loaded[0].Discoverable)
}

func TestStaleness(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Persist([]peer.Record{{ID: "x", Address: "fe80::1", Port: 8770}}))

	now := time.Now()
	old := now.Add(-61 * time.Second)
	require.NoError(t, os.Chtimes(s.Path(), old, old))

	age, err := s.Staleness(now)
	require.NoError(t, err)
	assert.InDelta(t, 61*time.Second, age, float64(time.Second))

	staleErr := s.CheckStale(now, DefaultStaleAfter)
	require.Error(t, staleErr)
	assert.True(t, errors.IsStaleReport(staleErr))

	// staleness is advisory: the report still loads
	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestFreshReportIsNotStale(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Persist(nil))
	assert.NoError(t, s.CheckStale(time.Now(), DefaultStaleAfter))
}

func TestStalenessMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Staleness(time.Now())
	assert.True(t, errors.IsMissingReport(err))
}
