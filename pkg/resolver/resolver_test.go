package resolver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
	"github.com/DeBrosOfficial/opendrop/pkg/report"
)

func bob() peer.Record {
	return peer.Record{
		Name:         peer.StringPtr("Bob"),
		Address:      "fe80::1",
		Port:         8770,
		ID:           "aa11bb22cc33",
		Flags:        1,
		Discoverable: true,
	}
}

func TestResolveAllTiersReturnSameRecord(t *testing.T) {
	records := []peer.Record{bob()}

	for _, token := range []string{"0", "aa11bb22cc33", "Bob"} {
		t.Run(token, func(t *testing.T) {
			rec, err := Resolve(token, records)
			require.NoError(t, err)
			assert.Equal(t, records[0], rec)
		})
	}
}

func TestResolveEveryIndex(t *testing.T) {
	var records []peer.Record
	for i := 0; i < 25; i++ {
		records = append(records, peer.Record{
			Address: fmt.Sprintf("fe80::%x", i+1),
			Port:    8770,
			ID:      fmt.Sprintf("%012d", i),
		})
	}

	for i := range records {
		rec, err := Resolve(fmt.Sprint(i), records)
		require.NoError(t, err)
		assert.Equal(t, records[i], rec)
	}
}

func TestResolveIDTier(t *testing.T) {
	records := []peer.Record{
		{ID: "000000000001", Address: "fe80::1", Port: 8770},
		{ID: "abcdefabcdef", Address: "fe80::2", Port: 8770},
	}

	rec, err := Resolve("abcdefabcdef", records)
	require.NoError(t, err)
	assert.Equal(t, "fe80::2", rec.Address)
}

func TestResolveNumericIDFallsThroughOutOfRangeIndex(t *testing.T) {
	// "000000000001" parses as index 1, which is out of range for a single
	// record, so the identifier tier must still get a chance.
	records := []peer.Record{{ID: "000000000001", Address: "fe80::9", Port: 8770}}

	rec, err := Resolve("000000000001", records)
	require.NoError(t, err)
	assert.Equal(t, "fe80::9", rec.Address)
}

func TestResolveIndexWinsOverName(t *testing.T) {
	records := []peer.Record{
		{Name: peer.StringPtr("1"), ID: "aaaaaaaaaaaa", Address: "fe80::1", Port: 8770},
		{Name: peer.StringPtr("other"), ID: "bbbbbbbbbbbb", Address: "fe80::2", Port: 8770},
	}

	rec, err := Resolve("1", records)
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbbbbbb", rec.ID)
}

func TestResolveFirstMatchWins(t *testing.T) {
	records := []peer.Record{
		{Name: peer.StringPtr("Alice"), ID: "aaaaaaaaaaaa", Address: "fe80::1", Port: 8770},
		{Name: peer.StringPtr("Alice"), ID: "aaaaaaaaaaaa", Address: "fe80::2", Port: 8770},
	}

	rec, err := Resolve("Alice", records)
	require.NoError(t, err)
	assert.Equal(t, "fe80::1", rec.Address)

	rec, err = Resolve("aaaaaaaaaaaa", records)
	require.NoError(t, err)
	assert.Equal(t, "fe80::1", rec.Address)
}

func TestResolveIDRequiresTwelveCharacters(t *testing.T) {
	records := []peer.Record{{ID: "short", Address: "fe80::1", Port: 8770}}

	_, err := Resolve("short", records)
	assert.True(t, errors.IsReceiverNotFound(err))
}

func TestResolveNotFound(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"index out of range", "5"},
		{"negative index", "-1"},
		{"unknown id", "ffffffffffff"},
		{"unknown name", "Carol"},
		{"empty", ""},
	}

	records := []peer.Record{bob(), {Address: "fe80::2", Port: 8770, ID: "bbbbbbbbbbbb"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.token, records)
			require.Error(t, err)
			assert.True(t, errors.IsReceiverNotFound(err))
		})
	}
}

func TestResolveNullNameNeverMatches(t *testing.T) {
	records := []peer.Record{{Address: "fe80::1", Port: 8770, ID: "aaaaaaaaaaaa"}}
	_, err := Resolve("", records)
	assert.True(t, errors.IsReceiverNotFound(err))
}

func TestResolveReceiverMissingReport(t *testing.T) {
	store := report.NewStore(filepath.Join(t.TempDir(), "none.json"), nil)
	r := New(store, 0, nil)

	_, err := r.ResolveReceiver("0")
	require.Error(t, err)
	assert.True(t, errors.IsMissingReport(err))
}

func TestResolveReceiverStaleReportStillResolves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discover.last.json")
	store := report.NewStore(path, nil)
	require.NoError(t, store.Persist([]peer.Record{bob()}))

	now := time.Now()
	old := now.Add(-61 * time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	var buf bytes.Buffer
	r := New(store, time.Minute, logging.NewWriterLogger(&buf, zapcore.DebugLevel))
	r.now = func() time.Time { return now }

	rec, err := r.ResolveReceiver("Bob")
	require.NoError(t, err)
	assert.Equal(t, "aa11bb22cc33", rec.ID)
	assert.Contains(t, buf.String(), "old discovery report")
}

func TestResolveReceiverNotFound(t *testing.T) {
	store := report.NewStore(filepath.Join(t.TempDir(), "r.json"), nil)
	require.NoError(t, store.Persist([]peer.Record{bob()}))

	_, err := New(store, 0, nil).ResolveReceiver("nobody")
	assert.True(t, errors.IsReceiverNotFound(err))
}
