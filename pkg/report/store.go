// Package report reads and writes the discovery report, the JSON catalog of
// peers found by the last discovery run.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
)

// DefaultStaleAfter is the age after which a report is considered old.
const DefaultStaleAfter = 60 * time.Second

// Store is the on-disk discovery report at a fixed path.
type Store struct {
	path   string
	logger *logging.ColoredLogger
}

// NewStore creates a store for the report at path.
func NewStore(path string, logger *logging.ColoredLogger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the report location.
func (s *Store) Path() string {
	return s.path
}

// Persist writes records as a JSON array, replacing any existing report.
// The file is written next to the target and renamed over it.
func (s *Store) Persist(records []peer.Record) error {
	if records == nil {
		records = []peer.Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return errors.NewPersistError("encode", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewPersistError("write", s.path, err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return errors.NewPersistError("write", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewPersistError("write", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistError("write", s.path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistError("write", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistError("write", s.path, err)
	}

	s.logger.ComponentDebug(logging.ComponentReport, "Saved discovery results",
		zap.String("path", s.path),
		zap.Int("records", len(records)))
	return nil
}

// Load reads the report. A missing file yields a MissingReportError.
func (s *Store) Load() ([]peer.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingReportError(s.path, err)
		}
		return nil, errors.NewPersistError("read", s.path, err)
	}

	var records []peer.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.NewPersistError("decode", s.path, err)
	}
	if records == nil {
		records = []peer.Record{}
	}
	return records, nil
}

// Staleness returns the time elapsed between the report's last modification and now.
func (s *Store) Staleness(now time.Time) (time.Duration, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NewMissingReportError(s.path, err)
		}
		return 0, errors.NewPersistError("stat", s.path, err)
	}
	return now.Sub(info.ModTime()), nil
}

// CheckStale returns a StaleReportError when the report is older than threshold,
// nil when it is fresh. It never prevents a subsequent Load.
func (s *Store) CheckStale(now time.Time, threshold time.Duration) error {
	if threshold <= 0 {
		threshold = DefaultStaleAfter
	}
	age, err := s.Staleness(now)
	if err != nil {
		return err
	}
	if age > threshold {
		return errors.NewStaleReportError(s.path, age, threshold)
	}
	return nil
}
