// Package resolver maps a user supplied receiver token onto a record of the
// last discovery report.
package resolver

import (
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
	"github.com/DeBrosOfficial/opendrop/pkg/report"
)

// IDLength is the length of a receiver identifier.
const IDLength = 12

// Matcher looks a token up in records. ok is false when it has no match.
type Matcher func(token string, records []peer.Record) (rec peer.Record, ok bool)

// Matchers is the fixed evaluation order: index, identifier, name.
var Matchers = []Matcher{MatchIndex, MatchID, MatchName}

// MatchIndex treats token as a position in records.
func MatchIndex(token string, records []peer.Record) (peer.Record, bool) {
	i, err := strconv.Atoi(token)
	if err != nil || i < 0 || i >= len(records) {
		return peer.Record{}, false
	}
	return records[i], true
}

// MatchID returns the first record whose id equals a 12 character token.
func MatchID(token string, records []peer.Record) (peer.Record, bool) {
	if utf8.RuneCountInString(token) != IDLength {
		return peer.Record{}, false
	}
	for _, rec := range records {
		if rec.ID == token {
			return rec, true
		}
	}
	return peer.Record{}, false
}

// MatchName returns the first record whose receiver name equals token.
func MatchName(token string, records []peer.Record) (peer.Record, bool) {
	for _, rec := range records {
		if rec.Name != nil && *rec.Name == token {
			return rec, true
		}
	}
	return peer.Record{}, false
}

// Resolve runs the matchers in order and returns the first match.
func Resolve(token string, records []peer.Record) (peer.Record, error) {
	for _, match := range Matchers {
		if rec, ok := match(token, records); ok {
			return rec, nil
		}
	}
	return peer.Record{}, errors.NewReceiverNotFoundError(token)
}

// Resolver resolves tokens against a persisted report.
type Resolver struct {
	store      *report.Store
	staleAfter time.Duration
	logger     *logging.ColoredLogger
	now        func() time.Time
}

// New creates a resolver reading from store. staleAfter <= 0 selects the default threshold.
func New(store *report.Store, staleAfter time.Duration, logger *logging.ColoredLogger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	if staleAfter <= 0 {
		staleAfter = report.DefaultStaleAfter
	}
	return &Resolver{
		store:      store,
		staleAfter: staleAfter,
		logger:     logger,
		now:        time.Now,
	}
}

// ResolveReceiver loads the report and resolves token against it.
// An old report is logged as a warning and resolution continues.
func (r *Resolver) ResolveReceiver(token string) (peer.Record, error) {
	if err := r.store.CheckStale(r.now(), r.staleAfter); err != nil {
		if !errors.IsStaleReport(err) {
			return peer.Record{}, err
		}
		r.logger.ComponentWarn(logging.ComponentResolver, err.Error()+", "+errors.Hint(err),
			zap.String("path", r.store.Path()))
	}

	records, err := r.store.Load()
	if err != nil {
		return peer.Record{}, err
	}

	rec, err := Resolve(token, records)
	if err != nil {
		return peer.Record{}, err
	}

	r.logger.ComponentDebug(logging.ComponentResolver, "Resolved receiver",
		zap.String("token", token),
		zap.String("id", rec.ID),
		zap.String("endpoint", rec.Endpoint().String()))
	return rec, nil
}
