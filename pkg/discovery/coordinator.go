package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
)

// State is the lifecycle state of a Coordinator.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Config contains coordinator settings
type Config struct {
	// DrainOnStop makes Stop wait up to DrainTimeout for in-flight probes
	// before the catalog is written. Without it, probes still running at
	// Stop are missing from the report.
	DrainOnStop  bool
	DrainTimeout time.Duration

	// MaxConcurrentProbes caps probes in flight; 0 means unbounded. When the
	// cap is reached the browser callback blocks until a probe finishes or
	// Stop is called.
	MaxConcurrentProbes int
}

// Coordinator drives one discovery session at a time.
type Coordinator struct {
	browser Browser
	prober  *Prober
	store   Store
	cfg     Config
	logger  *logging.ColoredLogger

	mu      sync.RWMutex
	state   State
	runID   string
	started time.Time
	catalog *Catalog
	group   *errgroup.Group
	ctx     context.Context

	// slots is nil when probes are unbounded.
	slots    chan struct{}
	stopping chan struct{}
	// probesDone is closed once every probe of a stopped session returned.
	probesDone chan struct{}
}

// NewCoordinator creates a coordinator. A nil logger discards output.
func NewCoordinator(browser Browser, prober *Prober, store Store, cfg Config, logger *logging.ColoredLogger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{
		browser: browser,
		prober:  prober,
		store:   store,
		cfg:     cfg,
		logger:  logger,
		catalog: NewCatalog(),
	}
}

// Start begins a session with a fresh catalog and subscribes to the browser.
// Probes run on a context detached from ctx's cancellation: stopping the
// session never aborts an exchange already in flight.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return errors.ErrAlreadyRunning
	}

	var slots chan struct{}
	if c.cfg.MaxConcurrentProbes > 0 {
		slots = make(chan struct{}, c.cfg.MaxConcurrentProbes)
	}

	c.state = StateRunning
	c.runID = uuid.NewString()
	c.started = time.Now()
	c.catalog = NewCatalog()
	c.group = new(errgroup.Group)
	c.ctx = context.WithoutCancel(ctx)
	c.slots = slots
	c.stopping = make(chan struct{})
	c.probesDone = nil
	runID := c.runID
	c.mu.Unlock()

	c.logger.ComponentInfo(logging.ComponentDiscovery, "Looking for receivers",
		zap.String("run_id", runID),
		zap.Int("max_concurrent_probes", c.cfg.MaxConcurrentProbes))

	if err := c.browser.Start(ctx, c.handleService); err != nil {
		c.mu.Lock()
		c.state = StateIdle
		close(c.stopping)
		c.mu.Unlock()
		return errors.Wrap(err, "failed to start browser")
	}
	return nil
}

// handleService launches one probe per notification. Repeated announcements
// of the same receiver are probed again and produce new records.
func (c *Coordinator) handleService(svc peer.ServiceRecord) {
	c.mu.RLock()
	running := c.state == StateRunning
	group, slots, stopping := c.group, c.slots, c.stopping
	c.mu.RUnlock()

	if !running {
		c.ignore(svc)
		return
	}

	// Waiting for a slot must not hold the lock, or Stop could not begin.
	if slots != nil {
		select {
		case slots <- struct{}{}:
		case <-stopping:
			c.ignore(svc)
			return
		}
	}

	// The probe is added to the group under the read lock, so once Stop
	// holds the write lock the group no longer grows.
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateRunning || c.group != group {
		if slots != nil {
			<-slots
		}
		c.ignore(svc)
		return
	}

	ctx, catalog := c.ctx, c.catalog
	group.Go(func() error {
		if slots != nil {
			defer func() { <-slots }()
		}
		rec, ok := c.prober.Probe(ctx, svc)
		if !ok {
			return nil
		}
		catalog.Append(rec, c.logAppended)
		return nil
	})
}

func (c *Coordinator) ignore(svc peer.ServiceRecord) {
	c.logger.ComponentDebug(logging.ComponentDiscovery, "Ignoring service after stop",
		zap.String("service", svc.Name))
}

func (c *Coordinator) logAppended(index int, rec peer.Record) {
	if rec.Discoverable {
		c.logger.ComponentInfo(logging.ComponentDiscovery, "Found receiver",
			zap.Int("index", index),
			zap.String("id", rec.ID),
			zap.String("name", rec.DisplayName()))
		return
	}
	c.logger.ComponentDebug(logging.ComponentDiscovery, "Found peer that is not discoverable",
		zap.Int("index", index),
		zap.String("id", rec.ID),
		zap.String("address", rec.Address))
}

// Stop unsubscribes from the browser and writes the catalog to the store.
// A browser failure does not prevent the write; both errors are returned.
func (c *Coordinator) Stop() error {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return errors.ErrNotRunning
	}
	c.state = StateStopping
	close(c.stopping)
	done := make(chan struct{})
	c.probesDone = done
	group, catalog, runID, started := c.group, c.catalog, c.runID, c.started
	c.mu.Unlock()

	go func() {
		group.Wait()
		close(done)
	}()

	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
	}()

	browserErr := c.browser.Stop()
	if browserErr != nil {
		browserErr = errors.Wrap(browserErr, "failed to stop browser")
	}

	if c.cfg.DrainOnStop {
		c.drain(done, catalog)
	}

	records := catalog.Snapshot()
	persistErr := c.store.Persist(records)

	if persistErr == nil {
		c.logger.ComponentInfo(logging.ComponentDiscovery, "Discovery finished",
			zap.String("run_id", runID),
			zap.Int("peers", len(records)),
			zap.Duration("elapsed", time.Since(started)))
	}

	return multierr.Combine(browserErr, persistErr)
}

func (c *Coordinator) drain(done <-chan struct{}, catalog *Catalog) {
	timeout := c.cfg.DrainTimeout
	if timeout <= 0 {
		<-done
		return
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		c.logger.ComponentWarn(logging.ComponentDiscovery, "Probes still running after drain timeout",
			zap.Duration("timeout", timeout),
			zap.Int("recorded", catalog.Len()))
	}
}

// Wait blocks until every probe of the last stopped session has finished or
// ctx is done. It returns ErrAlreadyRunning while a session is running,
// since more probes may still be scheduled.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.RLock()
	state, done := c.state, c.probesDone
	c.mu.RUnlock()

	if state == StateRunning {
		return errors.ErrAlreadyRunning
	}
	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Records returns the catalog of the current or last session.
func (c *Coordinator) Records() []peer.Record {
	c.mu.RLock()
	catalog := c.catalog
	c.mu.RUnlock()
	return catalog.Snapshot()
}

// State returns the lifecycle state.
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// RunID identifies the current or last session in logs.
func (c *Coordinator) RunID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runID
}
