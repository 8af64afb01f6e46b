// Package browser finds receivers with mDNS/DNS-SD.
package browser

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
)

// Config selects what and where to browse.
type Config struct {
	Service   string // e.g. "_airdrop._tcp"
	Domain    string // e.g. "local."
	Interface string // empty browses on all multicast interfaces
}

// Browser reports every service instance the resolver sees.
type Browser struct {
	cfg    Config
	logger *logging.ColoredLogger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a browser. A nil logger discards output.
func New(cfg Config, logger *logging.ColoredLogger) *Browser {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Browser{cfg: cfg, logger: logger}
}

// Start begins browsing. onFound runs on the browser's goroutine for every
// resolved entry until Stop is called or ctx is done.
func (b *Browser) Start(ctx context.Context, onFound func(peer.ServiceRecord)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		return errors.ErrAlreadyRunning
	}

	var opts []zeroconf.ClientOption
	if b.cfg.Interface != "" {
		iface, err := net.InterfaceByName(b.cfg.Interface)
		if err != nil {
			return errors.NewValidationError("interface", err.Error(), b.cfg.Interface)
		}
		opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
	}

	resolver, err := zeroconf.NewResolver(opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create mDNS resolver")
	}

	ctx, cancel := context.WithCancel(ctx)
	entries := make(chan *zeroconf.ServiceEntry, 32)
	if err := resolver.Browse(ctx, b.cfg.Service, b.cfg.Domain, entries); err != nil {
		cancel()
		return errors.Wrapf(err, "failed to browse %s", b.cfg.Service)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				rec := ServiceRecordFromEntry(entry)
				b.logger.ComponentDebug(logging.ComponentBrowser, "Service resolved",
					zap.String("service", rec.Name),
					zap.Strings("addresses", rec.Addresses),
					zap.Int("port", rec.Port))
				onFound(rec)
			}
		}
	}()

	b.cancel, b.done = cancel, done

	b.logger.ComponentDebug(logging.ComponentBrowser, "Browsing",
		zap.String("service", b.cfg.Service),
		zap.String("domain", b.cfg.Domain),
		zap.String("interface", b.cfg.Interface))
	return nil
}

// Stop ends browsing and waits for the delivery goroutine to exit. A
// callback already running is allowed to finish.
func (b *Browser) Stop() error {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel, b.done = nil, nil
	b.mu.Unlock()

	if cancel == nil {
		return errors.ErrNotRunning
	}
	cancel()
	<-done
	return nil
}

// ServiceRecordFromEntry converts a resolved entry. IPv6 addresses come
// first because receivers are usually reached over link-local IPv6.
func ServiceRecordFromEntry(entry *zeroconf.ServiceEntry) peer.ServiceRecord {
	addrs := make([]string, 0, len(entry.AddrIPv6)+len(entry.AddrIPv4))
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}

	return peer.ServiceRecord{
		Name:       entry.ServiceInstanceName(),
		Server:     entry.HostName,
		Addresses:  addrs,
		Port:       entry.Port,
		Properties: ParseText(entry.Text),
	}
}

// ParseText turns DNS-SD TXT strings of the form key=value into properties.
// A string without '=' is a key with an empty value.
func ParseText(txt []string) map[string][]byte {
	props := make(map[string][]byte, len(txt))
	for _, kv := range txt {
		if kv == "" {
			continue
		}
		key, value, _ := strings.Cut(kv, "=")
		if _, seen := props[key]; seen {
			continue
		}
		props[key] = []byte(value)
	}
	return props
}
