package discovery

import (
	"context"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/opendrop/pkg/client"
	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
)

// ProbeConfig controls how a Prober treats a service record.
type ProbeConfig struct {
	// AssumeDiscoverWhenUnflagged probes peers that advertise no flags.
	AssumeDiscoverWhenUnflagged bool
	// Payload is forwarded with every discover request.
	Payload client.Payload
}

// DefaultProbeConfig probes unflagged peers.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{AssumeDiscoverWhenUnflagged: true}
}

// Prober turns a service record into a peer record.
type Prober struct {
	client Client
	cfg    ProbeConfig
	logger *logging.ColoredLogger
}

// NewProber creates a prober. A nil logger discards output.
func NewProber(c Client, cfg ProbeConfig, logger *logging.ColoredLogger) *Prober {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Prober{client: c, cfg: cfg, logger: logger}
}

// Flags returns the capability flags of svc, applying the default for
// peers that advertise none.
func (p *Prober) Flags(svc peer.ServiceRecord) peer.Flags {
	flags, ok := svc.ParseFlags()
	if ok {
		return flags
	}
	if _, present := svc.Properties[peer.FlagsProperty]; present {
		p.logger.ComponentDebug(logging.ComponentProbe, "Ignoring unparseable flags",
			zap.String("service", svc.Name),
			zap.ByteString("flags", svc.Properties[peer.FlagsProperty]))
	}
	if p.cfg.AssumeDiscoverWhenUnflagged {
		return peer.SupportsDiscoverMaybe
	}
	return 0
}

// Probe builds the record for svc, running the discover exchange when the
// flags allow it. ok is false when svc has no address; the peer is dropped.
// Exchange failures never fail the probe: the record is simply not
// discoverable.
func (p *Prober) Probe(ctx context.Context, svc peer.ServiceRecord) (rec peer.Record, ok bool) {
	if len(svc.Addresses) == 0 {
		p.logger.ComponentWarn(logging.ComponentProbe, "Dropping service without address",
			zap.Error(errors.NewMalformedServiceError(svc.Name, "no address")))
		return peer.Record{}, false
	}

	rec = peer.Record{
		Address: svc.Addresses[0],
		Port:    svc.Port,
		ID:      svc.ID(),
		Flags:   p.Flags(svc),
	}

	if rec.Flags.Has(peer.SupportsDiscoverMaybe) {
		name, err := p.client.Discover(ctx, rec.Endpoint(), p.cfg.Payload)
		switch {
		case errors.IsTimeout(err):
			p.logger.ComponentDebug(logging.ComponentProbe, "Discover timed out",
				zap.String("id", rec.ID), zap.Error(err))
		case err != nil:
			p.logger.ComponentDebug(logging.ComponentProbe, "Discover failed",
				zap.String("id", rec.ID),
				zap.String("code", errors.GetErrorCode(err)),
				zap.NamedError("cause", errors.Cause(err)))
		default:
			rec.Name = peer.StringPtr(name)
		}
	}

	rec.Discoverable = rec.Name != nil
	return rec, true
}
