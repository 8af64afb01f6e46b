package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/opendrop/pkg/browser"
	"github.com/DeBrosOfficial/opendrop/pkg/client"
	"github.com/DeBrosOfficial/opendrop/pkg/config"
	"github.com/DeBrosOfficial/opendrop/pkg/discovery"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/report"
)

// Deps are the collaborators of a discovery run.
type Deps struct {
	Browser discovery.Browser
	Client  discovery.Client
	Store   discovery.Store
	Logger  *logging.ColoredLogger
	Payload client.Payload
}

// newDeps wires the real browser, client and report store.
func newDeps(e *env) Deps {
	return Deps{
		Browser: browser.New(browser.Config{
			Service:   e.cfg.Discovery.ServiceType,
			Domain:    e.cfg.Discovery.Domain,
			Interface: e.cfg.Discovery.Interface,
		}, e.logger),
		Client:  e.client,
		Store:   report.NewStore(e.cfg.Discovery.ReportPath, e.logger),
		Logger:  e.logger,
		Payload: e.payload,
	}
}

// RunDiscovery browses and probes receivers until ctx is done, then writes
// the discovery report.
func RunDiscovery(ctx context.Context, cfg *config.Config, deps Deps) error {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}

	prober := discovery.NewProber(deps.Client, discovery.ProbeConfig{
		AssumeDiscoverWhenUnflagged: cfg.Discovery.AssumeDiscoverWhenUnflagged,
		Payload:                     deps.Payload,
	}, deps.Logger)

	coordinator := discovery.NewCoordinator(deps.Browser, prober, deps.Store, discovery.Config{
		DrainOnStop:         cfg.Discovery.DrainOnStop,
		DrainTimeout:        cfg.Discovery.DrainTimeout,
		MaxConcurrentProbes: cfg.Discovery.MaxConcurrentProbes,
	}, deps.Logger)

	if !deps.Payload.IsZero() {
		deps.Logger.ComponentInfo(logging.ComponentCLI, "Sending custom payload with discover requests",
			zap.Bool("binary", deps.Payload.Binary != nil))
	}

	if err := coordinator.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return coordinator.Stop()
}
