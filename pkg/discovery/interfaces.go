// Package discovery runs a discovery session: it probes every receiver a
// browser announces and keeps the results in an indexed catalog that is
// written to the report store when the session stops.
package discovery

import (
	"context"

	"github.com/DeBrosOfficial/opendrop/pkg/client"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
)

// Browser announces receivers on the local network. onFound may be called
// from any goroutine, concurrently, until Stop returns.
type Browser interface {
	Start(ctx context.Context, onFound func(peer.ServiceRecord)) error
	Stop() error
}

// Client performs the discover exchange with one receiver.
type Client interface {
	Discover(ctx context.Context, ep peer.Endpoint, payload client.Payload) (string, error)
}

// Store persists the catalog.
type Store interface {
	Persist(records []peer.Record) error
}
