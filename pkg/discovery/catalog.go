package discovery

import (
	"sync"

	"github.com/DeBrosOfficial/opendrop/pkg/peer"
)

// Catalog is the ordered, append-only set of records of one discovery run.
// A record's index is its position and never changes.
type Catalog struct {
	mu      sync.Mutex
	records []peer.Record
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Append adds rec and returns its index. onAdded, when non-nil, runs while
// the catalog is still locked so that observers see indices in order.
func (c *Catalog) Append(rec peer.Record, onAdded func(index int, rec peer.Record)) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := len(c.records)
	c.records = append(c.records, rec)
	if onAdded != nil {
		onAdded(index, rec)
	}
	return index
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Snapshot returns a copy of the records in index order.
func (c *Catalog) Snapshot() []peer.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]peer.Record, len(c.records))
	copy(out, c.records)
	return out
}
