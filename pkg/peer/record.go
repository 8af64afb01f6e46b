// Package peer holds the data shapes shared by discovery, the report store
// and receiver resolution.
package peer

import (
	"net"
	"strconv"
	"strings"
)

// Flags is the capability bitmask a receiver advertises in its "flags" TXT property.
type Flags int

// Receiver capability bits.
const (
	SupportsURL           Flags = 0x01
	SupportsDVZip         Flags = 0x02
	SupportsPipelining    Flags = 0x04
	SupportsMixedTypes    Flags = 0x08
	SupportsUnknown1      Flags = 0x10
	SupportsUnknown2      Flags = 0x20
	SupportsIris          Flags = 0x40
	SupportsDiscoverMaybe Flags = 0x80
	SupportsUnknown3      Flags = 0x100
	SupportsAssetBundle   Flags = 0x200
)

// FlagsProperty is the TXT property carrying the capability bitmask.
const FlagsProperty = "flags"

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// ServiceRecord is one "peer found" notification from a service browser.
type ServiceRecord struct {
	Name       string            // full instance name, e.g. "0123456789ab._airdrop._tcp.local."
	Server     string            // host name
	Addresses  []string          // textual IPs, preferred first
	Port       int               // service port
	Properties map[string][]byte // TXT properties
}

// ID returns the identifier derived from the service name.
func (s ServiceRecord) ID() string {
	return IDFromServiceName(s.Name)
}

// ParseFlags reads the flags property. ok is false when the property is
// absent or does not hold a decimal integer.
func (s ServiceRecord) ParseFlags() (flags Flags, ok bool) {
	raw, present := s.Properties[FlagsProperty]
	if !present {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false
	}
	return Flags(n), true
}

// IDFromServiceName returns the portion of name preceding its first '.'.
func IDFromServiceName(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Record is the persisted unit of a discovery report.
type Record struct {
	Name         *string `json:"name"`
	Address      string  `json:"address"`
	Port         int     `json:"port"`
	ID           string  `json:"id"`
	Flags        Flags   `json:"flags"`
	Discoverable bool    `json:"discoverable"`
}

// DisplayName returns the receiver name or "" when the peer never answered.
func (r Record) DisplayName() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}

// Endpoint returns where the receiver can be reached.
func (r Record) Endpoint() Endpoint {
	return Endpoint{Address: r.Address, Port: r.Port}
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Endpoint is a network address of a receiver.
type Endpoint struct {
	Address string
	Port    int
	Zone    string // interface for link-local IPv6 addresses
}

// WithZone returns a copy of e scoped to iface when the address is link-local IPv6.
func (e Endpoint) WithZone(iface string) Endpoint {
	if iface == "" || e.Zone != "" {
		return e
	}
	ip := net.ParseIP(e.Address)
	if ip != nil && ip.To4() == nil && (ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()) {
		e.Zone = iface
	}
	return e
}

// HostPort returns the "host:port" form, bracketing IPv6 and appending any zone.
func (e Endpoint) HostPort() string {
	host := e.Address
	if e.Zone != "" {
		host = host + "%" + e.Zone
	}
	return net.JoinHostPort(host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string {
	return e.HostPort()
}
