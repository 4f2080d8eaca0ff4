package netmodel

import (
	"fmt"
	"strings"

	"github.com/lirkwood/netdox-sub001/internal/iptools"
)

// IPv4Address is a single address seen in the network. Its identity is the
// dotted-quad string itself.
type IPv4Address struct {
	// Addr is the dotted-quad address and the identity key.
	Addr string
	// Subnet is the /24 containing this address.
	Subnet string
	// Location is derived from the address alone via the locator,
	// independent of any DNS data.
	Location string
	// NAT is the aliased address this one translates to, empty when none.
	NAT string
	// NodeID is the name of the Node this address belongs to.
	NodeID string
	// Unused marks addresses generated to fill out a subnet rather than
	// observed in a record.
	Unused bool
	// ImpliedPTR holds forward domains that resolved to this address,
	// inferred rather than asserted by a reverse record.
	ImpliedPTR StringSet

	ptr LinkSet

	locator *Locator
}

// NewIPv4Address creates an IPv4Address from a dotted-quad string.
func NewIPv4Address(addr string) (*IPv4Address, error) {
	addr = strings.TrimSpace(addr)
	if !iptools.ValidIP(addr) {
		return nil, fmt.Errorf("%w: not an IPv4 address: %q", ErrInvalidInput, addr)
	}
	subn, err := iptools.SubnetOf(addr, 24)
	if err != nil {
		return nil, err
	}
	return &IPv4Address{
		Addr:       addr,
		Subnet:     subn,
		ImpliedPTR: NewStringSet(),
		ptr:        NewLinkSet(),
	}, nil
}

// Identity returns the dotted-quad address.
func (ip *IPv4Address) Identity() string { return ip.Addr }

// Public reports whether the address lies outside the private ranges.
func (ip *IPv4Address) Public() bool {
	public, err := iptools.IsPublic(ip.Addr)
	if err != nil {
		return false // cannot happen: Addr was validated at construction
	}
	return public
}

// Link adds a provenance-tagged PTR record from this address to domain.
// The domain must satisfy the FQDN grammar; a malformed name is rejected
// with an error, never best-effort parsed.
func (ip *IPv4Address) Link(domain, source string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !ValidFQDN(domain) {
		return fmt.Errorf("%w: not a valid FQDN: %q", ErrInvalidInput, domain)
	}
	ip.ptr.Add(domain, source)
	return nil
}

// Merge unions another IPv4Address with the same address into this one.
// The other side's NAT alias wins when set.
func (ip *IPv4Address) Merge(other *IPv4Address) error {
	if other.Addr != ip.Addr {
		return fmt.Errorf("%w: cannot merge address %q into %q", ErrIdentityMismatch, other.Addr, ip.Addr)
	}
	ip.ptr.Union(other.ptr)
	ip.ImpliedPTR.Union(other.ImpliedPTR)
	if other.NAT != "" {
		ip.NAT = other.NAT
	}
	if ip.NodeID == "" {
		ip.NodeID = other.NodeID
	}
	ip.Unused = ip.Unused && other.Unused
	return nil
}

// PTR returns the asserted reverse-DNS targets, deduplicated and sorted.
func (ip *IPv4Address) PTR() []string { return ip.ptr.Values() }

// PTRLinks returns the tagged reverse-DNS records, sorted.
func (ip *IPv4Address) PTRLinks() []Link { return ip.ptr.Links() }

// Domains returns the superset of domains this address points to and
// domains inferred to point back at it.
func (ip *IPv4Address) Domains() []string {
	all := NewStringSet(ip.PTR()...)
	all.Union(ip.ImpliedPTR)
	return all.Values()
}

// attach hands the address its owning network's locator and derives the
// location from the address itself.
func (ip *IPv4Address) attach(loc *Locator) {
	ip.locator = loc
	if loc != nil {
		ip.Location = loc.Locate([]string{ip.Addr})
	}
}
