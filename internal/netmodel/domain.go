package netmodel

import (
	"fmt"
	"strings"

	"github.com/lirkwood/netdox-sub001/internal/iptools"
)

// Domain is a fully-qualified domain name found in a managed DNS zone,
// together with every A and CNAME record asserted for it.
//
// The provenance-tagged record sets are the source of truth; the exported
// read views (IPs, PublicIPs, PrivateIPs, CNAMEs) are derived from them on
// every call so they cannot drift out of sync.
type Domain struct {
	// Name is the lower-cased FQDN and the identity key.
	Name string
	// Root is the parent DNS zone, empty when unknown.
	Root string
	// Role is the policy role stamped by Network.ApplyDomainRoles. Empty
	// means unclassified; callers must not treat that as an error.
	Role string
	// Location is derived from the linked addresses by the locator. Only
	// valid once at least one link exists and the domain is attached to a
	// Network.
	Location string
	// NodeID is the name of the Node this domain resolves to, resolved
	// through the owning container rather than an object reference.
	NodeID string
	// ImpliedIPs holds addresses inferred to resolve to this domain via
	// reverse records, rather than asserted by a forward record.
	ImpliedIPs StringSet
	// Subnets holds one /24 per distinct private address this domain
	// resolves to. Recomputed on every link.
	Subnets StringSet

	publicIPs  LinkSet
	privateIPs LinkSet
	cnames     LinkSet

	locator *Locator
}

// NewDomain creates a Domain. The name must be a valid FQDN; root may be
// empty. Both are lower-cased.
func NewDomain(name, root string) (*Domain, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !ValidFQDN(name) {
		return nil, fmt.Errorf("%w: not a valid FQDN: %q", ErrInvalidInput, name)
	}
	return &Domain{
		Name:       name,
		Root:       strings.ToLower(root),
		ImpliedIPs: NewStringSet(),
		Subnets:    NewStringSet(),
		publicIPs:  NewLinkSet(),
		privateIPs: NewLinkSet(),
		cnames:     NewLinkSet(),
	}, nil
}

// Identity returns the domain name.
func (d *Domain) Identity() string { return d.Name }

// Link adds a DNS record from this domain to destination, tagged with the
// source plugin name. A valid IPv4 destination is classified as an A record
// (public or private); a valid FQDN is a CNAME. Anything else is rejected
// and nothing is applied. Linking an already-present (value, source) pair
// is a no-op.
func (d *Domain) Link(destination, source string) error {
	destination = strings.ToLower(strings.TrimSpace(destination))
	switch {
	case iptools.ValidIP(destination):
		public, err := iptools.IsPublic(destination)
		if err != nil {
			return err
		}
		if public {
			d.publicIPs.Add(destination, source)
		} else {
			d.privateIPs.Add(destination, source)
		}
	case ValidFQDN(destination):
		d.cnames.Add(destination, source)
	default:
		return fmt.Errorf("%w: destination %q is neither an IPv4 address nor an FQDN", ErrInvalidInput, destination)
	}
	d.update()
	return nil
}

// Merge unions the record sets of another Domain with the same name into
// this one, then recomputes the derived state. Merging domains with
// different names is an identity-mismatch error and modifies neither side.
func (d *Domain) Merge(other *Domain) error {
	if other.Name != d.Name {
		return fmt.Errorf("%w: cannot merge domain %q into %q", ErrIdentityMismatch, other.Name, d.Name)
	}
	d.publicIPs.Union(other.publicIPs)
	d.privateIPs.Union(other.privateIPs)
	d.cnames.Union(other.cnames)
	d.ImpliedIPs.Union(other.ImpliedIPs)
	if d.Root == "" {
		d.Root = other.Root
	}
	if d.Role == "" {
		d.Role = other.Role
	}
	if d.NodeID == "" {
		d.NodeID = other.NodeID
	}
	d.update()
	return nil
}

// IPs returns every address this domain resolves to, public and private.
func (d *Domain) IPs() []string {
	all := NewLinkSet()
	all.Union(d.publicIPs)
	all.Union(d.privateIPs)
	return all.Values()
}

// PublicIPs returns the addresses outside the private ranges.
func (d *Domain) PublicIPs() []string { return d.publicIPs.Values() }

// PrivateIPs returns the addresses inside the private ranges.
func (d *Domain) PrivateIPs() []string { return d.privateIPs.Values() }

// CNAMEs returns the alias destinations.
func (d *Domain) CNAMEs() []string { return d.cnames.Values() }

// PublicIPLinks returns the tagged public A records, sorted.
func (d *Domain) PublicIPLinks() []Link { return d.publicIPs.Links() }

// PrivateIPLinks returns the tagged private A records, sorted.
func (d *Domain) PrivateIPLinks() []Link { return d.privateIPs.Links() }

// CNAMELinks returns the tagged CNAME records, sorted.
func (d *Domain) CNAMELinks() []Link { return d.cnames.Links() }

// attach hands the domain its owning network's locator and refreshes the
// derived state.
func (d *Domain) attach(loc *Locator) {
	d.locator = loc
	d.update()
}

// update recomputes the subnet set and, when a locator is attached, the
// location from the full current address set.
func (d *Domain) update() {
	for _, ip := range d.PrivateIPs() {
		// Addresses were validated on entry so SubnetOf cannot fail here.
		if subn, err := iptools.SubnetOf(ip, 24); err == nil {
			d.Subnets.Add(subn)
		}
	}
	if d.locator != nil {
		d.Location = d.locator.Locate(d.IPs())
	}
}
