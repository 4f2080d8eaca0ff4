package netmodel

import (
	"fmt"
	"strings"

	"github.com/lirkwood/netdox-sub001/internal/config"
	"github.com/lirkwood/netdox-sub001/internal/iptools"
)

// Network is the aggregate root: one container per object variant plus the
// policy configuration and the locator/NAT services. It is the sole owner
// of all NetworkObjects; plugins receive a reference and mutate through the
// container and link methods, never through independent copies.
//
// Network is NOT safe for concurrent mutation. The orchestrator's merge
// loop is the single writer; plugins that fetch concurrently must assemble
// a private batch first and let the orchestrator apply it sequentially.
type Network struct {
	Domains *DomainSet
	IPs     *IPv4AddressSet
	Nodes   *NodeSet

	policy  config.NetworkPolicy
	locator *Locator
	nat     *NATTable
}

// NewNetwork constructs an empty Network. A nil locator or NAT table is
// replaced with an empty one.
func NewNetwork(policy config.NetworkPolicy, locator *Locator, nat *NATTable) *Network {
	if locator == nil {
		locator, _ = NewLocator(nil)
	}
	if nat == nil {
		nat, _ = NewNATTable(nil)
	}
	return &Network{
		Domains: NewSet[*Domain](),
		IPs:     NewSet[*IPv4Address](),
		Nodes:   NewSet[*Node](),
		policy:  policy,
		locator: locator,
		nat:     nat,
	}
}

// Locator returns the location service for this run.
func (n *Network) Locator() *Locator { return n.locator }

// NAT returns the NAT table for this run.
func (n *Network) NAT() *NATTable { return n.nat }

// Add dispatches obj to the container matching its variant, merging on
// identity collision.
func (n *Network) Add(obj NetworkObject) error {
	switch o := obj.(type) {
	case *Domain:
		o.attach(n.locator)
		return n.Domains.Add(o)
	case *IPv4Address:
		o.attach(n.locator)
		return n.IPs.Add(o)
	case *Node:
		o.attach(n.locator)
		return n.Nodes.Add(o)
	default:
		return fmt.Errorf("%w: unknown network object variant %T", ErrInvalidInput, obj)
	}
}

// Domain returns the domain with the given name, creating it if absent.
func (n *Network) Domain(name string) (*Domain, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if d, ok := n.Domains.Get(name); ok {
		return d, nil
	}
	d, err := NewDomain(name, "")
	if err != nil {
		return nil, err
	}
	if err := n.Add(d); err != nil {
		return nil, err
	}
	return d, nil
}

// IP returns the address object for addr, creating it if absent.
func (n *Network) IP(addr string) (*IPv4Address, error) {
	addr = strings.TrimSpace(addr)
	if ip, ok := n.IPs.Get(addr); ok {
		return ip, nil
	}
	ip, err := NewIPv4Address(addr)
	if err != nil {
		return nil, err
	}
	if err := n.Add(ip); err != nil {
		return nil, err
	}
	return ip, nil
}

// LinkDomain records a DNS record from the named domain to destination,
// tagged with the source plugin. An A-record destination also registers the
// address in the network and an implied reverse reference back to the
// domain.
func (n *Network) LinkDomain(name, destination, source string) error {
	d, err := n.Domain(name)
	if err != nil {
		return err
	}
	if err := d.Link(destination, source); err != nil {
		return err
	}
	if iptools.ValidIP(strings.TrimSpace(destination)) {
		ip, err := n.IP(destination)
		if err != nil {
			return err
		}
		ip.ImpliedPTR.Add(d.Name)
	}
	return nil
}

// LinkPTR records a reverse-DNS record from addr to domain, tagged with the
// source plugin.
func (n *Network) LinkPTR(addr, domain, source string) error {
	ip, err := n.IP(addr)
	if err != nil {
		return err
	}
	if err := ip.Link(domain, source); err != nil {
		return err
	}
	name := strings.ToLower(strings.TrimSpace(domain))
	if d, ok := n.Domains.Get(name); ok {
		d.ImpliedIPs.Add(ip.Addr)
	}
	return nil
}

// SetNAT records a translation between two addresses, registering both in
// the network.
func (n *Network) SetNAT(addr, alias string) error {
	ip, err := n.IP(addr)
	if err != nil {
		return err
	}
	other, err := n.IP(alias)
	if err != nil {
		return err
	}
	ip.NAT = other.Addr
	other.NAT = ip.Addr
	return nil
}

// AddNode registers a node and back-references it from every address and
// domain it claims.
func (n *Network) AddNode(nd *Node) error {
	nd.attach(n.locator)
	if err := n.Nodes.Add(nd); err != nil {
		return err
	}
	merged, _ := n.Nodes.Get(nd.Name)
	for _, addr := range merged.IPs() {
		ip, err := n.IP(addr)
		if err != nil {
			return err
		}
		ip.NodeID = merged.Name
	}
	for _, domain := range merged.Domains.Values() {
		if d, ok := n.Domains.Get(domain); ok {
			d.NodeID = merged.Name
		}
	}
	return nil
}

// ApplyDomainRoles deletes every configured exclusion from the domain set
// and stamps the configured role on each remaining match. Domains matching
// no role keep an empty role, meaning unclassified.
//
// Call this once acquisition is complete; identities introduced afterwards
// are not covered until it runs again.
func (n *Network) ApplyDomainRoles() {
	for _, name := range n.policy.Exclusions {
		n.Domains.Delete(name)
	}
	for role, rc := range n.policy.Roles {
		for _, name := range rc.Domains {
			if d, ok := n.Domains.Get(name); ok {
				d.Role = role
			}
		}
	}
}

// RoleAttrs returns the configured attributes for a role name.
func (n *Network) RoleAttrs(role string) map[string]string {
	if rc, ok := n.policy.Roles[role]; ok {
		return rc.Attrs
	}
	return nil
}

// DiscoverImpliedLinks populates the implied reverse/forward references and
// the node back-references from the records already in the network.
func (n *Network) DiscoverImpliedLinks() {
	for _, d := range n.Domains.All() {
		for _, addr := range d.IPs() {
			ip, ok := n.IPs.Get(addr)
			if !ok {
				continue
			}
			if !NewStringSet(ip.PTR()...).Has(d.Name) {
				ip.ImpliedPTR.Add(d.Name)
			}
		}
	}

	for _, ip := range n.IPs.All() {
		for _, domain := range ip.Domains() {
			d, ok := n.Domains.Get(domain)
			if !ok {
				continue
			}
			if !NewStringSet(d.IPs()...).Has(ip.Addr) {
				d.ImpliedIPs.Add(ip.Addr)
			}
		}
	}

	for _, nd := range n.Nodes.All() {
		for _, addr := range nd.IPs() {
			if ip, ok := n.IPs.Get(addr); ok && ip.NodeID == "" {
				ip.NodeID = nd.Name
			}
		}
		for _, domain := range nd.Domains.Values() {
			if d, ok := n.Domains.Get(domain); ok && d.NodeID == "" {
				d.NodeID = nd.Name
			}
		}
	}
}

// RefreshLocations recomputes the location of every object from the
// current locator.
func (n *Network) RefreshLocations() {
	for _, d := range n.Domains.All() {
		d.attach(n.locator)
	}
	for _, ip := range n.IPs.All() {
		ip.attach(n.locator)
	}
	for _, nd := range n.Nodes.All() {
		nd.attach(n.locator)
	}
}

// PrivateSubnets returns the distinct /24s covering the private addresses
// in the network, sorted.
func (n *Network) PrivateSubnets() []string {
	subnets := NewStringSet()
	for _, ip := range n.IPs.All() {
		if !ip.Public() {
			subnets.Add(ip.Subnet)
		}
	}
	return subnets.Values()
}
