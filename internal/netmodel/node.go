package netmodel

import (
	"fmt"
	"strings"

	"github.com/lirkwood/netdox-sub001/internal/iptools"
)

// NodeType discriminates the kind of machine a Node represents. Provenance
// for nodes is coarse: it lives here rather than on each entry.
type NodeType string

const (
	// NodeDefault is a generic machine.
	NodeDefault NodeType = "default"
	// NodeHardware is a physical host.
	NodeHardware NodeType = "hardware"
	// NodeEC2 is a cloud instance.
	NodeEC2 NodeType = "ec2"
	// NodeApp is an application workload (container, pod).
	NodeApp NodeType = "app"
)

// Node is a non-DNS network entity: a virtual machine, pod or physical
// host. Unlike Domain and IPv4Address its relationship sets carry no
// per-entry provenance.
type Node struct {
	// Name is the identity key, conventionally the machine FQDN for
	// default-typed nodes.
	Name string
	// Type is the variant tag. Nodes of different types never merge.
	Type NodeType
	// PrivateIPs and PublicIPs are the addresses claimed by this node.
	PrivateIPs StringSet
	PublicIPs  StringSet
	// Domains are the FQDNs associated with this node.
	Domains StringSet
	// Location is derived from the node's addresses by the locator.
	Location string

	locator *Locator
}

// NewNode creates a Node with the given name and type. An empty type
// defaults to NodeDefault.
func NewNode(name string, typ NodeType) (*Node, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: node name must not be empty", ErrInvalidInput)
	}
	if typ == "" {
		typ = NodeDefault
	}
	return &Node{
		Name:       name,
		Type:       typ,
		PrivateIPs: NewStringSet(),
		PublicIPs:  NewStringSet(),
		Domains:    NewStringSet(),
	}, nil
}

// Identity returns the node name.
func (nd *Node) Identity() string { return nd.Name }

// AddIP records an address for this node, classified into the private or
// public set.
func (nd *Node) AddIP(addr string) error {
	addr = strings.TrimSpace(addr)
	public, err := iptools.IsPublic(addr)
	if err != nil {
		return err
	}
	if public {
		nd.PublicIPs.Add(addr)
	} else {
		nd.PrivateIPs.Add(addr)
	}
	return nil
}

// AddDomain associates an FQDN with this node.
func (nd *Node) AddDomain(domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !ValidFQDN(domain) {
		return fmt.Errorf("%w: not a valid FQDN: %q", ErrInvalidInput, domain)
	}
	nd.Domains.Add(domain)
	return nil
}

// IPs returns every address claimed by this node, sorted.
func (nd *Node) IPs() []string {
	all := NewStringSet()
	all.Union(nd.PrivateIPs)
	all.Union(nd.PublicIPs)
	return all.Values()
}

// Merge unions another Node into this one. Both the name and the type must
// match; a type mismatch is an error, not a silent union.
func (nd *Node) Merge(other *Node) error {
	if other.Name != nd.Name {
		return fmt.Errorf("%w: cannot merge node %q into %q", ErrIdentityMismatch, other.Name, nd.Name)
	}
	if other.Type != nd.Type {
		return fmt.Errorf("%w: cannot merge node %q of type %q into type %q",
			ErrIdentityMismatch, nd.Name, other.Type, nd.Type)
	}
	nd.PrivateIPs.Union(other.PrivateIPs)
	nd.PublicIPs.Union(other.PublicIPs)
	nd.Domains.Union(other.Domains)
	nd.update()
	return nil
}

// attach hands the node its owning network's locator and recomputes the
// location.
func (nd *Node) attach(loc *Locator) {
	nd.locator = loc
	nd.update()
}

func (nd *Node) update() {
	if nd.locator != nil {
		nd.Location = nd.locator.Locate(nd.IPs())
	}
}
