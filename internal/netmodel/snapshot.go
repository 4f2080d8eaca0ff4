package netmodel

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lirkwood/netdox-sub001/internal/config"
)

// snapshotVersion guards against loading files written by an incompatible
// build.
const snapshotVersion = 1

// Snapshot is the serialized form of a Network. Provenance survives the
// round trip: every link keeps its source tag.
type Snapshot struct {
	Version int                         `json:"version"`
	Domains map[string]*domainSnapshot  `json:"domains"`
	IPs     map[string]*addressSnapshot `json:"ips"`
	Nodes   map[string]*nodeSnapshot    `json:"nodes"`
}

type domainSnapshot struct {
	Name       string   `json:"name"`
	Root       string   `json:"root,omitempty"`
	Role       string   `json:"role,omitempty"`
	Location   string   `json:"location,omitempty"`
	NodeID     string   `json:"node,omitempty"`
	PublicIPs  []Link   `json:"public_ips"`
	PrivateIPs []Link   `json:"private_ips"`
	CNAMEs     []Link   `json:"cnames"`
	ImpliedIPs []string `json:"implied_ips,omitempty"`
	Subnets    []string `json:"subnets,omitempty"`
}

type addressSnapshot struct {
	Addr       string   `json:"addr"`
	Subnet     string   `json:"subnet"`
	Location   string   `json:"location,omitempty"`
	NAT        string   `json:"nat,omitempty"`
	NodeID     string   `json:"node,omitempty"`
	Unused     bool     `json:"unused,omitempty"`
	PTR        []Link   `json:"ptr"`
	ImpliedPTR []string `json:"implied_ptr,omitempty"`
}

type nodeSnapshot struct {
	Name       string   `json:"name"`
	Type       NodeType `json:"type"`
	Location   string   `json:"location,omitempty"`
	PublicIPs  []string `json:"public_ips,omitempty"`
	PrivateIPs []string `json:"private_ips,omitempty"`
	Domains    []string `json:"domains,omitempty"`
}

// Snapshot captures the current state of the network.
func (n *Network) Snapshot() *Snapshot {
	snap := &Snapshot{
		Version: snapshotVersion,
		Domains: make(map[string]*domainSnapshot, n.Domains.Len()),
		IPs:     make(map[string]*addressSnapshot, n.IPs.Len()),
		Nodes:   make(map[string]*nodeSnapshot, n.Nodes.Len()),
	}
	for _, d := range n.Domains.All() {
		snap.Domains[d.Name] = &domainSnapshot{
			Name:       d.Name,
			Root:       d.Root,
			Role:       d.Role,
			Location:   d.Location,
			NodeID:     d.NodeID,
			PublicIPs:  d.PublicIPLinks(),
			PrivateIPs: d.PrivateIPLinks(),
			CNAMEs:     d.CNAMELinks(),
			ImpliedIPs: d.ImpliedIPs.Values(),
			Subnets:    d.Subnets.Values(),
		}
	}
	for _, ip := range n.IPs.All() {
		snap.IPs[ip.Addr] = &addressSnapshot{
			Addr:       ip.Addr,
			Subnet:     ip.Subnet,
			Location:   ip.Location,
			NAT:        ip.NAT,
			NodeID:     ip.NodeID,
			Unused:     ip.Unused,
			PTR:        ip.PTRLinks(),
			ImpliedPTR: ip.ImpliedPTR.Values(),
		}
	}
	for _, nd := range n.Nodes.All() {
		snap.Nodes[nd.Name] = &nodeSnapshot{
			Name:       nd.Name,
			Type:       nd.Type,
			Location:   nd.Location,
			PublicIPs:  nd.PublicIPs.Values(),
			PrivateIPs: nd.PrivateIPs.Values(),
			Domains:    nd.Domains.Values(),
		}
	}
	return snap
}

// WriteSnapshot persists the network to path as indented JSON.
func (n *Network) WriteSnapshot(path string) error {
	data, err := json.MarshalIndent(n.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot rebuilds a Network from a snapshot. The policy, locator and
// NAT table come from the current configuration, not the file; locations
// are recomputed against the supplied locator.
func LoadSnapshot(snap *Snapshot, policy config.NetworkPolicy, locator *Locator, nat *NATTable) (*Network, error) {
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", ErrInvalidInput, snap.Version)
	}
	n := NewNetwork(policy, locator, nat)
	for _, ds := range snap.Domains {
		d, err := NewDomain(ds.Name, ds.Root)
		if err != nil {
			return nil, fmt.Errorf("snapshot domain %q: %w", ds.Name, err)
		}
		d.Role = ds.Role
		d.NodeID = ds.NodeID
		for _, l := range ds.PublicIPs {
			d.publicIPs.Add(l.Value, l.Source)
		}
		for _, l := range ds.PrivateIPs {
			d.privateIPs.Add(l.Value, l.Source)
		}
		for _, l := range ds.CNAMEs {
			d.cnames.Add(l.Value, l.Source)
		}
		for _, addr := range ds.ImpliedIPs {
			d.ImpliedIPs.Add(addr)
		}
		if err := n.Add(d); err != nil {
			return nil, err
		}
	}
	for _, as := range snap.IPs {
		ip, err := NewIPv4Address(as.Addr)
		if err != nil {
			return nil, fmt.Errorf("snapshot address %q: %w", as.Addr, err)
		}
		ip.NAT = as.NAT
		ip.NodeID = as.NodeID
		ip.Unused = as.Unused
		for _, l := range as.PTR {
			ip.ptr.Add(l.Value, l.Source)
		}
		for _, name := range as.ImpliedPTR {
			ip.ImpliedPTR.Add(name)
		}
		if err := n.Add(ip); err != nil {
			return nil, err
		}
	}
	for _, ns := range snap.Nodes {
		nd, err := NewNode(ns.Name, ns.Type)
		if err != nil {
			return nil, fmt.Errorf("snapshot node %q: %w", ns.Name, err)
		}
		for _, addr := range ns.PublicIPs {
			nd.PublicIPs.Add(addr)
		}
		for _, addr := range ns.PrivateIPs {
			nd.PrivateIPs.Add(addr)
		}
		for _, name := range ns.Domains {
			nd.Domains.Add(name)
		}
		if err := n.Add(nd); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// ReadSnapshot loads a snapshot file and rebuilds the network from it.
func ReadSnapshot(path string, policy config.NetworkPolicy, locator *Locator, nat *NATTable) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return LoadSnapshot(&snap, policy, locator, nat)
}
