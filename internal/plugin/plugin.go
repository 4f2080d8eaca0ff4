// Package plugin defines the staged acquisition contract and the runner
// that drives a refresh: plugins produce batches of facts, the runner
// merges each batch into the network only when the producing plugin
// succeeded, so one broken source never poisons the model.
package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/lirkwood/netdox-sub001/internal/netmodel"
)

// Stage is a phase of a refresh run. Plugins declare which stages they
// participate in; the runner executes stages strictly in StageOrder.
type Stage string

const (
	// StageDNS acquires forward and reverse DNS records.
	StageDNS Stage = "dns"
	// StageNAT acquires address translations.
	StageNAT Stage = "nat"
	// StageNodes acquires compute node claims over addresses and domains.
	StageNodes Stage = "nodes"
	// StageAnnotate runs after the model is complete, for plugins that
	// decorate objects with metadata.
	StageAnnotate Stage = "annotate"
	// StageWrite runs last, for plugins that export the finished model.
	StageWrite Stage = "write"
)

// StageOrder is the fixed execution order of a refresh run.
var StageOrder = []Stage{StageDNS, StageNAT, StageNodes, StageAnnotate, StageWrite}

// ValidStage reports whether s is a known stage.
func ValidStage(s Stage) bool {
	for _, stage := range StageOrder {
		if stage == s {
			return true
		}
	}
	return false
}

// Plugin is a data source. Run is called once per declared stage with the
// shared network; a plugin that returns an error has its batch discarded
// for that stage but stays registered for later stages.
type Plugin interface {
	// Name is the unique registry key and the provenance tag stamped on
	// every fact this plugin asserts.
	Name() string
	// Stages lists the stages this plugin participates in. A plugin with
	// no stages is never run automatically.
	Stages() []Stage
	// ConfigKeys names the credential fields this plugin expects in the
	// secrets store. A plugin declaring keys must also implement
	// Configurable; the registry resolves the keys before the run starts.
	ConfigKeys() []string
	// Run acquires data for one stage. Implementations must treat the
	// network as read-only and put every mutation in the returned batch.
	Run(ctx context.Context, stage Stage, net *netmodel.Network) (*Batch, error)
}

// Fact is a single assertion about the network, applied by the runner
// after the producing plugin succeeded.
type Fact interface {
	Apply(net *netmodel.Network) error
}

// Batch is an ordered collection of facts from one plugin invocation.
type Batch struct {
	facts []Fact
}

// NewBatch returns an empty batch.
func NewBatch() *Batch { return &Batch{} }

// Add appends a fact.
func (b *Batch) Add(f Fact) { b.facts = append(b.facts, f) }

// Len returns the number of facts in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.facts)
}

// Apply merges every fact into the network. Facts are independent: a
// malformed fact is skipped and reported, the rest still apply. The
// returned error joins every per-fact failure.
func (b *Batch) Apply(net *netmodel.Network) error {
	if b == nil {
		return nil
	}
	var errs []error
	for i, f := range b.facts {
		if err := f.Apply(net); err != nil {
			errs = append(errs, fmt.Errorf("fact %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// DNSLink asserts a forward DNS record from a domain to an address or
// alias.
type DNSLink struct {
	Domain      string
	Destination string
	Source      string
}

func (f DNSLink) Apply(net *netmodel.Network) error {
	return net.LinkDomain(f.Domain, f.Destination, f.Source)
}

// PTRLink asserts a reverse DNS record from an address to a domain.
type PTRLink struct {
	Addr   string
	Domain string
	Source string
}

func (f PTRLink) Apply(net *netmodel.Network) error {
	return net.LinkPTR(f.Addr, f.Domain, f.Source)
}

// NATFact asserts a translation between two addresses.
type NATFact struct {
	Addr  string
	Alias string
}

func (f NATFact) Apply(net *netmodel.Network) error {
	return net.SetNAT(f.Addr, f.Alias)
}

// NodeFact asserts a compute node and its claims over addresses and
// domains.
type NodeFact struct {
	Name    string
	Type    netmodel.NodeType
	IPs     []string
	Domains []string
}

func (f NodeFact) Apply(net *netmodel.Network) error {
	nd, err := netmodel.NewNode(f.Name, f.Type)
	if err != nil {
		return err
	}
	for _, addr := range f.IPs {
		if err := nd.AddIP(addr); err != nil {
			return err
		}
	}
	for _, domain := range f.Domains {
		if err := nd.AddDomain(domain); err != nil {
			return err
		}
	}
	return net.AddNode(nd)
}
