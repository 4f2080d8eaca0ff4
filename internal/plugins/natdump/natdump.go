// Package natdump reads a firewall translation dump and asserts NAT pairs
// in the nat stage. Each line of the dump is "inside -> outside"; blank
// lines and lines starting with "#" or "//" are skipped.
package natdump

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lirkwood/netdox-sub001/internal/iptools"
	"github.com/lirkwood/netdox-sub001/internal/netmodel"
	"github.com/lirkwood/netdox-sub001/internal/plugin"
)

// Plugin reads NAT pairs from a dump file.
type Plugin struct {
	// Path is the dump file to read.
	Path string
}

func (p *Plugin) Name() string           { return "natdump" }
func (p *Plugin) Stages() []plugin.Stage { return []plugin.Stage{plugin.StageNAT} }
func (p *Plugin) ConfigKeys() []string   { return nil }

// Run parses the dump and returns one fact per translation. A malformed
// line fails the run so a mangled dump can not half-apply.
func (p *Plugin) Run(_ context.Context, _ plugin.Stage, _ *netmodel.Network) (*plugin.Batch, error) {
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("reading NAT dump: %w", err)
	}

	pairs, err := Parse(string(raw))
	if err != nil {
		return nil, err
	}

	batch := plugin.NewBatch()
	for _, pair := range pairs {
		batch.Add(plugin.NATFact{Addr: pair.Addr, Alias: pair.Alias})
	}
	return batch, nil
}

// Parse extracts the translations from dump text.
func Parse(text string) ([]netmodel.NATPair, error) {
	var pairs []netmodel.NATPair
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		addr, alias, ok := strings.Cut(line, "->")
		if !ok {
			return nil, fmt.Errorf("NAT dump line %d: missing \"->\": %q", i+1, line)
		}
		addr = strings.TrimSpace(addr)
		alias = strings.TrimSpace(alias)
		if !iptools.ValidIP(addr) || !iptools.ValidIP(alias) {
			return nil, fmt.Errorf("NAT dump line %d: invalid pair %q -> %q", i+1, addr, alias)
		}
		pairs = append(pairs, netmodel.NATPair{Addr: addr, Alias: alias})
	}
	return pairs, nil
}
