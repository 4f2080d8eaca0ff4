package zonefile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lirkwood/netdox-sub001/internal/netmodel"
	"github.com/lirkwood/netdox-sub001/internal/plugin"
)

const reverseSuffix = ".in-addr.arpa"

// Plugin reads every master file in a directory and asserts the DNS
// records found there.
type Plugin struct {
	// Dir is the directory scanned for master files.
	Dir string
}

func (p *Plugin) Name() string           { return "zonefile" }
func (p *Plugin) Stages() []plugin.Stage { return []plugin.Stage{plugin.StageDNS} }
func (p *Plugin) ConfigKeys() []string   { return nil }

// Run parses every file in the directory concurrently and returns one
// batch with all the resulting facts. A single unparseable file fails the
// whole run; partial zone data is worse than none because merge never
// removes facts.
func (p *Plugin) Run(ctx context.Context, _ plugin.Stage, _ *netmodel.Network) (*plugin.Batch, error) {
	files, err := DiscoverZoneFiles(p.Dir)
	if err != nil {
		return nil, fmt.Errorf("discovering zone files: %w", err)
	}

	zones := make([]*Zone, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			zones[i], errs[i] = LoadFile(path)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	batch := plugin.NewBatch()
	for _, z := range zones {
		for _, rec := range z.Records {
			fact, err := p.fact(rec)
			if err != nil {
				return nil, fmt.Errorf("zone %s: %w", z.Origin, err)
			}
			batch.Add(fact)
		}
	}
	return batch, nil
}

// fact converts one record into a network fact. PTR owners are reverse
// names, so the address is recovered from the owner and the target domain
// from the rdata.
func (p *Plugin) fact(rec Record) (plugin.Fact, error) {
	switch rec.Type {
	case "A", "CNAME":
		return plugin.DNSLink{Domain: rec.Name, Destination: rec.Data, Source: p.Name()}, nil
	case "PTR":
		addr, err := addrFromReverseName(rec.Name)
		if err != nil {
			return nil, err
		}
		return plugin.PTRLink{Addr: addr, Domain: rec.Data, Source: p.Name()}, nil
	default:
		return nil, fmt.Errorf("unexpected record type %q", rec.Type)
	}
}

// addrFromReverseName turns "4.3.2.1.in-addr.arpa" into "1.2.3.4".
func addrFromReverseName(name string) (string, error) {
	stem, ok := strings.CutSuffix(strings.ToLower(name), reverseSuffix)
	if !ok {
		return "", fmt.Errorf("PTR owner %q is not under in-addr.arpa", name)
	}
	octets := strings.Split(stem, ".")
	if len(octets) != 4 {
		return "", fmt.Errorf("PTR owner %q does not name a full address", name)
	}
	return octets[3] + "." + octets[2] + "." + octets[1] + "." + octets[0], nil
}
