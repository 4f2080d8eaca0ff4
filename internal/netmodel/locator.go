package netmodel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lirkwood/netdox-sub001/internal/iptools"
)

// Locator maps addresses to a logical location label based on configured
// subnets. It is constructed once per run and injected into the Network
// rather than held as process-wide state.
type Locator struct {
	// pivot maps each configured subnet to its location label.
	pivot map[string]string
}

// NewLocator builds a Locator from a location -> subnets table. Every
// subnet must be valid CIDR.
func NewLocator(locations map[string][]string) (*Locator, error) {
	pivot := make(map[string]string)
	for location, subnets := range locations {
		for _, subn := range subnets {
			if !iptools.ValidSubnet(subn) {
				return nil, fmt.Errorf("%w: location %q has invalid subnet %q", ErrInvalidInput, location, subn)
			}
			pivot[subn] = location
		}
	}
	return &Locator{pivot: pivot}, nil
}

// Locations returns the distinct configured location labels, sorted.
func (l *Locator) Locations() []string {
	uniq := NewStringSet()
	for _, location := range l.pivot {
		uniq.Add(location)
	}
	return uniq.Values()
}

// Locate returns the location for a set of addresses, or "" when no single
// location can be determined. The most specific (longest mask) matching
// subnet wins; if equally specific subnets disagree the location is
// ambiguous and "" is returned.
func (l *Locator) Locate(ips []string) string {
	matches := make(map[int]StringSet)
	for _, ip := range ips {
		for subn, location := range l.pivot {
			contained, err := iptools.SubnetContains(subn, ip)
			if err != nil || !contained {
				continue
			}
			mask, ok := maskOf(subn)
			if !ok {
				continue
			}
			if matches[mask] == nil {
				matches[mask] = NewStringSet()
			}
			matches[mask].Add(location)
		}
	}
	if len(matches) == 0 {
		return ""
	}

	masks := make([]int, 0, len(matches))
	for mask := range matches {
		masks = append(masks, mask)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(masks)))

	best := matches[masks[0]].Values()
	if len(best) != 1 {
		return ""
	}
	return best[0]
}

// maskOf extracts the prefix length from a validated CIDR subnet.
func maskOf(subn string) (int, bool) {
	slash := strings.LastIndexByte(subn, '/')
	if slash < 0 {
		return 0, false
	}
	mask, err := strconv.Atoi(subn[slash+1:])
	if err != nil {
		return 0, false
	}
	return mask, true
}

// NATTable maps addresses to their translated aliases. Like the Locator it
// is built once per run from configuration and injected where needed.
type NATTable struct {
	entries map[string]string
}

// NewNATTable builds a NATTable from address -> alias pairs, validating
// both sides.
func NewNATTable(pairs map[string]string) (*NATTable, error) {
	entries := make(map[string]string, len(pairs))
	for addr, alias := range pairs {
		if !iptools.ValidIP(addr) || !iptools.ValidIP(alias) {
			return nil, fmt.Errorf("%w: invalid NAT pair %q -> %q", ErrInvalidInput, addr, alias)
		}
		entries[addr] = alias
	}
	return &NATTable{entries: entries}, nil
}

// Lookup returns the alias for addr, if one is configured.
func (t *NATTable) Lookup(addr string) (string, bool) {
	alias, ok := t.entries[addr]
	return alias, ok
}

// Len returns the number of configured translations.
func (t *NATTable) Len() int { return len(t.entries) }

// NATPair is a single configured translation.
type NATPair struct {
	Addr  string `json:"addr"`
	Alias string `json:"alias"`
}

// Pairs returns every translation, ordered by address.
func (t *NATTable) Pairs() []NATPair {
	out := make([]NATPair, 0, len(t.entries))
	for addr, alias := range t.entries {
		out = append(out, NATPair{Addr: addr, Alias: alias})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}
