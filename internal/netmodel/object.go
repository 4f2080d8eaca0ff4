// Package netmodel implements the canonical model of an organisation's
// network: domains, IPv4 addresses and compute nodes, each carrying
// provenance-tagged relationship sets, collected into identity-keyed
// containers under a single Network aggregate.
//
// Identity and Merging:
//
// Every object has a unique name within its container. Adding an object
// whose name is already present merges the newcomer into the existing
// object; merging two objects with different identities is an error, never
// a silent no-op.
//
// Error Handling:
//
// All errors wrap one of the package sentinels with context using
// fmt.Errorf("...: %w", err).
package netmodel

import (
	"errors"
	"regexp"
	"sort"
)

var (
	// ErrIdentityMismatch is returned when two objects with different
	// names or types are merged.
	ErrIdentityMismatch = errors.New("identity mismatch")
	// ErrInvalidInput is returned for values that fail the FQDN or IPv4
	// grammar at the point of linking.
	ErrInvalidInput = errors.New("invalid network object input")
)

var fqdnPattern = regexp.MustCompile(`^([a-zA-Z0-9_-]+\.)+[a-zA-Z0-9_-]+$`)

// ValidFQDN reports whether s is a fully-qualified domain name.
func ValidFQDN(s string) bool {
	return fqdnPattern.MatchString(s)
}

// NetworkObject is the identity contract shared by Domain, IPv4Address and
// Node.
type NetworkObject interface {
	// Identity returns the unique name keying this object in its container.
	Identity() string
}

// Link is a single provenance-tagged fact: a destination value and the name
// of the source plugin that asserted it. The source is audit metadata only,
// never a conflict-resolution signal.
type Link struct {
	Value  string `json:"value"`
	Source string `json:"source"`
}

// LinkSet is a set of provenance-tagged links. Adding an already-present
// (value, source) pair has no effect.
type LinkSet map[Link]struct{}

// NewLinkSet returns an empty LinkSet.
func NewLinkSet() LinkSet { return make(LinkSet) }

// Add inserts a (value, source) pair.
func (s LinkSet) Add(value, source string) {
	s[Link{Value: value, Source: source}] = struct{}{}
}

// Has reports whether the exact (value, source) pair is present.
func (s LinkSet) Has(value, source string) bool {
	_, ok := s[Link{Value: value, Source: source}]
	return ok
}

// Union adds every link in other to s.
func (s LinkSet) Union(other LinkSet) {
	for l := range other {
		s[l] = struct{}{}
	}
}

// Values returns the distinct link values, sorted. This is the derived
// provenance-free view; it is computed, never stored.
func (s LinkSet) Values() []string {
	uniq := make(map[string]struct{}, len(s))
	for l := range s {
		uniq[l.Value] = struct{}{}
	}
	out := make([]string, 0, len(uniq))
	for v := range uniq {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Links returns every tagged link, sorted by value then source.
func (s LinkSet) Links() []Link {
	out := make([]Link, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value < out[j].Value
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// StringSet is a plain set of strings with sorted enumeration.
type StringSet map[string]struct{}

// NewStringSet returns a set containing the given values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts a value.
func (s StringSet) Add(value string) { s[value] = struct{}{} }

// Has reports whether value is present.
func (s StringSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Union adds every value in other to s.
func (s StringSet) Union(other StringSet) {
	for v := range other {
		s[v] = struct{}{}
	}
}

// Values returns the members, sorted.
func (s StringSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
