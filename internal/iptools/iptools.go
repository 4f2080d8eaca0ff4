// Package iptools provides pure functions for validating, classifying and
// algebraically manipulating IPv4 addresses, subnets and ranges expressed as
// dotted-quad strings in CIDR-adjacent notation.
//
// The accepted grammar is deliberately narrow: octets 0..255, subnet masks
// /0../31, and a "lower-upper" form for ranges. All matches are exact; a
// string with trailing characters is invalid.
//
// Error Handling:
//
// All errors wrap ErrInvalidInput with context using fmt.Errorf("...: %w", err).
package iptools

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidInput is the sentinel error for strings that do not match
	// the IPv4 address / subnet / range grammar.
	ErrInvalidInput = fmt.Errorf("invalid ipv4 input")
)

const (
	octetPattern  = `(25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9])`
	maskPattern   = `([0-2]?[0-9]|3[01])`
	ipPattern     = `(` + octetPattern + `\.){3}` + octetPattern
	subnetPattern = ipPattern + `/` + maskPattern
	rangePattern  = ipPattern + `-` + ipPattern
)

var (
	regexIP     = regexp.MustCompile(`^` + ipPattern + `$`)
	regexSubnet = regexp.MustCompile(`^` + subnetPattern + `$`)
	regexRange  = regexp.MustCompile(`^` + rangePattern + `$`)
)

// Fixed private address space (RFC 1918). Not configurable; callers needing
// custom private ranges must layer policy on top.
var privateBlocks = [3]struct{ lower, upper uint32 }{
	{0x0A000000, 0x0AFFFFFF}, // 10.0.0.0/8
	{0xAC100000, 0xAC1FFFFF}, // 172.16.0.0/12
	{0xC0A80000, 0xC0A8FFFF}, // 192.168.0.0/16
}

// ValidIP reports whether s is exactly an IPv4 address in dotted-quad form.
func ValidIP(s string) bool {
	return regexIP.MatchString(s)
}

// ValidSubnet reports whether s is exactly an IPv4 subnet in CIDR form.
// Masks run from /0 to /31; /32 is not part of the grammar.
func ValidSubnet(s string) bool {
	return regexSubnet.MatchString(s)
}

// ValidRange reports whether s is exactly an IPv4 range of the form
// "lower-upper". The bounds may be given in either order.
func ValidRange(s string) bool {
	return regexRange.MatchString(s)
}

// IsPublic reports whether ip falls outside the fixed private address
// blocks (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16).
func IsPublic(ip string) (bool, error) {
	v, err := IPToInt(ip)
	if err != nil {
		return false, err
	}
	for _, b := range privateBlocks {
		if v >= b.lower && v <= b.upper {
			return false, nil
		}
	}
	return true, nil
}

// IPToInt converts a dotted-quad address to a 32-bit unsigned integer,
// big-endian octet order.
func IPToInt(ip string) (uint32, error) {
	if !ValidIP(ip) {
		return 0, fmt.Errorf("%w: not an IPv4 address: %q", ErrInvalidInput, ip)
	}
	var v uint32
	for _, octet := range strings.Split(ip, ".") {
		n, _ := strconv.Atoi(octet)
		v = v<<8 | uint32(n)
	}
	return v, nil
}

// IntToIP converts a 32-bit unsigned integer to a dotted-quad address.
// IntToIP(IPToInt(s)) == s for every valid address s.
func IntToIP(v uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", v>>24, v>>16&0xFF, v>>8&0xFF, v&0xFF)
}

// splitSubnet breaks a validated CIDR subnet into its address and mask.
func splitSubnet(subn string) (addr string, mask int, err error) {
	if !ValidSubnet(subn) {
		return "", 0, fmt.Errorf("%w: not an IPv4 subnet: %q", ErrInvalidInput, subn)
	}
	slash := strings.LastIndexByte(subn, '/')
	mask, _ = strconv.Atoi(subn[slash+1:])
	return subn[:slash], mask, nil
}

// SubnetFloor returns the lowest address in a CIDR subnet, computed by
// zeroing every bit beyond the mask.
func SubnetFloor(subn string) (string, error) {
	addr, mask, err := splitSubnet(subn)
	if err != nil {
		return "", err
	}
	v, err := IPToInt(addr)
	if err != nil {
		return "", err
	}
	return IntToIP(v & maskBits(mask)), nil
}

// maskBits returns the network mask for a prefix length as a uint32.
func maskBits(mask int) uint32 {
	if mask <= 0 {
		return 0
	}
	return ^uint32(0) << (32 - mask)
}

// SubnetBounds returns the inclusive lower and upper addresses of a subnet
// as integers. upper = lower + 2^(32-mask) - 1.
func SubnetBounds(subn string) (lower, upper uint32, err error) {
	addr, mask, err := splitSubnet(subn)
	if err != nil {
		return 0, 0, err
	}
	v, err := IPToInt(addr)
	if err != nil {
		return 0, 0, err
	}
	lower = v & maskBits(mask)
	upper = lower | ^maskBits(mask)
	return lower, upper, nil
}

// SubnetBoundsIP is SubnetBounds with the bounds rendered as dotted quads.
func SubnetBoundsIP(subn string) (lower, upper string, err error) {
	lo, hi, err := SubnetBounds(subn)
	if err != nil {
		return "", "", err
	}
	return IntToIP(lo), IntToIP(hi), nil
}

// SubnetContains reports whether target, an IPv4 address or subnet, falls
// entirely within subn. For a target subnet both of its bounds must be
// contained.
func SubnetContains(subn, target string) (bool, error) {
	lower, upper, err := SubnetBounds(subn)
	if err != nil {
		return false, err
	}
	switch {
	case ValidIP(target):
		v, err := IPToInt(target)
		if err != nil {
			return false, err
		}
		return v >= lower && v <= upper, nil
	case ValidSubnet(target):
		tl, tu, err := SubnetBounds(target)
		if err != nil {
			return false, err
		}
		return tl >= lower && tu <= upper, nil
	default:
		return false, fmt.Errorf("%w: not an IPv4 address or subnet: %q", ErrInvalidInput, target)
	}
}

// SubnetEquiv re-expresses a subnet as a list of subnets with a different
// mask covering exactly the same address space: 2^(newMask-oldMask) equal
// pieces when narrowing, or a single floored coarser subnet when widening.
func SubnetEquiv(subn string, newMask int) ([]string, error) {
	_, oldMask, err := splitSubnet(subn)
	if err != nil {
		return nil, err
	}
	if newMask < 0 || newMask > 31 {
		return nil, fmt.Errorf("%w: subnet mask out of range: %d", ErrInvalidInput, newMask)
	}
	floor, err := SubnetFloor(subn)
	if err != nil {
		return nil, err
	}
	base, err := IPToInt(floor)
	if err != nil {
		return nil, err
	}

	if newMask <= oldMask {
		widened := IntToIP(base&maskBits(newMask)) + "/" + strconv.Itoa(newMask)
		return []string{widened}, nil
	}

	subnets := make([]string, 0, 1<<(newMask-oldMask))
	step := uint32(1) << (32 - newMask)
	for i := 0; i < 1<<(newMask-oldMask); i++ {
		subnets = append(subnets, IntToIP(base)+"/"+strconv.Itoa(newMask))
		base += step
	}
	return subnets, nil
}

// SubnetOf returns the subnet with the given mask containing ip.
func SubnetOf(ip string, mask int) (string, error) {
	if mask < 0 || mask > 31 {
		return "", fmt.Errorf("%w: subnet mask out of range: %d", ErrInvalidInput, mask)
	}
	floor, err := SubnetFloor(ip + "/" + strconv.Itoa(mask))
	if err != nil {
		return "", err
	}
	return floor + "/" + strconv.Itoa(mask), nil
}

// Range returns an iterator over every address between lower and upper
// inclusive, ascending from the smaller bound. The bounds are swapped if
// given in descending order. The sequence is finite and restartable: each
// call to the returned iterator re-iterates from scratch.
func Range(lower, upper string) (iter.Seq[string], error) {
	lo, err := IPToInt(lower)
	if err != nil {
		return nil, err
	}
	hi, err := IPToInt(upper)
	if err != nil {
		return nil, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return func(yield func(string) bool) {
		for v := lo; ; v++ {
			if !yield(IntToIP(v)) {
				return
			}
			if v == hi { // checked post-yield so 255.255.255.255 cannot wrap
				return
			}
		}
	}, nil
}

// SubnetAddrs returns an iterator over every address in a subnet,
// lowest first.
func SubnetAddrs(subn string) (iter.Seq[string], error) {
	lower, upper, err := SubnetBoundsIP(subn)
	if err != nil {
		return nil, err
	}
	return Range(lower, upper)
}

// SearchKind selects what SearchString extracts.
type SearchKind int

const (
	// SearchIPs extracts IPv4 addresses.
	SearchIPs SearchKind = iota
	// SearchSubnets extracts IPv4 subnets.
	SearchSubnets
	// SearchRanges extracts IPv4 ranges.
	SearchRanges
)

// SearchString scans newline-delimited text for valid tokens of the given
// kind, one per line, skipping lines starting with "#" or "//". The result
// preserves first-seen order and is deduplicated.
func SearchString(text string, kind SearchKind) ([]string, error) {
	var validate func(string) bool
	switch kind {
	case SearchIPs:
		validate = ValidIP
	case SearchSubnets:
		validate = ValidSubnet
	case SearchRanges:
		validate = ValidRange
	default:
		return nil, fmt.Errorf("%w: unknown search kind: %d", ErrInvalidInput, kind)
	}

	seen := make(map[string]struct{})
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if !validate(line) {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out, nil
}
