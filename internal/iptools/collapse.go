package iptools

import (
	"fmt"
	"math/bits"
	"sort"
	"strconv"
)

// CollapseMode selects the output shape of Collapse.
type CollapseMode int

const (
	// CollapseRanges rewrites consecutive runs as "first-last" ranges.
	CollapseRanges CollapseMode = iota
	// CollapseSubnets rewrites aligned power-of-two runs as CIDR subnets.
	CollapseSubnets
)

// Collapse dedupes and sorts the input addresses as integers, then greedily
// groups consecutive runs.
//
// In CollapseRanges mode a run of two or more consecutive addresses becomes
// "first-last"; singletons remain bare addresses.
//
// In CollapseSubnets mode a run is only collapsed into "ip/mask" when its
// length is a power of two and its first address is aligned to that power of
// two. The largest aligned block that fits the run is emitted and the
// remaining addresses are re-queued for the next grouping pass, so a run
// that outgrows its alignment never produces an invalid subnet.
//
// Re-expanding the output (via Range / SubnetAddrs) yields exactly the
// deduped input set.
func Collapse(ips []string, mode CollapseMode) ([]string, error) {
	if mode != CollapseRanges && mode != CollapseSubnets {
		return nil, fmt.Errorf("%w: unknown collapse mode: %d", ErrInvalidInput, mode)
	}

	seen := make(map[uint32]struct{}, len(ips))
	vals := make([]uint32, 0, len(ips))
	for _, ip := range ips {
		v, err := IPToInt(ip)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })

	out := make([]string, 0, len(vals))
	for i := 0; i < len(vals); {
		runLen := 1
		for i+runLen < len(vals) && vals[i+runLen] == vals[i]+uint32(runLen) {
			runLen++
		}

		if mode == CollapseRanges {
			if runLen >= 2 {
				out = append(out, IntToIP(vals[i])+"-"+IntToIP(vals[i+runLen-1]))
			} else {
				out = append(out, IntToIP(vals[i]))
			}
			i += runLen
			continue
		}

		block := alignedBlock(vals[i], runLen)
		if block >= 2 {
			mask := 32 - bits.TrailingZeros64(uint64(block))
			out = append(out, IntToIP(vals[i])+"/"+strconv.Itoa(mask))
		} else {
			out = append(out, IntToIP(vals[i]))
		}
		i += block
	}
	return out, nil
}

// alignedBlock returns the size of the largest power-of-two block that
// starts at addr, is aligned to its own size, and fits within a consecutive
// run of runLen addresses.
func alignedBlock(addr uint32, runLen int) int {
	block := 1
	for block < 1<<30 && block*2 <= runLen && addr%uint32(block*2) == 0 {
		block *= 2
	}
	return block
}
