package pattern

import (
	"strings"

	"github.com/npillmayer/legs"
	"golang.org/x/exp/slices"
)

// CodeRange is a half-open interval of code points [Lo, Hi).
type CodeRange struct {
	Lo, Hi rune
}

// Len returns the number of code points in r.
func (r CodeRange) Len() int {
	return int(r.Hi - r.Lo)
}

// Contains is true if code point c is in r.
func (r CodeRange) Contains(c rune) bool {
	return r.Lo <= c && c < r.Hi
}

// RangesForCodes creates sorted, merged ranges from a list of code points.
func RangesForCodes(codes []rune) []CodeRange {
	if len(codes) == 0 {
		return nil
	}
	cc := slices.Clone(codes)
	slices.Sort(cc)
	cc = slices.Compact(cc)
	ranges := []CodeRange{{Lo: cc[0], Hi: cc[0] + 1}}
	for _, c := range cc[1:] {
		last := &ranges[len(ranges)-1]
		if c == last.Hi {
			last.Hi++
		} else {
			ranges = append(ranges, CodeRange{Lo: c, Hi: c + 1})
		}
	}
	return ranges
}

// NormalizeRanges sorts ranges and merges overlapping or adjacent ones.
// Empty ranges are dropped.
func NormalizeRanges(ranges []CodeRange) []CodeRange {
	rr := make([]CodeRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Hi > r.Lo {
			rr = append(rr, r)
		}
	}
	if len(rr) == 0 {
		return nil
	}
	slices.SortFunc(rr, func(a, b CodeRange) int {
		if a.Lo != b.Lo {
			return int(a.Lo - b.Lo)
		}
		return int(a.Hi - b.Hi)
	})
	merged := rr[:1]
	for _, r := range rr[1:] {
		last := &merged[len(merged)-1]
		if r.Lo <= last.Hi {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Codes calls f for every code point of the charset, in ascending order.
func (p Charset) Codes(f func(rune)) {
	for _, r := range p.Ranges {
		for c := r.Lo; c < r.Hi; c++ {
			f(c)
		}
	}
}

// Contains is true if code point c is a member of the charset.
func (p Charset) Contains(c rune) bool {
	_, found := slices.BinarySearchFunc(p.Ranges, c, func(r CodeRange, c rune) int {
		if r.Hi <= c {
			return -1
		}
		if r.Lo > c {
			return 1
		}
		return 0
	})
	return found
}

// RangesDesc describes code point ranges for dumps, e.g. "0-9 a-f".
func RangesDesc(ranges []CodeRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		if r.Len() == 1 {
			parts[i] = codeDesc(r.Lo)
		} else {
			parts[i] = codeDesc(r.Lo) + "-" + codeDesc(r.Hi-1)
		}
	}
	return strings.Join(parts, " ")
}

func codeDesc(c rune) string {
	if c >= 0 && c < 0x80 {
		return legs.ByteDesc(byte(c))
	}
	return string(c)
}
