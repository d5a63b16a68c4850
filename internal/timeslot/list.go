package timeslot

import (
	"sort"
	"strconv"
	"strings"
)

// Bounds is a half-open [Start, End) range of slot indices, typically a
// venue's opening hours.
type Bounds struct {
	Start int
	End   int
}

// OpeningHours parses a venue's "HHMM - HHMM" opening hours.
func (c Codec) OpeningHours(text string) (Bounds, error) {
	slots, err := c.ParseSlots(text)
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{Start: slots[0], End: slots[len(slots)-1] + 1}, nil
}

// Contains reports whether every slot lies inside the bounds.
func (b Bounds) Contains(slots []int) bool {
	for _, s := range slots {
		if s < b.Start || s >= b.End {
			return false
		}
	}
	return true
}

// EncodeList renders slots in their stored form, e.g. "18,19,20".
func EncodeList(slots []int) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// DecodeList parses the stored form produced by EncodeList.  Whitespace
// around entries is ignored; an empty string yields no slots.
func DecodeList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 0 {
			return nil, &FormatError{Input: s, Reason: "slot list is not numeric"}
		}
		out = append(out, n)
	}
	return out, nil
}

// Normalize sorts slots ascending and drops duplicates.
func Normalize(slots []int) []int {
	out := append([]int(nil), slots...)
	sort.Ints(out)
	n := 0
	for i, s := range out {
		if i > 0 && s == out[n-1] {
			continue
		}
		out[n] = s
		n++
	}
	return out[:n]
}

// Contiguous reports whether slots is ascending with no gaps.
func Contiguous(slots []int) bool {
	for i := 1; i < len(slots); i++ {
		if slots[i] != slots[i-1]+1 {
			return false
		}
	}
	return len(slots) > 0
}

// MergeContiguous groups slots into contiguous ascending runs.
func MergeContiguous(slots []int) [][]int {
	sorted := Normalize(slots)
	var runs [][]int
	for _, s := range sorted {
		if n := len(runs); n > 0 && runs[n-1][len(runs[n-1])-1] == s-1 {
			runs[n-1] = append(runs[n-1], s)
			continue
		}
		runs = append(runs, []int{s})
	}
	return runs
}
