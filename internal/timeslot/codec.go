// Package timeslot converts between human time ranges such as
// "0900 - 1100" and the discrete slot indices stored on booking
// requests.  A slot index is the number of whole slots since midnight,
// so with 30 minute slots "0900 - 1100" is [18 19 20 21].
package timeslot

import (
	"fmt"
	"strings"
)

// DefaultSlotMinutes is the slot length used when none is configured.
const DefaultSlotMinutes = 30

const minutesPerDay = 24 * 60

// FormatError reports a time range or slot list that cannot be
// converted.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid timeslot %q: %s", e.Input, e.Reason)
}

// Codec parses and formats slot ranges for one slot length.
type Codec struct {
	slotMinutes int
}

// Default is a Codec with DefaultSlotMinutes.
var Default = New(DefaultSlotMinutes)

// New returns a Codec for the given slot length in minutes.  Lengths that
// do not evenly divide a day fall back to DefaultSlotMinutes.
func New(slotMinutes int) Codec {
	if slotMinutes <= 0 || minutesPerDay%slotMinutes != 0 {
		slotMinutes = DefaultSlotMinutes
	}
	return Codec{slotMinutes: slotMinutes}
}

// SlotMinutes returns the slot length.
func (c Codec) SlotMinutes() int { return c.minutes() }

// SlotsPerDay returns the number of slots between two midnights.
func (c Codec) SlotsPerDay() int { return minutesPerDay / c.minutes() }

// minutes guards against the zero Codec.
func (c Codec) minutes() int {
	if c.slotMinutes == 0 {
		return DefaultSlotMinutes
	}
	return c.slotMinutes
}

// ParseSlots splits a "HHMM - HHMM" range into the slot indices it
// spans.  The end bound is exclusive and "2400" is accepted as the end
// of the day.
func (c Codec) ParseSlots(text string) ([]int, error) {
	startRaw, endRaw, ok := strings.Cut(text, "-")
	if !ok {
		return nil, &FormatError{Input: text, Reason: "missing separator"}
	}
	start, err := c.parseClock(text, strings.TrimSpace(startRaw))
	if err != nil {
		return nil, err
	}
	end, err := c.parseClock(text, strings.TrimSpace(endRaw))
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, &FormatError{Input: text, Reason: "end must be after start"}
	}
	m := c.minutes()
	slots := make([]int, 0, (end-start)/m)
	for t := start; t < end; t += m {
		slots = append(slots, t/m)
	}
	return slots, nil
}

// FormatSlots collapses a contiguous ascending run of slot indices into
// one "HHMM - HHMM" range.
func (c Codec) FormatSlots(indices []int) (string, error) {
	if len(indices) == 0 {
		return "", &FormatError{Input: EncodeList(indices), Reason: "no slots"}
	}
	for i, idx := range indices {
		if idx < 0 || idx >= c.SlotsPerDay() {
			return "", &FormatError{Input: EncodeList(indices), Reason: "slot out of range"}
		}
		if i > 0 && idx != indices[i-1]+1 {
			return "", &FormatError{Input: EncodeList(indices), Reason: "slots are not contiguous"}
		}
	}
	m := c.minutes()
	start := indices[0] * m
	end := (indices[len(indices)-1] + 1) * m
	return clock(start) + " - " + clock(end), nil
}

// SlotTiming returns the range covered by a single slot.
func (c Codec) SlotTiming(index int) (string, error) {
	return c.FormatSlots([]int{index})
}

// parseClock converts a four digit HHMM value into minutes since
// midnight.
func (c Codec) parseClock(input, s string) (int, error) {
	if len(s) != 4 {
		return 0, &FormatError{Input: input, Reason: fmt.Sprintf("bound %q is not HHMM", s)}
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, &FormatError{Input: input, Reason: fmt.Sprintf("bound %q is not numeric", s)}
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[2]-'0')*10 + int(s[3]-'0')
	if hh > 24 || mm > 59 || (hh == 24 && mm != 0) {
		return 0, &FormatError{Input: input, Reason: fmt.Sprintf("bound %q is out of range", s)}
	}
	t := hh*60 + mm
	if t%c.minutes() != 0 {
		return 0, &FormatError{Input: input, Reason: fmt.Sprintf("bound %q is not on a %d minute boundary", s, c.minutes())}
	}
	return t, nil
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d%02d", minutes/60, minutes%60)
}
