package correction

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxBreaks caps the break rows a correction form may address (indices 0-10).
const MaxBreaks = 11

// FieldKind names which attendance value a change addresses.
type FieldKind int

const (
	FieldClockIn FieldKind = iota + 1
	FieldClockOut
	FieldMemo
	FieldBreakStart
	FieldBreakEnd
)

// FieldKey names one correctable value. Index is only meaningful for break
// fields and refers to the break's position in start order.
type FieldKey struct {
	Kind  FieldKind
	Index int
}

var (
	KeyClockIn  = FieldKey{Kind: FieldClockIn}
	KeyClockOut = FieldKey{Kind: FieldClockOut}
	KeyMemo     = FieldKey{Kind: FieldMemo}
)

// BreakStartKey and BreakEndKey address the i-th break in start order.
func BreakStartKey(i int) FieldKey { return FieldKey{Kind: FieldBreakStart, Index: i} }
func BreakEndKey(i int) FieldKey   { return FieldKey{Kind: FieldBreakEnd, Index: i} }

// IsBreak reports whether k addresses a break row.
func (k FieldKey) IsBreak() bool {
	return k.Kind == FieldBreakStart || k.Kind == FieldBreakEnd
}

func (k FieldKey) String() string {
	switch k.Kind {
	case FieldClockIn:
		return "clock_in"
	case FieldClockOut:
		return "clock_out"
	case FieldMemo:
		return "memo"
	case FieldBreakStart:
		return fmt.Sprintf("break_%d_start", k.Index)
	case FieldBreakEnd:
		return fmt.Sprintf("break_%d_end", k.Index)
	default:
		return fmt.Sprintf("unknown(%d)", int(k.Kind))
	}
}

// ParseFieldKey is the inverse of FieldKey.String.
func ParseFieldKey(s string) (FieldKey, error) {
	switch s {
	case "clock_in":
		return KeyClockIn, nil
	case "clock_out":
		return KeyClockOut, nil
	case "memo":
		return KeyMemo, nil
	}

	rest, ok := strings.CutPrefix(s, "break_")
	if !ok {
		return FieldKey{}, fmt.Errorf("%w: %q", ErrInvalidFieldKey, s)
	}
	var kind FieldKind
	switch {
	case strings.HasSuffix(rest, "_start"):
		kind, rest = FieldBreakStart, strings.TrimSuffix(rest, "_start")
	case strings.HasSuffix(rest, "_end"):
		kind, rest = FieldBreakEnd, strings.TrimSuffix(rest, "_end")
	default:
		return FieldKey{}, fmt.Errorf("%w: %q", ErrInvalidFieldKey, s)
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 || i >= MaxBreaks || strconv.Itoa(i) != rest {
		return FieldKey{}, fmt.Errorf("%w: %q", ErrInvalidFieldKey, s)
	}
	return FieldKey{Kind: kind, Index: i}, nil
}

func (k FieldKey) MarshalText() ([]byte, error) {
	if k.Kind < FieldClockIn || k.Kind > FieldBreakEnd {
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidFieldKey, int(k.Kind))
	}
	return []byte(k.String()), nil
}

func (k *FieldKey) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type Change struct {
	Field     FieldKey `json:"field"`
	Current   string   `json:"current"`
	Requested string   `json:"requested"`
}

// ChangeSet is ordered: clock_in, clock_out, breaks by index (start before
// end), memo.
type ChangeSet []Change

func (c ChangeSet) Empty() bool {
	return len(c) == 0
}

// First is the change shown in list views.
func (c ChangeSet) First() (Change, bool) {
	if len(c) == 0 {
		return Change{}, false
	}
	return c[0], true
}

// Get returns the change for key, if the set has one.
func (c ChangeSet) Get(key FieldKey) (Change, bool) {
	for _, change := range c {
		if change.Field == key {
			return change, true
		}
	}
	return Change{}, false
}

// Without returns the change-set minus the entry for key.
func (c ChangeSet) Without(key FieldKey) ChangeSet {
	var out ChangeSet
	for _, change := range c {
		if change.Field != key {
			out = append(out, change)
		}
	}
	return out
}
