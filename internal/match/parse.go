package match

import (
	"strconv"
	"strings"
)

// ParseLooseInteger drops every non-digit from text and parses what is
// left, so "1,500,000 AED" is 1500000. It reports false when no digits
// remain or the number does not fit in an int64.
func ParseLooseInteger(text string) (int64, bool) {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if c := text[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseBound reads a numeric requirement bound. Separators are dropped
// as in ParseLooseInteger but the value stops at the decimal point, so
// "50000.50" is 50000 and "1,000,000" is 1000000. Negative values are
// rejected.
func ParseBound(text string) (int64, bool) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "-") {
		return 0, false
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return ParseLooseInteger(s)
}

// StudioToken is the bedroom value for a studio unit.
const StudioToken = "Studio"

type RoomKind uint8

const (
	RoomUnknown RoomKind = iota
	RoomExact
	RoomAtLeast
	RoomStudio
)

// RoomCount is a parsed bedrooms/bathrooms value: an exact count, an
// open-ended "N+" count, or a studio.
type RoomCount struct {
	Kind RoomKind
	N    int
}

func Exact(n int) RoomCount   { return RoomCount{Kind: RoomExact, N: n} }
func AtLeast(n int) RoomCount { return RoomCount{Kind: RoomAtLeast, N: n} }
func Studio() RoomCount       { return RoomCount{Kind: RoomStudio} }

// ParseRoomCount converts a form value once at the boundary.
// "Studio" is a studio, "6+" is AtLeast(6), "3" or "3 BR" is Exact(3).
// Anything else is unknown.
func ParseRoomCount(text string) RoomCount {
	s := strings.TrimSpace(text)
	switch {
	case s == "":
		return RoomCount{}
	case s == StudioToken:
		return Studio()
	case strings.HasSuffix(s, "+"):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "+")))
		if err != nil || n < 0 {
			return RoomCount{}
		}
		return AtLeast(n)
	}
	if n, ok := leadingInt(s); ok {
		return Exact(n)
	}
	return RoomCount{}
}

// leadingInt reads the digits at the start of s.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Known reports whether the value parsed into a usable count.
func (c RoomCount) Known() bool { return c.Kind != RoomUnknown }

// Satisfies reports whether a listing with this count meets the minimum.
// A studio only satisfies a studio; numeric minimums compare the number,
// so "4", "3+" and "6+" all satisfy a minimum of 3.
func (c RoomCount) Satisfies(want RoomCount) bool {
	switch want.Kind {
	case RoomUnknown:
		return true
	case RoomStudio:
		return c.Kind == RoomStudio
	}
	if c.Kind != RoomExact && c.Kind != RoomAtLeast {
		return false
	}
	return c.N >= want.N
}

func (c RoomCount) String() string {
	switch c.Kind {
	case RoomExact:
		return strconv.Itoa(c.N)
	case RoomAtLeast:
		return strconv.Itoa(c.N) + "+"
	case RoomStudio:
		return StudioToken
	}
	return ""
}
