// Package district parses the free-form "likely council district" survey field
// into a tagged code: Unknown, a Single district, or a Combined list
package district

import (
	"strconv"
	"strings"
)

// Kind tags a Code
type Kind uint8

const (
	// Unknown is blank, NA, free text or anything unparsable
	Unknown Kind = iota
	// Single is exactly one district number
	Single
	// Combined lists two or more district numbers, e.g. "5,7"
	Combined
)

// String returns a short label for logs
func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Combined:
		return "combined"
	default:
		return "unknown"
	}
}

// Code is the parsed district field
type Code struct {
	kind  Kind
	nums  []int
	valid bool
}

// NewSingle builds a Single code
func NewSingle(n int) Code { return Code{kind: Single, nums: []int{n}, valid: true} }

// NewCombined builds a Combined code; fewer than two numbers collapses to Single/Unknown
func NewCombined(nums ...int) Code {
	switch len(nums) {
	case 0:
		return Code{}
	case 1:
		return NewSingle(nums[0])
	}
	cp := append([]int(nil), nums...)
	return Code{kind: Combined, nums: cp, valid: true}
}

// Kind reports the tag
func (c Code) Kind() Kind { return c.kind }

// Single returns the district number and true for Single codes
func (c Code) Single() (int, bool) {
	if c.kind != Single {
		return 0, false
	}
	return c.nums[0], true
}

// Districts returns the listed numbers (one for Single, nil for Unknown)
func (c Code) Districts() []int { return append([]int(nil), c.nums...) }

// String renders the code the way it would appear in an export
func (c Code) String() string {
	switch c.kind {
	case Single:
		return strconv.Itoa(c.nums[0])
	case Combined:
		parts := make([]string, len(c.nums))
		for i, n := range c.nums {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	default:
		return "unknown"
	}
}

// Parse classifies a raw district value
// One or two ASCII digits -> Single. Two or more numbers separated by , ; / & |
// whitespace or "and" -> Combined. Everything else -> Unknown
func Parse(raw string) Code {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Code{}
	}
	if n, ok := shortNumber(s); ok {
		return NewSingle(n)
	}

	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		switch r {
		case ',', ';', '/', '&', '|', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	var nums []int
	for _, f := range fields {
		if f == "and" {
			continue
		}
		n, ok := shortNumber(f)
		if !ok {
			return Code{}
		}
		nums = append(nums, n)
	}
	if len(nums) < 2 {
		return Code{}
	}
	return NewCombined(nums...)
}

// shortNumber accepts one or two ASCII digits
func shortNumber(s string) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
