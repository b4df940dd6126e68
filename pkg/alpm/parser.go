package alpm

import (
	"strings"
)

// DescScanner walks the alpm `desc` file format, yielding (tag, value)
// pairs in document order. A tag is whatever sits between two % signs
// on a line of its own, and its value is everything after that line up
// to (but not including) the next blank line, with the trailing newline
// stripped.
//
// The format cannot fail validation: anything before the first tag line
// is skipped, and malformed input simply produces no pairs. Tag and
// value are slices of the input text, so no copying happens while
// scanning.
//
// Usage follows bufio.Scanner:
//
//	s := alpm.NewDescScanner(text)
//	for s.Scan() {
//		tag, value := s.Tag(), s.Value()
//	}
type DescScanner struct {
	rest  string
	tag   string
	value string
}

// NewDescScanner returns a scanner over the given desc text.
func NewDescScanner(desc string) *DescScanner {
	return &DescScanner{rest: desc}
}

// Scan advances to the next (tag, value) pair, returning false when the
// input is exhausted.
func (s *DescScanner) Scan() bool {
	for s.rest != "" {
		line := s.nextLine()
		tag, ok := tagLine(line)
		if !ok {
			continue
		}
		s.tag = tag
		s.value = s.nextValue()
		return true
	}
	return false
}

// Tag returns the tag matched by the last call to Scan.
func (s *DescScanner) Tag() string { return s.tag }

// Value returns the value matched by the last call to Scan. Values may
// span multiple lines; the embedded newlines are preserved.
func (s *DescScanner) Value() string { return s.value }

// nextLine consumes one line from the remaining input, without its
// newline.
func (s *DescScanner) nextLine() string {
	if i := strings.IndexByte(s.rest, '\n'); i >= 0 {
		line := s.rest[:i]
		s.rest = s.rest[i+1:]
		return line
	}
	line := s.rest
	s.rest = ""
	return line
}

// nextValue consumes everything up to the first blank line, which is
// itself consumed but not included. If the input ends before a blank
// line, whatever was gathered so far is the value.
func (s *DescScanner) nextValue() string {
	// Blank line immediately after the tag: empty value.
	if strings.HasPrefix(s.rest, "\n") {
		s.rest = s.rest[1:]
		return ""
	}
	if i := strings.Index(s.rest, "\n\n"); i >= 0 {
		value := s.rest[:i]
		s.rest = s.rest[i+2:]
		return value
	}
	value := strings.TrimSuffix(s.rest, "\n")
	s.rest = ""
	return value
}

// tagLine reports whether line has the exact form %TAG%, where TAG is
// one or more non-% characters, and returns the tag.
func tagLine(line string) (string, bool) {
	if len(line) < 3 || line[0] != '%' || line[len(line)-1] != '%' {
		return "", false
	}
	tag := line[1 : len(line)-1]
	if strings.ContainsRune(tag, '%') {
		return "", false
	}
	return tag, true
}

// SplitPkgname extracts the pkgname part of a ${pkgname}-${pkgver}-${pkgrel}
// string, i.e. everything before the two rightmost hyphens. Both sync
// archive member directories and local install directories use this
// naming. Returns false if s has fewer than two hyphens; directory
// entries that fail to decompose are routinely not packages at all.
func SplitPkgname(s string) (string, bool) {
	rel := strings.LastIndexByte(s, '-')
	if rel <= 0 {
		return "", false
	}
	ver := strings.LastIndexByte(s[:rel], '-')
	if ver <= 0 {
		return "", false
	}
	return s[:ver], true
}
