package alpm

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMissingField indicates a desc record lacks a required tag.
	ErrMissingField = errors.New("missing required field")

	// ErrNameMismatch indicates a desc record's %NAME% disagrees with
	// the name derived from its containing directory. The directory
	// does not represent the queried package (an alternate version,
	// usually), which callers treat as a skip, not corruption.
	ErrNameMismatch = errors.New("package name mismatch")
)

// ParseSyncPackage builds a SyncPackage from the text of one sync
// database desc record. NAME, CSIZE and ISIZE are required; VERSION is
// captured when present. When a tag repeats, the last occurrence wins.
// The Repo field is left empty for the caller to fill in.
func ParseSyncPackage(desc string) (*SyncPackage, error) {
	var pkg SyncPackage
	var haveName, haveCSize, haveISize bool

	s := NewDescScanner(desc)
	for s.Scan() {
		switch s.Tag() {
		case TagName:
			pkg.Name = s.Value()
			haveName = true
		case TagVersion:
			pkg.Version = s.Value()
		case TagCSize:
			n, err := parseSize(TagCSize, s.Value())
			if err != nil {
				return nil, err
			}
			pkg.DownloadSize = n
			haveCSize = true
		case TagISize:
			n, err := parseSize(TagISize, s.Value())
			if err != nil {
				return nil, err
			}
			pkg.InstallSize = n
			haveISize = true
		}
	}

	switch {
	case !haveName:
		return nil, fmt.Errorf("%w %s", ErrMissingField, TagName)
	case !haveCSize:
		return nil, fmt.Errorf("%w %s", ErrMissingField, TagCSize)
	case !haveISize:
		return nil, fmt.Errorf("%w %s", ErrMissingField, TagISize)
	}
	return &pkg, nil
}

// ParseLocalPackage builds a LocalPackage from the text of one local
// database desc record. wantName is the pkgname derived from the
// record's directory; a %NAME% tag disagreeing with it returns
// ErrNameMismatch. A missing %SIZE% is not an error: packages without
// a payload simply have installed size 0.
func ParseLocalPackage(desc, wantName string) (*LocalPackage, error) {
	pkg := LocalPackage{Name: wantName}

	s := NewDescScanner(desc)
	for s.Scan() {
		switch s.Tag() {
		case TagName:
			if s.Value() != wantName {
				return nil, fmt.Errorf("%w: directory says %q, desc says %q",
					ErrNameMismatch, wantName, s.Value())
			}
		case TagVersion:
			pkg.Version = s.Value()
		case TagSize:
			n, err := parseSize(TagSize, s.Value())
			if err != nil {
				return nil, err
			}
			pkg.InstalledSize = n
		}
	}
	return &pkg, nil
}

func parseSize(tag, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", tag, value, err)
	}
	return n, nil
}
