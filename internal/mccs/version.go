package mccs

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the negotiated MCCS protocol version. The zero value is the
// protocol's "no version" sentinel and carries no information.
type Version struct {
	Major uint8
	Minor uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// IsZero reports whether v is the "no version" sentinel.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// AtLeast reports whether v is other or newer.
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// ParseVersion reads the "major.minor" form used in capability strings.
func ParseVersion(s string) (Version, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return Version{}, fmt.Errorf("malformed version %q", s)
	}
	maj, err := strconv.ParseUint(major, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("malformed version %q: %w", s, err)
	}
	min, err := strconv.ParseUint(minor, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("malformed version %q: %w", s, err)
	}
	return Version{Major: uint8(maj), Minor: uint8(min)}, nil
}
