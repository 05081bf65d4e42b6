package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownVersion is returned for versions that no generation describes.
var ErrUnknownVersion = errors.New("unknown schema version")

// Version identifies one historical generation of the subsystem model.
type Version struct {
	Major int
	Minor int
	Micro int
}

var (
	Version1_0 = Version{Major: 1, Minor: 0, Micro: 0}
	Version1_1 = Version{Major: 1, Minor: 1, Micro: 0}
	Version1_2 = Version{Major: 1, Minor: 2, Micro: 0}

	// Current is the newest generation; the in-memory model always has its shape.
	Current = Version1_2
)

// Versions lists every known generation, oldest first.
func Versions() []Version {
	return []Version{Version1_0, Version1_1, Version1_2}
}

// ParseVersion accepts "major.minor" or "major.minor.micro".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor[.micro]", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: component %q is not a non-negative integer", s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Micro: nums[2]}, nil
}

// Compare returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Micro, o.Micro)
	}
}

func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
