package version

import "fmt"

// Version is one released protocol version. Ordinal is the release order.
type Version struct {
	ID      string `json:"id"`
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label,omitempty"`
}

func (v Version) String() string {
	if v.Label == "" {
		return v.ID
	}
	return fmt.Sprintf("%s (%s)", v.Label, v.ID)
}

// Compare returns -1, 0 or 1 by ordinal.
func (v Version) Compare(other Version) int {
	switch {
	case v.Ordinal < other.Ordinal:
		return -1
	case v.Ordinal > other.Ordinal:
		return 1
	default:
		return 0
	}
}

func (v Version) OlderThan(other Version) bool { return v.Ordinal < other.Ordinal }

func (v Version) NewerThan(other Version) bool { return v.Ordinal > other.Ordinal }

// Distance is the number of adjacent hops between v and other.
func (v Version) Distance(other Version) int {
	d := v.Ordinal - other.Ordinal
	if d < 0 {
		return -d
	}
	return d
}
