// Package rater classifies respondents by their relationship to the
// evaluated person.
package rater

import "strings"

// Group is a rater group. The zero value is Other.
type Group uint8

const (
	Other Group = iota
	Self
	Manager
	Peers
	Subordinates
)

// Weighted lists the groups that carry a weight, in display order.
var Weighted = []Group{Self, Manager, Peers, Subordinates} //nolint:gochecknoglobals // fixed group order

// All lists every group, Other last.
var All = []Group{Self, Manager, Peers, Subordinates, Other} //nolint:gochecknoglobals // fixed group order

func (g Group) String() string {
	switch g {
	case Self:
		return "Self"
	case Manager:
		return "Manager"
	case Peers:
		return "Peers"
	case Subordinates:
		return "Subordinates"
	default:
		return "Other"
	}
}

// MarshalText renders the group name in JSON keys and values.
func (g Group) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// UnmarshalText accepts the names produced by MarshalText; unknown names decode as Other.
func (g *Group) UnmarshalText(b []byte) error {
	*g = Other
	for _, c := range All {
		if strings.EqualFold(c.String(), string(b)) {
			*g = c
			break
		}
	}
	return nil
}

// Color is the display color of the group.
func (g Group) Color() string {
	switch g {
	case Self:
		return "#17a2b8"
	case Manager:
		return "#dc3545"
	case Peers:
		return "#ffc107"
	case Subordinates:
		return "#28a745"
	default:
		return "#6c757d"
	}
}

type rule struct {
	group    Group
	contains []string
}

// Evaluated in order, first match wins. "par" also matches words such as
// "departamento"; that is accepted.
var rules = []rule{ //nolint:gochecknoglobals // ordered classification table
	{group: Self, contains: []string{"auto", "autoevalu"}},
	{group: Manager, contains: []string{"jefe", "supervisor"}},
	{group: Subordinates, contains: []string{"subordin"}},
	{group: Peers, contains: []string{"par", "compa", "cliente"}},
}

// Classify maps a free-text relationship to a group. It is total: anything
// unmatched is Other.
func Classify(relationship string) Group {
	r := strings.ToLower(relationship)
	for _, rl := range rules {
		for _, kw := range rl.contains {
			if strings.Contains(r, kw) {
				return rl.group
			}
		}
	}
	return Other
}

// Counts tallies relationships by group.
func Counts(relationships []string) map[Group]int {
	out := make(map[Group]int, len(All))
	for _, r := range relationships {
		out[Classify(r)]++
	}
	return out
}
