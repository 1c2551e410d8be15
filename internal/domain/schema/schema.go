// Package schema finds the metadata columns of a survey export from its
// headers: who was evaluated, how the rater relates to them, and when.
package schema

import (
	"strings"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/textnorm"
)

// Role is a metadata column the engine needs to locate.
type Role uint8

const (
	RoleSubject Role = iota
	RoleRelationship
	RoleTimestamp
)

func (r Role) String() string {
	switch r {
	case RoleSubject:
		return "subject"
	case RoleRelationship:
		return "relationship"
	case RoleTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Column is a resolved header. Index is -1 when the role is unresolved.
type Column struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Resolved reports whether the role was matched to a header.
func (c Column) Resolved() bool { return c.Index >= 0 }

var unresolved = Column{Index: -1}

// Schema holds the resolved metadata columns.
type Schema struct {
	Subject      Column `json:"subject"`
	Relationship Column `json:"relationship"`
	Timestamp    Column `json:"timestamp"`
}

// Column returns the column bound to role.
func (s Schema) Column(role Role) Column {
	switch role {
	case RoleSubject:
		return s.Subject
	case RoleRelationship:
		return s.Relationship
	case RoleTimestamp:
		return s.Timestamp
	default:
		return unresolved
	}
}

// Require returns a *SchemaError naming every role in roles that is unresolved.
func (s Schema) Require(roles ...Role) error {
	var missing []Role
	for _, r := range roles {
		if !s.Column(r).Resolved() {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Indices returns the indices of every resolved metadata column.
func (s Schema) Indices() []int {
	out := make([]int, 0, 3)
	for _, c := range []Column{s.Timestamp, s.Subject, s.Relationship} {
		if c.Resolved() {
			out = append(out, c.Index)
		}
	}
	return out
}

type rule struct {
	role     Role
	synonyms []string
	contains []string
}

// Exact synonyms are tried first for every role; substring heuristics only
// run for roles still unresolved. The relationship heuristic runs before the
// subject one because relationship questions usually mention "evaluado".
var (
	exactRules = []rule{ //nolint:gochecknoglobals // fixed resolution table
		{role: RoleSubject, synonyms: []string{"nombre del colaborador evaluado", "evaluado", "nombre colaborador evaluado"}},
		{role: RoleRelationship, synonyms: []string{"cual es tu relacion con el evaluado", "cual es tu relacion con el evaluado?", "relacion con el evaluado", "relacion"}},
		{role: RoleTimestamp, synonyms: []string{"marca temporal", "timestamp", "fecha"}},
	}
	heuristicRules = []rule{ //nolint:gochecknoglobals // fixed resolution table
		{role: RoleRelationship, contains: []string{"relacion", "relaci"}},
		{role: RoleTimestamp, contains: []string{"marca", "timestamp", "fecha"}},
		{role: RoleSubject, contains: []string{"evaluado", "colaborador evaluado"}},
	}
)

// Resolve maps header names to roles. Unmatched roles stay unresolved; it
// never fails.
func Resolve(headers []string) Schema {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = textnorm.Normalize(h)
	}

	found := map[Role]Column{}
	claimed := map[int]bool{}
	bind := func(role Role, idx int) {
		found[role] = Column{Index: idx, Name: headers[idx]}
		claimed[idx] = true
	}

	for _, r := range exactRules {
		if idx := exactMatch(normalized, r.synonyms, claimed); idx >= 0 {
			bind(r.role, idx)
		}
	}
	for _, r := range heuristicRules {
		if _, ok := found[r.role]; ok {
			continue
		}
		for i, h := range normalized {
			if claimed[i] {
				continue
			}
			if containsAny(h, r.contains) {
				bind(r.role, i)
				break
			}
		}
	}

	get := func(role Role) Column {
		if c, ok := found[role]; ok {
			return c
		}
		return unresolved
	}
	return Schema{
		Subject:      get(RoleSubject),
		Relationship: get(RoleRelationship),
		Timestamp:    get(RoleTimestamp),
	}
}

func exactMatch(normalized, synonyms []string, claimed map[int]bool) int {
	for _, syn := range synonyms {
		want := textnorm.Normalize(syn)
		for i, h := range normalized {
			if !claimed[i] && h == want {
				return i
			}
		}
	}
	return -1
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
