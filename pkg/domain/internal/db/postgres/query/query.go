// Package query builds dynamic WHERE clauses with positional parameters.
package query

import (
	"fmt"
	"strings"
)

// Conditions collect predicates joined by "and" and their arguments.
type Conditions struct {
	clauses []string
	args    []any
}

func New() *Conditions {
	return &Conditions{}
}

// Arg registers v as an argument and returns its placeholder ("$1", "$2", ...).
func (c *Conditions) Arg(v any) string {
	c.args = append(c.args, v)
	return fmt.Sprintf("$%d", len(c.args))
}

// And adds a predicate. Placeholders in it should be taken from Arg.
func (c *Conditions) And(predicate string) {
	c.clauses = append(c.clauses, predicate)
}

// Where is "where p1 and p2 ...", or "" when no predicates are added.
func (c *Conditions) Where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return "where " + strings.Join(c.clauses, " and ")
}

// Args returns registered arguments in the order of placeholders.
func (c *Conditions) Args() []any {
	return c.args
}

// AnyOf adds a predicate matching when any of columns is ILIKE the pattern of s.
//
// Nothing is added for blank s.
func (c *Conditions) AnyOf(s string, columns ...string) {
	s = strings.TrimSpace(s)
	if s == "" || len(columns) == 0 {
		return
	}
	p := c.Arg(Contains(s))
	ors := make([]string, 0, len(columns))
	for _, col := range columns {
		ors = append(ors, fmt.Sprintf("%s ilike %s", col, p))
	}
	c.And("(" + strings.Join(ors, " or ") + ")")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains is the LIKE pattern matching strings containing s.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// NullableId maps 0 to nil, for optional foreign keys.
func NullableId(id *int) *int {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
