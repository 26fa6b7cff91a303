package controllers

import (
	"fmt"
	"strings"
)

// column pairs a users column with a value that may be left empty. Empty
// strings and nil count as absent.
type column struct {
	name  string
	value any
}

func (c column) empty() bool {
	if c.value == nil {
		return true
	}
	s, ok := c.value.(string)
	return ok && s == ""
}

// queryBuilder assembles WHERE predicates and SET assignments with $N
// placeholders. Values are only ever passed as arguments.
type queryBuilder struct {
	base    string
	where   []string
	assigns []string
	args    []any
}

func newQueryBuilder(base string) *queryBuilder {
	return &queryBuilder{base: base}
}

func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// whereEq adds "name = $n" for every column with a non-empty value.
func (b *queryBuilder) whereEq(cols ...column) *queryBuilder {
	for _, c := range cols {
		if c.empty() {
			continue
		}
		b.where = append(b.where, c.name+" = "+b.bind(c.value))
	}
	return b
}

// whereContains adds a case-insensitive substring match over any of names.
func (b *queryBuilder) whereContains(term string, names ...string) *queryBuilder {
	if term == "" || len(names) == 0 {
		return b
	}

	ph := b.bind("%" + escapeLike(term) + "%")
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " ILIKE " + ph
	}
	b.where = append(b.where, "("+strings.Join(parts, " OR ")+")")
	return b
}

// set adds "name = $n" for every column with a non-empty value.
func (b *queryBuilder) set(cols ...column) *queryBuilder {
	for _, c := range cols {
		if c.empty() {
			continue
		}
		b.assigns = append(b.assigns, c.name+" = "+b.bind(c.value))
	}
	return b
}

func (b *queryBuilder) hasAssignments() bool {
	return len(b.assigns) > 0
}

// whereID appends the primary key predicate; call it after set so that the id
// takes the last placeholder.
func (b *queryBuilder) whereID(id int64) *queryBuilder {
	b.where = append(b.where, "id = "+b.bind(id))
	return b
}

func (b *queryBuilder) build(suffix string) (string, []any) {
	var sb strings.Builder
	sb.WriteString(b.base)

	if len(b.assigns) > 0 {
		sb.WriteString(" SET ")
		sb.WriteString(strings.Join(b.assigns, ", "))
	}

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}

	if suffix != "" {
		sb.WriteString(" ")
		sb.WriteString(suffix)
	}

	return sb.String(), b.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
