package postgres

import (
	"strconv"
	"strings"
)

// builder accumulates positional arguments, WHERE conditions and SET assignments.
// It satisfies scope.Query.
type builder struct {
	args  []any
	conds []string
	sets  []string
}

// Arg binds v and returns its placeholder.
func (b *builder) Arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Where adds an AND-ed condition; each ? is bound to the next arg in order.
func (b *builder) Where(cond string, args ...any) {
	var sb strings.Builder
	i := 0
	for _, r := range cond {
		if r == '?' && i < len(args) {
			sb.WriteString(b.Arg(args[i]))
			i++
			continue
		}
		sb.WriteRune(r)
	}
	b.conds = append(b.conds, sb.String())
}

// Set assigns column = v.
func (b *builder) Set(column string, v any) {
	b.sets = append(b.sets, column+" = "+b.Arg(v))
}

// SetNull assigns column = NULL.
func (b *builder) SetNull(column string) {
	b.sets = append(b.sets, column+" = NULL")
}

// HasSets reports whether any column assignment was added.
func (b *builder) HasSets() bool { return len(b.sets) > 0 }

// WhereSQL renders the AND-ed conditions, or "" when there are none.
func (b *builder) WhereSQL() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// SetSQL renders the assignments for an UPDATE ... SET clause.
func (b *builder) SetSQL() string {
	return strings.Join(b.sets, ", ")
}

// Paginate appends LIMIT/OFFSET placeholders.
func (b *builder) Paginate(limit, offset int) string {
	return " LIMIT " + b.Arg(limit) + " OFFSET " + b.Arg(offset)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
