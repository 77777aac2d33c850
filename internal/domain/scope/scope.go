// Package scope derives row visibility from an authenticated caller.
//
// Identities are only ever built from verified token claims; owner or agent
// identifiers supplied in request payloads or query strings never widen what
// an agent can read or write.
package scope

import "github.com/oksasatya/go-realty-backend/internal/domain/entity"

// Identity is the authenticated caller.
type Identity struct {
	UserID   string
	Username string
	Role     entity.Role
}

// IsAdmin reports whether the caller bypasses row scoping.
func (i Identity) IsAdmin() bool { return i.Role == entity.RoleAdmin }

// Anonymous reports whether the identity carries no user.
func (i Identity) Anonymous() bool { return i.UserID == "" }

// OwnerFor resolves the owning agent for a write.
// Admins may assign any agent (defaulting to themselves); everyone else always owns what they write.
func (i Identity) OwnerFor(requested string) string {
	if i.IsAdmin() && requested != "" {
		return requested
	}
	return i.UserID
}

// ListAgentFilter returns the agent id a list may be narrowed to.
// Only admins may narrow by agent; for agents the scope predicate already applies.
func (i Identity) ListAgentFilter(requested string) string {
	if i.IsAdmin() {
		return requested
	}
	return ""
}

// Query is the part of a query builder a Restrictor needs.
// Conditions use ? placeholders.
type Query interface {
	Where(cond string, args ...any)
}

// Restrictor narrows a query to the rows an identity may see.
type Restrictor interface {
	Restrict(q Query, id Identity) Query
}

// OwnerColumn restricts by a single owning-agent column, e.g. "c.agent_id".
type OwnerColumn string

func (col OwnerColumn) Restrict(q Query, id Identity) Query {
	switch {
	case id.IsAdmin():
	case id.Anonymous():
		q.Where("FALSE")
	default:
		q.Where(string(col)+" = ?", id.UserID)
	}
	return q
}
