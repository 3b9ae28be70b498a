package models

import "fmt"

type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeGroup
	ScopeCategory
)

// Scope says which groups a trigger or setting applies to: every group in
// the organization, one group, or every group in one category. Values are
// built only through the constructors, so a record carrying both a group
// and a category cannot be represented past parsing.
type Scope struct {
	kind       ScopeKind
	groupJID   string
	categoryID uint
}

func GlobalScope() Scope {
	return Scope{kind: ScopeGlobal}
}

func GroupScope(jid string) Scope {
	return Scope{kind: ScopeGroup, groupJID: jid}
}

func CategoryScope(id uint) Scope {
	return Scope{kind: ScopeCategory, categoryID: id}
}

// ScopeFrom maps the nullable columns of a scoped record onto a Scope.
// Both set at once is malformed data and is rejected here, not downstream.
func ScopeFrom(groupJID *string, categoryID *uint) (Scope, error) {
	switch {
	case groupJID != nil && categoryID != nil:
		return Scope{}, fmt.Errorf("record is scoped to both group %q and category %d", *groupJID, *categoryID)
	case groupJID != nil:
		return GroupScope(*groupJID), nil
	case categoryID != nil:
		return CategoryScope(*categoryID), nil
	default:
		return GlobalScope(), nil
	}
}

func (s Scope) Kind() ScopeKind { return s.kind }

func (s Scope) GroupJID() (string, bool) {
	return s.groupJID, s.kind == ScopeGroup
}

func (s Scope) CategoryID() (uint, bool) {
	return s.categoryID, s.kind == ScopeCategory
}

// AppliesTo reports whether the scope covers the given group, which carries
// the set of category ids it belongs to.
func (s Scope) AppliesTo(groupJID string, categoryIDs []uint) bool {
	switch s.kind {
	case ScopeGlobal:
		return true
	case ScopeGroup:
		return s.groupJID == groupJID
	case ScopeCategory:
		for _, id := range categoryIDs {
			if id == s.categoryID {
				return true
			}
		}
		return false
	}
	return false
}

func (s Scope) String() string {
	switch s.kind {
	case ScopeGroup:
		return fmt.Sprintf("group:%s", s.groupJID)
	case ScopeCategory:
		return fmt.Sprintf("category:%d", s.categoryID)
	default:
		return "global"
	}
}
