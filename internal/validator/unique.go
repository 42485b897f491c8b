package validator

import (
	"context"
	"fmt"
)

// Scope restricts a uniqueness lookup to one table and, optionally, to rows
// whose Column equals Value.
type Scope struct {
	Table  string
	Column string
	Value  any
}

// UniquenessChecker is the store capability behind uniqueness rules.
// excludeID <= 0 excludes nothing.
type UniquenessChecker interface {
	IsUniqueWithin(ctx context.Context, scope Scope, field, value string, excludeID int) (bool, error)
}

// Unique declares that Field must be unique within Scope, ignoring ExcludeID.
type Unique struct {
	Field     string
	Scope     Scope
	ExcludeID int
	// Message overrides the default "is already taken" text.
	Message string
}

// ErrorMessage is the text reported when the rule fails.
func (u Unique) ErrorMessage() string {
	if u.Message != "" {
		return u.Message
	}
	return fmt.Sprintf("The %s is already taken.", u.Field)
}
