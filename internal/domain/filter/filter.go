// Package filter describes metadata predicates pushed down to a vector index.
package filter

import "fmt"

// MaxConditions is the maximum number of conditions in one expression.
const MaxConditions = 8

// Expression is a conjunction of exact-match conditions on match metadata.
type Expression struct {
	must []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must ...Condition) (Expression, error) {
	if len(must) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	return Expression{must: must}, nil
}

// Must returns the conditions that all have to hold.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Value returns the match value required for key, if any.
func (e Expression) Value(key string) (string, bool) {
	for _, c := range e.must {
		if c.key == key {
			return c.value, true
		}
	}
	return "", false
}

// Condition is an exact tag match on one metadata key.
type Condition struct {
	key   string
	value string
}

// NewMatch creates an exact match condition.
func NewMatch(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, value: value}, nil
}

// Key returns the metadata key.
func (c Condition) Key() string { return c.key }

// Value returns the required value.
func (c Condition) Value() string { return c.value }
