// Package pointer has helpers for optional values, which are nil-able pointers in domain types.
package pointer

// Ref returns a pointer to a copy of v.
func Ref[T any](v T) *T {
	return &v
}

// Equal reports whether a and b are both nil or point equal values.
func Equal[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
