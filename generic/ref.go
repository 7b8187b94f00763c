/*
ref.go - Populated vs. unresolved references to related records

PURPOSE:
  REST payloads embed related records either fully populated (an object)
  or as a bare id string. Ref makes that explicit: the boundary layer
  (factory) decides which variant it has, and everything downstream
  branches on the tag instead of inspecting shapes at runtime.

USAGE:
  tenant := generic.Populated("t-1", party)   // object in payload
  other  := generic.Unresolved[Party]("t-2")  // id only

  p, ok := other.Resolve(directory.Lookup)
*/
package generic

// Ref is either Populated(value) or Unresolved(id).
type Ref[T any] struct {
	id    string
	value *T
}

// Populated wraps a loaded value. id may be empty if the payload had none.
func Populated[T any](id string, value T) Ref[T] {
	return Ref[T]{id: id, value: &value}
}

// Unresolved wraps a bare identifier.
func Unresolved[T any](id string) Ref[T] {
	return Ref[T]{id: id}
}

func (r Ref[T]) ID() string        { return r.id }
func (r Ref[T]) IsPopulated() bool { return r.value != nil }

// Value returns the populated value, or the zero value and false.
func (r Ref[T]) Value() (T, bool) {
	if r.value == nil {
		var zero T
		return zero, false
	}
	return *r.value, true
}

// Resolve returns the populated value, falling back to lookup by id.
// A nil lookup only resolves populated refs.
func (r Ref[T]) Resolve(lookup func(id string) (T, bool)) (T, bool) {
	if v, ok := r.Value(); ok {
		return v, true
	}
	if lookup == nil || r.id == "" {
		var zero T
		return zero, false
	}
	return lookup(r.id)
}
