// Package gocheck implements a concrete semantic-analyser adapter over
// go/packages, go/types, and go/ast: it satisfies both symbols.Checker and
// visibility.TypeSystem so the rest of the pipeline can run against real Go
// source, using the same package loading and object/position handling as a
// typical go/packages-based analysis tool.
package gocheck

import "go/types"

// Registry interns go/types.Type values into stable ids for the visibility
// engine's cycle-breaking (visibility.Type.TypeID needs a comparable,
// stable handle; go/types values are themselves only safely compared by
// interface identity, not by structural equality).
type Registry struct {
	ids  map[types.Type]uintptr
	next uintptr
}

// NewRegistry returns an empty type registry.
func NewRegistry() *Registry {
	return &Registry{ids: map[types.Type]uintptr{}}
}

func (r *Registry) idFor(t types.Type) uintptr {
	if id, ok := r.ids[t]; ok {
		return id
	}
	r.next++
	r.ids[t] = r.next
	return r.next
}

// Wrap adapts a go/types.Type into a GoType carrying this registry's id.
func (r *Registry) Wrap(t types.Type) GoType {
	return GoType{T: t, reg: r}
}
