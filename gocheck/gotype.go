package gocheck

import (
	"go/types"

	"github.com/indexgraph/lsifcore/visibility"
)

// GoType adapts a go/types.Type to visibility.Type.
type GoType struct {
	T   types.Type
	reg *Registry
}

var _ visibility.Type = GoType{}

func (g GoType) TypeID() uintptr { return g.reg.idFor(g.T) }

// Signature adapts a *types.Signature to visibility.Signature.
type Signature struct {
	Sig *types.Signature
	reg *Registry
}

var _ visibility.Signature = Signature{}

func (s Signature) Parameters() []visibility.Type {
	tuple := s.Sig.Params()
	out := make([]visibility.Type, 0, tuple.Len())
	for i := 0; i < tuple.Len(); i++ {
		out = append(out, s.reg.Wrap(tuple.At(i).Type()))
	}
	return out
}

func (s Signature) Return() visibility.Type {
	results := s.Sig.Results()
	if results.Len() == 0 {
		return nil
	}
	if results.Len() == 1 {
		return s.reg.Wrap(results.At(0).Type())
	}
	// Multiple return values: wrap the whole tuple type itself; the
	// traversal reaches each result's type through Checker.TypeArguments,
	// which expands a tuple into its element types.
	return s.reg.Wrap(results)
}
