package gocheck

import (
	"fmt"
	"go/token"
	"go/types"

	"github.com/indexgraph/lsifcore/symbols"
)

// Symbol adapts a go/types.Object to symbols.Symbol. Equality of the
// underlying Object pointer is what makes SymbolID stable across the
// lifetime of one package-loading session (go/types interns objects per
// declaration).
type Symbol struct {
	Object types.Object
	fset   *token.FileSet
}

var _ symbols.Symbol = Symbol{}

func (s Symbol) SymbolID() string {
	return fmt.Sprintf("%p", s.Object)
}

// Position returns the file/line/column the object was declared at.
func (s Symbol) Position() token.Position {
	return s.fset.Position(s.Object.Pos())
}
