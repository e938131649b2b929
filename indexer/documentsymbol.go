package indexer

import (
	"go/ast"
	"go/token"

	"github.com/indexgraph/lsifcore/graph"
)

// buildDocumentSymbols assembles a file's top-level declarations into a
// range-based symbol tree, looking up each identifier's already-emitted
// definition range by position. A declaration with no recorded range (a
// blank identifier, or one this driver skipped) is simply omitted rather
// than emitted as a placeholder.
func buildDocumentSymbols(file *ast.File, defs map[token.Pos]graph.ID) []graph.RangeBasedDocumentSymbol {
	var out []graph.RangeBasedDocumentSymbol
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if sym, ok := symbolFor(d.Name.Pos(), defs); ok {
				out = append(out, sym)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					if sym, ok := symbolFor(s.Name.Pos(), defs); ok {
						sym.Children = typeSpecChildren(s, defs)
						out = append(out, sym)
					}
				case *ast.ValueSpec:
					for _, name := range s.Names {
						if sym, ok := symbolFor(name.Pos(), defs); ok {
							out = append(out, sym)
						}
					}
				}
			}
		}
	}
	return out
}

func symbolFor(pos token.Pos, defs map[token.Pos]graph.ID) (graph.RangeBasedDocumentSymbol, bool) {
	id, ok := defs[pos]
	if !ok {
		return graph.RangeBasedDocumentSymbol{}, false
	}
	return graph.RangeBasedDocumentSymbol{ID: id}, true
}

// typeSpecChildren nests a struct's fields or an interface's method set
// under their owning type declaration.
func typeSpecChildren(spec *ast.TypeSpec, defs map[token.Pos]graph.ID) []graph.RangeBasedDocumentSymbol {
	var children []graph.RangeBasedDocumentSymbol
	switch t := spec.Type.(type) {
	case *ast.StructType:
		for _, field := range t.Fields.List {
			for _, name := range field.Names {
				if sym, ok := symbolFor(name.Pos(), defs); ok {
					children = append(children, sym)
				}
			}
		}
	case *ast.InterfaceType:
		for _, field := range t.Methods.List {
			for _, name := range field.Names {
				if sym, ok := symbolFor(name.Pos(), defs); ok {
					children = append(children, sym)
				}
			}
		}
	}
	return children
}
