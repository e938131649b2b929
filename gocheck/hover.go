package gocheck

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"golang.org/x/tools/go/packages"
)

// HoverContent is one entry of a hover result: a language-tagged code span
// (the object's type signature) or plain markdown (its doc comment).
type HoverContent struct {
	Language string
	Value    string
}

// Hover is the checker's getQuickInfoAtPosition analogue: the signature plus
// doc comment resolved for one object.
type Hover struct {
	Contents []HoverContent
}

// Hover returns the hover contents for obj, declared in pkg. Results are
// cached by package path and declaration offset so that every reference to
// the same object shares one computed signature/doc pair, mirroring
// makeCachedHoverResult's per-(package, position) cache.
func (c *Checker) Hover(pkg *packages.Package, obj types.Object) Hover {
	key := pkg.PkgPath + "::" + strconv.FormatInt(int64(obj.Pos()), 10)
	if h, ok := c.hoverCache[key]; ok {
		return h
	}

	contents := []HoverContent{{Language: "go", Value: types.ObjectString(obj, types.RelativeTo(pkg.Types))}}
	if doc := c.docCommentFor(pkg, obj); doc != "" {
		contents = append(contents, HoverContent{Value: doc})
	}

	h := Hover{Contents: contents}
	c.hoverCache[key] = h
	return h
}

// hoverLoader resolves a declaration's doc comment by its name identifier's
// position, built once per package by walking its syntax trees -- the Go
// analogue of a HoverLoader that answers doc-comment lookups by file+offset
// instead of re-parsing on every hover request.
type hoverLoader struct {
	docs map[token.Pos]string
}

func newHoverLoader(pkg *packages.Package) *hoverLoader {
	hl := &hoverLoader{docs: map[token.Pos]string{}}

	record := func(name *ast.Ident, doc, comment *ast.CommentGroup) {
		if name == nil {
			return
		}
		switch {
		case doc != nil && doc.Text() != "":
			hl.docs[name.Pos()] = doc.Text()
		case comment != nil && comment.Text() != "":
			hl.docs[name.Pos()] = comment.Text()
		}
	}

	for _, file := range pkg.Syntax {
		ast.Inspect(file, func(n ast.Node) bool {
			switch d := n.(type) {
			case *ast.FuncDecl:
				record(d.Name, d.Doc, nil)
			case *ast.TypeSpec:
				record(d.Name, d.Doc, d.Comment)
			case *ast.ValueSpec:
				for _, name := range d.Names {
					record(name, d.Doc, d.Comment)
				}
			case *ast.Field:
				for _, name := range d.Names {
					record(name, d.Doc, d.Comment)
				}
			}
			return true
		})
	}

	return hl
}

func (c *Checker) docCommentFor(pkg *packages.Package, obj types.Object) string {
	hl, ok := c.hoverLoaders[pkg]
	if !ok {
		hl = newHoverLoader(pkg)
		c.hoverLoaders[pkg] = hl
	}
	return hl.docs[obj.Pos()]
}

// PackageDoc returns the first non-empty package-level doc comment found
// across pkg's syntax files, the hover content shown for an imported
// package name.
func (c *Checker) PackageDoc(pkg *packages.Package) string {
	for _, file := range pkg.Syntax {
		if file.Doc != nil && file.Doc.Text() != "" {
			return file.Doc.Text()
		}
	}
	return ""
}
