package indexer

import (
	"bytes"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"

	"github.com/indexgraph/lsifcore/emit"
	"github.com/indexgraph/lsifcore/gocheck"
	"github.com/indexgraph/lsifcore/graph"
)

const sampleSource = `package sample

// Greeting returns a greeting for name.
func Greeting(name string) string {
	return prefix + name
}

const prefix = "Hello, "
`

// buildSinglePackageChecker type-checks sampleSource in-process via
// go/parser + go/types (no go/packages.Load, so no subprocess "go list"
// call is needed) and wraps the result in the same *packages.Package shape
// gocheck.Checker expects, so Driver can be exercised without a real module
// on disk.
func buildSinglePackageChecker(t *testing.T) (*gocheck.Checker, string) {
	t.Helper()

	fset := token.NewFileSet()
	filename := "/project/sample.go"
	file, err := parser.ParseFile(fset, filename, sampleSource, 0)
	if err != nil {
		t.Fatalf("ParseFile: %s", err)
	}

	info := &types.Info{
		Defs:  map[*ast.Ident]types.Object{},
		Uses:  map[*ast.Ident]types.Object{},
		Types: map[ast.Expr]types.TypeAndValue{},
	}

	conf := types.Config{Importer: importer.Default()}
	pkg, err := conf.Check("example.com/sample", fset, []*ast.File{file}, info)
	if err != nil {
		t.Fatalf("types.Check: %s", err)
	}

	p := &packages.Package{
		PkgPath:         "example.com/sample",
		Fset:            fset,
		Syntax:          []*ast.File{file},
		CompiledGoFiles: []string{filename},
		Types:           pkg,
		TypesInfo:       info,
	}

	return gocheck.NewChecker(fset, []*packages.Package{p}), "/project"
}

func TestDriverIndexEndToEnd(t *testing.T) {
	checker, root := buildSinglePackageChecker(t)

	var buf bytes.Buffer
	emitter := NewEmitter(graph.NewNumberIDGenerator(), emit.NewLineSink(&buf))
	driver := NewDriver(checker, emitter, root, MonikerLenient)

	if err := driver.Index(); err != nil {
		t.Fatalf("Index: %s", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"label":"metaData"`) {
		t.Error("expected a metaData vertex in the dump")
	}
	if !strings.Contains(out, `"label":"moniker"`) {
		t.Error("expected at least one moniker vertex for the exported Greeting function")
	}
	if !strings.Contains(out, `"kind":"export"`) {
		t.Error("expected the Greeting moniker to be kind export")
	}
}
