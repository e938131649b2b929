package gocheck

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"

	"github.com/indexgraph/lsifcore/symbols"
	"github.com/indexgraph/lsifcore/visibility"
)

// LoadMode is the golang.org/x/tools/go/packages mode this package requires
// to populate types, syntax, and file sets for every loaded package.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedModule

// Checker is the concrete semantic-analyser adapter: it satisfies both
// symbols.Checker and visibility.TypeSystem against a loaded set of
// go/packages.Package values.
type Checker struct {
	FileSet  *token.FileSet
	Packages []*packages.Package
	reg      *Registry

	// fileToPackage maps each compiled file to the *types.Package that
	// declares package-scope symbols in it, letting FileHasModuleSymbol
	// decide module-vs-global regime without a TypeScript
	// notion of "file symbol": a Go file contributes to its enclosing
	// package's scope, which stands in for "module" here, while universe
	// (predeclared) identifiers stand in for "global".
	fileToPackage map[string]*types.Package

	hoverLoaders map[*packages.Package]*hoverLoader
	hoverCache   map[string]Hover
}

var _ symbols.Checker = (*Checker)(nil)
var _ visibility.TypeSystem = (*Checker)(nil)

// Load runs go/packages over patterns (e.g. "./...") rooted at dir and
// returns a ready Checker.
func Load(dir string, patterns ...string) (*Checker, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  dir,
		Fset: token.NewFileSet(),
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "load packages")
	}

	var loadErrs *multierror.Error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			loadErrs = multierror.Append(loadErrs, errors.Wrapf(e, "package %s", p.PkgPath))
		}
	})
	if err := loadErrs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return NewChecker(cfg.Fset, pkgs), nil
}

// NewChecker builds a Checker directly from an already-populated file set
// and package list, deriving the file->package regime map from each
// package's compiled files. This is the constructor Load uses internally;
// it is also the entry point for callers (including tests) that assemble a
// *packages.Package by hand instead of via packages.Load, e.g. to
// type-check an in-memory file with go/parser + go/types directly.
func NewChecker(fset *token.FileSet, pkgs []*packages.Package) *Checker {
	c := &Checker{
		FileSet:       fset,
		Packages:      pkgs,
		reg:           NewRegistry(),
		fileToPackage: map[string]*types.Package{},
		hoverLoaders:  map[*packages.Package]*hoverLoader{},
		hoverCache:    map[string]Hover{},
	}
	for _, p := range pkgs {
		for _, f := range p.CompiledGoFiles {
			c.fileToPackage[f] = p.Types
		}
	}
	return c
}

func (c *Checker) wrapObject(obj types.Object) Symbol {
	return Symbol{Object: obj, fset: c.FileSet}
}

func asObject(sym symbols.Symbol) types.Object {
	s, ok := sym.(Symbol)
	if !ok {
		return nil
	}
	return s.Object
}

// --- symbols.Checker ---

// Declarations returns the single declaration site go/types records for an
// object. Go objects (unlike TS symbols) have exactly one declaration; a
// method promoted through embedding resolves to the embedded type's own
// method object and so reports that method's declaration.
func (c *Checker) Declarations(sym symbols.Symbol) []symbols.Declaration {
	obj := asObject(sym)
	if obj == nil || !obj.Pos().IsValid() {
		return nil
	}
	pos := c.FileSet.Position(obj.Pos())
	return []symbols.Declaration{{
		File:  pos.Filename,
		Start: int(obj.Pos()),
		End:   int(obj.Pos()) + len(obj.Name()),
	}}
}

// IsTransient reports whether obj is a symbol the checker manufactures on
// the fly with no stable declaration of its own (e.g. the result of a type
// assertion or an anonymous struct literal field group) -- approximated
// here as builtin functions and the other package-less objects of
// types.Universe.
func (c *Checker) IsTransient(sym symbols.Symbol) bool {
	obj := asObject(sym)
	if obj == nil {
		return false
	}
	_, isBuiltin := obj.(*types.Builtin)
	return isBuiltin || (obj.Pkg() == nil && obj.Parent() == types.Universe)
}

// IsTypeAlias reports whether obj is a `type X = Y` alias declaration.
func (c *Checker) IsTypeAlias(sym symbols.Symbol) bool {
	obj := asObject(sym)
	tn, ok := obj.(*types.TypeName)
	return ok && tn.IsAlias()
}

// IsNamespaceOrImportAlias reports whether obj is a dot-imported or
// renamed-import package name -- Go's closest analogue of a TS namespace or
// import-equals alias.
func (c *Checker) IsNamespaceOrImportAlias(sym symbols.Symbol) bool {
	obj := asObject(sym)
	_, ok := obj.(*types.PkgName)
	return ok
}

// IsMethodOfClassOrInterface reports whether obj is a method with a
// receiver (class methods) or an interface method set entry.
func (c *Checker) IsMethodOfClassOrInterface(sym symbols.Symbol) bool {
	obj := asObject(sym)
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig, ok := fn.Type().(*types.Signature)
	return ok && sig.Recv() != nil
}

// RootSymbols returns the other methods of obj's receiver type that carry
// obj's name, Go's stand-in for TS's "symbol with multiple declaring
// roots". Promotion through embedded fields is not traced, and fields and
// non-method objects never have roots.
func (c *Checker) RootSymbols(sym symbols.Symbol) []symbols.Symbol {
	obj := asObject(sym)
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil
	}

	recvType := sig.Recv().Type()
	named, ok := underlyingNamed(recvType)
	if !ok {
		return nil
	}

	var roots []symbols.Symbol
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if m.Name() == fn.Name() && m != fn {
			roots = append(roots, c.wrapObject(m))
		}
	}
	return roots
}

func underlyingNamed(t types.Type) (*types.Named, bool) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	n, ok := t.(*types.Named)
	return n, ok
}

// IsUnknownSymbol reports whether obj is go/types' invalid-object sentinel.
func (c *Checker) IsUnknownSymbol(sym symbols.Symbol) bool {
	obj := asObject(sym)
	return obj != nil && obj.Type() == types.Typ[types.Invalid]
}

// IsUndefinedSymbol reports whether sym carries no go/types.Object at all
// (a reference the checker could not resolve).
func (c *Checker) IsUndefinedSymbol(sym symbols.Symbol) bool {
	return asObject(sym) == nil
}

// FileHasModuleSymbol reports whether file belongs to a real loaded
// package's scope (module regime) as opposed to the universe/predeclared
// scope (global regime).
func (c *Checker) FileHasModuleSymbol(file string) bool {
	_, ok := c.fileToPackage[file]
	return ok
}

// --- visibility.TypeSystem ---

func (c *Checker) CallSignatures(t visibility.Type) []visibility.Signature {
	gt, ok := t.(GoType)
	if !ok {
		return nil
	}
	sig, ok := gt.T.Underlying().(*types.Signature)
	if !ok {
		return nil
	}
	return []visibility.Signature{Signature{Sig: sig, reg: c.reg}}
}

// ConstructSignatures has no Go analogue (Go has no `new`-able construct
// signatures distinct from calls); always empty.
func (c *Checker) ConstructSignatures(t visibility.Type) []visibility.Signature {
	return nil
}

// UnionOrIntersectionConstituents has no Go analogue prior to generics'
// constraint unions; interface type-set elements are exposed instead via
// BaseTypes, so this always reports ok=false.
func (c *Checker) UnionOrIntersectionConstituents(t visibility.Type) ([]visibility.Type, bool) {
	return nil, false
}

func (c *Checker) BaseTypes(t visibility.Type) []visibility.Type {
	gt, ok := t.(GoType)
	if !ok {
		return nil
	}

	switch u := gt.T.Underlying().(type) {
	case *types.Interface:
		var out []visibility.Type
		for i := 0; i < u.NumEmbeddeds(); i++ {
			out = append(out, c.reg.Wrap(u.EmbeddedType(i)))
		}
		return out
	case *types.Struct:
		var out []visibility.Type
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			if f.Embedded() {
				out = append(out, c.reg.Wrap(f.Type()))
			}
		}
		return out
	default:
		return nil
	}
}

func (c *Checker) TypeArguments(t visibility.Type) []visibility.Type {
	gt, ok := t.(GoType)
	if !ok {
		return nil
	}
	if tuple, ok := gt.T.(*types.Tuple); ok {
		out := make([]visibility.Type, 0, tuple.Len())
		for i := 0; i < tuple.Len(); i++ {
			out = append(out, c.reg.Wrap(tuple.At(i).Type()))
		}
		return out
	}
	named, ok := gt.T.(*types.Named)
	if !ok {
		return nil
	}
	args := named.TypeArgs()
	if args == nil {
		return nil
	}
	out := make([]visibility.Type, 0, args.Len())
	for i := 0; i < args.Len(); i++ {
		out = append(out, c.reg.Wrap(args.At(i)))
	}
	return out
}

// ConditionalParts has no Go analogue; always ok=false.
func (c *Checker) ConditionalParts(t visibility.Type) (check, extends, trueT, falseT visibility.Type, ok bool) {
	return nil, nil, nil, nil, false
}

func (c *Checker) Members(t visibility.Type) []symbols.Symbol {
	gt, ok := t.(GoType)
	if !ok {
		return nil
	}

	var out []symbols.Symbol
	switch u := gt.T.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			out = append(out, c.wrapObject(u.Field(i)))
		}
	case *types.Interface:
		for i := 0; i < u.NumExplicitMethods(); i++ {
			out = append(out, c.wrapObject(u.ExplicitMethod(i)))
		}
	}

	if named, ok := gt.T.(*types.Named); ok {
		for i := 0; i < named.NumMethods(); i++ {
			out = append(out, c.wrapObject(named.Method(i)))
		}
	}
	return out
}

func (c *Checker) Name(sym symbols.Symbol) string {
	obj := asObject(sym)
	if obj == nil {
		return ""
	}
	return obj.Name()
}

func (c *Checker) TypeOf(sym symbols.Symbol) visibility.Type {
	obj := asObject(sym)
	if obj == nil {
		return nil
	}
	return c.reg.Wrap(obj.Type())
}

func (c *Checker) SymbolKey(sym symbols.Symbol) symbols.SymbolKey {
	return symbols.ComputeKey(c, sym)
}

// ObjectAt resolves the *types.Object an *ast.Ident refers to within pkg's
// type-checked info, the entry point the indexing driver uses to obtain a
// symbols.Symbol for each identifier it visits.
func (c *Checker) ObjectAt(pkg *packages.Package, ident *ast.Ident) (symbols.Symbol, bool) {
	if obj := pkg.TypesInfo.ObjectOf(ident); obj != nil {
		return c.wrapObject(obj), true
	}
	return nil, false
}

// TypeOfExpr resolves the static type go/types assigned to an expression,
// used by the visitor to seed visibility.Engine.Walk for exported
// declarations.
func (c *Checker) TypeOfExpr(pkg *packages.Package, expr ast.Expr) (visibility.Type, bool) {
	tv, ok := pkg.TypesInfo.Types[expr]
	if !ok || tv.Type == nil {
		return nil, false
	}
	return c.reg.Wrap(tv.Type), true
}
