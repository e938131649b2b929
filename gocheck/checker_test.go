package gocheck

import (
	"go/token"
	"go/types"
	"testing"
)

// buildSamplePackage hand-builds a small go/types package graph (a struct
// embedding another struct, a method with a value receiver, and an
// interface) without invoking go/packages, so these tests need no real
// source files or module resolution.
func buildSamplePackage(t *testing.T) (*types.Package, *types.Named, *types.Named) {
	t.Helper()

	pkg := types.NewPackage("example.com/sample", "sample")

	baseStruct := types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "Value", types.Typ[types.Int], false),
	}, nil)
	baseName := types.NewTypeName(token.NoPos, pkg, "Base", nil)
	base := types.NewNamed(baseName, baseStruct, nil)

	sig := types.NewSignature(types.NewVar(token.NoPos, pkg, "", types.NewPointer(base)), nil, nil, false)
	method := types.NewFunc(token.NoPos, pkg, "Describe", sig)
	base.AddMethod(method)

	outerStruct := types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "Base", base, true),
	}, nil)
	outerName := types.NewTypeName(token.NoPos, pkg, "Outer", nil)
	outer := types.NewNamed(outerName, outerStruct, nil)

	return pkg, base, outer
}

func newTestChecker() *Checker {
	return &Checker{FileSet: token.NewFileSet(), reg: NewRegistry(), fileToPackage: map[string]*types.Package{}}
}

func TestMembersReturnsStructFieldsAndMethods(t *testing.T) {
	_, base, _ := buildSamplePackage(t)
	c := newTestChecker()

	members := c.Members(c.reg.Wrap(base))
	var names []string
	for _, m := range members {
		names = append(names, c.Name(m))
	}

	wantValue, wantDescribe := false, false
	for _, n := range names {
		if n == "Value" {
			wantValue = true
		}
		if n == "Describe" {
			wantDescribe = true
		}
	}
	if !wantValue || !wantDescribe {
		t.Errorf("expected Members to surface both the field and the method, got %v", names)
	}
}

func TestBaseTypesSurfacesEmbeddedStruct(t *testing.T) {
	_, base, outer := buildSamplePackage(t)
	c := newTestChecker()

	bases := c.BaseTypes(c.reg.Wrap(outer))
	if len(bases) != 1 {
		t.Fatalf("expected exactly one embedded base type, got %d", len(bases))
	}
	got := bases[0].(GoType).T
	if got != types.Type(base) {
		t.Errorf("expected the embedded base to be %v, got %v", base, got)
	}
}

func TestIsMethodOfClassOrInterfaceDetectsReceiver(t *testing.T) {
	_, base, _ := buildSamplePackage(t)
	c := newTestChecker()

	method := base.Method(0)
	if !c.IsMethodOfClassOrInterface(c.wrapObject(method)) {
		t.Error("expected a func with a receiver to be classified as a method")
	}

	plainFunc := types.NewFunc(token.NoPos, nil, "Plain", types.NewSignature(nil, nil, nil, false))
	if c.IsMethodOfClassOrInterface(c.wrapObject(plainFunc)) {
		t.Error("expected a receiver-less func not to be classified as a method")
	}
}

func TestTypeIDStableAcrossRepeatedWraps(t *testing.T) {
	_, base, _ := buildSamplePackage(t)
	c := newTestChecker()

	a := c.reg.Wrap(base)
	b := c.reg.Wrap(base)
	if a.TypeID() != b.TypeID() {
		t.Error("expected wrapping the same types.Type twice to yield the same id")
	}

	_, _, outer := buildSamplePackage(t)
	other := c.reg.Wrap(outer)
	if other.TypeID() == a.TypeID() {
		t.Error("expected distinct types.Type values to get distinct ids")
	}
}

func TestIsUnknownSymbolDetectsInvalidType(t *testing.T) {
	c := newTestChecker()
	invalid := types.NewVar(token.NoPos, nil, "x", types.Typ[types.Invalid])
	if !c.IsUnknownSymbol(c.wrapObject(invalid)) {
		t.Error("expected a variable typed Invalid to be reported unknown")
	}
}

func TestFileHasModuleSymbol(t *testing.T) {
	c := newTestChecker()
	pkg, _, _ := buildSamplePackage(t)
	c.fileToPackage["sample.go"] = pkg

	if !c.FileHasModuleSymbol("sample.go") {
		t.Error("expected a file belonging to a loaded package to report module regime")
	}
	if c.FileHasModuleSymbol("builtin.go") {
		t.Error("expected an unknown file to report global regime")
	}
}
