package linker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indexgraph/lsifcore/graph"
	"github.com/indexgraph/lsifcore/moniker"
)

// fakeEmitter records every call Link makes so tests can assert on the
// resulting moniker/attach/packageInformation graph shape without a real
// indexing Emitter.
type fakeEmitter struct {
	nextID           int
	monikers         []fakeMoniker
	attaches         [][2]graph.ID
	packageInfos     []fakePackageInfo
	packageInfoEdges [][2]graph.ID
}

type fakeMoniker struct {
	id         graph.ID
	scheme     string
	identifier string
	unique     graph.MonikerUnique
	kind       graph.MonikerKind
}

type fakePackageInfo struct {
	id      graph.ID
	name    string
	manager string
	version string
}

func (f *fakeEmitter) alloc() graph.ID {
	f.nextID++
	return graph.ID(string(rune('a' + f.nextID)))
}

func (f *fakeEmitter) EmitMoniker(scheme, identifier string, unique graph.MonikerUnique, kind graph.MonikerKind) graph.ID {
	id := f.alloc()
	f.monikers = append(f.monikers, fakeMoniker{id, scheme, identifier, unique, kind})
	return id
}

func (f *fakeEmitter) EmitAttach(outV, inV graph.ID) graph.ID {
	f.attaches = append(f.attaches, [2]graph.ID{outV, inV})
	return f.alloc()
}

func (f *fakeEmitter) EmitPackageInformation(name, manager, version string) graph.ID {
	id := f.alloc()
	f.packageInfos = append(f.packageInfos, fakePackageInfo{id, name, manager, version})
	return id
}

func (f *fakeEmitter) EmitPackageInformationEdge(outV, inV graph.ID) graph.ID {
	f.packageInfoEdges = append(f.packageInfoEdges, [2]graph.ID{outV, inV})
	return f.alloc()
}

func writeVendorModule(t *testing.T, vendorRoot, modulePath string) {
	t.Helper()

	dir := filepath.Join(vendorRoot, modulePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %s", err)
	}
	content := "module " + modulePath + "\n\ngo 1.20\n"
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile go.mod: %s", err)
	}
}

func TestLinkResolvesVendoredPackage(t *testing.T) {
	vendorRoot := t.TempDir()
	writeVendorModule(t, vendorRoot, "github.com/pkg/errors")
	if err := os.WriteFile(filepath.Join(vendorRoot, "modules.txt"), []byte("# github.com/pkg/errors v0.9.1\n## explicit\ngithub.com/pkg/errors\n"), 0o644); err != nil {
		t.Fatalf("WriteFile modules.txt: %s", err)
	}

	l := New(vendorRoot)
	e := &fakeEmitter{}

	identifier := moniker.Create("Wrap", "github.com/pkg/errors")
	warnings := l.Link(e, []ImportMoniker{{ID: graph.ID("r1"), Identifier: identifier}})

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if len(e.monikers) != 1 || e.monikers[0].scheme != packageScheme || e.monikers[0].kind != graph.KindImport {
		t.Fatalf("expected one package-scheme import moniker, got %+v", e.monikers)
	}
	if len(e.packageInfos) != 1 || e.packageInfos[0].name != "github.com/pkg/errors" || e.packageInfos[0].version != "v0.9.1" {
		t.Fatalf("expected one packageInformation vertex for the resolved module, got %+v", e.packageInfos)
	}
	if len(e.attaches) != 1 || e.attaches[0][0] != graph.ID("r1") {
		t.Fatalf("expected an attach edge from the original import moniker, got %v", e.attaches)
	}
}

func TestLinkCachesPackageInformationAcrossSymbolsInSameModule(t *testing.T) {
	vendorRoot := t.TempDir()
	writeVendorModule(t, vendorRoot, "github.com/pkg/errors")

	l := New(vendorRoot)
	e := &fakeEmitter{}

	monikers := []ImportMoniker{
		{ID: graph.ID("r1"), Identifier: moniker.Create("Wrap", "github.com/pkg/errors")},
		{ID: graph.ID("r2"), Identifier: moniker.Create("New", "github.com/pkg/errors")},
	}
	l.Link(e, monikers)

	if len(e.packageInfos) != 1 {
		t.Fatalf("expected the packageInformation vertex to be reused across symbols in the same module, got %d", len(e.packageInfos))
	}
	if len(e.packageInfoEdges) != 2 {
		t.Fatalf("expected a packageInformation edge per resolved moniker, got %d", len(e.packageInfoEdges))
	}
}

func TestLinkResolvesStandardLibrary(t *testing.T) {
	l := New(t.TempDir())
	e := &fakeEmitter{}

	identifier := moniker.Create("Println", "fmt")
	l.Link(e, []ImportMoniker{{ID: graph.ID("r1"), Identifier: identifier}})

	if len(e.packageInfos) != 1 || e.packageInfos[0].name != stdlibModule {
		t.Fatalf("expected the stdlib sentinel module, got %+v", e.packageInfos)
	}
}

func TestLinkWarnsWhenManifestNotFound(t *testing.T) {
	l := New(t.TempDir())
	e := &fakeEmitter{}

	identifier := moniker.Create("Foo", "example.com/totally/unvendored")
	warnings := l.Link(e, []ImportMoniker{{ID: graph.ID("r1"), Identifier: identifier}})

	if len(warnings) != 1 {
		t.Fatalf("expected one warning for an unresolvable manifest, got %v", warnings)
	}
	if len(e.monikers) != 0 {
		t.Fatalf("expected no package moniker to be emitted when resolution fails, got %+v", e.monikers)
	}
}

func TestLinkFallsBackToClosestModuleByEditDistance(t *testing.T) {
	vendorRoot := t.TempDir()
	writeVendorModule(t, vendorRoot, "github.com/agnivade/levenshtein")

	l := New(vendorRoot)
	e := &fakeEmitter{}

	// No module's declared path prefixes this import path, but one vendored
	// module is a close edit-distance match.
	identifier := moniker.Create("ComputeDistance", "github.com/agnivade/levenstein")
	warnings := l.Link(e, []ImportMoniker{{ID: graph.ID("r1"), Identifier: identifier}})

	if len(warnings) != 0 {
		t.Fatalf("expected the fuzzy fallback to resolve the moniker, got warnings %v", warnings)
	}
	if len(e.packageInfos) != 1 || e.packageInfos[0].name != "github.com/agnivade/levenshtein" {
		t.Fatalf("expected fallback to the closest vendored module, got %+v", e.packageInfos)
	}
}

func TestLinkCachesNegativeResultPerKey(t *testing.T) {
	l := New(t.TempDir())
	e := &fakeEmitter{}

	identifier := moniker.Create("Foo", "example.com/missing")
	l.Link(e, []ImportMoniker{{ID: graph.ID("r1"), Identifier: identifier}})
	warnings := l.Link(e, []ImportMoniker{{ID: graph.ID("r2"), Identifier: identifier}})

	if len(warnings) != 1 {
		t.Fatalf("expected the cached negative result to still warn on re-entry, got %v", warnings)
	}
	if l.loaded != true {
		t.Fatalf("expected the vendor scan to have run (and not re-run) by the second Link call")
	}
}
