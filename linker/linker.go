// Package linker implements the cross-package linker: given every
// project/group-scheme import-kind moniker the indexing driver emitted for a
// reference to a symbol declared outside the indexed packages, it resolves
// the owning module manifest and attaches a package-scheme moniker plus a
// packageInformation vertex.
package linker

import (
	"runtime"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/indexgraph/lsifcore/graph"
	"github.com/indexgraph/lsifcore/moniker"
)

// packageScheme is the moniker scheme the linker mints for the resolved
// package-level moniker it attaches to an import-kind project moniker
// (unique=scheme, kind=import).
const packageScheme = "gomod-package"

// Emitter is the subset of the indexing emitter the linker needs: minting the
// resolved package moniker, its attach edge to the original import moniker,
// and the shared packageInformation vertex.
type Emitter interface {
	EmitMoniker(scheme, identifier string, unique graph.MonikerUnique, kind graph.MonikerKind) graph.ID
	EmitAttach(outV, inV graph.ID) graph.ID
	EmitPackageInformation(name, manager, version string) graph.ID
	EmitPackageInformationEdge(outV, inV graph.ID) graph.ID
}

// ImportMoniker is a project/group-scheme import-kind moniker the indexing
// driver emitted for a reference to a symbol declared outside the loaded
// packages, awaiting linker resolution to its owning package manifest.
type ImportMoniker struct {
	ID         graph.ID
	Identifier string
}

// Linker resolves import-kind monikers against a vendor tree's module
// manifests. The manifest cache is write-once per resolved package path:
// re-entry always returns the cached result.
type Linker struct {
	vendorRoot string
	modules    []manifestEntry
	loaded     bool

	resolved       map[string]*Manifest // nil entry = cached negative result
	packageInfoIDs map[string]graph.ID
}

// New returns a Linker that resolves manifests against go.mod files nested
// under vendorRoot (typically "<projectRoot>/vendor").
func New(vendorRoot string) *Linker {
	return &Linker{
		vendorRoot:     vendorRoot,
		resolved:       map[string]*Manifest{},
		packageInfoIDs: map[string]graph.ID{},
	}
}

// Link resolves every import moniker's owning manifest, emitting a
// package-scheme moniker, an attach edge back to the original import
// moniker, and a packageInformation edge for each one it can resolve.
// Unresolved monikers are returned as warnings and never surfaced as hard
// errors: an import that can't be traced to a manifest just means a less
// precise moniker, not a broken dump.
func (l *Linker) Link(e Emitter, monikers []ImportMoniker) []string {
	var warnings []string

	for _, im := range monikers {
		parsed := moniker.Parse(im.Identifier)
		pkgPath := parsed.Path
		if pkgPath == "" {
			warnings = append(warnings, "import moniker has no package path: "+im.Identifier)
			continue
		}

		manifest, inPkgPath, ok := l.resolve(pkgPath)
		if !ok {
			warnings = append(warnings, "no module manifest found for "+pkgPath)
			continue
		}

		identifier := moniker.Create(parsed.Name, inPkgPath)
		pkgMonikerID := e.EmitMoniker(packageScheme, identifier, graph.UniqueScheme, graph.KindImport)
		e.EmitAttach(im.ID, pkgMonikerID)

		piID, ok := l.packageInfoIDs[manifest.Name]
		if !ok {
			piID = e.EmitPackageInformation(manifest.Name, "gomod", manifest.Version)
			l.packageInfoIDs[manifest.Name] = piID
		}
		e.EmitPackageInformationEdge(pkgMonikerID, piID)
	}

	return warnings
}

// resolve finds the manifest owning pkgPath and the path remaining inside
// that module once its module-path prefix is stripped.
func (l *Linker) resolve(pkgPath string) (Manifest, string, bool) {
	if cached, ok := l.resolved[pkgPath]; ok {
		if cached == nil {
			return Manifest{}, "", false
		}
		return *cached, strings.TrimPrefix(strings.TrimPrefix(pkgPath, cached.Name), "/"), true
	}

	manifest, ok := l.lookup(pkgPath)
	if !ok {
		l.resolved[pkgPath] = nil
		return Manifest{}, "", false
	}

	l.resolved[pkgPath] = &manifest
	return manifest, strings.TrimPrefix(strings.TrimPrefix(pkgPath, manifest.Name), "/"), true
}

func (l *Linker) lookup(pkgPath string) (Manifest, bool) {
	if isStandardLibraryPackage(pkgPath) {
		return Manifest{Name: stdlibModule, Version: runtime.Version()}, true
	}

	if !l.loaded {
		l.loaded = true
		l.modules = discoverVendorModules(l.vendorRoot)
	}

	if best, ok := longestPrefixMatch(l.modules, pkgPath); ok {
		return Manifest{Name: best.path, Version: best.version}, true
	}

	// No module's declared path covers pkgPath exactly (e.g. the vendor
	// layout doesn't line up 1:1 with the import graph); fall back to the
	// closest declared module path by edit distance, mirroring how
	// gomod/module_name.go must disambiguate nested modules when an exact
	// repo-root match isn't available.
	if closest, ok := closestByEditDistance(l.modules, pkgPath); ok {
		return Manifest{Name: closest.path, Version: closest.version}, true
	}

	return Manifest{}, false
}

// longestPrefixMatch returns the module whose declared path is a
// segment-boundary prefix of pkgPath, preferring the longest (most
// specific) match among candidates (e.g. a nested replace module shadowing
// its parent).
func longestPrefixMatch(modules []manifestEntry, pkgPath string) (manifestEntry, bool) {
	var best manifestEntry
	found := false
	for _, m := range modules {
		if m.path != pkgPath && !strings.HasPrefix(pkgPath, m.path+"/") {
			continue
		}
		if !found || len(m.path) > len(best.path) {
			best, found = m, true
		}
	}
	return best, found
}

func closestByEditDistance(modules []manifestEntry, pkgPath string) (manifestEntry, bool) {
	var closest manifestEntry
	found := false
	bestDist := -1
	for _, m := range modules {
		d := levenshtein.ComputeDistance(m.path, pkgPath)
		if !found || d < bestDist {
			bestDist, closest, found = d, m, true
		}
	}
	return closest, found
}
