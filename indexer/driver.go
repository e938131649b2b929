package indexer

import (
	"encoding/base64"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/indexgraph/lsifcore/gocheck"
	"github.com/indexgraph/lsifcore/graph"
	"github.com/indexgraph/lsifcore/linker"
	"github.com/indexgraph/lsifcore/moniker"
	"github.com/indexgraph/lsifcore/project"
	"github.com/indexgraph/lsifcore/symboldata"
	"github.com/indexgraph/lsifcore/symbols"
	"github.com/indexgraph/lsifcore/visibility"
)

// monikerScheme is the fixed moniker scheme this checker adapter emits,
// analogous to a Go module's package-path prefix in npm-equivalent
// cross-repository monikers minted by the cross-package linker.
const monikerScheme = "gomod"

// MonikerMode mirrors the --moniker CLI option: strict mode
// fails the run when an exported symbol has no computable export path,
// lenient mode surfaces a warning and leaves the symbol with a local moniker.
type MonikerMode int

const (
	MonikerLenient MonikerMode = iota
	MonikerStrict
)

// Driver is the visitor/indexing driver: it walks every loaded package's
// syntax tree, classifies each identifier's symbol, drives the visibility
// engine, symbol-data store and project managers, and emits the resulting
// graph.
type Driver struct {
	checker     *gocheck.Checker
	emitter     *Emitter
	projectRoot string
	monikerMode MonikerMode

	store     *symboldata.Store
	upgrader  *symboldata.VisibilityAdapter
	visEngine *visibility.Engine

	// global holds multi-root, transient, and universe-scope symbols --
	// regardless of which file references them -- since those symbols have
	// no single owning project. defaultLibs holds every symbol declared in
	// a package this driver never visited directly (the standard library or
	// a vendored dependency). group and tsconfig split the driver's own
	// workspace: tsconfig is the module actually being indexed (full parse,
	// managed data, the Go analogue of "the project currently open"),
	// group is every other module sharing the workspace (e.g. a go.work
	// sibling) referenced only for type information.
	global      *project.Manager
	defaultLibs *project.Manager
	group       *project.Manager
	tsconfig    *project.Manager

	loadedPkgPaths map[string]struct{}

	// typeDefLocs records the definition site of every named type and
	// method declaration, keyed by its go/types.Object identity, so
	// indexImplementations can correlate interfaces to their implementers
	// without a second AST pass.
	typeDefLocs map[types.Object]implLoc

	documents      map[string]*documentState
	warnings       []string
	importMonikers []linker.ImportMoniker

	// EmbedContents, when true, base64-encodes each document's source body
	// into its document vertex instead of leaving it empty.
	EmbedContents bool
}

type documentState struct {
	uri        string
	file       string
	documentID graph.ID
	data       *project.DocumentData
	rangeIDs   []graph.ID
	inProject  bool
	mgr        *project.Manager

	pkg    *packages.Package
	syntax *ast.File

	// definitionRanges maps a definition identifier's position to its
	// already-emitted range vertex, consumed by buildDocumentSymbols to
	// assemble this document's range-based symbol tree.
	definitionRanges map[token.Pos]graph.ID
}

// NewDriver wires a Driver around a loaded Checker and an output Emitter.
func NewDriver(checker *gocheck.Checker, emitter *Emitter, projectRoot string, monikerMode MonikerMode) *Driver {
	store := symboldata.NewStore(emitter)
	upgrader := &symboldata.VisibilityAdapter{Store: store}

	loadedPkgPaths := map[string]struct{}{}
	for _, pkg := range checker.Packages {
		loadedPkgPaths[pkg.PkgPath] = struct{}{}
	}

	return &Driver{
		checker:        checker,
		emitter:        emitter,
		projectRoot:    projectRoot,
		monikerMode:    monikerMode,
		store:          store,
		upgrader:       upgrader,
		visEngine:      visibility.NewEngine(checker, upgrader),
		global:         project.NewManager(project.KindGlobal, project.ParseReferenced, project.DataModeManaged, store, emitter),
		defaultLibs:    project.NewManager(project.KindDefaultLibs, project.ParseReferenced, project.DataModeManaged, store, emitter),
		group:          project.NewManager(project.KindGroup, project.ParseReferenced, project.DataModeManaged, store, emitter),
		tsconfig:       project.NewManager(project.KindTSConfig, project.ParseFull, project.DataModeManaged, store, emitter),
		loadedPkgPaths: loadedPkgPaths,
		typeDefLocs:    map[types.Object]implLoc{},
		documents:      map[string]*documentState{},
	}
}

// Warnings returns lenient-mode moniker warnings collected during Index,
// together with any cross-package linker resolution warnings.
func (d *Driver) Warnings() []string { return d.warnings }

// Index runs the full driver orchestration sequence: emit metadata, emit
// documents, index every identifier's definition/reference, correlate
// interface implementations, run the visibility sweep per document, end
// every manager, and flush the sink.
func (d *Driver) Index() error {
	d.emitter.EmitMetaData("file://" + d.projectRoot)

	d.emitDocuments()
	if err := d.indexIdentifiers(); err != nil {
		return err
	}
	d.indexImplementations()

	for file := range d.documents {
		if err := d.finishDocument(file); err != nil {
			return err
		}
	}
	for _, mgr := range []*project.Manager{d.global, d.tsconfig, d.group, d.defaultLibs} {
		if err := mgr.End(); err != nil {
			return err
		}
	}

	d.warnings = append(d.warnings, linker.New(d.projectRoot+"/vendor").Link(d.emitter, d.importMonikers)...)

	return d.emitter.Flush()
}

// documentManagerFor picks the project manager that owns a document: files
// outside the project root are DefaultLibs; the main module's own files are
// TSConfig; any other in-workspace module (e.g. a go.work sibling) is Group.
func (d *Driver) documentManagerFor(pkg *packages.Package, inProject bool) *project.Manager {
	if !inProject {
		return d.defaultLibs
	}
	if pkg.Module != nil && pkg.Module.Main {
		return d.tsconfig
	}
	return d.group
}

// symbolManagerFor picks the project manager that owns a symbol's data.
// Multi-root, transient, and global-regime symbols have no single owning
// document, so they always route to Global regardless of which document
// references them; an externally-declared symbol routes to DefaultLibs; any
// other symbol follows its occurrence's document manager.
func (d *Driver) symbolManagerFor(classification symbols.Classification, doc *documentState, external bool) *project.Manager {
	if external {
		return d.defaultLibs
	}
	switch classification.Factory {
	case symbols.FactoryRoots, symbols.FactoryTransient:
		return d.global
	}
	if classification.Regime == symbols.RegimeGlobal {
		return d.global
	}
	return doc.mgr
}

// emitDocuments emits a document vertex (and begins its manager scope) for
// every compiled file across every loaded package, skipping files the
// standard library itself provides.
func (d *Driver) emitDocuments() {
	for _, pkg := range d.checker.Packages {
		syntaxByFile := map[string]*ast.File{}
		for _, f := range pkg.Syntax {
			syntaxByFile[pkg.Fset.Position(f.Pos()).Filename] = f
		}

		for _, file := range pkg.CompiledGoFiles {
			if _, ok := d.documents[file]; ok {
				continue
			}
			if d.checker.IsHostLibraryFile(file) {
				continue
			}

			inProject := strings.HasPrefix(file, d.projectRoot)
			uri := "file://" + file
			documentID := d.emitter.EmitDocument(uri, d.contentsFor(file))

			mgr := d.documentManagerFor(pkg, inProject)
			data := mgr.CreateDocumentData(uri, documentID)

			d.documents[file] = &documentState{
				uri: uri, file: file, documentID: documentID, data: data, inProject: inProject,
				mgr: mgr, pkg: pkg, syntax: syntaxByFile[file],
				definitionRanges: map[token.Pos]graph.ID{},
			}
		}
	}
}

// contentsFor returns the base64-encoded source body for file when
// EmbedContents is set, or "" otherwise. A read failure is non-fatal: the
// document is still emitted, just without an inlined body.
func (d *Driver) contentsFor(file string) string {
	if !d.EmbedContents {
		return ""
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// indexIdentifiers walks every package's TypesInfo.Defs (declaration sites)
// and TypesInfo.Uses (reference sites), grounded in
// indexDefinitionsForPackage/indexReferencesForPackage's use of the same
// two maps rather than a hand-rolled AST walk.
func (d *Driver) indexIdentifiers() error {
	for _, pkg := range d.checker.Packages {
		for ident, obj := range pkg.TypesInfo.Defs {
			if obj == nil {
				continue
			}
			if err := d.indexOccurrence(pkg, ident, obj, true); err != nil {
				return err
			}
		}
		for ident, obj := range pkg.TypesInfo.Uses {
			if obj == nil {
				continue
			}
			if err := d.indexOccurrence(pkg, ident, obj, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Driver) indexOccurrence(pkg *packages.Package, ident *ast.Ident, obj types.Object, isDef bool) error {
	pos := pkg.Fset.Position(obj.Pos())
	occPos := pkg.Fset.Position(ident.Pos())

	doc, ok := d.documents[occPos.Filename]
	if !ok {
		return nil
	}

	sym, ok := d.checker.ObjectAt(pkg, ident)
	if !ok {
		return nil
	}

	// A symbol declared in a package this driver never visited (the
	// standard library or a vendored dependency) is owned by the DefaultLibs
	// manager regardless of which file the occurrence itself sits in. Such
	// a file is never its own Document, but symbols it declares are still
	// managed the first time a visited file references them.
	external := d.isExternalSymbol(obj)
	classification := symbols.Classify(d.checker, sym)
	symMgr := d.symbolManagerFor(classification, doc, external)

	sd := symMgr.CreateSymbolData(classification.Key, variantFor(classification.Factory), classification.Regime)
	d.configureVariant(sd, sym, classification.Factory)
	sd.Begin(d.emitter)

	startLine, startChar := occPos.Line-1, occPos.Column-1
	endChar := startChar + len(ident.Name)
	rangeID := d.emitter.EmitRange(
		graph.Pos{Line: startLine, Character: startChar},
		graph.Pos{Line: startLine, Character: endChar},
		rangeTag(isDef),
	)
	doc.rangeIDs = append(doc.rangeIDs, rangeID)
	d.emitter.EmitNext(rangeID, sd.ResultSetID())

	shard := doc.data.ShardID
	if isDef {
		if err := sd.AddDefinition(d.emitter, shard, rangeID, symboldata.DefinitionInfo{
			File:  pos.Filename,
			Start: int(obj.Pos()),
			End:   int(obj.Pos()) + len(obj.Name()),
		}); err != nil {
			return err
		}
		if err := d.attachMonikerIfExported(sd, sym, obj); err != nil {
			return err
		}

		doc.definitionRanges[obj.Pos()] = rangeID
		if isImplementationCandidate(obj) {
			d.typeDefLocs[obj] = implLoc{resultSetID: sd.ResultSetID(), rangeID: rangeID, shard: shard}
		}

		if hover := d.checker.Hover(pkg, obj); len(hover.Contents) > 0 {
			sd.EnsureHoverResult(d.emitter, hoverMarkedStrings(hover))
		}
	} else {
		if err := sd.AddReference(d.emitter, shard, rangeID); err != nil {
			return err
		}
		if external {
			d.attachImportMonikerIfNeeded(sd, obj)
		}
	}

	symMgr.ManageSymbolData(sd, doc.uri, sd.Visibility == visibility.Unknown)
	return nil
}

// isImplementationCandidate reports whether obj is a declaration
// indexImplementations needs to know the location of: a named type, or a
// method (including an interface method, which go/types also models with a
// non-nil receiver).
func isImplementationCandidate(obj types.Object) bool {
	switch o := obj.(type) {
	case *types.TypeName:
		_, ok := o.Type().(*types.Named)
		return ok
	case *types.Func:
		sig, ok := o.Type().(*types.Signature)
		return ok && sig.Recv() != nil
	}
	return false
}

// isExternalSymbol reports whether obj belongs to a package this driver
// never loaded and visited directly -- the standard library or a vendored
// dependency referenced only for type information.
func (d *Driver) isExternalSymbol(obj types.Object) bool {
	if obj.Pkg() == nil {
		return false
	}
	_, ok := d.loadedPkgPaths[obj.Pkg().Path()]
	return !ok
}

// attachImportMonikerIfNeeded gives sd a project/group-scheme import-kind
// moniker the first time a reference to an externally-declared symbol is
// seen, queuing it for the cross-package linker to resolve against its
// owning module manifest.
func (d *Driver) attachImportMonikerIfNeeded(sd *symboldata.SymbolData, obj types.Object) {
	if sd.PrimaryMoniker() != "" {
		return
	}

	identifier := moniker.Create(qualifiedName(obj), obj.Pkg().Path())
	monikerID := d.emitter.EmitMoniker(monikerScheme, identifier, graph.UniqueGroup, graph.KindImport)
	d.emitter.EmitVerbEdge(graph.EdgeMoniker, sd.ResultSetID(), monikerID)
	sd.SetPrimaryMoniker(monikerID)

	d.importMonikers = append(d.importMonikers, linker.ImportMoniker{ID: monikerID, Identifier: identifier})
}

func rangeTag(isDef bool) graph.RangeTag {
	if isDef {
		return graph.TagDefinition
	}
	return graph.TagReference
}

func variantFor(f symbols.FactoryKind) symboldata.Variant {
	switch f {
	case symbols.FactoryRoots:
		return symboldata.VariantWithRoots
	case symbols.FactoryTransient:
		return symboldata.VariantTransient
	case symbols.FactoryTypeAlias:
		return symboldata.VariantAliasRenaming
	case symbols.FactoryAlias:
		return symboldata.VariantAliasNonRenaming
	case symbols.FactoryMethod:
		return symboldata.VariantMethod
	default:
		return symboldata.VariantStandard
	}
}

// configureVariant sets RootKeys/AliasedKey the first time a symbol's data
// is allocated; subsequent calls with the same sd are no-ops since those
// fields never change after Begin.
func (d *Driver) configureVariant(sd *symboldata.SymbolData, sym symbols.Symbol, factory symbols.FactoryKind) {
	if len(sd.RootKeys) > 0 || sd.AliasedKey != "" {
		return
	}

	switch factory {
	case symbols.FactoryRoots:
		for _, root := range d.checker.RootSymbols(sym) {
			sd.RootKeys = append(sd.RootKeys, symbols.ComputeKey(d.checker, root))
		}
	case symbols.FactoryMethod:
		if roots := d.checker.RootSymbols(sym); len(roots) == 1 {
			sd.RootKeys = []symbols.SymbolKey{symbols.ComputeKey(d.checker, roots[0])}
		}
	case symbols.FactoryAlias:
		if target, ok := aliasTarget(sym); ok {
			sd.AliasedKey = symbols.ComputeKey(d.checker, target)
		}
	}
}

// aliasTarget resolves the symbol a namespace/import alias forwards to: for
// a dot-imported or renamed package name, that is the package's own
// synthetic identity -- approximated here by re-using the PkgName object's
// own symbol, since Go has no separate "aliased declaration" object the way
// a TS `import X = require(...)` does.
func aliasTarget(sym symbols.Symbol) (symbols.Symbol, bool) {
	gs, ok := sym.(gocheck.Symbol)
	if !ok {
		return nil, false
	}
	_, ok = gs.Object.(*types.PkgName)
	if !ok {
		return nil, false
	}
	return sym, true
}

// attachMonikerIfExported gives sd a primary export moniker the first time
// an exported, package-level definition is seen, then walks its type for
// indirect-export propagation.
func (d *Driver) attachMonikerIfExported(sd *symboldata.SymbolData, sym symbols.Symbol, obj types.Object) error {
	if sd.PrimaryMoniker() != "" {
		return nil
	}
	if !obj.Exported() {
		return nil
	}
	if obj.Pkg() == nil {
		// An exported identifier with no computable export path: strict
		// mode fails the run, lenient mode warns and gives the symbol a
		// local moniker.
		if d.monikerMode == MonikerStrict {
			return fmt.Errorf("exported symbol has no computable export path: %s", obj.Name())
		}
		d.warnings = append(d.warnings, "no export path for "+obj.Name())
		localID := d.emitter.EmitMoniker(monikerScheme, string(sd.Key), graph.UniqueDocument, graph.KindLocal)
		d.emitter.EmitVerbEdge(graph.EdgeMoniker, sd.ResultSetID(), localID)
		sd.SetPrimaryMoniker(localID)
		return nil
	}
	if obj.Parent() != nil && obj.Parent() != obj.Pkg().Scope() {
		// Declared inside a function body: not reachable from outside.
		return nil
	}

	// The project/group moniker's path component is the package import path
	// (the module qualifier) rather than the symbol itself; the name
	// component is the in-package qualified name.
	name := qualifiedName(obj)
	identifier := moniker.Create(name, obj.Pkg().Path())

	// A package-level exported declaration's visibility is exported by
	// direct structural fact, not via the restricted Unknown-origin Upgrade
	// path (which only ever grants IndirectExported or Internal).
	sd.Visibility = visibility.Exported

	monikerID := d.emitter.EmitMoniker(monikerScheme, identifier, graph.UniqueGroup, graph.KindExport)
	d.emitter.EmitVerbEdge(graph.EdgeMoniker, sd.ResultSetID(), monikerID)
	sd.SetPrimaryMoniker(monikerID)

	basePath := obj.Pkg().Path() + "." + name
	d.visEngine.Walk(d.checker.TypeOf(sym), basePath, visibility.FlowExported)
	return nil
}

// qualifiedName builds the dotted in-package name the visibility engine
// extends for indirectly-exported members: Name, or ReceiverType.Name for
// a method.
func qualifiedName(obj types.Object) string {
	if fn, ok := obj.(*types.Func); ok {
		if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
			recvType := sig.Recv().Type()
			if p, ok := recvType.(*types.Pointer); ok {
				recvType = p.Elem()
			}
			if named, ok := recvType.(*types.Named); ok {
				return named.Obj().Name() + "." + obj.Name()
			}
		}
	}
	return obj.Name()
}

func (d *Driver) finishDocument(file string) error {
	doc := d.documents[file]

	d.emitter.EmitContains(doc.documentID, doc.rangeIDs)

	if doc.pkg != nil {
		d.emitDiagnostics(doc)
	}
	if doc.syntax != nil {
		d.emitFoldingRanges(doc)
		d.emitDocumentSymbols(doc)
	}

	return doc.mgr.FinishDocument(doc.uri, d.upgrader)
}

func (d *Driver) emitDiagnostics(doc *documentState) {
	var own []graph.Diagnostic
	for _, diag := range d.checker.Diagnostics(doc.pkg) {
		if diag.File != doc.file {
			continue
		}
		own = append(own, convertDiagnostic(diag))
	}
	if len(own) == 0 {
		return
	}
	diagResultID := d.emitter.EmitDiagnosticResult(own)
	d.emitter.EmitVerbEdge(graph.EdgeDiagnostic, doc.documentID, diagResultID)
}

func (d *Driver) emitFoldingRanges(doc *documentState) {
	spans := d.checker.OutliningSpans(doc.syntax)
	if len(spans) == 0 {
		return
	}
	converted := make([]graph.FoldingRange, 0, len(spans))
	for _, s := range spans {
		converted = append(converted, convertFolding(s))
	}
	foldResultID := d.emitter.EmitFoldingRangeResult(converted)
	d.emitter.EmitVerbEdge(graph.EdgeFoldingRange, doc.documentID, foldResultID)
}

func (d *Driver) emitDocumentSymbols(doc *documentState) {
	tree := buildDocumentSymbols(doc.syntax, doc.definitionRanges)
	if len(tree) == 0 {
		return
	}
	docSymResultID := d.emitter.EmitDocumentSymbolResult(tree)
	d.emitter.EmitVerbEdge(graph.EdgeDocumentSymbol, doc.documentID, docSymResultID)
}
