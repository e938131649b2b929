// Package project implements the four project-data-manager lifecycles:
// Global, DefaultLibs, Group (workspace root), and TSConfig (per-project),
// sharing one contract (begin, createDocumentData, createSymbolData,
// manageSymbolData, end).
package project

import (
	"fmt"

	"github.com/indexgraph/lsifcore/graph"
	"github.com/indexgraph/lsifcore/symboldata"
	"github.com/indexgraph/lsifcore/symbols"
	"github.com/indexgraph/lsifcore/visibility"
)

// Kind names the four manager variants.
type Kind int

const (
	KindGlobal Kind = iota
	KindDefaultLibs
	KindGroup
	KindTSConfig
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindDefaultLibs:
		return "default-libs"
	case KindGroup:
		return "group"
	default:
		return "tsconfig"
	}
}

// ParseMode controls whether a manager cooperates with the visibility engine's
// invalidation (full) or simply manages symbols on creation (referenced).
type ParseMode int

const (
	ParseReferenced ParseMode = iota
	ParseFull
)

// DataMode decides what happens to a symbol once its last watching file
// finishes: `free` ends and releases it immediately, otherwise it is
// promoted to managed so its partitions flush at manager end.
type DataMode int

const (
	DataModeFree DataMode = iota
	DataModeManaged
)

// Emitter is the subset of graph factories a manager needs to delimit its
// project/document scopes.
type Emitter interface {
	EmitProject(kind string) graph.ID
	EmitBeginEvent(scope graph.EventScope, data graph.ID) graph.ID
	EmitEndEvent(scope graph.EventScope, data graph.ID) graph.ID
}

// DocumentData is the per-file handle a manager hands back to the indexing
// driver; it carries the shard id used to tag item edges for symbols
// touched while visiting this file.
type DocumentData struct {
	URI     string
	ShardID symboldata.ShardID
}

// Manager is the shared implementation behind all four Kind variants; the
// behavioral differences are a handful of fields (Kind, ParseMode,
// DataMode) rather than four separate types.
type Manager struct {
	Kind      Kind
	ParseMode ParseMode
	DataMode  DataMode
	ProjectID symboldata.ProjectID

	store   *symboldata.Store
	emitter Emitter

	began bool
	ended bool

	documents map[string]*DocumentData
	managed   map[symbols.SymbolKey]*symboldata.SymbolData
	// watchers maps a symbol still under visibility invalidation to the
	// set of source files that have not yet finished validating it.
	watchers map[symbols.SymbolKey]map[string]struct{}
}

// NewManager constructs a manager. The indexing driver constructs all four
// kinds once per run with DataMode = DataModeManaged, so symbols stay
// resident until End; a manager built with DataModeFree releases per-file
// symbols as soon as every watching file has finished.
func NewManager(kind Kind, parseMode ParseMode, dataMode DataMode, store *symboldata.Store, emitter Emitter) *Manager {
	return &Manager{
		Kind:      kind,
		ParseMode: parseMode,
		DataMode:  dataMode,
		store:     store,
		emitter:   emitter,
		documents: map[string]*DocumentData{},
		managed:   map[symbols.SymbolKey]*symboldata.SymbolData{},
		watchers:  map[symbols.SymbolKey]map[string]struct{}{},
	}
}

// begin lazily emits the project vertex and begin-event; a manager that
// allocates nothing emits neither, per the "Lazy managers defer begin
// until the first allocation" rule.
func (m *Manager) begin() {
	if m.began {
		return
	}
	m.began = true

	projectVertexID := m.emitter.EmitProject(m.Kind.String())
	m.ProjectID = symboldata.ProjectID(projectVertexID)
	m.emitter.EmitBeginEvent(graph.ScopeProject, projectVertexID)
}

// CreateDocumentData begins a document's scope, given the already-emitted
// document vertex id for the file at uri.
func (m *Manager) CreateDocumentData(uri string, documentVertexID graph.ID) *DocumentData {
	m.begin()

	dd := &DocumentData{URI: uri, ShardID: symboldata.ShardID(documentVertexID)}
	m.documents[uri] = dd
	m.emitter.EmitBeginEvent(graph.ScopeDocument, documentVertexID)
	return dd
}

// CreateSymbolData returns this manager's project-scoped SymbolData entry
// for key, creating one if this project has not seen the symbol before.
func (m *Manager) CreateSymbolData(key symbols.SymbolKey, variant symboldata.Variant, regime symbols.ModuleRegime) *symboldata.SymbolData {
	m.begin()

	projectID := m.ProjectID
	return m.store.GetOrCreate(key, variant, projectID, regime, func(sd *symboldata.SymbolData) bool {
		return sd.ProjectID == projectID
	})
}

// ManageSymbolData registers sd so its partitions flush at manager end. If
// this manager's ParseMode is full and the symbol's visibility is still
// unknown, watchingFile is recorded as a file that must finish before the
// visibility-counter sweep can resolve it.
func (m *Manager) ManageSymbolData(sd *symboldata.SymbolData, watchingFile string, visibilityUnknown bool) {
	m.managed[sd.Key] = sd

	if m.ParseMode == ParseFull && visibilityUnknown {
		if m.watchers[sd.Key] == nil {
			m.watchers[sd.Key] = map[string]struct{}{}
		}
		m.watchers[sd.Key][watchingFile] = struct{}{}
	}
}

// FinishDocument runs the visibility-counter sweep for a file that just
// finished being visited: every symbol still unknown whose last watching
// file is now done is downgraded to internal; if DataMode is
// free its record is ended and unbound, else it remains managed until
// manager End.
func (m *Manager) FinishDocument(uri string, upgrader visibility.Upgrader) error {
	dd, ok := m.documents[uri]
	if !ok {
		return fmt.Errorf("FinishDocument: %q was never begun on this manager", uri)
	}

	for key, files := range m.watchers {
		delete(files, uri)
		if len(files) > 0 {
			continue
		}

		if upgrader.CurrentVisibility(key) == visibility.Unknown {
			upgrader.Upgrade(key, visibility.Internal)
		}
		delete(m.watchers, key)

		if m.DataMode == DataModeFree {
			if sd, ok2 := m.managed[key]; ok2 {
				if err := sd.End(); err != nil {
					return err
				}
				m.store.Unbind(key, sd)
				delete(m.managed, key)
			}
		}
	}

	m.emitter.EmitEndEvent(graph.ScopeDocument, graph.ID(dd.ShardID))
	delete(m.documents, uri)
	return nil
}

// End flushes every symbol still managed by this manager (ending their
// partitions) and unbinds them, then emits the project end event. Symbols
// already released during a FinishDocument sweep are not re-ended.
func (m *Manager) End() error {
	if m.ended {
		return nil
	}
	m.ended = true

	for key, sd := range m.managed {
		if err := sd.End(); err != nil {
			return err
		}
		m.store.Unbind(key, sd)
	}
	m.managed = map[symbols.SymbolKey]*symboldata.SymbolData{}

	if m.began {
		m.emitter.EmitEndEvent(graph.ScopeProject, graph.ID(m.ProjectID))
	}
	return nil
}
