package project

import (
	"testing"

	"github.com/indexgraph/lsifcore/graph"
	"github.com/indexgraph/lsifcore/symboldata"
	"github.com/indexgraph/lsifcore/symbols"
	"github.com/indexgraph/lsifcore/visibility"
)

type fakeEmitter struct {
	ids          *graph.NumberIDGenerator
	beginEvents  []graph.EventScope
	endEvents    []graph.EventScope
	projectCalls []string
}

func newFakeEmitter() *fakeEmitter { return &fakeEmitter{ids: graph.NewNumberIDGenerator()} }

func (e *fakeEmitter) EmitProject(kind string) graph.ID {
	e.projectCalls = append(e.projectCalls, kind)
	return e.ids.Next()
}

func (e *fakeEmitter) EmitBeginEvent(scope graph.EventScope, data graph.ID) graph.ID {
	e.beginEvents = append(e.beginEvents, scope)
	return e.ids.Next()
}

func (e *fakeEmitter) EmitEndEvent(scope graph.EventScope, data graph.ID) graph.ID {
	e.endEvents = append(e.endEvents, scope)
	return e.ids.Next()
}

type fakeSymbolEmitter struct {
	ids *graph.NumberIDGenerator
}

func newFakeSymbolEmitter() *fakeSymbolEmitter { return &fakeSymbolEmitter{ids: graph.NewNumberIDGenerator()} }

func (e *fakeSymbolEmitter) EmitResultSet() graph.ID            { return e.ids.Next() }
func (e *fakeSymbolEmitter) EmitDefinitionResult() graph.ID     { return e.ids.Next() }
func (e *fakeSymbolEmitter) EmitTypeDefinitionResult() graph.ID { return e.ids.Next() }
func (e *fakeSymbolEmitter) EmitReferenceResult() graph.ID      { return e.ids.Next() }
func (e *fakeSymbolEmitter) EmitDeclarationResult() graph.ID    { return e.ids.Next() }
func (e *fakeSymbolEmitter) EmitHoverResult(contents []graph.MarkedString) graph.ID {
	return e.ids.Next()
}
func (e *fakeSymbolEmitter) EmitNext(outV, inV graph.ID) graph.ID {
	return e.ids.Next()
}
func (e *fakeSymbolEmitter) EmitVerbEdge(label graph.EdgeLabel, outV, inV graph.ID) graph.ID {
	return e.ids.Next()
}
func (e *fakeSymbolEmitter) EmitItem(outV graph.ID, inVs []graph.ID, shard graph.ID, property graph.ItemProperty) graph.ID {
	return e.ids.Next()
}

func TestBeginIsLazy(t *testing.T) {
	emitter := newFakeEmitter()
	store := symboldata.NewStore(newFakeSymbolEmitter())
	m := NewManager(KindGroup, ParseFull, DataModeFree, store, emitter)

	if m.began {
		t.Fatal("manager should not begin until first allocation")
	}
	m.CreateDocumentData("a.go", graph.ID("doc1"))
	if !m.began {
		t.Error("expected begin() to fire on first CreateDocumentData")
	}
	if len(emitter.projectCalls) != 1 || emitter.projectCalls[0] != "group" {
		t.Errorf("expected one 'group' project emission, got %+v", emitter.projectCalls)
	}
}

func TestManagedSymbolEndedAtManagerEnd(t *testing.T) {
	emitter := newFakeEmitter()
	symEmitter := newFakeSymbolEmitter()
	store := symboldata.NewStore(symEmitter)
	m := NewManager(KindTSConfig, ParseReferenced, DataModeManaged, store, emitter)

	sd := m.CreateSymbolData("k1", symboldata.VariantStandard, symbols.RegimeModule)
	sd.Begin(symEmitter)
	m.ManageSymbolData(sd, "a.go", false)

	if _, ok := store.Lookup("k1"); !ok {
		t.Error("managed-mode symbol should still be resolvable until manager end unbinds it")
	}
	if err := m.End(); err != nil {
		t.Fatalf("End: %s", err)
	}
	if _, ok := store.Lookup("k1"); ok {
		t.Error("expected manager End to unbind the managed symbol")
	}
}

func TestVisibilitySweepDowngradesUnknownToInternal(t *testing.T) {
	emitter := newFakeEmitter()
	symEmitter := newFakeSymbolEmitter()
	store := symboldata.NewStore(symEmitter)
	adapter := &symboldata.VisibilityAdapter{Store: store}

	m := NewManager(KindGroup, ParseFull, DataModeFree, store, emitter)
	sd := m.CreateSymbolData("k2", symboldata.VariantStandard, symbols.RegimeModule)
	sd.Begin(symEmitter)
	m.CreateDocumentData("a.go", graph.ID("doc1"))
	m.ManageSymbolData(sd, "a.go", true)

	if adapter.CurrentVisibility("k2") != visibility.Unknown {
		t.Fatal("expected symbol to start unknown")
	}

	if err := m.FinishDocument("a.go", adapter); err != nil {
		t.Fatalf("FinishDocument: %s", err)
	}

	// The record is unbound by now, so its visibility is read from sd itself.
	if sd.Visibility != visibility.Internal {
		t.Errorf("expected sweep to downgrade unresolved unknown symbol to internal, got %s", sd.Visibility)
	}
	if _, ok := store.Lookup("k2"); ok {
		t.Error("expected free DataMode to unbind the symbol once its last watcher finished")
	}
}

func TestVisibilitySweepWaitsForAllWatchers(t *testing.T) {
	emitter := newFakeEmitter()
	symEmitter := newFakeSymbolEmitter()
	store := symboldata.NewStore(symEmitter)
	adapter := &symboldata.VisibilityAdapter{Store: store}

	m := NewManager(KindGroup, ParseFull, DataModeFree, store, emitter)
	sd := m.CreateSymbolData("k3", symboldata.VariantStandard, symbols.RegimeModule)
	sd.Begin(symEmitter)
	m.CreateDocumentData("a.go", graph.ID("doc1"))
	m.CreateDocumentData("b.go", graph.ID("doc2"))
	m.ManageSymbolData(sd, "a.go", true)
	m.ManageSymbolData(sd, "b.go", true)

	if err := m.FinishDocument("a.go", adapter); err != nil {
		t.Fatalf("FinishDocument a.go: %s", err)
	}
	if adapter.CurrentVisibility("k3") != visibility.Unknown {
		t.Error("symbol should remain unknown while a second watcher (b.go) has not finished")
	}

	if err := m.FinishDocument("b.go", adapter); err != nil {
		t.Fatalf("FinishDocument b.go: %s", err)
	}
	if sd.Visibility != visibility.Internal {
		t.Error("symbol should downgrade once every watcher has finished")
	}
}

func TestDoubleEndIsIdempotent(t *testing.T) {
	emitter := newFakeEmitter()
	symEmitter := newFakeSymbolEmitter()
	store := symboldata.NewStore(symEmitter)
	m := NewManager(KindDefaultLibs, ParseReferenced, DataModeManaged, store, emitter)
	m.CreateDocumentData("lib.d.ts", graph.ID("doc1"))

	if err := m.End(); err != nil {
		t.Fatalf("first End: %s", err)
	}
	if err := m.End(); err != nil {
		t.Fatalf("second End should be a no-op, got error: %s", err)
	}
	if len(emitter.endEvents) != 1 {
		t.Errorf("expected exactly one project end event, got %d", len(emitter.endEvents))
	}
}
