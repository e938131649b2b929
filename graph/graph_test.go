package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNumberIDGeneratorMonotonic(t *testing.T) {
	gen := NewNumberIDGenerator()

	var ids []ID
	for i := 0; i < 5; i++ {
		ids = append(ids, gen.Next())
	}

	if diff := cmp.Diff([]ID{"1", "2", "3", "4", "5"}, ids); diff != "" {
		t.Errorf("unexpected ids (-want +got): %s", diff)
	}
}

func TestUUIDIDGeneratorUnique(t *testing.T) {
	gen := NewUUIDIDGenerator()

	seen := map[ID]struct{}{}
	for i := 0; i < 50; i++ {
		id := gen.Next()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestValidateEdgeRejectsUnemittedVertex(t *testing.T) {
	e := NewEmitted()
	e.Observe("1", VertexProject)

	if err := e.ValidateEdge(EdgeContains, "1", []ID{"2"}); err == nil {
		t.Fatal("expected error referencing unemitted vertex")
	}
}

func TestValidateEdgeRejectsWrongKindPair(t *testing.T) {
	e := NewEmitted()
	e.Observe("1", VertexProject)
	e.Observe("2", VertexProject)

	if err := e.ValidateEdge(EdgeContains, "1", []ID{"2"}); err == nil {
		t.Fatal("expected error: project->project is not a valid contains pair")
	}
}

func TestValidateEdgeAcceptsPermittedPair(t *testing.T) {
	e := NewEmitted()
	e.Observe("1", VertexProject)
	e.Observe("2", VertexDocument)

	if err := e.ValidateEdge(EdgeContains, "1", []ID{"2"}); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestValidateEdgeItemAcceptsMonikerTarget(t *testing.T) {
	e := NewEmitted()
	e.Observe("1", VertexReferenceResult)
	e.Observe("2", VertexMoniker)

	if err := e.ValidateEdge(EdgeItem, "1", []ID{"2"}); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestMoreUnique(t *testing.T) {
	if !MoreUnique(UniqueGroup, UniqueDocument) {
		t.Error("expected group to be more unique than document")
	}
	if MoreUnique(UniqueDocument, UniqueWorkspace) {
		t.Error("expected document to not be more unique than workspace")
	}
}
