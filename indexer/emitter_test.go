package indexer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/indexgraph/lsifcore/emit"
	"github.com/indexgraph/lsifcore/graph"
)

func TestEmitterWritesValidContainsAndNextEdges(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(graph.NewNumberIDGenerator(), emit.NewLineSink(&buf))

	e.EmitMetaData("file:///repo")
	projectID := e.EmitProject("group")
	docID := e.EmitDocument("file:///repo/a.go", "")
	e.EmitContains(projectID, []graph.ID{docID})

	rangeID := e.EmitRange(graph.Pos{Line: 0, Character: 0}, graph.Pos{Line: 0, Character: 3}, graph.TagDefinition)
	resultSetID := e.EmitResultSet()
	e.EmitNext(rangeID, resultSetID)
	e.EmitContains(docID, []graph.ID{rangeID})

	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %s", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 emitted elements, got %d: %q", len(lines), buf.String())
	}

	var first map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal first element: %s", err)
	}
	if first["label"] != "metaData" {
		t.Errorf("expected first element to be metaData, got %v", first["label"])
	}
}

func TestEmitterRejectsEdgeToUnemittedVertex(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an edge referencing an unemitted vertex")
		}
	}()

	var buf bytes.Buffer
	e := NewEmitter(graph.NewNumberIDGenerator(), emit.NewLineSink(&buf))
	e.EmitNext(graph.ID("999"), graph.ID("998"))
}
