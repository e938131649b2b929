// Package indexer implements the visitor/indexing driver: it walks
// checked Go source file-by-file, drives the classifier, visibility engine,
// symbol-data store, and project managers, and emits the resulting graph
// through the graph package.
package indexer

import (
	"github.com/indexgraph/lsifcore/emit"
	"github.com/indexgraph/lsifcore/graph"
	"github.com/indexgraph/lsifcore/symboldata"
)

// Emitter is the concrete graph.IDGen-backed sink wiring: it allocates ids,
// validates every edge against the graph schema before handing it to the
// configured emit.Sink, and satisfies the narrower Emitter interfaces the
// symbol-data store (symboldata.Emitter) and project managers (project.Emitter)
// each declare for themselves.
type Emitter struct {
	ids       graph.IDGenerator
	sink      emit.Sink
	validated *graph.Emitted
}

// NewEmitter wires an id generator and sink together behind schema
// validation.
func NewEmitter(ids graph.IDGenerator, sink emit.Sink) *Emitter {
	return &Emitter{ids: ids, sink: sink, validated: graph.NewEmitted()}
}

func (e *Emitter) Next() graph.ID { return e.ids.Next() }

func (e *Emitter) write(label graph.VertexLabel, v interface{}, id graph.ID) graph.ID {
	e.validated.Observe(id, label)
	e.sink.Write(v)
	return id
}

func (e *Emitter) writeEdge(label graph.EdgeLabel, v interface{}, outV graph.ID, inVs []graph.ID) {
	if err := e.validated.ValidateEdge(label, outV, inVs); err != nil {
		panic(err) // invariant violation: fatal
	}
	e.sink.Write(v)
}

// EmitMetaData allocates and writes the dump's single metaData vertex.
func (e *Emitter) EmitMetaData(projectRoot string) graph.ID {
	v := graph.NewMetaData(e, projectRoot)
	return e.write(graph.VertexMetaData, v, v.ID)
}

// EmitProject allocates and writes a project vertex of the given kind label.
func (e *Emitter) EmitProject(kind string) graph.ID {
	v := graph.NewProject(e, kind)
	return e.write(graph.VertexProject, v, v.ID)
}

// EmitDocument allocates and writes a document vertex.
func (e *Emitter) EmitDocument(uri, contents string) graph.ID {
	v := graph.NewDocument(e, uri, contents)
	return e.write(graph.VertexDocument, v, v.ID)
}

// EmitRange allocates and writes a range vertex.
func (e *Emitter) EmitRange(start, end graph.Pos, tag graph.RangeTag) graph.ID {
	v := graph.NewRange(e, start, end, tag)
	return e.write(graph.VertexRange, v, v.ID)
}

// EmitResultSet allocates and writes a resultSet vertex.
func (e *Emitter) EmitResultSet() graph.ID {
	v := graph.NewResultSet(e)
	return e.write(graph.VertexResultSet, v, v.ID)
}

// EmitDefinitionResult allocates and writes a definitionResult hub vertex.
func (e *Emitter) EmitDefinitionResult() graph.ID {
	v := graph.NewResultVertex(e, graph.VertexDefinitionResult)
	return e.write(graph.VertexDefinitionResult, v, v.ID)
}

// EmitTypeDefinitionResult allocates and writes a typeDefinitionResult hub vertex.
func (e *Emitter) EmitTypeDefinitionResult() graph.ID {
	v := graph.NewResultVertex(e, graph.VertexTypeDefinitionResult)
	return e.write(graph.VertexTypeDefinitionResult, v, v.ID)
}

// EmitReferenceResult allocates and writes a referenceResult hub vertex.
func (e *Emitter) EmitReferenceResult() graph.ID {
	v := graph.NewResultVertex(e, graph.VertexReferenceResult)
	return e.write(graph.VertexReferenceResult, v, v.ID)
}

// EmitDeclarationResult allocates and writes a declarationResult hub vertex.
func (e *Emitter) EmitDeclarationResult() graph.ID {
	v := graph.NewResultVertex(e, graph.VertexDeclarationResult)
	return e.write(graph.VertexDeclarationResult, v, v.ID)
}

// EmitImplementationResult allocates and writes an implementationResult hub vertex.
func (e *Emitter) EmitImplementationResult() graph.ID {
	v := graph.NewResultVertex(e, graph.VertexImplementationResult)
	return e.write(graph.VertexImplementationResult, v, v.ID)
}

// EmitMoniker allocates and writes a moniker vertex.
func (e *Emitter) EmitMoniker(scheme, identifier string, unique graph.MonikerUnique, kind graph.MonikerKind) graph.ID {
	v := graph.NewMoniker(e, scheme, identifier, unique, kind)
	return e.write(graph.VertexMoniker, v, v.ID)
}

// EmitHoverResult allocates and writes a hoverResult vertex.
func (e *Emitter) EmitHoverResult(contents []graph.MarkedString) graph.ID {
	v := graph.NewHoverResult(e, contents)
	return e.write(graph.VertexHoverResult, v, v.ID)
}

// EmitDiagnosticResult allocates and writes a diagnosticResult vertex.
func (e *Emitter) EmitDiagnosticResult(diagnostics []graph.Diagnostic) graph.ID {
	v := graph.NewDiagnosticResult(e, diagnostics)
	return e.write(graph.VertexDiagnosticResult, v, v.ID)
}

// EmitFoldingRangeResult allocates and writes a foldingRangeResult vertex.
func (e *Emitter) EmitFoldingRangeResult(ranges []graph.FoldingRange) graph.ID {
	v := graph.NewFoldingRangeResult(e, ranges)
	return e.write(graph.VertexFoldingRangeResult, v, v.ID)
}

// EmitDocumentSymbolResult allocates and writes a documentSymbolResult vertex.
func (e *Emitter) EmitDocumentSymbolResult(symbols []graph.RangeBasedDocumentSymbol) graph.ID {
	v := graph.NewDocumentSymbolResult(e, symbols)
	return e.write(graph.VertexDocumentSymbolResult, v, v.ID)
}

// EmitPackageInformation allocates and writes a packageInformation vertex.
func (e *Emitter) EmitPackageInformation(name, manager, version string) graph.ID {
	v := graph.NewPackageInformation(e, name, manager, version)
	return e.write(graph.VertexPackageInformation, v, v.ID)
}

// EmitBeginEvent allocates and writes a begin event for the given scope.
func (e *Emitter) EmitBeginEvent(scope graph.EventScope, data graph.ID) graph.ID {
	v := graph.NewEvent(e, graph.EventBegin, scope, data)
	return e.write(graph.VertexEvent, v, v.ID)
}

// EmitEndEvent allocates and writes an end event for the given scope.
func (e *Emitter) EmitEndEvent(scope graph.EventScope, data graph.ID) graph.ID {
	v := graph.NewEvent(e, graph.EventEnd, scope, data)
	return e.write(graph.VertexEvent, v, v.ID)
}

// EmitNext allocates and writes a next edge.
func (e *Emitter) EmitNext(outV, inV graph.ID) graph.ID {
	ed := graph.NewNext(e, outV, inV)
	e.writeEdge(graph.EdgeNext, ed, outV, []graph.ID{inV})
	return ed.ID
}

// EmitVerbEdge allocates and writes a textDocument/<verb> or moniker edge.
func (e *Emitter) EmitVerbEdge(label graph.EdgeLabel, outV, inV graph.ID) graph.ID {
	ed := graph.NewVerbEdge(e, label, outV, inV)
	e.writeEdge(label, ed, outV, []graph.ID{inV})
	return ed.ID
}

// EmitItem allocates and writes an item edge.
func (e *Emitter) EmitItem(outV graph.ID, inVs []graph.ID, shard graph.ID, property graph.ItemProperty) graph.ID {
	ed := graph.NewItem(e, outV, inVs, shard, property)
	e.writeEdge(graph.EdgeItem, ed, outV, inVs)
	return ed.ID
}

// EmitAttach allocates and writes an attach edge chaining a secondary
// moniker to a primary one.
func (e *Emitter) EmitAttach(outV, inV graph.ID) graph.ID {
	ed := graph.NewAttach(e, outV, inV)
	e.writeEdge(graph.EdgeAttach, ed, outV, []graph.ID{inV})
	return ed.ID
}

// EmitPackageInformationEdge allocates and writes a moniker -> packageInformation edge.
func (e *Emitter) EmitPackageInformationEdge(outV, inV graph.ID) graph.ID {
	ed := graph.NewPackageInformationEdge(e, outV, inV)
	e.writeEdge(graph.EdgePackageInformation, ed, outV, []graph.ID{inV})
	return ed.ID
}

// EmitContains allocates and writes one or more contains edges, splitting
// children into MaxContainsBatch-sized batches.
func (e *Emitter) EmitContains(parent graph.ID, children []graph.ID) {
	for start := 0; start < len(children); start += graph.MaxContainsBatch {
		end := start + graph.MaxContainsBatch
		if end > len(children) {
			end = len(children)
		}
		batch := children[start:end]
		ed := graph.NewContains1N(e, parent, batch)
		e.writeEdge(graph.EdgeContains, ed, parent, batch)
	}
}

// Flush drains the underlying sink.
func (e *Emitter) Flush() error { return e.sink.Flush() }

var (
	_ symboldata.Emitter = (*Emitter)(nil)
)
