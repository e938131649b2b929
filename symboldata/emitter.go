package symboldata

import "github.com/indexgraph/lsifcore/graph"

// Emitter is the subset of the graph package's factories the symbol-data store needs
// in order to lazily materialize resultSets, result hubs, and item edges.
// The indexing driver supplies the concrete implementation backed by
// graph.IDGen and the emitter sink.
type Emitter interface {
	EmitResultSet() graph.ID
	EmitDefinitionResult() graph.ID
	EmitTypeDefinitionResult() graph.ID
	EmitReferenceResult() graph.ID
	EmitDeclarationResult() graph.ID
	EmitHoverResult(contents []graph.MarkedString) graph.ID
	EmitNext(outV, inV graph.ID) graph.ID
	EmitItem(outV graph.ID, inVs []graph.ID, shard graph.ID, property graph.ItemProperty) graph.ID
	EmitVerbEdge(label graph.EdgeLabel, outV, inV graph.ID) graph.ID
}
