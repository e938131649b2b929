package indexer

import (
	"github.com/indexgraph/lsifcore/gocheck"
	"github.com/indexgraph/lsifcore/graph"
)

// hoverMarkedStrings adapts a gocheck.Hover into the graph package's
// MarkedString shape, the hoverResult vertex's content type.
func hoverMarkedStrings(h gocheck.Hover) []graph.MarkedString {
	out := make([]graph.MarkedString, 0, len(h.Contents))
	for _, c := range h.Contents {
		out = append(out, graph.MarkedString{Language: c.Language, Value: c.Value})
	}
	return out
}

// convertDiagnostic adapts a gocheck.Diagnostic (already 0-based, per-file)
// into a graph.Diagnostic carrying a zero-width range at its reported
// position -- go/packages errors report a single point, not a span.
func convertDiagnostic(diag gocheck.Diagnostic) graph.Diagnostic {
	d := graph.Diagnostic{
		Severity: graph.DiagnosticSeverity(diag.Severity),
		Message:  diag.Message,
	}
	d.Range.Start = graph.Pos{Line: diag.Line, Character: diag.Character}
	d.Range.End = graph.Pos{Line: diag.Line, Character: diag.Character}
	return d
}

// convertFolding adapts a gocheck.FoldingRange to its graph package
// equivalent.
func convertFolding(fr gocheck.FoldingRange) graph.FoldingRange {
	return graph.FoldingRange{
		StartLine:      fr.StartLine,
		StartCharacter: fr.StartCharacter,
		EndLine:        fr.EndLine,
		EndCharacter:   fr.EndCharacter,
		Kind:           graph.FoldingRangeKind(fr.Kind),
	}
}
