package graph

import "fmt"

// kind is the coarse vertex classification used by the edge-pair table.
// Several vertex labels (the five *Result hubs) share the same allowed
// relationships, so they are grouped under resultKind variants.
type kind string

const (
	kindProject   kind = "project"
	kindDocument  kind = "document"
	kindRange     kind = "range"
	kindResultSet kind = "resultSet"
	kindMoniker   kind = "moniker"
	kindPackage   kind = "packageInformation"
	kindDeclResult kind = "declarationResult"
	kindDefResult  kind = "definitionResult"
	kindTypeDefResult kind = "typeDefinitionResult"
	kindRefResult  kind = "referenceResult"
	kindImplResult kind = "implementationResult"
	kindHoverResult   kind = "hoverResult"
	kindDocSymResult  kind = "documentSymbolResult"
	kindFoldingResult kind = "foldingRangeResult"
	kindDiagResult    kind = "diagnosticResult"
)

// edgeRule is one row of the permitted edge-pair table.
type edgeRule struct {
	out kind
	in  []kind // any of these kinds is acceptable for inV/inVs
}

// schema is the static label -> permitted (outV, inV) kind table. There is
// no per-vertex-class registration or prototype walking: every edge is
// checked against this single table by ValidateEdge.
var schema = map[EdgeLabel][]edgeRule{
	EdgeContains: {
		{out: kindProject, in: []kind{kindDocument}},
		{out: kindDocument, in: []kind{kindRange}},
	},
	EdgeNext: {
		{out: kindRange, in: []kind{kindResultSet}},
		{out: kindResultSet, in: []kind{kindResultSet}},
	},
	EdgeItem: {
		{out: kindDeclResult, in: []kind{kindRange, kindDeclResult, kindMoniker}},
		{out: kindDefResult, in: []kind{kindRange, kindDefResult, kindMoniker}},
		{out: kindTypeDefResult, in: []kind{kindRange, kindTypeDefResult, kindMoniker}},
		{out: kindRefResult, in: []kind{kindRange, kindRefResult, kindMoniker}},
		{out: kindImplResult, in: []kind{kindRange, kindImplResult, kindMoniker}},
	},
	EdgeMoniker: {
		{out: kindRange, in: []kind{kindMoniker}},
		{out: kindResultSet, in: []kind{kindMoniker}},
		{out: kindDeclResult, in: []kind{kindMoniker}},
		{out: kindDefResult, in: []kind{kindMoniker}},
		{out: kindTypeDefResult, in: []kind{kindMoniker}},
		{out: kindRefResult, in: []kind{kindMoniker}},
		{out: kindImplResult, in: []kind{kindMoniker}},
	},
	EdgeAttach:             {{out: kindMoniker, in: []kind{kindMoniker}}},
	EdgePackageInformation: {{out: kindMoniker, in: []kind{kindPackage}}},
	EdgeDeclaration:        {{out: kindRange, in: []kind{kindDeclResult}}, {out: kindResultSet, in: []kind{kindDeclResult}}},
	EdgeDefinition:         {{out: kindRange, in: []kind{kindDefResult}}, {out: kindResultSet, in: []kind{kindDefResult}}},
	EdgeTypeDefinition:     {{out: kindRange, in: []kind{kindTypeDefResult}}, {out: kindResultSet, in: []kind{kindTypeDefResult}}},
	EdgeReferences:         {{out: kindRange, in: []kind{kindRefResult}}, {out: kindResultSet, in: []kind{kindRefResult}}},
	EdgeImplementation:     {{out: kindRange, in: []kind{kindImplResult}}, {out: kindResultSet, in: []kind{kindImplResult}}},
	EdgeHover:              {{out: kindRange, in: []kind{kindHoverResult}}, {out: kindResultSet, in: []kind{kindHoverResult}}},
	EdgeDocumentSymbol:     {{out: kindDocument, in: []kind{kindDocSymResult}}},
	EdgeFoldingRange:       {{out: kindDocument, in: []kind{kindFoldingResult}}},
	EdgeDiagnostic:         {{out: kindDocument, in: []kind{kindDiagResult}}},
}

// Emitted tracks, for the purpose of validation, which ids have been seen
// and their kind, and enforces that ids are referenced only after their
// defining vertex was emitted.
type Emitted struct {
	kinds map[ID]kind
	seen  map[ID]struct{}
}

// NewEmitted returns an empty tracking set.
func NewEmitted() *Emitted {
	return &Emitted{kinds: map[ID]kind{}, seen: map[ID]struct{}{}}
}

// Observe records that a vertex with the given id and label has been
// emitted.
func (e *Emitted) Observe(id ID, label VertexLabel) {
	e.seen[id] = struct{}{}
	e.kinds[id] = vertexKind(label)
}

func vertexKind(label VertexLabel) kind {
	switch label {
	case VertexProject:
		return kindProject
	case VertexDocument:
		return kindDocument
	case VertexRange:
		return kindRange
	case VertexResultSet:
		return kindResultSet
	case VertexMoniker:
		return kindMoniker
	case VertexPackageInformation:
		return kindPackage
	case VertexDeclarationResult:
		return kindDeclResult
	case VertexDefinitionResult:
		return kindDefResult
	case VertexTypeDefinitionResult:
		return kindTypeDefResult
	case VertexReferenceResult:
		return kindRefResult
	case VertexImplementationResult:
		return kindImplResult
	case VertexHoverResult:
		return kindHoverResult
	case VertexDocumentSymbolResult:
		return kindDocSymResult
	case VertexFoldingRangeResult:
		return kindFoldingResult
	case VertexDiagnosticResult:
		return kindDiagResult
	default:
		return kind(label)
	}
}

// ValidateEdge checks one edge's outV/inV(s) against the schema table and
// against the emitted-before-referenced invariant. A non-nil error is fatal
// errors here are fatal.
func (e *Emitted) ValidateEdge(label EdgeLabel, outV ID, inVs []ID) error {
	if _, ok := e.seen[outV]; !ok {
		return fmt.Errorf("edge %s references outV %s before it was emitted", label, outV)
	}
	for _, inV := range inVs {
		if _, ok := e.seen[inV]; !ok {
			return fmt.Errorf("edge %s references inV %s before it was emitted", label, inV)
		}
	}

	rules, ok := schema[label]
	if !ok {
		return fmt.Errorf("unknown edge label %s", label)
	}

	outKind := e.kinds[outV]
	for _, rule := range rules {
		if rule.out != outKind {
			continue
		}
		for _, inV := range inVs {
			if !containsKind(rule.in, e.kinds[inV]) {
				return fmt.Errorf("edge %s: outV kind %s does not permit inV kind %s", label, outKind, e.kinds[inV])
			}
		}
		return nil
	}

	return fmt.Errorf("edge %s: no rule permits outV kind %s", label, outKind)
}

func containsKind(ks []kind, k kind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}
