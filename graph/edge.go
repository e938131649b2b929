package graph

// Edge1to1 connects exactly one outV to exactly one inV.
type Edge1to1 struct {
	Element
	OutV ID `json:"outV"`
	InV  ID `json:"inV"`
}

// Edge1toN connects one outV to a batch of inVs (e.g. Project→Document
// contains edges are batched by <= 32 per edge).
type Edge1toN struct {
	Element
	OutV ID   `json:"outV"`
	InVs []ID `json:"inVs"`
}

// Item is the 1:N edge connecting a result vertex to the ranges or cascaded
// results that belong to it, tagged with the shard (document or project)
// they live in.
type Item struct {
	Element
	OutV     ID           `json:"outV"`
	InVs     []ID         `json:"inVs"`
	Shard    ID           `json:"shard"`
	Property ItemProperty `json:"property,omitempty"`
}

// MaxContainsBatch is the maximum number of inVs a single contains edge may
// carry before the caller must split it into multiple edges.
const MaxContainsBatch = 32

// IDGen is satisfied by anything that can allocate the next element id; it
// lets the New* factories below stay agnostic of the concrete generator.
type IDGen interface {
	Next() ID
}

func vertex(ids IDGen, label VertexLabel) Element {
	return Element{ID: ids.Next(), Type: "vertex", Label: string(label)}
}

func edge(ids IDGen, label EdgeLabel) Element {
	return Element{ID: ids.Next(), Type: "edge", Label: string(label)}
}

// NewRange allocates a range vertex.
func NewRange(ids IDGen, start, end Pos, tag RangeTag) *Range {
	return &Range{Element: vertex(ids, VertexRange), Start: start, End: end, Tag: tag}
}

// NewResultSet allocates a resultSet hub vertex.
func NewResultSet(ids IDGen) *ResultSet {
	return &ResultSet{Element: vertex(ids, VertexResultSet)}
}

// NewDocument allocates a document vertex.
func NewDocument(ids IDGen, uri string, contents string) *Document {
	return &Document{Element: vertex(ids, VertexDocument), URI: uri, Language: "", Contents: contents}
}

// NewProject allocates a project vertex.
func NewProject(ids IDGen, kind string) *Project {
	return &Project{Element: vertex(ids, VertexProject), Kind: kind}
}

// NewMoniker allocates a moniker vertex.
func NewMoniker(ids IDGen, scheme, identifier string, unique MonikerUnique, kind MonikerKind) *Moniker {
	return &Moniker{Element: vertex(ids, VertexMoniker), Scheme: scheme, Identifier: identifier, Unique: unique, Kind: kind}
}

// NewPackageInformation allocates a packageInformation vertex.
func NewPackageInformation(ids IDGen, name, manager, version string) *PackageInformation {
	return &PackageInformation{Element: vertex(ids, VertexPackageInformation), Name: name, Manager: manager, Version: version}
}

// NewEvent allocates a begin/end event vertex.
func NewEvent(ids IDGen, kind EventKind, scope EventScope, data ID) *Event {
	return &Event{Element: vertex(ids, VertexEvent), Scope: scope, Kind: kind, Data: data}
}

// NewMetaData allocates the dump's single metaData vertex.
func NewMetaData(ids IDGen, projectRoot string) *MetaData {
	return &MetaData{
		Element:          vertex(ids, VertexMetaData),
		Version:          "0.4.0",
		ProjectRoot:      projectRoot,
		PositionEncoding: "utf-16",
	}
}

// NewResultVertex allocates one of the per-LSP-verb result hubs.
func NewResultVertex(ids IDGen, label VertexLabel) Element {
	return vertex(ids, label)
}

// NewHoverResult allocates a hoverResult vertex carrying its contents
// directly: unlike the hub vertices, it has no item edges of its own.
func NewHoverResult(ids IDGen, contents []MarkedString) *HoverResult {
	v := &HoverResult{Element: vertex(ids, VertexHoverResult)}
	v.Result.Contents = contents
	return v
}

// NewDiagnosticResult allocates a diagnosticResult vertex for a document's
// collected diagnostics.
func NewDiagnosticResult(ids IDGen, diagnostics []Diagnostic) *DiagnosticResult {
	return &DiagnosticResult{Element: vertex(ids, VertexDiagnosticResult), Result: diagnostics}
}

// NewFoldingRangeResult allocates a foldingRangeResult vertex for a
// document's collapsible spans.
func NewFoldingRangeResult(ids IDGen, ranges []FoldingRange) *FoldingRangeResult {
	return &FoldingRangeResult{Element: vertex(ids, VertexFoldingRangeResult), Result: ranges}
}

// NewDocumentSymbolResult allocates a documentSymbolResult vertex for a
// document's range-based symbol tree.
func NewDocumentSymbolResult(ids IDGen, symbols []RangeBasedDocumentSymbol) *DocumentSymbolResult {
	return &DocumentSymbolResult{Element: vertex(ids, VertexDocumentSymbolResult), Result: symbols}
}

// NewContains1N allocates a 1:N contains edge. Callers must pre-split inVs
// into batches of at most MaxContainsBatch.
func NewContains1N(ids IDGen, parent ID, children []ID) *Edge1toN {
	return &Edge1toN{Element: edge(ids, EdgeContains), OutV: parent, InVs: children}
}

// NewNext allocates a 1:1 next edge (range/resultSet -> resultSet).
func NewNext(ids IDGen, outV, inV ID) *Edge1to1 {
	return &Edge1to1{Element: edge(ids, EdgeNext), OutV: outV, InV: inV}
}

// NewItem allocates an item edge.
func NewItem(ids IDGen, outV ID, inVs []ID, shard ID, property ItemProperty) *Item {
	return &Item{Element: edge(ids, EdgeItem), OutV: outV, InVs: inVs, Shard: shard, Property: property}
}

// NewMonikerEdge allocates a 1:1 moniker edge from a range/resultSet/result
// vertex to a moniker vertex.
func NewMonikerEdge(ids IDGen, outV, inV ID) *Edge1to1 {
	return &Edge1to1{Element: edge(ids, EdgeMoniker), OutV: outV, InV: inV}
}

// NewAttach allocates a 1:1 attach edge chaining a secondary moniker to a
// primary one.
func NewAttach(ids IDGen, outV, inV ID) *Edge1to1 {
	return &Edge1to1{Element: edge(ids, EdgeAttach), OutV: outV, InV: inV}
}

// NewPackageInformationEdge allocates a 1:1 edge from a moniker to its
// packageInformation vertex.
func NewPackageInformationEdge(ids IDGen, outV, inV ID) *Edge1to1 {
	return &Edge1to1{Element: edge(ids, EdgePackageInformation), OutV: outV, InV: inV}
}

// NewVerbEdge allocates a 1:1 textDocument/<verb> edge from a range or
// resultSet to its result vertex.
func NewVerbEdge(ids IDGen, label EdgeLabel, outV, inV ID) *Edge1to1 {
	return &Edge1to1{Element: edge(ids, label), OutV: outV, InV: inV}
}
