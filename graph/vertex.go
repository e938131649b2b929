package graph

// VertexLabel is the kind of a vertex. The set is closed.
type VertexLabel string

const (
	VertexMetaData             VertexLabel = "metaData"
	VertexEvent                VertexLabel = "event"
	VertexSource               VertexLabel = "source"
	VertexCapabilities         VertexLabel = "capabilities"
	VertexProject              VertexLabel = "project"
	VertexRange                VertexLabel = "range"
	VertexLocation             VertexLabel = "location"
	VertexDocument             VertexLabel = "document"
	VertexMoniker              VertexLabel = "moniker"
	VertexPackageInformation   VertexLabel = "packageInformation"
	VertexResultSet            VertexLabel = "resultSet"
	VertexDocumentSymbolResult VertexLabel = "documentSymbolResult"
	VertexFoldingRangeResult   VertexLabel = "foldingRangeResult"
	VertexDocumentLinkResult   VertexLabel = "documentLinkResult"
	VertexDiagnosticResult     VertexLabel = "diagnosticResult"
	VertexDeclarationResult    VertexLabel = "declarationResult"
	VertexDefinitionResult     VertexLabel = "definitionResult"
	VertexTypeDefinitionResult VertexLabel = "typeDefinitionResult"
	VertexHoverResult          VertexLabel = "hoverResult"
	VertexReferenceResult      VertexLabel = "referenceResult"
	VertexImplementationResult VertexLabel = "implementationResult"
)

// EdgeLabel is the kind of an edge. The set is closed.
type EdgeLabel string

const (
	EdgeContains            EdgeLabel = "contains"
	EdgeNext                EdgeLabel = "next"
	EdgeItem                EdgeLabel = "item"
	EdgeMoniker             EdgeLabel = "moniker"
	EdgeAttach              EdgeLabel = "attach"
	EdgePackageInformation  EdgeLabel = "packageInformation"
	EdgeDocumentSymbol      EdgeLabel = "textDocument/documentSymbol"
	EdgeFoldingRange        EdgeLabel = "textDocument/foldingRange"
	EdgeDocumentLink        EdgeLabel = "textDocument/documentLink"
	EdgeDiagnostic          EdgeLabel = "textDocument/diagnostic"
	EdgeDefinition          EdgeLabel = "textDocument/definition"
	EdgeDeclaration         EdgeLabel = "textDocument/declaration"
	EdgeTypeDefinition      EdgeLabel = "textDocument/typeDefinition"
	EdgeHover               EdgeLabel = "textDocument/hover"
	EdgeReferences          EdgeLabel = "textDocument/references"
	EdgeImplementation      EdgeLabel = "textDocument/implementation"
)

// ItemProperty tags an item edge with the relationship it carries.
type ItemProperty string

const (
	PropertyDefinitions       ItemProperty = "definitions"
	PropertyDeclarations      ItemProperty = "declarations"
	PropertyReferences        ItemProperty = "references"
	PropertyReferenceResults  ItemProperty = "referenceResults"
	PropertyReferenceLinks    ItemProperty = "referenceLinks"
	PropertyImplResults       ItemProperty = "implementationResults"
	PropertyImplLinks         ItemProperty = "implementationLinks"
)

// EventScope names what a begin/end event delimits.
type EventScope string

const (
	ScopeProject       EventScope = "project"
	ScopeDocument      EventScope = "document"
	ScopeMonikerAttach EventScope = "monikerAttach"
)

// EventKind is begin or end.
type EventKind string

const (
	EventBegin EventKind = "begin"
	EventEnd   EventKind = "end"
)

// MonikerUnique is the uniqueness scope of a moniker identifier.
type MonikerUnique string

const (
	UniqueDocument  MonikerUnique = "document"
	UniqueProject   MonikerUnique = "project"
	UniqueGroup     MonikerUnique = "group"
	UniqueWorkspace MonikerUnique = "workspace"
	UniqueScheme    MonikerUnique = "scheme"
	UniqueGlobal    MonikerUnique = "global"
)

// uniqueRank orders MonikerUnique values from least to most unique, used to
// pick the "most-unique" moniker among a symbol's attached chain.
var uniqueRank = map[MonikerUnique]int{
	UniqueDocument:  1,
	UniqueProject:   2,
	UniqueGroup:     3,
	UniqueWorkspace: 4,
	UniqueScheme:    5,
	UniqueGlobal:    6,
}

// MoreUnique reports whether a is strictly more unique than b.
func MoreUnique(a, b MonikerUnique) bool {
	return uniqueRank[a] > uniqueRank[b]
}

// MonikerKind classifies whether a moniker names an export, an import, or a
// purely local symbol.
type MonikerKind string

const (
	KindImport MonikerKind = "import"
	KindExport MonikerKind = "export"
	KindLocal  MonikerKind = "local"
)

// RangeTag classifies the relationship a range has to its containing symbol.
type RangeTag string

const (
	TagDeclaration RangeTag = "declaration"
	TagDefinition  RangeTag = "definition"
	TagReference   RangeTag = "reference"
	TagUnknown     RangeTag = "unknown"
)

// Element is embedded by every vertex and edge.
type Element struct {
	ID    ID     `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Pos is a zero-based line/character position.
type Pos struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Vertex is the common shape of every vertex: an element plus label-specific
// payload fields carried by the concrete vertex types below.
type Vertex struct {
	Element
	Payload interface{} `json:"-"`
}

// Range is a vertex describing a span of source text.
type Range struct {
	Element
	Start Pos      `json:"start"`
	End   Pos      `json:"end"`
	Tag   RangeTag `json:"tag,omitempty"`
}

// ResultSet is an anonymous hub vertex shared by every range that resolves
// to the same symbol.
type ResultSet struct {
	Element
}

// Document is a vertex describing one source file.
type Document struct {
	Element
	URI      string `json:"uri"`
	Language string `json:"languageId"`
	Contents string `json:"contents,omitempty"`
}

// Project is a vertex describing the indexed project (one per tsconfig-style
// compilation unit).
type Project struct {
	Element
	Kind string `json:"kind"`
}

// Moniker vertex. A symbol may own multiple monikers linked by attach edges;
// the first emitted is its primary, the most-unique is preferred for
// cross-project links.
type Moniker struct {
	Element
	Scheme     string        `json:"scheme"`
	Identifier string        `json:"identifier"`
	Unique     MonikerUnique `json:"unique"`
	Kind       MonikerKind   `json:"kind,omitempty"`
}

// PackageInformation vertex.
type PackageInformation struct {
	Element
	Name       string `json:"name"`
	Manager    string `json:"manager"`
	URI        string `json:"uri,omitempty"`
	Version    string `json:"version,omitempty"`
	Repository string `json:"repository,omitempty"`
}

// Event vertex delimiting a project or document scope.
type Event struct {
	Element
	Scope EventScope `json:"scope"`
	Kind  EventKind  `json:"kind"`
	Data  ID         `json:"data"`
}

// MarkedString is a single hover content entry.
type MarkedString struct {
	Language string `json:"language,omitempty"`
	Value    string `json:"value"`
}

// HoverResult vertex.
type HoverResult struct {
	Element
	Result struct {
		Contents []MarkedString `json:"contents"`
	} `json:"result"`
}

// DiagnosticSeverity mirrors the LSP diagnostic severity scale.
type DiagnosticSeverity int

const (
	SeverityError   DiagnosticSeverity = 1
	SeverityWarning DiagnosticSeverity = 2
)

// Diagnostic is one syntactic or semantic diagnostic carried by a
// diagnosticResult vertex.
type Diagnostic struct {
	Severity DiagnosticSeverity `json:"severity"`
	Code     string             `json:"code,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
	Range    struct {
		Start Pos `json:"start"`
		End   Pos `json:"end"`
	} `json:"range"`
}

// DiagnosticResult vertex: a document's collected syntactic and semantic
// diagnostics.
type DiagnosticResult struct {
	Element
	Result []Diagnostic `json:"result"`
}

// FoldingRangeKind names the region a folding range collapses.
type FoldingRangeKind string

const (
	FoldingImports FoldingRangeKind = "imports"
	FoldingRegion  FoldingRangeKind = "region"
	FoldingComment FoldingRangeKind = "comment"
)

// FoldingRange is one collapsible span carried by a foldingRangeResult
// vertex.
type FoldingRange struct {
	StartLine      int              `json:"startLine"`
	StartCharacter int              `json:"startCharacter"`
	EndLine        int              `json:"endLine"`
	EndCharacter   int              `json:"endCharacter"`
	Kind           FoldingRangeKind `json:"kind,omitempty"`
}

// FoldingRangeResult vertex.
type FoldingRangeResult struct {
	Element
	Result []FoldingRange `json:"result"`
}

// RangeBasedDocumentSymbol is one node of a document's symbol tree: it
// refers to an already-emitted range vertex rather than repeating its own
// name/kind/location, the "range-based" shape the real LSIF spec prefers
// when a definition range already exists for the symbol.
type RangeBasedDocumentSymbol struct {
	ID       ID                         `json:"id"`
	Children []RangeBasedDocumentSymbol `json:"children,omitempty"`
}

// DocumentSymbolResult vertex.
type DocumentSymbolResult struct {
	Element
	Result []RangeBasedDocumentSymbol `json:"result"`
}

// MetaData vertex: the first element of every dump.
type MetaData struct {
	Element
	Version          string `json:"version"`
	ProjectRoot      string `json:"projectRoot"`
	PositionEncoding string `json:"positionEncoding"`
}

// resultVertex is any of the per-LSP-verb result hubs: definitionResult,
// typeDefinitionResult, declarationResult, referenceResult,
// implementationResult, documentSymbolResult, foldingRangeResult,
// documentLinkResult, diagnosticResult.
type resultVertex struct {
	Element
}
