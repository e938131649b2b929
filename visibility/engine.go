package visibility

import (
	"github.com/indexgraph/lsifcore/symbols"
)

// Type is an opaque handle to a checker type, used only as a traversal
// cursor; all structural queries go through TypeSystem.
type Type interface {
	TypeID() uintptr
}

// Signature is a call or construct signature.
type Signature interface {
	Parameters() []Type
	Return() Type
}

// TypeSystem is the subset of the external semantic-analyser contract
// the visibility engine needs to walk a type graph.
type TypeSystem interface {
	CallSignatures(t Type) []Signature
	ConstructSignatures(t Type) []Signature
	// UnionOrIntersectionConstituents returns the constituent types of a
	// union or intersection type, or ok=false if t is neither.
	UnionOrIntersectionConstituents(t Type) (parts []Type, ok bool)
	// BaseTypes returns interface base types or class extends types.
	BaseTypes(t Type) []Type
	// TypeArguments returns type-reference arguments and alias-type
	// arguments.
	TypeArguments(t Type) []Type
	// ConditionalParts returns the four parts of a conditional type, or
	// ok=false if t is not a conditional type.
	ConditionalParts(t Type) (checkType, extendsType, trueType, falseType Type, ok bool)
	// Members returns declared children reachable via `exports` and
	// `members`, skipping the prototype and type-parameter pseudo-members.
	Members(t Type) []symbols.Symbol
	Name(sym symbols.Symbol) string
	TypeOf(sym symbols.Symbol) Type
	SymbolKey(sym symbols.Symbol) symbols.SymbolKey
}

// Upgrader is how the engine reads and proposes changes to a symbol's
// current visibility; the symbol-data store implements this.
type Upgrader interface {
	CurrentVisibility(key symbols.SymbolKey) Visibility
	Upgrade(key symbols.SymbolKey, to Visibility) Visibility
}

// Engine performs the reachability traversal over a type's exported surface.
type Engine struct {
	ts       TypeSystem
	upgrader Upgrader

	seenSymbol map[symbols.SymbolKey]struct{}
	seenType   map[uintptr]struct{}
	results    []ExportPathResult
}

// NewEngine returns a traversal engine.
func NewEngine(ts TypeSystem, upgrader Upgrader) *Engine {
	return &Engine{ts: ts, upgrader: upgrader}
}

// Walk starts a reachability traversal at an exported symbol or its type
// and returns the ordered list of (symbol, attachedExportPath) pairs
// discovered. basePath is the export path of the root symbol.
func (e *Engine) Walk(t Type, basePath string, flow FlowMode) []ExportPathResult {
	e.seenSymbol = map[symbols.SymbolKey]struct{}{}
	e.seenType = map[uintptr]struct{}{}
	e.results = nil

	e.walkType(t, basePath, PolarityPositive, flow)

	return e.results
}

// walkType is the recursive traversal step. Every type is walked at most
// once per Walk call: the first visit (however it was reached — as a
// member's type, a signature parameter/return, a base type, ...) fully
// explores it, including its own call/construct signatures, so a later
// visit via any other path — including a self-referential signature, e.g.
// Go's `type stateFn func(*lexer) stateFn` idiom — has nothing left to
// discover and must be skipped to terminate.
func (e *Engine) walkType(t Type, path string, polarity Polarity, flow FlowMode) {
	if t == nil {
		return
	}

	id := t.TypeID()
	if _, seen := e.seenType[id]; seen {
		return
	}
	e.seenType[id] = struct{}{}

	e.walkMembers(t, path, polarity, flow)
	e.walkSignatures(t, path, polarity, flow)
	e.walkUnionIntersection(t, path, polarity, flow)
	e.walkBaseTypes(t, path, polarity, flow)
	e.walkTypeArguments(t, path, polarity, flow)
	e.walkConditional(t, path, polarity, flow)
}

func (e *Engine) walkMembers(t Type, path string, polarity Polarity, flow FlowMode) {
	for _, child := range e.ts.Members(t) {
		key := e.ts.SymbolKey(child)
		if _, seen := e.seenSymbol[key]; seen {
			continue
		}
		e.seenSymbol[key] = struct{}{}

		childPath := joinPath(path, e.ts.Name(child))

		if flow == FlowExported && polarity == PolarityPositive {
			cur := e.upgrader.CurrentVisibility(key)
			if cur != Exported && cur != IndirectExported {
				e.upgrader.Upgrade(key, IndirectExported)
			}
			e.results = append(e.results, ExportPathResult{SymbolKey: key, AttachedExport: childPath})
		} else if e.upgrader.CurrentVisibility(key) == Unknown {
			e.upgrader.Upgrade(key, IndirectExported)
		}

		e.walkType(e.ts.TypeOf(child), childPath, polarity, flow)
	}
}

func (e *Engine) walkSignatures(t Type, path string, polarity Polarity, flow FlowMode) {
	sigs := append(append([]Signature{}, e.ts.CallSignatures(t)...), e.ts.ConstructSignatures(t)...)
	for _, sig := range sigs {
		for _, p := range sig.Parameters() {
			// Parameter positions reverse polarity.
			e.walkType(p, path, polarity.Reversed(), flow)
		}
		// Return positions keep polarity.
		e.walkType(sig.Return(), path, polarity, flow)
	}
}

func (e *Engine) walkUnionIntersection(t Type, path string, polarity Polarity, flow FlowMode) {
	parts, ok := e.ts.UnionOrIntersectionConstituents(t)
	if !ok {
		return
	}
	for _, p := range parts {
		e.walkType(p, path, polarity, flow)
	}
}

func (e *Engine) walkBaseTypes(t Type, path string, polarity Polarity, flow FlowMode) {
	for _, b := range e.ts.BaseTypes(t) {
		e.walkType(b, path, polarity, flow)
	}
}

func (e *Engine) walkTypeArguments(t Type, path string, polarity Polarity, flow FlowMode) {
	for _, a := range e.ts.TypeArguments(t) {
		e.walkType(a, path, polarity, flow)
	}
}

func (e *Engine) walkConditional(t Type, path string, polarity Polarity, flow FlowMode) {
	checkType, extendsType, trueType, falseType, ok := e.ts.ConditionalParts(t)
	if !ok {
		return
	}
	for _, p := range []Type{checkType, extendsType, trueType, falseType} {
		e.walkType(p, path, polarity, flow)
	}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
