// Package visibility implements the indirect-export reachability engine
// it tracks the total order of visibility values and walks a type
// graph from exported roots to upgrade symbols it can reach.
package visibility

import "github.com/indexgraph/lsifcore/symbols"

// Visibility is the total order controlling whether a symbol is emitted as
// exported, indirectly exported, transient, internal, or unknown.
type Visibility int

const (
	Internal Visibility = iota + 1
	Unknown
	Transient
	IndirectExported
	Exported
)

func (v Visibility) String() string {
	switch v {
	case Internal:
		return "internal"
	case Unknown:
		return "unknown"
	case Transient:
		return "transient"
	case IndirectExported:
		return "indirectExported"
	case Exported:
		return "exported"
	default:
		return "invalid"
	}
}

// CanTransition reports whether moving from `from` to `to` is a legal
// visibility transition. Only unknown -> indirectExported and
// unknown -> internal are allowed, besides a no-op "transition" to the
// current value; every other change (including any downgrade from
// exported/indirectExported, or any change out of internal) is forbidden.
func CanTransition(from, to Visibility) bool {
	if from == to {
		return true
	}
	return from == Unknown && (to == IndirectExported || to == Internal)
}

// FlowMode controls whether a traversal step attributes new export paths
// (exported) or merely marks reachability without recording a path
// (imported).
type FlowMode int

const (
	FlowExported FlowMode = iota
	FlowImported
)

// TraverseMode tracks, per traversal step, what the engine should do.
type TraverseMode int

const (
	Done TraverseMode = iota
	NoMark
	Mark
	NoExport
	ExportPath
)

// Polarity tracks whether the current traversal position is covariant
// (return-like) or contravariant (parameter-like, reversed by function
// parameter positions).
type Polarity int

const (
	PolarityPositive Polarity = iota
	PolarityNegative
)

func (p Polarity) Reversed() Polarity {
	if p == PolarityPositive {
		return PolarityNegative
	}
	return PolarityPositive
}

// ExportPathResult pairs a symbol's data with the export path attached to
// it during traversal (empty if the symbol was only marked reachable, not
// attributed an export path).
type ExportPathResult struct {
	SymbolKey      symbols.SymbolKey
	AttachedExport string
}
