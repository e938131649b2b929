// Package symbols implements the symbol classifier: given a
// checker-supplied symbol it computes a stable SymbolKey and picks the
// factory kind and module regime that drive the rest of the pipeline.
package symbols

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
)

// ModuleRegime classifies where a symbol lives.
type ModuleRegime int

const (
	RegimeUnknown ModuleRegime = iota
	RegimeModule
	RegimeGlobal
)

func (r ModuleRegime) String() string {
	switch r {
	case RegimeModule:
		return "module"
	case RegimeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// FactoryKind is one of the six symbol-data factories.
// Selection order when classifying is exactly the order of these constants.
type FactoryKind int

const (
	FactoryRoots FactoryKind = iota
	FactoryTransient
	FactoryTypeAlias
	FactoryAlias
	FactoryMethod
	FactoryStandard
)

func (f FactoryKind) String() string {
	switch f {
	case FactoryRoots:
		return "roots"
	case FactoryTransient:
		return "transient"
	case FactoryTypeAlias:
		return "type-alias"
	case FactoryAlias:
		return "alias"
	case FactoryMethod:
		return "method"
	default:
		return "standard"
	}
}

// Declaration identifies one declaration site of a symbol.
type Declaration struct {
	File  string
	Start int
	End   int
}

// SymbolKey is a stable content hash of a symbol's sorted declarations, or a
// fixed sentinel for symbols without declarations.
type SymbolKey string

const (
	sentinelUnknown   SymbolKey = "sentinel:unknown"
	sentinelUndefined SymbolKey = "sentinel:undefined"
	sentinelNone      SymbolKey = "sentinel:none"
)

// Symbol is the opaque handle the classifier receives from the checker. It
// carries no behavior of its own; all queries go through Checker.
type Symbol interface {
	// SymbolID is a per-run-unique identity token supplied by the checker,
	// used only so the classifier and visibility engine can use it as a map
	// key for memoization; it is not part of the persisted SymbolKey.
	SymbolID() string
}

// Checker is the subset of the external semantic-analyser contract
// that the classifier needs.
type Checker interface {
	Declarations(sym Symbol) []Declaration
	IsTransient(sym Symbol) bool
	IsTypeAlias(sym Symbol) bool
	IsNamespaceOrImportAlias(sym Symbol) bool
	IsMethodOfClassOrInterface(sym Symbol) bool
	RootSymbols(sym Symbol) []Symbol

	// IsUnknownSymbol / IsUndefinedSymbol classify a declaration-less
	// symbol for sentinel-key selection; one that is neither gets the none
	// sentinel.
	IsUnknownSymbol(sym Symbol) bool
	IsUndefinedSymbol(sym Symbol) bool

	// FileHasModuleSymbol reports whether the checker assigns a file symbol
	// to the given declaring file (true => module regime contribution,
	// false => global regime contribution).
	FileHasModuleSymbol(file string) bool
}

// Classification is the result of classifying one symbol.
type Classification struct {
	Factory FactoryKind
	Regime  ModuleRegime
	Key     SymbolKey
}

// Classify picks the factory kind and module regime for sym, following the
// first-match selection order.
func Classify(checker Checker, sym Symbol) Classification {
	key := ComputeKey(checker, sym)
	regime := classifyRegime(checker, sym)

	if roots := checker.RootSymbols(sym); len(roots) > 1 {
		return Classification{Factory: FactoryRoots, Regime: regime, Key: key}
	}
	if checker.IsTransient(sym) {
		return Classification{Factory: FactoryTransient, Regime: regime, Key: key}
	}
	if checker.IsTypeAlias(sym) {
		return Classification{Factory: FactoryTypeAlias, Regime: regime, Key: key}
	}
	if checker.IsNamespaceOrImportAlias(sym) {
		return Classification{Factory: FactoryAlias, Regime: regime, Key: key}
	}
	if checker.IsMethodOfClassOrInterface(sym) {
		return Classification{Factory: FactoryMethod, Regime: regime, Key: key}
	}
	return Classification{Factory: FactoryStandard, Regime: regime, Key: key}
}

// classifyRegime inspects each declaring file: module if the checker assigns
// it a file symbol, else global. If all files agree that is the regime,
// else unknown.
func classifyRegime(checker Checker, sym Symbol) ModuleRegime {
	decls := checker.Declarations(sym)
	if len(decls) == 0 {
		return RegimeUnknown
	}

	seenModule, seenGlobal := false, false
	for _, d := range decls {
		if checker.FileHasModuleSymbol(d.File) {
			seenModule = true
		} else {
			seenGlobal = true
		}
	}

	switch {
	case seenModule && !seenGlobal:
		return RegimeModule
	case seenGlobal && !seenModule:
		return RegimeGlobal
	default:
		return RegimeUnknown
	}
}

// ComputeKey returns the stable SymbolKey for sym: a content hash of its
// sorted declarations, or a sentinel for symbols without declarations.
func ComputeKey(checker Checker, sym Symbol) SymbolKey {
	decls := checker.Declarations(sym)
	if len(decls) == 0 {
		switch {
		case checker.IsUnknownSymbol(sym):
			return sentinelUnknown
		case checker.IsUndefinedSymbol(sym):
			return sentinelUndefined
		default:
			return sentinelNone
		}
	}

	sorted := make([]Declaration, len(decls))
	copy(sorted, decls)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	h := md5.New()
	for _, d := range sorted {
		fmt.Fprintf(h, "%s:%d:%d;", d.File, d.Start, d.End)
	}

	return SymbolKey(hex.EncodeToString(h.Sum(nil)))
}
