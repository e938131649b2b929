// Package symboldata implements the symbol-data store: per-symbol
// state objects with per-(project, shard) partitions, and the five
// addDefinition/addReference variants.
package symboldata

import (
	"fmt"

	"github.com/indexgraph/lsifcore/graph"
	"github.com/indexgraph/lsifcore/symbols"
	"github.com/indexgraph/lsifcore/visibility"
)

// Variant is the tagged sum type distinguishing the five addDefinition /
// addReference behaviors. Modeling this as a single tagged field with
// exhaustive switch arms (rather than five types behind an interface) keeps
// the branching exhaustive at compile time, per the Design Notes.
type Variant int

const (
	VariantStandard Variant = iota
	VariantAliasRenaming
	VariantAliasNonRenaming
	VariantMethod
	VariantWithRoots
	VariantTransient
)

func (v Variant) String() string {
	switch v {
	case VariantAliasRenaming:
		return "alias-renaming"
	case VariantAliasNonRenaming:
		return "alias-non-renaming"
	case VariantMethod:
		return "method"
	case VariantWithRoots:
		return "with-roots"
	case VariantTransient:
		return "transient"
	default:
		return "standard"
	}
}

// DefinitionInfo is a declaration site recorded for fast is-declaration
// lookups by the indexing driver.
type DefinitionInfo struct {
	File  string
	Start int
	End   int
}

// SymbolData is the per-symbol state object tracking a symbol's ranges,
// partitions, and moniker chain.
type SymbolData struct {
	Key        symbols.SymbolKey
	Variant    Variant
	ProjectID  ProjectID
	Regime     symbols.ModuleRegime
	Visibility visibility.Visibility

	resultSetID graph.ID

	definitionResultID     graph.ID
	declarationResultID    graph.ID
	typeDefinitionResultID graph.ID
	referenceResultID      graph.ID
	hoverResultID          graph.ID

	definitions      []DefinitionInfo
	primaryMoniker   graph.ID
	attachedMonikers []graph.ID

	partitions       map[partitionKey]*Partition
	endedPartitions  map[partitionKey]struct{}
	order            []partitionKey
	began            bool
	ended            bool

	// AliasedKey is the target symbol an alias-non-renaming entry forwards
	// its definition-as-reference to.
	AliasedKey symbols.SymbolKey
	// RootKeys are the root symbols a method or with-roots entry forwards
	// definitions/references to.
	RootKeys []symbols.SymbolKey

	store *Store
}

func newSymbolData(store *Store, key symbols.SymbolKey, variant Variant, projectID ProjectID, regime symbols.ModuleRegime) *SymbolData {
	return &SymbolData{
		store:      store,
		Key:        key,
		Variant:    variant,
		ProjectID:  projectID,
		Regime:     regime,
		Visibility:      visibility.Unknown,
		partitions:      map[partitionKey]*Partition{},
		endedPartitions: map[partitionKey]struct{}{},
	}
}

// Begin emits the resultSet vertex for this symbol. For the with-roots
// variant it also injects references to every root's reference-result and
// primary moniker; a root's other attached monikers are not considered.
func (sd *SymbolData) Begin(emitter Emitter) graph.ID {
	if sd.began {
		return sd.resultSetID
	}
	sd.began = true
	sd.resultSetID = emitter.EmitResultSet()

	if sd.Variant == VariantWithRoots {
		for _, rootKey := range sd.RootKeys {
			root := sd.store.resolve(rootKey, sd.ProjectID)
			if root == nil {
				continue
			}
			root.Begin(emitter)
			if root.referenceResultID != "" {
				emitter.EmitVerbEdge(graph.EdgeReferences, sd.resultSetID, root.referenceResultID)
			}
			if root.primaryMoniker != "" {
				emitter.EmitVerbEdge(graph.EdgeMoniker, sd.resultSetID, root.primaryMoniker)
			}
		}
	}

	return sd.resultSetID
}

// ResultSetID returns the symbol's resultSet vertex id (valid after Begin).
func (sd *SymbolData) ResultSetID() graph.ID { return sd.resultSetID }

// EnsureDefinitionResult lazily emits and links the definitionResult hub.
func (sd *SymbolData) EnsureDefinitionResult(emitter Emitter) graph.ID {
	if sd.definitionResultID == "" {
		sd.definitionResultID = emitter.EmitDefinitionResult()
		emitter.EmitVerbEdge(graph.EdgeDefinition, sd.resultSetID, sd.definitionResultID)
	}
	return sd.definitionResultID
}

// EnsureDeclarationResult lazily emits and links the declarationResult hub.
// Go has no separate declaration site distinct from a definition, so this
// hub always carries the same ranges as the definitionResult hub; it exists
// to answer textDocument/declaration requests without the client falling
// back to textDocument/definition.
func (sd *SymbolData) EnsureDeclarationResult(emitter Emitter) graph.ID {
	if sd.declarationResultID == "" {
		sd.declarationResultID = emitter.EmitDeclarationResult()
		emitter.EmitVerbEdge(graph.EdgeDeclaration, sd.resultSetID, sd.declarationResultID)
	}
	return sd.declarationResultID
}

// EnsureTypeDefinitionResult lazily emits and links the
// typeDefinitionResult hub.
func (sd *SymbolData) EnsureTypeDefinitionResult(emitter Emitter) graph.ID {
	if sd.typeDefinitionResultID == "" {
		sd.typeDefinitionResultID = emitter.EmitTypeDefinitionResult()
		emitter.EmitVerbEdge(graph.EdgeTypeDefinition, sd.resultSetID, sd.typeDefinitionResultID)
	}
	return sd.typeDefinitionResultID
}

// EnsureReferenceResult lazily emits and links the referenceResult hub.
func (sd *SymbolData) EnsureReferenceResult(emitter Emitter) graph.ID {
	if sd.referenceResultID == "" {
		sd.referenceResultID = emitter.EmitReferenceResult()
		emitter.EmitVerbEdge(graph.EdgeReferences, sd.resultSetID, sd.referenceResultID)
	}
	return sd.referenceResultID
}

// EnsureHoverResult lazily emits and links the hoverResult vertex the first
// time a symbol's hover contents are computed; later calls with the same sd
// are no-ops, since a symbol's hover text does not depend on which
// occurrence triggered it.
func (sd *SymbolData) EnsureHoverResult(emitter Emitter, contents []graph.MarkedString) graph.ID {
	if sd.hoverResultID == "" {
		sd.hoverResultID = emitter.EmitHoverResult(contents)
		emitter.EmitVerbEdge(graph.EdgeHover, sd.resultSetID, sd.hoverResultID)
	}
	return sd.hoverResultID
}

// SetPrimaryMoniker records the symbol's primary moniker id. Every vertex
// that owns a moniker has exactly one primary.
func (sd *SymbolData) SetPrimaryMoniker(id graph.ID) {
	if sd.primaryMoniker == "" {
		sd.primaryMoniker = id
	}
}

// PrimaryMoniker returns the symbol's primary moniker id, if any.
func (sd *SymbolData) PrimaryMoniker() graph.ID { return sd.primaryMoniker }

// AttachMoniker records a secondary moniker attached to the primary chain.
func (sd *SymbolData) AttachMoniker(id graph.ID) {
	sd.attachedMonikers = append(sd.attachedMonikers, id)
}

// AttachedMonikers returns the secondary monikers attached to this symbol.
func (sd *SymbolData) AttachedMonikers() []graph.ID { return sd.attachedMonikers }

// IsDeclarationOf reports whether (file, start, end) matches one of this
// symbol's recorded definition sites -- the driver's is-declaration check.
func (sd *SymbolData) IsDeclarationOf(file string, start, end int) bool {
	for _, d := range sd.definitions {
		if d.File == file && d.Start == start && d.End == end {
			return true
		}
	}
	return false
}

// getOrCreatePartition returns the partition for (project, shard),
// allocating one and registering it for lifecycle tracking if absent. A
// (project, shard) pair that was already ended by EndPartition or End
// cannot be reopened.
func (sd *SymbolData) getOrCreatePartition(shard ShardID) (*Partition, error) {
	key := partitionKey{project: sd.ProjectID, shard: shard}
	if _, ended := sd.endedPartitions[key]; ended {
		return nil, fmt.Errorf("symbol data %s: partition (project=%s, shard=%s) reopened after being ended", sd.Key, key.project, key.shard)
	}
	if p, ok := sd.partitions[key]; ok {
		return p, nil
	}
	p := newPartition(key)
	sd.partitions[key] = p
	sd.order = append(sd.order, key)
	return p, nil
}

func (sd *SymbolData) recordDefinition(emitter Emitter, shard ShardID, rangeID graph.ID) error {
	sd.EnsureDefinitionResult(emitter)
	sd.EnsureDeclarationResult(emitter)
	p, err := sd.getOrCreatePartition(shard)
	if err != nil {
		return err
	}
	p.addDefinitionRange(rangeID)
	p.addDeclarationRange(rangeID)
	return nil
}

func (sd *SymbolData) recordTypeDefinition(emitter Emitter, shard ShardID, rangeID graph.ID) error {
	sd.EnsureTypeDefinitionResult(emitter)
	p, err := sd.getOrCreatePartition(shard)
	if err != nil {
		return err
	}
	p.addTypeDefinitionRange(rangeID)
	return nil
}

func (sd *SymbolData) recordReference(emitter Emitter, shard ShardID, rangeID graph.ID, property graph.ItemProperty) error {
	sd.EnsureReferenceResult(emitter)
	p, err := sd.getOrCreatePartition(shard)
	if err != nil {
		return err
	}
	p.addReferenceRange(rangeID, property)
	return nil
}

// AddDefinition records rangeID as a definition of this symbol in the given
// shard, dispatching on Variant.
func (sd *SymbolData) AddDefinition(emitter Emitter, shard ShardID, rangeID graph.ID, info DefinitionInfo) error {
	sd.definitions = append(sd.definitions, info)

	switch sd.Variant {
	case VariantStandard:
		if err := sd.recordDefinition(emitter, shard, rangeID); err != nil {
			return err
		}
		return sd.recordReference(emitter, shard, rangeID, graph.PropertyReferences)

	case VariantAliasRenaming:
		return sd.recordDefinition(emitter, shard, rangeID)

	case VariantAliasNonRenaming:
		if target := sd.store.resolve(sd.AliasedKey, sd.ProjectID); target != nil {
			return target.recordReference(emitter, shard, rangeID, graph.PropertyReferences)
		}

	case VariantMethod:
		if err := sd.recordDefinition(emitter, shard, rangeID); err != nil {
			return err
		}
		for _, rootKey := range sd.RootKeys {
			if root := sd.store.resolve(rootKey, sd.ProjectID); root != nil {
				if err := root.recordDefinition(emitter, shard, rangeID); err != nil {
					return err
				}
				if err := root.recordReference(emitter, shard, rangeID, graph.PropertyReferences); err != nil {
					return err
				}
			}
		}

	case VariantWithRoots:
		// with-roots: ignore own definitions entirely.

	case VariantTransient:
		// Never records definitions.
	}
	return nil
}

// AddReference records rangeID as a reference to this symbol in the given
// shard, dispatching on Variant.
func (sd *SymbolData) AddReference(emitter Emitter, shard ShardID, rangeID graph.ID) error {
	switch sd.Variant {
	case VariantAliasNonRenaming:
		if target := sd.store.resolve(sd.AliasedKey, sd.ProjectID); target != nil {
			return target.recordReference(emitter, shard, rangeID, graph.PropertyReferences)
		}
		return sd.recordReference(emitter, shard, rangeID, graph.PropertyReferences)

	case VariantMethod:
		if err := sd.recordReference(emitter, shard, rangeID, graph.PropertyReferences); err != nil {
			return err
		}
		for _, rootKey := range sd.RootKeys {
			if root := sd.store.resolve(rootKey, sd.ProjectID); root != nil {
				if err := root.recordReference(emitter, shard, rangeID, graph.PropertyReferences); err != nil {
					return err
				}
			}
		}
		return nil

	case VariantWithRoots:
		for _, rootKey := range sd.RootKeys {
			if root := sd.store.resolve(rootKey, sd.ProjectID); root != nil {
				if err := root.recordReference(emitter, shard, rangeID, graph.PropertyReferences); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		return sd.recordReference(emitter, shard, rangeID, graph.PropertyReferences)
	}
	return nil
}

// AddReferenceCascade records a moniker as a cascaded reference-result
// target within the given shard's partition, property referenceLinks or
// implementationLinks.
func (sd *SymbolData) AddReferenceCascade(emitter Emitter, shard ShardID, monikerID graph.ID) error {
	sd.EnsureReferenceResult(emitter)
	p, err := sd.getOrCreatePartition(shard)
	if err != nil {
		return err
	}
	p.addReferenceCascade(monikerID)
	return nil
}

// EndPartition emits the partition's edges for (project, shard) and removes
// it from the chain, recording (project, shard) as ended. Re-opening the
// same (project, shard) afterward is an invariant violation enforced by
// getOrCreatePartition.
func (sd *SymbolData) EndPartition(shard ShardID) error {
	key := partitionKey{project: sd.ProjectID, shard: shard}
	p, ok := sd.partitions[key]
	if !ok {
		return nil
	}

	if err := p.end(sd.store.emitter, sd.definitionResultID, sd.declarationResultID, sd.typeDefinitionResultID, sd.referenceResultID, graph.PropertyReferenceLinks); err != nil {
		return err
	}

	delete(sd.partitions, key)
	sd.endedPartitions[key] = struct{}{}
	return nil
}

// End ends all remaining partitions in insertion order and releases the
// chain.
func (sd *SymbolData) End() error {
	if sd.ended {
		return fmt.Errorf("symbol data %s ended twice", sd.Key)
	}
	sd.ended = true

	for _, key := range sd.order {
		p, ok := sd.partitions[key]
		if !ok {
			continue
		}
		if err := p.end(sd.store.emitter, sd.definitionResultID, sd.declarationResultID, sd.typeDefinitionResultID, sd.referenceResultID, graph.PropertyReferenceLinks); err != nil {
			return err
		}
		delete(sd.partitions, key)
		sd.endedPartitions[key] = struct{}{}
	}

	return nil
}
