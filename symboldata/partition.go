package symboldata

import (
	"fmt"

	"github.com/indexgraph/lsifcore/graph"
)

// ProjectID and ShardID identify the two axes a Partition is keyed by: the
// project the data belongs to and the document (or project, for
// project-scoped items) it was produced while visiting.
type ProjectID string
type ShardID string

type partitionKey struct {
	project ProjectID
	shard   ShardID
}

// Partition is the per-(project, shard) fragment of a symbol's data. It
// buffers ranges and cascaded results until the shard closes, at which
// point it emits item edges with the correct shard tag.
type Partition struct {
	key partitionKey

	definitionRanges     []graph.ID
	declarationRanges    []graph.ID
	typeDefinitionRanges []graph.ID
	referenceRanges      map[graph.ItemProperty][]graph.ID
	referenceResults     []graph.ID
	referenceCascades    []graph.ID

	ended bool
}

func newPartition(key partitionKey) *Partition {
	return &Partition{
		key:             key,
		referenceRanges: map[graph.ItemProperty][]graph.ID{},
	}
}

func (p *Partition) addDefinitionRange(id graph.ID) {
	p.definitionRanges = append(p.definitionRanges, id)
}

// addDeclarationRange records a definition range as also backing the
// declarationResult hub. In Go, a declaration's range always coincides with
// its definition's -- there is no forward-declaration split the way a C
// header creates -- so every recordDefinition call feeds both hubs.
func (p *Partition) addDeclarationRange(id graph.ID) {
	p.declarationRanges = append(p.declarationRanges, id)
}

func (p *Partition) addTypeDefinitionRange(id graph.ID) {
	p.typeDefinitionRanges = append(p.typeDefinitionRanges, id)
}

func (p *Partition) addReferenceRange(id graph.ID, property graph.ItemProperty) {
	p.referenceRanges[property] = append(p.referenceRanges[property], id)
}

func (p *Partition) addReferenceResult(id graph.ID) {
	p.referenceResults = append(p.referenceResults, id)
}

// addReferenceCascade records a moniker that a reference-result item edge
// should also target, tagged with property referenceLinks (or
// implementationLinks) by the caller via emitEnd.
func (p *Partition) addReferenceCascade(monikerID graph.ID) {
	p.referenceCascades = append(p.referenceCascades, monikerID)
}

// end emits the partition's item edges from the given result vertices and
// marks the partition closed. Re-calling end on an already-ended partition
// is an invariant violation.
func (p *Partition) end(emitter Emitter, defResult, declResult, typeDefResult, refResult graph.ID, cascadeProperty graph.ItemProperty) error {
	if p.ended {
		return fmt.Errorf("partition (project=%s, shard=%s) re-opened after being ended", p.key.project, p.key.shard)
	}
	p.ended = true

	shard := graph.ID(p.key.shard)

	if len(p.definitionRanges) > 0 && defResult != "" {
		emitter.EmitItem(defResult, p.definitionRanges, shard, graph.PropertyDefinitions)
	}
	if len(p.declarationRanges) > 0 && declResult != "" {
		emitter.EmitItem(declResult, p.declarationRanges, shard, graph.PropertyDeclarations)
	}
	if len(p.typeDefinitionRanges) > 0 && typeDefResult != "" {
		emitter.EmitItem(typeDefResult, p.typeDefinitionRanges, shard, "")
	}
	for property, ranges := range p.referenceRanges {
		if len(ranges) > 0 && refResult != "" {
			emitter.EmitItem(refResult, ranges, shard, property)
		}
	}
	if len(p.referenceResults) > 0 && refResult != "" {
		emitter.EmitItem(refResult, p.referenceResults, shard, graph.PropertyReferenceResults)
	}
	if len(p.referenceCascades) > 0 && refResult != "" {
		emitter.EmitItem(refResult, p.referenceCascades, shard, cascadeProperty)
	}

	return nil
}
