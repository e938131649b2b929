package indexer

import (
	"go/types"
	"strings"

	"golang.org/x/tools/container/intsets"
	"golang.org/x/tools/go/packages"

	"github.com/indexgraph/lsifcore/graph"
	"github.com/indexgraph/lsifcore/symboldata"
)

// implLoc is the definition site recorded while walking definitions for
// every named type and method declaration, reused here to correlate
// interfaces to their implementations without a second AST pass.
type implLoc struct {
	resultSetID graph.ID
	rangeID     graph.ID
	shard       symboldata.ShardID
}

// implDef is one named, non-empty-method type: either a concrete type or an
// interface, depending on where it ends up partitioned by
// extractInterfacesAndConcreteTypes.
type implDef struct {
	typeName      *types.TypeName
	methods       []*types.Selection
	methodsByName map[string]*types.Selection
}

type implEdge struct{ from, to int }

// implRelation is a concrete-type<->interface implementation graph: nodes is
// the concatenation (concreteTypes..., interfaces...), edges point from a
// concrete type's node index to an interface's node index.
type implRelation struct {
	edges       []implEdge
	nodes       []implDef
	ifaceOffset int
}

func (rel implRelation) forEachImplementation(f func(from implDef, tos []implDef)) {
	grouped := map[int][]implDef{}
	var order []int
	for _, e := range rel.edges {
		if _, ok := grouped[e.from]; !ok {
			order = append(order, e.from)
		}
		grouped[e.from] = append(grouped[e.from], rel.nodes[e.to])
	}
	for _, from := range order {
		f(rel.nodes[from], grouped[from])
	}
}

func (rel implRelation) invert() implRelation {
	inv := implRelation{nodes: rel.nodes, ifaceOffset: rel.ifaceOffset}
	for _, e := range rel.edges {
		inv.edges = append(inv.edges, implEdge{from: e.to, to: e.from})
	}
	return inv
}

// link finds every concrete type implementing the interface at idx: the
// intersection, over every method of the interface, of the set of concrete
// types declaring that method -- ported from the teacher's candidateTypes
// sweep, using the same golang.org/x/tools sparse int-set representation.
func (rel *implRelation) link(idx int, interfaceMethods []*types.Selection, methodToReceivers map[string]*intsets.Sparse) {
	if len(interfaceMethods) == 0 {
		return
	}

	candidates := &intsets.Sparse{}
	first, ok := methodToReceivers[canonicalizeMethod(interfaceMethods[0])]
	if !ok {
		return
	}
	candidates.Copy(first)

	for _, m := range interfaceMethods[1:] {
		recv, ok := methodToReceivers[canonicalizeMethod(m)]
		if !ok {
			return
		}
		candidates.IntersectionWith(recv)
		if candidates.IsEmpty() {
			return
		}
	}

	for _, ty := range candidates.AppendTo(nil) {
		rel.edges = append(rel.edges, implEdge{from: ty, to: rel.ifaceOffset + idx})
	}
}

// listMethods returns T's method set merged with *T's additional methods.
// Ported from golang.org/x/tools' godex printer.
func listMethods(T *types.Named) []*types.Selection {
	mset := types.NewMethodSet(T)
	var res []*types.Selection
	for i, n := 0, mset.Len(); i < n; i++ {
		res = append(res, mset.At(i))
	}

	pmset := types.NewMethodSet(types.NewPointer(T))
	for i, n := 0, pmset.Len(); i < n; i++ {
		pm := pmset.At(i)
		if obj := pm.Obj(); mset.Lookup(obj.Pkg(), obj.Name()) == nil {
			res = append(res, pm)
		}
	}
	return res
}

// canonicalizeMethod returns a string key identifying a method signature,
// used to match an interface method against the concrete-type methods that
// could satisfy it. Unexported methods are additionally qualified by
// package path so two unrelated unexported methods of the same name never
// collide.
func canonicalizeMethod(m *types.Selection) string {
	var b strings.Builder

	writeTuple := func(t *types.Tuple) {
		for i := 0; i < t.Len(); i++ {
			b.WriteString(t.At(i).Type().String())
		}
	}

	sig := m.Type().(*types.Signature)
	if !m.Obj().Exported() {
		if pkg := m.Obj().Pkg(); pkg != nil {
			b.WriteString(pkg.Path())
		}
		b.WriteString(":")
	}
	b.WriteString(m.Obj().Name())
	b.WriteString("(")
	writeTuple(sig.Params())
	b.WriteString(")")

	switch sig.Results().Len() {
	case 0:
	case 1:
		b.WriteString(" ")
		writeTuple(sig.Results())
	default:
		b.WriteString(" (")
		writeTuple(sig.Results())
		b.WriteString(")")
	}
	return b.String()
}

// extractInterfacesAndConcreteTypes partitions every named, non-empty-method
// type declared across pkgs into interfaces and concrete types.
func extractInterfacesAndConcreteTypes(pkgs []*packages.Package) (interfaces, concreteTypes []implDef) {
	for _, pkg := range pkgs {
		for _, obj := range pkg.TypesInfo.Defs {
			typeName, ok := obj.(*types.TypeName)
			if !ok {
				continue
			}
			named, ok := typeName.Type().(*types.Named)
			if !ok {
				continue
			}

			methods := listMethods(named)
			if len(methods) == 0 {
				continue
			}

			methodsByName := map[string]*types.Selection{}
			for _, m := range methods {
				methodsByName[m.Obj().Name()] = m
			}

			d := implDef{typeName: typeName, methods: methods, methodsByName: methodsByName}
			if types.IsInterface(typeName.Type()) {
				interfaces = append(interfaces, d)
			} else {
				concreteTypes = append(concreteTypes, d)
			}
		}
	}
	return interfaces, concreteTypes
}

// buildImplementationRelation builds the concrete-type -> interface
// implementation graph.
func buildImplementationRelation(concreteTypes, interfaces []implDef) implRelation {
	rel := implRelation{
		nodes:       append(append([]implDef{}, concreteTypes...), interfaces...),
		ifaceOffset: len(concreteTypes),
	}

	methodToReceivers := map[string]*intsets.Sparse{}
	for idx, t := range concreteTypes {
		for _, m := range t.methods {
			key := canonicalizeMethod(m)
			if methodToReceivers[key] == nil {
				methodToReceivers[key] = &intsets.Sparse{}
			}
			methodToReceivers[key].Insert(idx)
		}
	}

	for idx, iface := range interfaces {
		rel.link(idx, iface.methods, methodToReceivers)
	}
	return rel
}

// indexImplementations correlates every interface and concrete type declared
// across the driver's own loaded packages, emitting an implementationResult
// both on the type itself and on each matching method.
//
// Cross-module implementation relations (a type in an unloaded dependency
// satisfying an interface declared here, or the reverse) are not computed:
// unlike the export moniker path, resolving them needs the dependency's own
// compiled method set, which this driver never loads.
func (d *Driver) indexImplementations() {
	interfaces, concreteTypes := extractInterfacesAndConcreteTypes(d.checker.Packages)

	rel := buildImplementationRelation(concreteTypes, interfaces)
	rel.forEachImplementation(d.emitImplementation)

	rel.invert().forEachImplementation(d.emitImplementation)
}

func (d *Driver) emitImplementation(from implDef, tos []implDef) {
	if fromLoc, ok := d.typeDefLocs[from.typeName]; ok {
		d.emitImplementationRelation(fromLoc.resultSetID, tos, func(to implDef) (implLoc, bool) {
			loc, ok := d.typeDefLocs[to.typeName]
			return loc, ok
		})
	}

	for name, fromMethod := range from.methodsByName {
		fromMethodLoc, ok := d.typeDefLocs[fromMethod.Obj()]
		if !ok {
			continue
		}

		complete := true
		for _, to := range tos {
			if _, ok := to.methodsByName[name]; !ok {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		d.emitImplementationRelation(fromMethodLoc.resultSetID, tos, func(to implDef) (implLoc, bool) {
			toMethod, ok := to.methodsByName[name]
			if !ok {
				return implLoc{}, false
			}
			loc, ok := d.typeDefLocs[toMethod.Obj()]
			return loc, ok
		})
	}
}

func (d *Driver) emitImplementationRelation(fromResultSetID graph.ID, tos []implDef, locate func(implDef) (implLoc, bool)) {
	byShard := map[symboldata.ShardID][]graph.ID{}
	for _, to := range tos {
		loc, ok := locate(to)
		if !ok {
			continue
		}
		byShard[loc.shard] = append(byShard[loc.shard], loc.rangeID)
	}
	if len(byShard) == 0 {
		return
	}

	implResultID := d.emitter.EmitImplementationResult()
	d.emitter.EmitVerbEdge(graph.EdgeImplementation, fromResultSetID, implResultID)
	for shard, rangeIDs := range byShard {
		d.emitter.EmitItem(implResultID, rangeIDs, graph.ID(shard), "")
	}
}
