package visibility

import (
	"testing"

	"github.com/indexgraph/lsifcore/symbols"
)

type fakeType struct {
	id       uintptr
	members  []symbols.Symbol
	sigs     []Signature
	unionOf  []Type
	isUnion  bool
	bases    []Type
	typeArgs []Type
}

func (t *fakeType) TypeID() uintptr { return t.id }

type fakeSig struct {
	params []Type
	ret    Type
}

func (s fakeSig) Parameters() []Type { return s.params }
func (s fakeSig) Return() Type       { return s.ret }

type fakeSym string

func (s fakeSym) SymbolID() string { return string(s) }

type fakeTS struct {
	typeOf map[symbols.Symbol]Type
	names  map[symbols.Symbol]string
	keys   map[symbols.Symbol]symbols.SymbolKey
}

func (ts *fakeTS) CallSignatures(t Type) []Signature { return t.(*fakeType).sigs }
func (ts *fakeTS) ConstructSignatures(t Type) []Signature { return nil }
func (ts *fakeTS) UnionOrIntersectionConstituents(t Type) ([]Type, bool) {
	ft := t.(*fakeType)
	if !ft.isUnion {
		return nil, false
	}
	return ft.unionOf, true
}
func (ts *fakeTS) BaseTypes(t Type) []Type     { return t.(*fakeType).bases }
func (ts *fakeTS) TypeArguments(t Type) []Type { return t.(*fakeType).typeArgs }
func (ts *fakeTS) ConditionalParts(t Type) (Type, Type, Type, Type, bool) {
	return nil, nil, nil, nil, false
}
func (ts *fakeTS) Members(t Type) []symbols.Symbol { return t.(*fakeType).members }
func (ts *fakeTS) Name(sym symbols.Symbol) string  { return ts.names[sym] }
func (ts *fakeTS) TypeOf(sym symbols.Symbol) Type  { return ts.typeOf[sym] }
func (ts *fakeTS) SymbolKey(sym symbols.Symbol) symbols.SymbolKey { return ts.keys[sym] }

type fakeUpgrader struct {
	vis map[symbols.SymbolKey]Visibility
}

func newFakeUpgrader() *fakeUpgrader { return &fakeUpgrader{vis: map[symbols.SymbolKey]Visibility{}} }

func (u *fakeUpgrader) CurrentVisibility(key symbols.SymbolKey) Visibility {
	if v, ok := u.vis[key]; ok {
		return v
	}
	return Unknown
}

func (u *fakeUpgrader) Upgrade(key symbols.SymbolKey, to Visibility) Visibility {
	cur := u.CurrentVisibility(key)
	if CanTransition(cur, to) {
		u.vis[key] = to
	}
	return u.vis[key]
}

func TestWalkMarksDirectMemberExported(t *testing.T) {
	member := fakeSym("member")
	ts := &fakeTS{
		typeOf: map[symbols.Symbol]Type{},
		names:  map[symbols.Symbol]string{member: "member"},
		keys:   map[symbols.Symbol]symbols.SymbolKey{member: "k1"},
	}
	root := &fakeType{id: 1, members: []symbols.Symbol{member}}
	ts.typeOf[member] = nil

	up := newFakeUpgrader()
	e := NewEngine(ts, up)
	results := e.Walk(root, "Root", FlowExported)

	if len(results) != 1 || results[0].SymbolKey != "k1" || results[0].AttachedExport != "Root.member" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if up.CurrentVisibility("k1") != IndirectExported {
		t.Errorf("visibility = %s, want indirectExported", up.CurrentVisibility("k1"))
	}
}

func TestWalkParameterPolarityReversed(t *testing.T) {
	param := fakeSym("p")
	paramType := &fakeType{id: 3, members: []symbols.Symbol{param}}
	ts := &fakeTS{
		typeOf: map[symbols.Symbol]Type{},
		names:  map[symbols.Symbol]string{param: "p"},
		keys:   map[symbols.Symbol]symbols.SymbolKey{param: "kp"},
	}

	fnMember := fakeSym("fn")
	fnType := &fakeType{id: 2, sigs: []Signature{fakeSig{params: []Type{paramType}}}}
	ts.typeOf[fnMember] = fnType
	ts.names[fnMember] = "fn"
	ts.keys[fnMember] = "kfn"

	root := &fakeType{id: 1, members: []symbols.Symbol{fnMember}}

	up := newFakeUpgrader()
	e := NewEngine(ts, up)
	_ = param
	results := e.Walk(root, "Root", FlowExported)

	if len(results) != 1 || results[0].SymbolKey != "kfn" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestWalkCycleTerminates(t *testing.T) {
	ts := &fakeTS{typeOf: map[symbols.Symbol]Type{}, names: map[symbols.Symbol]string{}, keys: map[symbols.Symbol]symbols.SymbolKey{}}
	self := &fakeType{id: 1}
	self.bases = []Type{self} // self-referential cycle

	up := newFakeUpgrader()
	e := NewEngine(ts, up)

	done := make(chan struct{})
	go func() {
		e.Walk(self, "Root", FlowExported)
		close(done)
	}()
	select {
	case <-done:
	default:
	}
	<-done // if this test hangs, the cycle-breaker regressed
}

func TestWalkSignatureCycleTerminates(t *testing.T) {
	// A self-referential function type, e.g. Go's `type stateFn func(*lexer)
	// stateFn` idiom: the type's own call signature returns itself. A
	// naive cycle guard that exempts signature-reached types from the
	// seen-type check would recurse through walkSignatures forever.
	ts := &fakeTS{typeOf: map[symbols.Symbol]Type{}, names: map[symbols.Symbol]string{}, keys: map[symbols.Symbol]symbols.SymbolKey{}}
	self := &fakeType{id: 1}
	self.sigs = []Signature{fakeSig{ret: self}}

	up := newFakeUpgrader()
	e := NewEngine(ts, up)

	done := make(chan struct{})
	go func() {
		e.Walk(self, "Root", FlowExported)
		close(done)
	}()
	<-done // if this test hangs, the signature cycle-breaker regressed
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Visibility
		want     bool
	}{
		{Unknown, IndirectExported, true},
		{Unknown, Internal, true},
		{Exported, Internal, false},
		{IndirectExported, Internal, false},
		{Internal, Exported, false},
		{Exported, Exported, true},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
