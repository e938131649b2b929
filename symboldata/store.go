package symboldata

import (
	"github.com/indexgraph/lsifcore/symbols"
	"github.com/indexgraph/lsifcore/visibility"
)

// Store owns every SymbolData entry created during a (possibly
// multi-project) run. Because multiple DataManager generations can observe
// the same SymbolKey, each entry is a chain ordered newest-first; lookup
// walks the chain until it finds an entry the current project can access.
// This is a small single-producer structure, not a thread-safe map -- it
// is owned by the single indexing thread.
type Store struct {
	emitter Emitter
	chains  map[symbols.SymbolKey][]*SymbolData
}

// NewStore returns an empty symbol-data store bound to the given emitter.
func NewStore(emitter Emitter) *Store {
	return &Store{emitter: emitter, chains: map[symbols.SymbolKey][]*SymbolData{}}
}

// CanAccess decides whether a project may reuse an existing SymbolData
// entry for a given key. The default policy (exact project match) is
// intentionally simple; project data managers override sharing rules by
// calling GetOrCreate with the project id each manager assigns, and the
// Global/DefaultLibs managers deliberately reuse a single project id so
// their entries are visible to every later project.
type CanAccess func(existing *SymbolData) bool

// GetOrCreate returns the existing chain entry the current project can
// access, or allocates and prepends a new one (newest-first) if none
// matches.
func (s *Store) GetOrCreate(key symbols.SymbolKey, variant Variant, projectID ProjectID, regime symbols.ModuleRegime, canAccess CanAccess) *SymbolData {
	for _, sd := range s.chains[key] {
		if canAccess(sd) {
			return sd
		}
	}

	sd := newSymbolData(s, key, variant, projectID, regime)
	s.chains[key] = append([]*SymbolData{sd}, s.chains[key]...)
	return sd
}

// resolve is GetOrCreate's read-only counterpart used by addDefinition /
// addReference forwarding (roots, aliases): it returns the most recent
// entry for key visible to projectID, or nil.
func (s *Store) resolve(key symbols.SymbolKey, projectID ProjectID) *SymbolData {
	for _, sd := range s.chains[key] {
		if sd.ProjectID == projectID {
			return sd
		}
	}
	// Fall back to the newest entry regardless of project: roots/aliases
	// created by a different manager generation (e.g. the Global manager)
	// are still valid forwarding targets.
	if chain := s.chains[key]; len(chain) > 0 {
		return chain[0]
	}
	return nil
}

// Lookup returns the newest chain entry for key, if any, without creating
// one.
func (s *Store) Lookup(key symbols.SymbolKey) (*SymbolData, bool) {
	chain := s.chains[key]
	if len(chain) == 0 {
		return nil, false
	}
	return chain[0], true
}

// Unbind removes sd from key's chain once its manager has ended it and it
// is no longer reachable (the "free" DataMode).
func (s *Store) Unbind(key symbols.SymbolKey, sd *SymbolData) {
	chain := s.chains[key]
	for i, entry := range chain {
		if entry == sd {
			s.chains[key] = append(chain[:i], chain[i+1:]...)
			return
		}
	}
}

var _ visibility.Upgrader = (*VisibilityAdapter)(nil)

// VisibilityAdapter adapts the Store to the visibility engine's Upgrader
// contract, enforcing the legal-transition rules from visibility.CanTransition.
type VisibilityAdapter struct {
	Store *Store
}

func (a *VisibilityAdapter) CurrentVisibility(key symbols.SymbolKey) visibility.Visibility {
	if sd, ok := a.Store.Lookup(key); ok {
		return sd.Visibility
	}
	return visibility.Unknown
}

func (a *VisibilityAdapter) Upgrade(key symbols.SymbolKey, to visibility.Visibility) visibility.Visibility {
	sd, ok := a.Store.Lookup(key)
	if !ok {
		return visibility.Unknown
	}
	if visibility.CanTransition(sd.Visibility, to) {
		sd.Visibility = to
	}
	return sd.Visibility
}
