package roster

import "sort"

// PlayerRegistry is the set of combatant names that belong to player
// characters. It decides which encounter bucket a combatant is saved into.
// Names are case-sensitive.
type PlayerRegistry struct {
	names map[string]struct{}
}

// NewPlayerRegistry returns a registry holding names.
func NewPlayerRegistry(names ...string) *PlayerRegistry {
	p := &PlayerRegistry{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		p.Add(n)
	}
	return p
}

// Add registers name.
func (p *PlayerRegistry) Add(name string) { p.names[name] = struct{}{} }

// Remove unregisters name. Removing an absent name is a no-op.
func (p *PlayerRegistry) Remove(name string) { delete(p.names, name) }

// Rename moves registration from old to newName if old is registered.
func (p *PlayerRegistry) Rename(old, newName string) {
	if _, ok := p.names[old]; !ok {
		return
	}
	delete(p.names, old)
	p.names[newName] = struct{}{}
}

// Has reports whether name is registered.
func (p *PlayerRegistry) Has(name string) bool {
	_, ok := p.names[name]
	return ok
}

// Len returns the number of registered names.
func (p *PlayerRegistry) Len() int { return len(p.names) }

// Names returns the registered names in sorted order.
func (p *PlayerRegistry) Names() []string {
	out := make([]string, 0, len(p.names))
	for n := range p.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Clear unregisters every name.
func (p *PlayerRegistry) Clear() { p.names = make(map[string]struct{}) }

// Clone returns an independent copy of p.
func (p *PlayerRegistry) Clone() *PlayerRegistry { return NewPlayerRegistry(p.Names()...) }
