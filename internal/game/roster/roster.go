package roster

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cory-johannsen/tracker/internal/game/dice"
	"github.com/cory-johannsen/tracker/internal/game/resolver"
)

// ErrNotFound is returned when a name matches no combatant.
var ErrNotFound = errors.New("roster: no such combatant")

// ErrNameTaken is returned when a rename would collide with another combatant.
var ErrNameTaken = errors.New("roster: name already in use")

// Roster is the ordered collection of combatants. Order is turn order.
// Names are pairwise distinct under case folding.
//
// A Roster is not safe for concurrent use.
type Roster struct {
	combatants []*Combatant
}

// New returns an empty Roster.
func New() *Roster { return &Roster{} }

// Len returns the number of combatants.
func (r *Roster) Len() int { return len(r.combatants) }

// Combatants returns the combatants in turn order.
// The slice is a copy; the pointed-to combatants are live.
func (r *Roster) Combatants() []*Combatant {
	out := make([]*Combatant, len(r.combatants))
	copy(out, r.combatants)
	return out
}

// Names returns the combatant names in turn order.
func (r *Roster) Names() []string { return resolver.Names(r.combatants, nameOf) }

// Insert adds c, suffixing its name with _<n> if the base name is already in use.
//
// Postcondition: Returns the inserted combatant; its name is unique in the roster.
func (r *Roster) Insert(c Combatant) *Combatant {
	c.Name = r.NextName(c.Name)
	added := &c
	r.combatants = append(r.combatants, added)
	return added
}

// Place adds c under its own name when no combatant already has that name
// under case folding, and behaves like Insert otherwise. Restoring a saved
// roster uses Place so names already suffixed survive any turn order.
//
// Postcondition: Returns the inserted combatant; its name is unique in the roster.
func (r *Roster) Place(c Combatant) *Combatant {
	if r.indexOf(c.Name) >= 0 {
		return r.Insert(c)
	}
	added := &c
	r.combatants = append(r.combatants, added)
	return added
}

// NextName returns the name Insert would assign to a combatant named base.
//
// For every existing name that starts with base, a trailing _<n> proposes
// n+1 and an unsuffixed name proposes 2. The largest proposal is appended.
func (r *Roster) NextName(base string) string {
	index := 0
	for _, c := range r.combatants {
		if !resolver.HasPrefixFold(c.Name, base) {
			continue
		}
		proposed := 2
		if n, ok := suffixIndex(c.Name); ok {
			proposed = n + 1
		}
		if proposed > index {
			index = proposed
		}
	}
	if index == 0 {
		return base
	}
	name := fmt.Sprintf("%s_%d", base, index)
	for r.indexOf(name) >= 0 {
		index++
		name = fmt.Sprintf("%s_%d", base, index)
	}
	return name
}

// suffixIndex parses a trailing _<n> from name.
func suffixIndex(name string) (int, bool) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 || i == len(name)-1 {
		return 0, false
	}
	digits := name[i+1:]
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Find returns the combatant whose name equals name under case folding.
// When there is none, the prefix matches are returned for suggestions.
func (r *Roster) Find(name string) (*Combatant, resolver.Result[*Combatant], error) {
	c, res, ok := resolver.Exact(name, r.combatants, nameOf)
	if !ok {
		return nil, res, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return c, res, nil
}

// Match returns every combatant whose name starts with prefix, best match first.
func (r *Roster) Match(prefix string) []*Combatant {
	return resolver.Resolve(prefix, r.combatants, nameOf).Matches
}

// Remove deletes the combatant whose name equals name under case folding.
//
// Postcondition: Returns the removed combatant or an error wrapping ErrNotFound.
func (r *Roster) Remove(name string) (*Combatant, error) {
	i := r.indexOf(name)
	if i < 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	c := r.combatants[i]
	r.combatants = append(r.combatants[:i], r.combatants[i+1:]...)
	return c, nil
}

// RemoveMatching deletes every combatant whose name starts with prefix.
//
// Postcondition: Returns the removed combatants in turn order.
func (r *Roster) RemoveMatching(prefix string) []*Combatant {
	if prefix == "" {
		return nil
	}
	var removed []*Combatant
	kept := r.combatants[:0]
	for _, c := range r.combatants {
		if resolver.HasPrefixFold(c.Name, prefix) {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(r.combatants); i++ {
		r.combatants[i] = nil
	}
	r.combatants = kept
	return removed
}

// Rename changes the name of the combatant called old.
//
// Precondition: newName must be non-empty.
// Postcondition: Returns ErrNotFound if old is absent, ErrNameTaken if newName
// belongs to a different combatant.
func (r *Roster) Rename(old, newName string) (*Combatant, error) {
	i := r.indexOf(old)
	if i < 0 {
		return nil, fmt.Errorf("%q: %w", old, ErrNotFound)
	}
	if j := r.indexOf(newName); j >= 0 && j != i {
		return nil, fmt.Errorf("%q: %w", newName, ErrNameTaken)
	}
	r.combatants[i].Name = newName
	return r.combatants[i], nil
}

// AdvanceRound rerolls initiative for every unlocked combatant and sorts.
//
// Postcondition: Locked combatants keep their RollResult; the roster is in
// descending RollResult order with ties in prior order.
func (r *Roster) AdvanceRound(src dice.Source) {
	for _, c := range r.combatants {
		if !c.Locked {
			c.RollInitiative(src)
		}
	}
	r.Sort()
}

// Sort orders the roster by descending RollResult, keeping prior order on ties.
func (r *Roster) Sort() {
	sort.SliceStable(r.combatants, func(i, j int) bool {
		return r.combatants[i].RollResult > r.combatants[j].RollResult
	})
}

// Clear removes every combatant.
func (r *Roster) Clear() { r.combatants = nil }

// Clone returns a deep copy of r.
func (r *Roster) Clone() *Roster {
	out := &Roster{combatants: make([]*Combatant, len(r.combatants))}
	for i, c := range r.combatants {
		cp := *c
		out.combatants[i] = &cp
	}
	return out
}

// Snapshot returns the combatants by value in turn order.
func (r *Roster) Snapshot() []Combatant {
	out := make([]Combatant, len(r.combatants))
	for i, c := range r.combatants {
		out[i] = *c
	}
	return out
}

func (r *Roster) indexOf(name string) int {
	for i, c := range r.combatants {
		if resolver.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

func nameOf(c *Combatant) string { return c.Name }
