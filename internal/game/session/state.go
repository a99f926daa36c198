// Package session holds the mutable state of one interactive encounter and
// the snapshot/restore pair that protects it from failed imports.
package session

import (
	"fmt"

	"github.com/cory-johannsen/tracker/internal/game/bestiary"
	"github.com/cory-johannsen/tracker/internal/game/dice"
	"github.com/cory-johannsen/tracker/internal/game/roster"
)

// State is passed explicitly to every component that reads or mutates the
// encounter. It is not safe for concurrent use.
type State struct {
	Roster  *roster.Roster
	Players *roster.PlayerRegistry
	DB      *bestiary.Database
	Roller  *dice.Roller
	// Round counts round advances since the session began.
	Round int
}

// New returns a State with an empty roster and registry.
//
// Precondition: roller must be non-nil; db may be nil (an empty bestiary).
func New(db *bestiary.Database, roller *dice.Roller) *State {
	return &State{
		Roster:  roster.New(),
		Players: roster.NewPlayerRegistry(),
		DB:      db,
		Roller:  roller,
	}
}

// Snapshot is a deep copy of the mutable parts of a State.
type Snapshot struct {
	roster  *roster.Roster
	players *roster.PlayerRegistry
	round   int
}

// Snapshot captures the roster, registry and round counter.
//
// Postcondition: Later mutations of s do not affect the returned Snapshot.
func (s *State) Snapshot() Snapshot {
	return Snapshot{roster: s.Roster.Clone(), players: s.Players.Clone(), round: s.Round}
}

// Restore replaces the roster, registry and round counter with copies of snap.
// A Snapshot may be restored more than once.
func (s *State) Restore(snap Snapshot) {
	s.Roster = snap.roster.Clone()
	s.Players = snap.players.Clone()
	s.Round = snap.round
}

// Reset empties the roster and registry.
func (s *State) Reset() {
	s.Roster.Clear()
	s.Players.Clear()
}

// AddPlayer inserts c and registers its final name as a player.
func (s *State) AddPlayer(c roster.Combatant) *roster.Combatant {
	added := s.Roster.Insert(c)
	s.Players.Add(added.Name)
	return added
}

// Place inserts c keeping its stored name unless that name is taken, and
// registers it when player is set.
func (s *State) Place(c roster.Combatant, player bool) *roster.Combatant {
	added := s.Roster.Place(c)
	if player {
		s.Players.Add(added.Name)
	}
	return added
}

// Remove deletes the named combatant and drops it from the registry.
func (s *State) Remove(name string) (*roster.Combatant, error) {
	c, err := s.Roster.Remove(name)
	if err != nil {
		return nil, err
	}
	s.Players.Remove(c.Name)
	return c, nil
}

// RemoveMatching deletes every combatant starting with prefix and drops each
// from the registry.
func (s *State) RemoveMatching(prefix string) []*roster.Combatant {
	removed := s.Roster.RemoveMatching(prefix)
	for _, c := range removed {
		s.Players.Remove(c.Name)
	}
	return removed
}

// Rename renames a combatant and keeps the registry consistent.
func (s *State) Rename(old, newName string) (*roster.Combatant, error) {
	c, _, err := s.Roster.Find(old)
	if err != nil {
		return nil, err
	}
	stored := c.Name
	if _, err := s.Roster.Rename(stored, newName); err != nil {
		return nil, err
	}
	s.Players.Rename(stored, newName)
	return c, nil
}

// PresentPlayers returns registered player names that are in the roster, in
// registry order.
func (s *State) PresentPlayers() []string {
	var out []string
	for _, name := range s.Players.Names() {
		if c, _, err := s.Roster.Find(name); err == nil && c.Name == name {
			out = append(out, name)
		}
	}
	return out
}

// AdvanceRound rerolls unlocked initiative, re-sorts and increments Round.
func (s *State) AdvanceRound() {
	s.Roster.AdvanceRound(s.Roller.Source())
	s.Round++
}

// Spawn inserts count combatants built from tmpl, rolling health separately
// for each copy. Player copies are registered.
//
// Precondition: count >= 1.
// Postcondition: On error nothing has been inserted.
func (s *State) Spawn(tmpl bestiary.Entry, count int, player bool) ([]*roster.Combatant, error) {
	healths := make([]int, count)
	for i := range healths {
		h, err := s.Roller.Evaluate(tmpl.HealthRoll)
		if err != nil {
			return nil, fmt.Errorf("%s: rolling health %q: %w", tmpl.Name, tmpl.HealthRoll, err)
		}
		healths[i] = h
	}
	added := make([]*roster.Combatant, 0, count)
	for _, h := range healths {
		c := roster.Combatant{
			Name:       tmpl.Name,
			InitMod:    tmpl.InitMod,
			Health:     h,
			ArmorClass: tmpl.ArmorClass,
			Type:       tmpl.Type,
		}
		if player {
			added = append(added, s.AddPlayer(c))
		} else {
			added = append(added, s.Roster.Insert(c))
		}
	}
	return added, nil
}
