// Package bestiary provides the read-only reference database of creature
// templates used to spawn combatants by name.
package bestiary

import (
	"fmt"

	"github.com/cory-johannsen/tracker/internal/game/dice"
	"github.com/cory-johannsen/tracker/internal/game/resolver"
)

// Entry is an immutable creature template keyed by its canonical name.
type Entry struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	ArmorClass int    `yaml:"ac"`
	InitMod    int    `yaml:"init_mod"`
	HealthRoll string `yaml:"health"`
}

// Validate checks that the entry is complete.
//
// Postcondition: Returns nil iff Name is non-empty and HealthRoll parses.
func (e Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("bestiary entry: name must not be empty")
	}
	if err := dice.Validate(e.HealthRoll); err != nil {
		return fmt.Errorf("bestiary entry %q: health roll %q: %w", e.Name, e.HealthRoll, err)
	}
	return nil
}

// RowError records a source row that was skipped during loading.
type RowError struct {
	Row    int
	Name   string
	Reason error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%q): %v", e.Row, e.Name, e.Reason)
}

// Database is the ordered set of entries. Order is source order and decides
// resolver ties. A Database is not modified after loading.
type Database struct {
	entries []Entry
	index   map[string]int
}

// New builds a Database from entries, rejecting duplicates and invalid entries.
//
// Postcondition: Returns a Database holding every entry or an error naming the first violation.
func New(entries ...Entry) (*Database, error) {
	db := newDatabase()
	for _, e := range entries {
		if err := db.add(e); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func newDatabase() *Database {
	return &Database{index: make(map[string]int)}
}

func (db *Database) add(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, exists := db.index[e.Name]; exists {
		return fmt.Errorf("bestiary entry %q: duplicate name", e.Name)
	}
	db.index[e.Name] = len(db.entries)
	db.entries = append(db.entries, e)
	return nil
}

// Len returns the number of entries.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.entries)
}

// Get returns the entry with exactly the given canonical name.
func (db *Database) Get(name string) (Entry, bool) {
	if db == nil {
		return Entry{}, false
	}
	i, ok := db.index[name]
	if !ok {
		return Entry{}, false
	}
	return db.entries[i], true
}

// Entries returns a copy of all entries in source order.
func (db *Database) Entries() []Entry {
	if db == nil {
		return nil
	}
	out := make([]Entry, len(db.entries))
	copy(out, db.entries)
	return out
}

// Resolve matches query against entry names using prefix rules.
func (db *Database) Resolve(query string) resolver.Result[Entry] {
	if db == nil {
		return resolver.Result[Entry]{Query: query}
	}
	return resolver.Resolve(query, db.entries, entryName)
}

func entryName(e Entry) string { return e.Name }

// AbilityMod computes the standard ability modifier: floor((score - 10) / 2).
func AbilityMod(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}
