// Package encounter persists the roster as a two-bucket encounter document
// and implements the all-or-nothing load protocol.
package encounter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cory-johannsen/tracker/internal/game/session"
)

var (
	// ErrFileNotFound is the load failure kind for an absent encounter.
	ErrFileNotFound = errors.New("encounter: file not found")
	// ErrStructurallyInvalid is the load failure kind for a document that is not valid JSON
	// or whose values have the wrong shape.
	ErrStructurallyInvalid = errors.New("encounter: structurally invalid")
	// ErrMissingKey is the load failure kind for a document lacking a required key.
	ErrMissingKey = errors.New("encounter: missing required key")
	// ErrUnreadable is the load failure kind for storage errors other than absence.
	ErrUnreadable = errors.New("encounter: unreadable")
	// ErrImportFailed is the load failure kind for errors raised while populating the roster.
	ErrImportFailed = errors.New("encounter: import failed")
	// ErrAlreadyExists is returned by a non-forced save when the target exists.
	ErrAlreadyExists = errors.New("encounter: already exists")
	// ErrInvalidID is returned for identifiers that cannot name a stored encounter.
	ErrInvalidID = errors.New("encounter: invalid id")
)

// LoadError reports a failed load. Kind is one of the load failure kinds above.
type LoadError struct {
	ID   string
	Kind error
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading encounter %q: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{e.Kind, e.Err} }

// Entry is one persisted combatant.
type Entry struct {
	Name       string `json:"name"`
	InitMod    int    `json:"init_mod"`
	Health     int    `json:"health"`
	ArmorClass int    `json:"ac"`
	Type       string `json:"type"`
}

// File is the persisted encounter. Player membership is positional.
type File struct {
	Characters []Entry `json:"characters"`
	Enemies    []Entry `json:"enemies"`
}

// rawEntry detects absent required keys.
type rawEntry struct {
	Name       *string `json:"name"`
	InitMod    *int    `json:"init_mod"`
	Health     *int    `json:"health"`
	ArmorClass int     `json:"ac"`
	Type       string  `json:"type"`
}

// Decode parses an encounter document.
//
// Postcondition: Returns an error wrapping ErrStructurallyInvalid or
// ErrMissingKey when data is not a complete encounter.
func Decode(data []byte) (File, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrStructurallyInvalid, err)
	}
	var f File
	var err error
	if f.Characters, err = decodeBucket(top, "characters"); err != nil {
		return File{}, err
	}
	if f.Enemies, err = decodeBucket(top, "enemies"); err != nil {
		return File{}, err
	}
	return f, nil
}

func decodeBucket(top map[string]json.RawMessage, key string) ([]Entry, error) {
	raw, ok := top[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	var rows []rawEntry
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStructurallyInvalid, key, err)
	}
	entries := make([]Entry, 0, len(rows))
	for i, r := range rows {
		switch {
		case r.Name == nil:
			return nil, fmt.Errorf("%w: %s[%d].name", ErrMissingKey, key, i)
		case r.InitMod == nil:
			return nil, fmt.Errorf("%w: %s[%d].init_mod", ErrMissingKey, key, i)
		case r.Health == nil:
			return nil, fmt.Errorf("%w: %s[%d].health", ErrMissingKey, key, i)
		case *r.Name == "":
			return nil, fmt.Errorf("%w: %s[%d].name is empty", ErrStructurallyInvalid, key, i)
		}
		entries = append(entries, Entry{
			Name:       *r.Name,
			InitMod:    *r.InitMod,
			Health:     *r.Health,
			ArmorClass: r.ArmorClass,
			Type:       r.Type,
		})
	}
	return entries, nil
}

// Encode renders f as an indented document. Empty buckets are written as [].
func Encode(f File) ([]byte, error) {
	if f.Characters == nil {
		f.Characters = []Entry{}
	}
	if f.Enemies == nil {
		f.Enemies = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encoding encounter: %w", err)
	}
	return buf.Bytes(), nil
}

// FromState splits the roster into buckets by player registry membership,
// preserving turn order within each bucket.
func FromState(st *session.State) File {
	var f File
	for _, c := range st.Roster.Combatants() {
		e := Entry{Name: c.Name, InitMod: c.InitMod, Health: c.Health, ArmorClass: c.ArmorClass, Type: c.Type}
		if st.Players.Has(c.Name) {
			f.Characters = append(f.Characters, e)
		} else {
			f.Enemies = append(f.Enemies, e)
		}
	}
	return f
}
