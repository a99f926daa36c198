package encounter

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tracker/internal/game/bestiary"
	"github.com/cory-johannsen/tracker/internal/game/resolver"
	"github.com/cory-johannsen/tracker/internal/game/roster"
	"github.com/cory-johannsen/tracker/internal/game/session"
)

// Added describes one combatant created by an import.
type Added struct {
	Name    string
	InitMod int
	Health  int
	Player  bool
	// Suggestions holds the top bestiary matches when the entry was resolved
	// against the bestiary; it is nil for literal entries.
	Suggestions []string
}

// FromBestiary reports whether the combatant was built from a bestiary template.
func (a Added) FromBestiary() bool { return a.Suggestions != nil }

// Manager implements save, load and merge against a Store.
type Manager struct {
	store  Store
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: store and logger must be non-nil.
func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Store returns the backing store.
func (m *Manager) Store() Store { return m.store }

// Save writes the roster of st under id.
//
// Postcondition: Returns ErrAlreadyExists without writing when id exists and
// force is false.
func (m *Manager) Save(ctx context.Context, id string, st *session.State, force bool) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if !force {
		exists, err := m.store.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%q: %w", id, ErrAlreadyExists)
		}
	}
	f := FromState(st)
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := m.store.Write(ctx, id, data); err != nil {
		return err
	}
	m.logger.Info("encounter saved",
		zap.String("id", id),
		zap.Int("characters", len(f.Characters)),
		zap.Int("enemies", len(f.Enemies)),
		zap.Bool("force", force),
	)
	return nil
}

// Load replaces the roster and registry of st with the encounter id.
//
// Postcondition: On error the roster, registry and round counter of st are
// exactly as before the call and the error is a *LoadError.
func (m *Manager) Load(ctx context.Context, id string, st *session.State) ([]Added, error) {
	return m.guarded(ctx, id, st, true)
}

// Merge adds the encounter id to the current roster with the same
// all-or-nothing guarantee as Load.
func (m *Manager) Merge(ctx context.Context, id string, st *session.State) ([]Added, error) {
	return m.guarded(ctx, id, st, false)
}

// List returns the stored encounter ids.
func (m *Manager) List(ctx context.Context) ([]string, error) { return m.store.List(ctx) }

func (m *Manager) guarded(ctx context.Context, id string, st *session.State, replace bool) ([]Added, error) {
	snap := st.Snapshot()
	if replace {
		st.Reset()
	}
	added, err := m.importInto(ctx, id, st)
	if err != nil {
		st.Restore(snap)
		var le *LoadError
		if errors.As(err, &le) {
			m.logger.Warn("encounter load failed, state restored",
				zap.String("id", id),
				zap.Error(le.Kind),
				zap.NamedError("cause", le.Err),
				zap.Int("restored", st.Roster.Len()),
			)
		}
		return nil, err
	}
	m.logger.Info("encounter loaded",
		zap.String("id", id),
		zap.Bool("replace", replace),
		zap.Int("added", len(added)),
		zap.Int("roster", st.Roster.Len()),
	)
	return added, nil
}

func (m *Manager) importInto(ctx context.Context, id string, st *session.State) ([]Added, error) {
	fail := func(kind, err error) error { return &LoadError{ID: id, Kind: kind, Err: err} }

	data, err := m.store.Read(ctx, id)
	switch {
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrInvalidID):
		return nil, fail(ErrFileNotFound, err)
	case err != nil:
		return nil, fail(ErrUnreadable, fmt.Errorf("%w: %v", ErrUnreadable, err))
	}

	f, err := Decode(data)
	if err != nil {
		kind := ErrStructurallyInvalid
		if errors.Is(err, ErrMissingKey) {
			kind = ErrMissingKey
		}
		return nil, fail(kind, err)
	}

	var added []Added
	n := max(len(f.Characters), len(f.Enemies))
	for i := 0; i < n; i++ {
		if i < len(f.Characters) {
			a, err := m.importEntry(st, f.Characters[i], true)
			if err != nil {
				return nil, fail(ErrImportFailed, err)
			}
			added = append(added, a)
		}
		if i < len(f.Enemies) {
			a, err := m.importEntry(st, f.Enemies[i], false)
			if err != nil {
				return nil, fail(ErrImportFailed, err)
			}
			added = append(added, a)
		}
	}
	return added, nil
}

// importEntry builds a combatant from the best bestiary match for e, rolling
// fresh health, or from the stored fields when nothing matches. Stored entries
// keep their saved name unless it collides exactly with a present combatant.
func (m *Manager) importEntry(st *session.State, e Entry, player bool) (Added, error) {
	var inserted *roster.Combatant
	var suggestions []string

	res := st.DB.Resolve(e.Name)
	if tmpl, ok := res.Best(); ok {
		spawned, err := st.Spawn(tmpl, 1, player)
		if err != nil {
			return Added{}, err
		}
		inserted = spawned[0]
		suggestions = resolver.Names(res.Top(resolver.SuggestionCount), func(e bestiary.Entry) string { return e.Name })
	} else {
		c := roster.Combatant{Name: e.Name, InitMod: e.InitMod, Health: e.Health, ArmorClass: e.ArmorClass, Type: e.Type}
		inserted = st.Place(c, player)
	}
	return Added{
		Name:        inserted.Name,
		InitMod:     inserted.InitMod,
		Health:      inserted.Health,
		Player:      player,
		Suggestions: suggestions,
	}, nil
}
