package scripting

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tracker/internal/game/session"
)

// Manager runs encounter macros.
type Manager struct {
	instLimit int
	logger    *zap.Logger
}

// NewManager creates a Manager whose scripts are limited to instLimit opcodes.
//
// Precondition: logger must be non-nil; instLimit >= 0.
func NewManager(instLimit int, logger *zap.Logger) *Manager {
	return &Manager{instLimit: instLimit, logger: logger}
}

// RunFile executes the Lua file at path against st. Output from
// tracker.print goes to out.
//
// Postcondition: If the script fails, st is restored to its state before the call.
func (m *Manager) RunFile(ctx context.Context, path string, st *session.State, out io.Writer) error {
	return m.run(ctx, path, st, out, func(r *run) error { return r.L.DoFile(path) })
}

// RunString executes src against st with the same guarantees as RunFile.
func (m *Manager) RunString(ctx context.Context, src string, st *session.State, out io.Writer) error {
	return m.run(ctx, "<string>", st, out, func(r *run) error { return r.L.DoString(src) })
}

func (m *Manager) run(ctx context.Context, name string, st *session.State, out io.Writer, exec func(*run) error) error {
	snap := st.Snapshot()
	L, cancel := NewSandboxedState(ctx, m.instLimit)
	defer cancel()
	defer L.Close()

	r := &run{L: L, st: st, out: out, logger: m.logger.With(zap.String("script", name))}
	r.register()

	if err := exec(r); err != nil {
		st.Restore(snap)
		m.logger.Warn("script failed, state restored",
			zap.String("script", name),
			zap.Error(err),
			zap.Int("restored", st.Roster.Len()),
		)
		return fmt.Errorf("scripting: %s: %w", name, err)
	}
	m.logger.Info("script finished", zap.String("script", name), zap.Int("roster", st.Roster.Len()))
	return nil
}
