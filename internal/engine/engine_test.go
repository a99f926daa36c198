package engine_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tracker/internal/encounter"
	"github.com/cory-johannsen/tracker/internal/engine"
	"github.com/cory-johannsen/tracker/internal/frontend/history"
	"github.com/cory-johannsen/tracker/internal/game/bestiary"
	"github.com/cory-johannsen/tracker/internal/game/command"
	"github.com/cory-johannsen/tracker/internal/game/dice"
	"github.com/cory-johannsen/tracker/internal/game/roster"
	"github.com/cory-johannsen/tracker/internal/game/session"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

type countingScreen struct{ draws int }

func (s *countingScreen) Draw(_ *session.State) error {
	s.draws++
	return nil
}

type fakePicker struct {
	choice  string
	ok      bool
	offered []string
}

func (p *fakePicker) Pick(_ context.Context, entries []string) (string, bool, error) {
	p.offered = entries
	return p.choice, p.ok, nil
}

type fakeShell struct {
	commands    []string
	interactive int
	err         error
}

func (s *fakeShell) Run(_ context.Context, cmd string) error {
	s.commands = append(s.commands, cmd)
	return s.err
}

func (s *fakeShell) Interactive(_ context.Context) error {
	s.interactive++
	return s.err
}

type fakeScripter struct {
	paths []string
	err   error
}

func (f *fakeScripter) RunFile(_ context.Context, path string, _ *session.State, _ io.Writer) error {
	f.paths = append(f.paths, path)
	return f.err
}

type harness struct {
	e       *engine.Engine
	st      *session.State
	out     *bytes.Buffer
	screen  *countingScreen
	picker  *fakePicker
	shell   *fakeShell
	scripts *fakeScripter
	enc     *encounter.Manager
	store   *encounter.FileStore
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	db, err := bestiary.New(
		bestiary.Entry{Name: "Goblin", Type: "humanoid", ArmorClass: 15, InitMod: 2, HealthRoll: "2d6"},
		bestiary.Entry{Name: "Goblin Boss", Type: "humanoid", ArmorClass: 17, InitMod: 2, HealthRoll: "6d6"},
		bestiary.Entry{Name: "Orc", Type: "humanoid", ArmorClass: 13, InitMod: 1, HealthRoll: "2d8+6"},
	)
	require.NoError(t, err)
	h := &harness{
		st:      session.New(db, dice.NewLoggedRoller(fixedSrc{val: 2}, zap.NewNop())),
		out:     &bytes.Buffer{},
		screen:  &countingScreen{},
		picker:  &fakePicker{},
		shell:   &fakeShell{},
		scripts: &fakeScripter{},
		store:   encounter.NewFileStore(t.TempDir()),
	}
	h.enc = encounter.NewManager(h.store, zap.NewNop())
	h.e = engine.New(engine.Deps{
		State:      h.st,
		Encounters: h.enc,
		Registry:   command.DefaultRegistry(),
		Screen:     h.screen,
		History:    history.New(10),
		Picker:     h.picker,
		Shell:      h.shell,
		Scripts:    h.scripts,
		In:         strings.NewReader(input),
		Out:        h.out,
		Prompt:     "> ",
		Autosave:   "autosave",
		Players:    "players",
		Logger:     zap.NewNop(),
	})
	return h
}

func (h *harness) dispatch(t *testing.T, line string) engine.Outcome {
	t.Helper()
	h.out.Reset()
	return h.e.Dispatch(context.Background(), line)
}

func (h *harness) combatant(t *testing.T, name string) *roster.Combatant {
	t.Helper()
	c, _, err := h.st.Roster.Find(name)
	require.NoError(t, err)
	return c
}

// TestAllCommandHandlersAreWired asserts that every Handler constant
// registered in BuiltinCommands has a dispatch entry.
func TestAllCommandHandlersAreWired(t *testing.T) {
	registered := engine.Handlers()
	for _, cmd := range command.BuiltinCommands() {
		if _, ok := registered[cmd.Handler]; !ok {
			t.Errorf("handler %q is in BuiltinCommands() but missing from Handlers()", cmd.Handler)
		}
	}
}

func TestDispatch_BlankLineIsNoOp(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, engine.Continue, h.dispatch(t, "   "))
	assert.Empty(t, h.out.String())
}

func TestDispatch_UnknownCommand(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, engine.Continue, h.dispatch(t, "frobnicate now"))
	assert.Contains(t, h.out.String(), "`frobnicate`: command not found")
	assert.Contains(t, h.out.String(), `use "help" for help`)
	assert.Equal(t, 0, h.st.Roster.Len())
}

func TestDispatch_PrefixLineAdvancesRound(t *testing.T) {
	h := newHarness(t, "")
	h.st.Roster.Insert(roster.Combatant{Name: "Orc", InitMod: 1})
	assert.Equal(t, engine.Redraw, h.dispatch(t, "rerollnow"))
	assert.Equal(t, 1, h.st.Round)
	assert.Equal(t, 4, h.combatant(t, "Orc").RollResult)
}

func TestAdd_FromBestiaryWithCount(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, engine.Redraw, h.dispatch(t, "add gob 2"))
	assert.Equal(t, []string{"Goblin", "Goblin_2"}, h.st.Roster.Names())
	assert.Equal(t, 6, h.combatant(t, "Goblin_2").Health)
	assert.Contains(t, h.out.String(), "database has: Goblin, Goblin Boss...")
	assert.Contains(t, h.out.String(), "adding Goblin_2 : 2 INIT, 6 HP")
	assert.Equal(t, 0, h.st.Players.Len())
}

func TestAdd_NotInDatabase(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, engine.Continue, h.dispatch(t, "add dragon"))
	assert.Contains(t, h.out.String(), "`dragon`: not in database")
	assert.Equal(t, 0, h.st.Roster.Len())
}

func TestAdd_Custom(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, engine.Redraw, h.dispatch(t, "add Zed 14 12 13 undead 2"))
	assert.Equal(t, []string{"Zed", "Zed_2"}, h.st.Roster.Names())
	z := h.combatant(t, "Zed")
	assert.Equal(t, 2, z.InitMod)
	assert.Equal(t, 12, z.Health)
	assert.Equal(t, 13, z.ArmorClass)
	assert.Equal(t, "undead", z.Type)
}

func TestAdd_CustomDiceHealth(t *testing.T) {
	h := newHarness(t, "")
	h.dispatch(t, "add Wisp 10 1d4+1 12 fey")
	assert.Equal(t, 4, h.combatant(t, "Wisp").Health)
}

func TestAdd_UsageErrorsLeaveRosterUnchanged(t *testing.T) {
	for _, line := range []string{"add", "add Zed x 12 13 undead", "add Zed 14 12 13 undead 0", "add Zed 14 2x4 13 undead", "add a b c", "add Goblin many"} {
		t.Run(line, func(t *testing.T) {
			h := newHarness(t, "")
			assert.Equal(t, engine.Continue, h.dispatch(t, line))
			assert.Contains(t, h.out.String(), "usage:")
			assert.Equal(t, 0, h.st.Roster.Len())
		})
	}
}

func TestAdd_MergesEncounterFile(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, h.store.Write(context.Background(), "party", []byte(
		`{"characters": [{"name": "Aria", "init_mod": 3, "health": 24, "ac": 16, "type": "elf"}], "enemies": []}`)))
	h.st.Roster.Insert(roster.Combatant{Name: "Orc"})

	assert.Equal(t, engine.Redraw, h.dispatch(t, "add party"))
	assert.Equal(t, []string{"Orc", "Aria"}, h.st.Roster.Names())
	assert.True(t, h.st.Players.Has("Aria"))
	assert.Contains(t, h.out.String(), "adding Aria : 3 INIT, 24 HP")
}

func TestRemove_ExactNameOnly(t *testing.T) {
	h := newHarness(t, "")
	h.dispatch(t, "add Goblin 2")

	assert.Equal(t, engine.Redraw, h.dispatch(t, "remove gob"))
	assert.Contains(t, h.out.String(), "`gob`: not found")
	assert.Contains(t, h.out.String(), "did you mean: Goblin, Goblin_2")
	assert.Equal(t, 2, h.st.Roster.Len())

	h.dispatch(t, "rm goblin_2 nobody")
	assert.Contains(t, h.out.String(), "removed Goblin_2")
	assert.Contains(t, h.out.String(), "`nobody`: not found")
	assert.Equal(t, []string{"Goblin"}, h.st.Roster.Names())
}

func TestRemove_Bulk(t *testing.T) {
	for _, line := range []string{"remove Gob *", "remove Gob*"} {
		t.Run(line, func(t *testing.T) {
			h := newHarness(t, "")
			h.dispatch(t, "add Goblin 3")
			h.dispatch(t, "add Orc")
			h.dispatch(t, line)
			assert.Equal(t, []string{"Orc"}, h.st.Roster.Names())
		})
	}
}

func TestRemove_DropsPlayerRegistration(t *testing.T) {
	h := newHarness(t, "")
	h.st.AddPlayer(roster.Combatant{Name: "Aria"})
	h.dispatch(t, "remove aria")
	assert.False(t, h.st.Players.Has("Aria"))
}

func TestEdit_Fields(t *testing.T) {
	h := newHarness(t, "")
	h.st.AddPlayer(roster.Combatant{Name: "Aria", Health: 10})

	h.dispatch(t, "edit aria hp 30")
	h.dispatch(t, "edit aria ac 17")
	h.dispatch(t, "edit aria dex 18")
	h.dispatch(t, "edit aria roll 21")
	h.dispatch(t, "edit aria type half-elf")
	assert.Equal(t, engine.Redraw, h.dispatch(t, "edit aria name Ari"))

	a := h.combatant(t, "Ari")
	assert.Equal(t, roster.Combatant{Name: "Ari", Health: 30, ArmorClass: 17, InitMod: 4, RollResult: 21, Type: "half-elf"}, *a)
	assert.True(t, h.st.Players.Has("Ari"))
	assert.False(t, h.st.Players.Has("Aria"))
}

func TestEdit_Errors(t *testing.T) {
	h := newHarness(t, "")
	h.st.Roster.Insert(roster.Combatant{Name: "Orc", Health: 5})
	h.st.Roster.Insert(roster.Combatant{Name: "Ogre"})

	h.dispatch(t, "edit orc speed 3")
	assert.Contains(t, h.out.String(), "usage:")

	h.dispatch(t, "edit orc hp lots")
	assert.Contains(t, h.out.String(), "usage:")
	assert.Equal(t, 5, h.combatant(t, "Orc").Health)

	h.dispatch(t, "edit orc name ogre")
	assert.Contains(t, h.out.String(), "name already in use")

	h.dispatch(t, "edit nobody hp 1")
	assert.Contains(t, h.out.String(), "`nobody`: not found")
}

func TestDamageAndHeal(t *testing.T) {
	h := newHarness(t, "")
	h.st.Roster.Insert(roster.Combatant{Name: "Orc", Health: 5})

	assert.Equal(t, engine.Redraw, h.dispatch(t, "damage orc 8"))
	assert.Equal(t, -3, h.combatant(t, "Orc").Health)
	h.dispatch(t, "heal orc 4")
	assert.Equal(t, 1, h.combatant(t, "Orc").Health)
	h.dispatch(t, "dmg orc x")
	assert.Contains(t, h.out.String(), "usage:")
	assert.Equal(t, 1, h.combatant(t, "Orc").Health)
}

func TestRoll_InlineValues(t *testing.T) {
	h := newHarness(t, "")
	h.st.AddPlayer(roster.Combatant{Name: "Aria"})
	h.st.AddPlayer(roster.Combatant{Name: "Bran"})
	h.st.Roster.Insert(roster.Combatant{Name: "Orc", RollResult: 15})

	assert.Equal(t, engine.Redraw, h.dispatch(t, "roll 12 17"))
	assert.Equal(t, []string{"Bran", "Orc", "Aria"}, h.st.Roster.Names())
}

func TestRoll_PromptedValues(t *testing.T) {
	h := newHarness(t, "5 20\n")
	h.st.AddPlayer(roster.Combatant{Name: "Aria"})
	h.st.AddPlayer(roster.Combatant{Name: "Bran"})

	assert.Equal(t, engine.Redraw, h.dispatch(t, "roll"))
	assert.Contains(t, h.out.String(), "rolls for Aria Bran: ")
	assert.Equal(t, 5, h.combatant(t, "Aria").RollResult)
	assert.Equal(t, 20, h.combatant(t, "Bran").RollResult)
}

func TestRoll_CountMismatchChangesNothing(t *testing.T) {
	h := newHarness(t, "")
	h.st.AddPlayer(roster.Combatant{Name: "Aria", RollResult: 3})
	h.st.AddPlayer(roster.Combatant{Name: "Bran", RollResult: 4})

	assert.Equal(t, engine.Continue, h.dispatch(t, "roll 12"))
	assert.Contains(t, h.out.String(), "expected 2 rolls, got 1")
	assert.Equal(t, 3, h.combatant(t, "Aria").RollResult)
}

func TestLock_TogglesAndSurvivesReroll(t *testing.T) {
	h := newHarness(t, "")
	h.st.Roster.Insert(roster.Combatant{Name: "Orc", RollResult: 19})
	h.st.Roster.Insert(roster.Combatant{Name: "Imp"})

	h.dispatch(t, "lock orc ghost")
	assert.True(t, h.combatant(t, "Orc").Locked)
	assert.Contains(t, h.out.String(), "`ghost`: not found")

	h.dispatch(t, "rollall")
	assert.Equal(t, 19, h.combatant(t, "Orc").RollResult)
	assert.Equal(t, 3, h.combatant(t, "Imp").RollResult)

	h.dispatch(t, "lock orc")
	assert.False(t, h.combatant(t, "Orc").Locked)
}

func TestReload_SortsWithoutRerolling(t *testing.T) {
	h := newHarness(t, "")
	h.st.Roster.Insert(roster.Combatant{Name: "Imp", RollResult: 2})
	h.st.Roster.Insert(roster.Combatant{Name: "Orc", RollResult: 19})

	assert.Equal(t, engine.Redraw, h.dispatch(t, "reload"))
	assert.Equal(t, []string{"Orc", "Imp"}, h.st.Roster.Names())
	assert.Equal(t, 0, h.st.Round)
}

func TestSave_RefusesOverwriteWithoutForce(t *testing.T) {
	h := newHarness(t, "")
	h.st.Roster.Insert(roster.Combatant{Name: "Orc"})

	h.dispatch(t, "save cave")
	assert.Contains(t, h.out.String(), "saved cave")

	h.dispatch(t, "save cave")
	assert.Contains(t, h.out.String(), "`cave` already exists\nuse 'save <file> -f' to force")

	h.dispatch(t, "save cave -f")
	assert.Contains(t, h.out.String(), "saved cave")

	h.dispatch(t, "save cave --force")
	assert.Contains(t, h.out.String(), "usage:")
}

func TestLoad_MissingFileRestoresRoster(t *testing.T) {
	h := newHarness(t, "")
	h.st.AddPlayer(roster.Combatant{Name: "Aria", Health: 9})
	before := h.st.Roster.Snapshot()

	assert.Equal(t, engine.Continue, h.dispatch(t, "load nowhere"))
	assert.Contains(t, h.out.String(), "file not found, restoring backup")
	assert.Equal(t, before, h.st.Roster.Snapshot())
	assert.True(t, h.st.Players.Has("Aria"))
}

func TestLoad_MissingKeyRestoresRoster(t *testing.T) {
	h := newHarness(t, "")
	h.st.Roster.Insert(roster.Combatant{Name: "Orc"})
	require.NoError(t, h.store.Write(context.Background(), "broken", []byte(`{"characters": []}`)))

	h.dispatch(t, "load broken")
	assert.Contains(t, h.out.String(), "missing key, restoring backup")
	assert.Equal(t, []string{"Orc"}, h.st.Roster.Names())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	h := newHarness(t, "")
	h.st.AddPlayer(roster.Combatant{Name: "Aria", InitMod: 3, Health: 24, ArmorClass: 16, Type: "elf"})
	h.st.Roster.Insert(roster.Combatant{Name: "Wolf", InitMod: 2, Health: 11, ArmorClass: 13, Type: "beast"})
	h.dispatch(t, "save trip")
	h.dispatch(t, "remove Aria Wolf")
	require.Equal(t, 0, h.st.Roster.Len())

	assert.Equal(t, engine.Redraw, h.dispatch(t, "load trip"))
	assert.Equal(t, []string{"Aria", "Wolf"}, h.st.Roster.Names())
	assert.True(t, h.st.Players.Has("Aria"))
	assert.False(t, h.st.Players.Has("Wolf"))
}

func TestSaveLoad_RoundTripAfterSort(t *testing.T) {
	h := newHarness(t, "")
	h.st.AddPlayer(roster.Combatant{Name: "Aria", InitMod: 3, Health: 24})
	h.st.Roster.Insert(roster.Combatant{Name: "Wolf", InitMod: -2, Health: 11})
	h.st.Roster.Insert(roster.Combatant{Name: "Wolf", InitMod: 5, Health: 9})
	h.dispatch(t, "rollall")
	sorted := h.st.Roster.Names()
	require.Equal(t, []string{"Wolf_2", "Aria", "Wolf"}, sorted)

	h.dispatch(t, "save sorted")
	assert.Equal(t, engine.Redraw, h.dispatch(t, "load sorted"))
	assert.ElementsMatch(t, sorted, h.st.Roster.Names())
	assert.Equal(t, 9, h.combatant(t, "Wolf_2").Health)
	assert.Equal(t, 11, h.combatant(t, "Wolf").Health)
	assert.True(t, h.st.Players.Has("Aria"))
}

func TestList(t *testing.T) {
	h := newHarness(t, "")
	h.dispatch(t, "list")
	assert.Equal(t, "no encounter files found\n", h.out.String())

	h.dispatch(t, "save b")
	h.dispatch(t, "save a")
	h.dispatch(t, "ls")
	assert.Equal(t, "a\nb\n", h.out.String())
}

func TestHelp(t *testing.T) {
	h := newHarness(t, "")

	h.dispatch(t, "help")
	out := h.out.String()
	assert.Contains(t, out, "initiative:")
	assert.Contains(t, out, "rollall")
	assert.Contains(t, out, "(reroll)")
	assert.Less(t, strings.Index(out, "initiative:"), strings.Index(out, "system:"))

	h.dispatch(t, "help save")
	assert.Contains(t, h.out.String(), "save <file> [-f]")

	h.dispatch(t, "help nothing")
	assert.Contains(t, h.out.String(), "`nothing`: command not found")

	h.dispatch(t, "help commands")
	assert.Contains(t, h.out.String(), "lock\n")

	h.dispatch(t, "help all")
	assert.Contains(t, h.out.String(), "edit <name> <field> <value>")
}

func TestHistory_DispatchesPickedLine(t *testing.T) {
	h := newHarness(t, "")
	h.dispatch(t, "add Goblin")
	h.picker.choice, h.picker.ok = "damage Goblin 3", true

	assert.Equal(t, engine.Redraw, h.dispatch(t, "hist"))
	assert.Equal(t, []string{"add Goblin"}, h.picker.offered)
	assert.Equal(t, 3, h.combatant(t, "Goblin").Health)
}

func TestHistory_BackOutDoesNothing(t *testing.T) {
	h := newHarness(t, "")
	h.dispatch(t, "add Goblin")
	assert.Equal(t, engine.Continue, h.dispatch(t, "history"))
	assert.Equal(t, 6, h.combatant(t, "Goblin").Health)
}

func TestHistory_Empty(t *testing.T) {
	h := newHarness(t, "")
	h.dispatch(t, "hist")
	assert.Contains(t, h.out.String(), "no history")
	assert.Nil(t, h.picker.offered)
}

func TestShellAndBash(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, engine.Continue, h.dispatch(t, "shell echo  hi"))
	assert.Equal(t, []string{"echo  hi"}, h.shell.commands)

	h.dispatch(t, "shell")
	assert.Contains(t, h.out.String(), "usage:")

	assert.Equal(t, engine.Redraw, h.dispatch(t, "bash"))
	assert.Equal(t, 1, h.shell.interactive)

	h.shell.err = errors.New("exit status 1")
	h.dispatch(t, "! false")
	assert.Contains(t, h.out.String(), "exit status 1")
}

func TestScript(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, engine.Redraw, h.dispatch(t, "script macros/ambush.lua"))
	assert.Equal(t, []string{"macros/ambush.lua"}, h.scripts.paths)

	h.scripts.err = errors.New("boom")
	assert.Equal(t, engine.Continue, h.dispatch(t, "script bad.lua"))
	assert.Contains(t, h.out.String(), "script failed, restoring backup: boom")
}

func TestExit_ForceSavesAutosave(t *testing.T) {
	h := newHarness(t, "")
	h.st.Roster.Insert(roster.Combatant{Name: "Orc"})
	require.NoError(t, h.store.Write(context.Background(), "autosave", []byte(`{"characters": [], "enemies": []}`)))

	assert.Equal(t, engine.Exit, h.dispatch(t, "quit"))
	assert.Contains(t, h.out.String(), "exiting...")

	data, err := os.ReadFile(filepath.Join(h.store.Dir(), "autosave.json"))
	require.NoError(t, err)
	f, err := encounter.Decode(data)
	require.NoError(t, err)
	require.Len(t, f.Enemies, 1)
	assert.Equal(t, "Orc", f.Enemies[0].Name)
}

func TestRun_EOFExitsAndAutosaves(t *testing.T) {
	h := newHarness(t, "add Orc\n")
	require.NoError(t, h.e.Run(context.Background()))
	assert.Equal(t, 2, h.screen.draws)
	assert.Contains(t, h.out.String(), "exiting...")

	ok, err := h.store.Exists(context.Background(), "autosave")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRun_ExitCommand(t *testing.T) {
	h := newHarness(t, "exit\nadd Orc\n")
	require.NoError(t, h.e.Run(context.Background()))
	assert.Equal(t, 0, h.st.Roster.Len())
}

func TestRun_CancelledContext(t *testing.T) {
	h := newHarness(t, "add Orc\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.e.Run(ctx), context.Canceled)
}

func TestRun_BashDropsReadAheadInput(t *testing.T) {
	h := newHarness(t, "bash\necho 1\nexit\n")
	require.NoError(t, h.e.Run(context.Background()))

	assert.Equal(t, 1, h.shell.interactive)
	assert.Contains(t, h.out.String(), "discarded 12 bytes of pending input")
	assert.NotContains(t, h.out.String(), "`echo`: command not found")
	assert.Contains(t, h.out.String(), "exiting...")
}

func TestRun_HistoryPickerDropsReadAheadInput(t *testing.T) {
	h := newHarness(t, "add Goblin\nhist\nadd Orc\n")
	h.picker.choice, h.picker.ok = "damage Goblin 2", true
	require.NoError(t, h.e.Run(context.Background()))

	assert.Equal(t, []string{"Goblin"}, h.st.Roster.Names())
	assert.Equal(t, 4, h.combatant(t, "Goblin").Health)
}

func TestStart_FallsBackToPlayers(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, h.store.Write(context.Background(), "players", []byte(
		`{"characters": [{"name": "Aria", "init_mod": 3, "health": 24, "ac": 16, "type": "elf"}], "enemies": []}`)))

	h.e.Start(context.Background())
	assert.Contains(t, h.out.String(), "autosave error, loading default...")
	assert.Contains(t, h.out.String(), "loaded players...")
	assert.Equal(t, []string{"Aria"}, h.st.Roster.Names())
	assert.True(t, h.st.Players.Has("Aria"))
}

func TestStart_PrefersAutosave(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, h.store.Write(context.Background(), "autosave", []byte(
		`{"characters": [], "enemies": [{"name": "Wolf", "init_mod": 2, "health": 11}]}`)))
	require.NoError(t, h.store.Write(context.Background(), "players", []byte(
		`{"characters": [{"name": "Aria", "init_mod": 3, "health": 24}], "enemies": []}`)))

	h.e.Start(context.Background())
	assert.Contains(t, h.out.String(), "loaded autosave...")
	assert.Equal(t, []string{"Wolf"}, h.st.Roster.Names())
}

func TestStart_EmptyWhenNothingLoads(t *testing.T) {
	h := newHarness(t, "")
	h.e.Start(context.Background())
	assert.Contains(t, h.out.String(), "no default roster, starting empty")
	assert.Equal(t, 0, h.st.Roster.Len())
}
