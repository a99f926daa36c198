package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tracker/internal/encounter"
	"github.com/cory-johannsen/tracker/internal/game/bestiary"
	"github.com/cory-johannsen/tracker/internal/game/command"
	"github.com/cory-johannsen/tracker/internal/game/resolver"
	"github.com/cory-johannsen/tracker/internal/game/roster"
)

// call carries the resolved command and its parsed input.
type call struct {
	cmd    *command.Command
	parsed command.ParseResult
}

func (c *call) args() []string { return c.parsed.Args }

// handlerFunc is the signature of every command handler. Returning an error
// wrapping ErrUsage prints the command usage.
type handlerFunc func(ctx context.Context, e *Engine, c *call) (Outcome, error)

// Handlers returns the map from Handler constant to handler function.
func Handlers() map[string]handlerFunc {
	return handlerMap
}

// handlerMap is the single source of truth for command dispatch.
// To add a new command: add a Handler constant to commands.go AND add an entry here.
var handlerMap map[string]handlerFunc

func init() {
	handlerMap = map[string]handlerFunc{
		command.HandlerRollAll: handleRollAll,
		command.HandlerClear:   handleClear,
		command.HandlerReload:  handleReload,
		command.HandlerList:    handleList,
		command.HandlerSave:    handleSave,
		command.HandlerLoad:    handleLoad,
		command.HandlerAdd:     handleAdd,
		command.HandlerRemove:  handleRemove,
		command.HandlerEdit:    handleEdit,
		command.HandlerDamage:  handleDamage,
		command.HandlerHeal:    handleHeal,
		command.HandlerRoll:    handleRoll,
		command.HandlerLock:    handleLock,
		command.HandlerHelp:    handleHelp,
		command.HandlerHistory: handleHistory,
		command.HandlerExit:    handleExit,
		command.HandlerShell:   handleShell,
		command.HandlerBash:    handleBash,
		command.HandlerScript:  handleScript,
	}
}

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

func atoi(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usagef("%s must be an integer, got %q", field, s)
	}
	return n, nil
}

func handleRollAll(_ context.Context, e *Engine, _ *call) (Outcome, error) {
	e.st.AdvanceRound()
	e.logger.Info("round advanced", zap.Int("round", e.st.Round), zap.Int("roster", e.st.Roster.Len()))
	return Redraw, nil
}

func handleClear(_ context.Context, _ *Engine, _ *call) (Outcome, error) {
	return Redraw, nil
}

func handleReload(_ context.Context, e *Engine, _ *call) (Outcome, error) {
	e.st.Roster.Sort()
	return Redraw, nil
}

func handleList(ctx context.Context, e *Engine, _ *call) (Outcome, error) {
	ids, err := e.enc.List(ctx)
	if err != nil {
		return Continue, err
	}
	if len(ids) == 0 {
		e.println("no encounter files found")
		return Continue, nil
	}
	for _, id := range ids {
		e.println(id)
	}
	return Continue, nil
}

func handleSave(ctx context.Context, e *Engine, c *call) (Outcome, error) {
	args := c.args()
	force := false
	switch {
	case len(args) == 1:
	case len(args) == 2 && args[1] == "-f":
		force = true
	default:
		return Continue, ErrUsage
	}
	id := args[0]
	err := e.enc.Save(ctx, id, e.st, force)
	switch {
	case errors.Is(err, encounter.ErrAlreadyExists):
		e.printf("`%s` already exists\nuse 'save <file> -f' to force\n", id)
		return Continue, nil
	case err != nil:
		return Continue, err
	}
	e.printf("saved %s\n", id)
	return Continue, nil
}

func handleLoad(ctx context.Context, e *Engine, c *call) (Outcome, error) {
	if len(c.args()) != 1 {
		return Continue, ErrUsage
	}
	added, err := e.enc.Load(ctx, c.args()[0], e.st)
	if err != nil {
		e.reportLoadError(err)
		return Continue, nil
	}
	e.reportAdded(added)
	return Redraw, nil
}

// reportLoadError prints the failure kind of a load or merge.
func (e *Engine) reportLoadError(err error) {
	switch {
	case errors.Is(err, encounter.ErrFileNotFound):
		e.println("file not found, restoring backup")
	case errors.Is(err, encounter.ErrMissingKey):
		e.printf("missing key, restoring backup: %v\n", err)
	case errors.Is(err, encounter.ErrStructurallyInvalid):
		e.printf("invalid encounter file, restoring backup: %v\n", err)
	default:
		e.printf("load failed, restoring backup: %v\n", err)
	}
}

func (e *Engine) reportAdded(added []encounter.Added) {
	for _, a := range added {
		if a.FromBestiary() {
			e.printf("database has: %s...\n", strings.Join(a.Suggestions, ", "))
		}
		e.printf("adding %s : %d INIT, %d HP\n", a.Name, a.InitMod, a.Health)
	}
}

func (e *Engine) reportCombatants(added []*roster.Combatant) {
	for _, c := range added {
		e.printf("adding %s : %d INIT, %d HP\n", c.Name, c.InitMod, c.Health)
	}
}

func parseCount(s string) (int, error) {
	n, err := atoi("count", s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, usagef("count must be at least 1, got %d", n)
	}
	return n, nil
}

// handleAdd merges an encounter, spawns from the bestiary or builds a custom combatant.
func handleAdd(ctx context.Context, e *Engine, c *call) (Outcome, error) {
	args := c.args()
	switch len(args) {
	case 1, 2:
		if len(args) == 1 {
			if encounter.ValidateID(args[0]) == nil {
				exists, err := e.enc.Store().Exists(ctx, args[0])
				if err != nil {
					return Continue, err
				}
				if exists {
					added, err := e.enc.Merge(ctx, args[0], e.st)
					if err != nil {
						e.reportLoadError(err)
						return Continue, nil
					}
					e.reportAdded(added)
					return Redraw, nil
				}
			}
		}
		count := 1
		if len(args) == 2 {
			n, err := parseCount(args[1])
			if err != nil {
				return Continue, err
			}
			count = n
		}
		return e.addFromBestiary(args[0], count)
	case 5, 6:
		return e.addCustom(args)
	default:
		return Continue, ErrUsage
	}
}

func (e *Engine) addFromBestiary(query string, count int) (Outcome, error) {
	res := e.st.DB.Resolve(query)
	tmpl, ok := res.Best()
	if !ok {
		e.printf("`%s`: not in database\n", query)
		return Continue, nil
	}
	e.printf("database has: %s...\n", strings.Join(resolver.Names(res.Top(resolver.SuggestionCount), func(en bestiary.Entry) string { return en.Name }), ", "))
	added, err := e.st.Spawn(tmpl, count, false)
	if err != nil {
		return Continue, err
	}
	e.reportCombatants(added)
	return Redraw, nil
}

// addCustom handles add <name> <dex> <hp> <ac> <type> [count]. The hp field
// may be a dice expression, rolled separately for every copy.
func (e *Engine) addCustom(args []string) (Outcome, error) {
	dex, err := atoi("dex", args[1])
	if err != nil {
		return Continue, err
	}
	ac, err := atoi("ac", args[3])
	if err != nil {
		return Continue, err
	}
	count := 1
	if len(args) == 6 {
		if count, err = parseCount(args[5]); err != nil {
			return Continue, err
		}
	}
	tmpl := bestiary.Entry{
		Name:       args[0],
		Type:       args[4],
		ArmorClass: ac,
		InitMod:    bestiary.AbilityMod(dex),
		HealthRoll: args[2],
	}
	added, err := e.st.Spawn(tmpl, count, false)
	if err != nil {
		return Continue, usagef("hp: %v", err)
	}
	e.reportCombatants(added)
	return Redraw, nil
}

// find looks up a single combatant by exact name, printing suggestions on a miss.
func (e *Engine) find(name string) (*roster.Combatant, bool) {
	c, res, err := e.st.Roster.Find(name)
	if err == nil {
		return c, true
	}
	e.printf("`%s`: not found\n", name)
	if !res.Empty() {
		e.printf("did you mean: %s\n", strings.Join(resolver.Names(res.Top(resolver.SuggestionCount), func(c *roster.Combatant) string { return c.Name }), ", "))
	}
	return nil, false
}

// handleRemove removes exact names one by one; a trailing * argument or a
// name ending in * removes every prefix match.
func handleRemove(_ context.Context, e *Engine, c *call) (Outcome, error) {
	args := c.args()
	if len(args) == 0 {
		return Continue, ErrUsage
	}
	if len(args) == 2 && args[1] == "*" {
		e.removeMatching(args[0])
		return Redraw, nil
	}
	for _, name := range args {
		if prefix, ok := strings.CutSuffix(name, "*"); ok && prefix != "" {
			e.removeMatching(prefix)
			continue
		}
		if _, ok := e.find(name); !ok {
			continue
		}
		removed, err := e.st.Remove(name)
		if err != nil {
			e.printf("`%s`: %v\n", name, err)
			continue
		}
		e.printf("removed %s\n", removed.Name)
	}
	return Redraw, nil
}

func (e *Engine) removeMatching(prefix string) {
	removed := e.st.RemoveMatching(prefix)
	if len(removed) == 0 {
		e.printf("`%s*`: not found\n", prefix)
		return
	}
	for _, r := range removed {
		e.printf("removed %s\n", r.Name)
	}
}

func handleEdit(_ context.Context, e *Engine, c *call) (Outcome, error) {
	args := c.args()
	if len(args) != 3 {
		return Continue, ErrUsage
	}
	target, ok := e.find(args[0])
	if !ok {
		return Continue, nil
	}
	field, value := strings.ToLower(args[1]), args[2]
	switch field {
	case "name":
		if _, err := e.st.Rename(target.Name, value); err != nil {
			return Continue, err
		}
	case "type":
		target.Type = value
	case "roll", "hp", "ac", "dex":
		n, err := atoi(field, value)
		if err != nil {
			return Continue, err
		}
		switch field {
		case "roll":
			target.RollResult = n
		case "hp":
			target.Health = n
		case "ac":
			target.ArmorClass = n
		case "dex":
			target.InitMod = bestiary.AbilityMod(n)
		}
	default:
		return Continue, usagef("unknown field %q", field)
	}
	return Redraw, nil
}

func handleDamage(_ context.Context, e *Engine, c *call) (Outcome, error) {
	return e.adjustHealth(c, (*roster.Combatant).ApplyDamage)
}

func handleHeal(_ context.Context, e *Engine, c *call) (Outcome, error) {
	return e.adjustHealth(c, (*roster.Combatant).Heal)
}

func (e *Engine) adjustHealth(c *call, apply func(*roster.Combatant, int)) (Outcome, error) {
	args := c.args()
	if len(args) != 2 {
		return Continue, ErrUsage
	}
	n, err := atoi("amount", args[1])
	if err != nil {
		return Continue, err
	}
	target, ok := e.find(args[0])
	if !ok {
		return Continue, nil
	}
	apply(target, n)
	return Redraw, nil
}

// handleRoll sets the initiative of every present player from inline values
// or from one prompted line.
func handleRoll(_ context.Context, e *Engine, c *call) (Outcome, error) {
	players := e.st.PresentPlayers()
	if len(players) == 0 {
		e.println("no players in the roster")
		return Continue, nil
	}
	values := c.args()
	if len(values) == 0 {
		e.printf("rolls for %s: ", strings.Join(players, " "))
		line, err := e.in.ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			return Continue, fmt.Errorf("reading rolls: %w", err)
		}
		values = strings.Fields(line)
	}
	if len(values) != len(players) {
		return Continue, usagef("expected %d rolls, got %d", len(players), len(values))
	}
	rolls := make([]int, len(values))
	for i, v := range values {
		n, err := atoi("roll", v)
		if err != nil {
			return Continue, err
		}
		rolls[i] = n
	}
	for i, name := range players {
		p, _, err := e.st.Roster.Find(name)
		if err != nil {
			return Continue, err
		}
		p.RollResult = rolls[i]
	}
	e.st.Roster.Sort()
	return Redraw, nil
}

func handleLock(_ context.Context, e *Engine, c *call) (Outcome, error) {
	if len(c.args()) == 0 {
		return Continue, ErrUsage
	}
	for _, name := range c.args() {
		target, ok := e.find(name)
		if !ok {
			continue
		}
		target.Locked = !target.Locked
	}
	return Redraw, nil
}

func handleHelp(_ context.Context, e *Engine, c *call) (Outcome, error) {
	args := c.args()
	switch {
	case len(args) == 0:
		byCategory := e.registry.CommandsByCategory()
		for _, cat := range command.CategoryOrder {
			cmds := byCategory[cat]
			if len(cmds) == 0 {
				continue
			}
			e.printf("%s:\n", cat)
			for _, cmd := range cmds {
				aliases := ""
				if len(cmd.Aliases) > 0 {
					aliases = " (" + strings.Join(cmd.Aliases, ", ") + ")"
				}
				e.printf("  %-10s %s%s\n", cmd.Name, cmd.Help, aliases)
			}
		}
	case args[0] == "all":
		for _, cmd := range e.registry.Commands() {
			e.printf("%s: %s\n", cmd.Name, cmd.Help)
			for _, u := range strings.Split(cmd.Usage, "\n") {
				e.printf("  %s\n", u)
			}
		}
	case args[0] == "commands":
		for _, cmd := range e.registry.Commands() {
			e.println(cmd.Name)
		}
	default:
		cmd, ok := e.registry.Resolve(strings.ToLower(args[0]))
		if !ok {
			e.printf("`%s`: command not found\nuse \"help\" for help\n", args[0])
			return Continue, nil
		}
		e.printf("%s: %s\n", cmd.Name, cmd.Help)
		e.printUsage(cmd)
	}
	return Continue, nil
}

func handleHistory(ctx context.Context, e *Engine, _ *call) (Outcome, error) {
	if e.picker == nil {
		return Continue, errors.New("history navigation unavailable")
	}
	if e.hist.Len() == 0 {
		e.println("no history")
		return Continue, nil
	}
	e.releaseInput()
	line, ok, err := e.picker.Pick(ctx, e.hist.Entries())
	if err != nil || !ok {
		return Continue, err
	}
	e.println(line)
	return e.Dispatch(ctx, line), nil
}

func handleExit(ctx context.Context, e *Engine, _ *call) (Outcome, error) {
	e.exit(ctx)
	return Exit, nil
}

func handleShell(ctx context.Context, e *Engine, c *call) (Outcome, error) {
	if e.shell == nil {
		return Continue, errors.New("shell unavailable")
	}
	if c.parsed.RawArgs == "" {
		return Continue, ErrUsage
	}
	e.releaseInput()
	return Continue, e.shell.Run(ctx, c.parsed.RawArgs)
}

func handleBash(ctx context.Context, e *Engine, _ *call) (Outcome, error) {
	if e.shell == nil {
		return Continue, errors.New("shell unavailable")
	}
	e.releaseInput()
	return Redraw, e.shell.Interactive(ctx)
}

func handleScript(ctx context.Context, e *Engine, c *call) (Outcome, error) {
	if e.scripts == nil {
		return Continue, errors.New("scripting unavailable")
	}
	if len(c.args()) != 1 {
		return Continue, ErrUsage
	}
	if err := e.scripts.RunFile(ctx, c.args()[0], e.st, e.out); err != nil {
		e.printf("script failed, restoring backup: %v\n", err)
		return Continue, nil
	}
	return Redraw, nil
}
