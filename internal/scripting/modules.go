package scripting

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tracker/internal/game/roster"
	"github.com/cory-johannsen/tracker/internal/game/session"
)

// run binds one script execution to a session.
type run struct {
	L      *lua.LState
	st     *session.State
	out    io.Writer
	logger *zap.Logger
}

// register defines the tracker global table.
//
// Postcondition: tracker.{names,get,damage,heal,add,roll,round,print,log} are defined.
func (r *run) register() {
	mod := r.L.SetFuncs(r.L.NewTable(), map[string]lua.LGFunction{
		"names":  r.names,
		"get":    r.get,
		"damage": r.damage,
		"heal":   r.heal,
		"add":    r.add,
		"roll":   r.roll,
		"round":  r.round,
		"print":  r.print,
		"log":    r.log,
	})
	r.L.SetGlobal("tracker", mod)
}

func (r *run) names(L *lua.LState) int {
	t := L.NewTable()
	for _, n := range r.st.Roster.Names() {
		t.Append(lua.LString(n))
	}
	L.Push(t)
	return 1
}

func (r *run) find(L *lua.LState, name string) *roster.Combatant {
	c, _, err := r.st.Roster.Find(name)
	if err != nil {
		L.RaiseError("%v", err)
	}
	return c
}

func (r *run) get(L *lua.LState) int {
	c, _, err := r.st.Roster.Find(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	t := L.NewTable()
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("hp", lua.LNumber(c.Health))
	t.RawSetString("ac", lua.LNumber(c.ArmorClass))
	t.RawSetString("init_mod", lua.LNumber(c.InitMod))
	t.RawSetString("roll", lua.LNumber(c.RollResult))
	t.RawSetString("type", lua.LString(c.Type))
	t.RawSetString("locked", lua.LBool(c.Locked))
	t.RawSetString("player", lua.LBool(r.st.Players.Has(c.Name)))
	L.Push(t)
	return 1
}

func (r *run) damage(L *lua.LState) int {
	c := r.find(L, L.CheckString(1))
	c.ApplyDamage(L.CheckInt(2))
	L.Push(lua.LNumber(c.Health))
	return 1
}

func (r *run) heal(L *lua.LState) int {
	c := r.find(L, L.CheckString(1))
	c.Heal(L.CheckInt(2))
	L.Push(lua.LNumber(c.Health))
	return 1
}

// add spawns count copies of the best bestiary match for name and returns
// the inserted names.
func (r *run) add(L *lua.LState) int {
	query := L.CheckString(1)
	count := L.OptInt(2, 1)
	if count < 1 {
		L.ArgError(2, "count must be at least 1")
	}
	tmpl, ok := r.st.DB.Resolve(query).Best()
	if !ok {
		L.RaiseError("%q: no bestiary match", query)
	}
	added, err := r.st.Spawn(tmpl, count, false)
	if err != nil {
		L.RaiseError("%v", err)
	}
	t := L.NewTable()
	for _, c := range added {
		t.Append(lua.LString(c.Name))
	}
	L.Push(t)
	return 1
}

func (r *run) roll(L *lua.LState) int {
	total, err := r.st.Roller.Evaluate(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(total))
	return 1
}

func (r *run) round(L *lua.LState) int {
	L.Push(lua.LNumber(r.st.Round))
	return 1
}

func (r *run) print(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

func (r *run) log(L *lua.LState) int {
	r.logger.Info("script log", zap.String("message", L.CheckString(1)))
	return 0
}
