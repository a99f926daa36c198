// Package command provides the tracker's command table, line parser and registry.
package command

// Categories for organizing help output.
const (
	CategoryEncounter  = "encounter"
	CategoryCombatants = "combatants"
	CategoryInitiative = "initiative"
	CategorySystem     = "system"
)

// CategoryOrder is the order categories are listed in help.
var CategoryOrder = []string{CategoryInitiative, CategoryCombatants, CategoryEncounter, CategorySystem}

// Handler identifiers mapping commands to engine handlers.
const (
	HandlerRollAll = "rollall"
	HandlerClear   = "clear"
	HandlerReload  = "reload"
	HandlerList    = "list"
	HandlerSave    = "save"
	HandlerLoad    = "load"
	HandlerAdd     = "add"
	HandlerRemove  = "remove"
	HandlerEdit    = "edit"
	HandlerDamage  = "damage"
	HandlerHeal    = "heal"
	HandlerRoll    = "roll"
	HandlerLock    = "lock"
	HandlerHelp    = "help"
	HandlerHistory = "hist"
	HandlerExit    = "exit"
	HandlerShell   = "shell"
	HandlerBash    = "bash"
	HandlerScript  = "script"
)

// Command defines an operator-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the one-line description shown in the command list.
	Help string
	// Usage lists the accepted argument forms, one per line.
	Usage string
	// Category groups the command in help output.
	Category string
	// Handler names the engine handler.
	Handler string
	// Prefix commands also match any line that starts with their name or an
	// alias, e.g. "rerolls" runs reroll.
	Prefix bool
}

// BuiltinCommands returns every tracker command.
func BuiltinCommands() []Command {
	return []Command{
		// Initiative
		{Name: "rollall", Aliases: []string{"reroll"}, Help: "Advance the round: reroll unlocked initiative and sort", Usage: "rollall\nreroll", Category: CategoryInitiative, Handler: HandlerRollAll, Prefix: true},
		{Name: "reload", Help: "Sort by current rolls and redraw", Usage: "reload", Category: CategoryInitiative, Handler: HandlerReload, Prefix: true},
		{Name: "roll", Help: "Enter initiative rolls for every player", Usage: "roll [value...]", Category: CategoryInitiative, Handler: HandlerRoll},
		{Name: "lock", Help: "Toggle whether combatants keep their roll on reroll", Usage: "lock <name>...", Category: CategoryInitiative, Handler: HandlerLock},

		// Combatants
		{Name: "add", Help: "Add an encounter file, a bestiary creature or a custom combatant", Usage: "add <file>\nadd <name> [count]\nadd <name> <dex> <hp> <ac> <type> [count]", Category: CategoryCombatants, Handler: HandlerAdd},
		{Name: "remove", Aliases: []string{"rm"}, Help: "Remove combatants by exact name, or every prefix match with *", Usage: "remove <name>...\nremove <prefix> *\nremove <prefix>*", Category: CategoryCombatants, Handler: HandlerRemove},
		{Name: "edit", Help: "Change a combatant field (name, roll, hp, ac, dex, type)", Usage: "edit <name> <field> <value>", Category: CategoryCombatants, Handler: HandlerEdit},
		{Name: "damage", Aliases: []string{"dmg"}, Help: "Subtract health from a combatant", Usage: "damage <name> <n>", Category: CategoryCombatants, Handler: HandlerDamage},
		{Name: "heal", Help: "Add health to a combatant", Usage: "heal <name> <n>", Category: CategoryCombatants, Handler: HandlerHeal},

		// Encounter
		{Name: "list", Aliases: []string{"ls"}, Help: "List saved encounters", Usage: "list", Category: CategoryEncounter, Handler: HandlerList},
		{Name: "save", Help: "Save the encounter", Usage: "save <file> [-f]", Category: CategoryEncounter, Handler: HandlerSave},
		{Name: "load", Help: "Replace the encounter with a saved one", Usage: "load <encounter>", Category: CategoryEncounter, Handler: HandlerLoad},
		{Name: "script", Help: "Run a Lua macro against the encounter", Usage: "script <file.lua>", Category: CategoryEncounter, Handler: HandlerScript},

		// System
		{Name: "clear", Help: "Redraw the table", Usage: "clear", Category: CategorySystem, Handler: HandlerClear, Prefix: true},
		{Name: "help", Aliases: []string{"?"}, Help: "Show help", Usage: "help\nhelp <command>\nhelp all\nhelp commands", Category: CategorySystem, Handler: HandlerHelp, Prefix: true},
		{Name: "hist", Aliases: []string{"history"}, Help: "Pick a previous command to run again", Usage: "hist", Category: CategorySystem, Handler: HandlerHistory},
		{Name: "shell", Aliases: []string{"!"}, Help: "Run a shell command", Usage: "shell <command>", Category: CategorySystem, Handler: HandlerShell},
		{Name: "bash", Help: "Start an interactive bash", Usage: "bash", Category: CategorySystem, Handler: HandlerBash, Prefix: true},
		{Name: "exit", Aliases: []string{"quit"}, Help: "Autosave and exit", Usage: "exit", Category: CategorySystem, Handler: HandlerExit, Prefix: true},
	}
}
