// Package roster holds the ordered set of combatants in the current encounter.
package roster

import "github.com/cory-johannsen/tracker/internal/game/dice"

// Combatant is one participant in the encounter.
type Combatant struct {
	Name       string
	InitMod    int
	Health     int
	RollResult int
	ArmorClass int
	Type       string
	// Locked combatants keep their RollResult across round advances.
	Locked bool
}

// ApplyDamage reduces Health by amount. Health may go negative and is never clamped.
func (c *Combatant) ApplyDamage(amount int) { c.Health -= amount }

// Heal increases Health by amount.
func (c *Combatant) Heal(amount int) { c.Health += amount }

// RollInitiative sets RollResult to d20 + InitMod.
//
// Precondition: src must be non-nil.
// Postcondition: RollResult is in [1+InitMod, 20+InitMod].
func (c *Combatant) RollInitiative(src dice.Source) {
	c.RollResult = src.Intn(20) + 1 + c.InitMod
}
