package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tracker/internal/game/bestiary"
	"github.com/cory-johannsen/tracker/internal/game/dice"
	"github.com/cory-johannsen/tracker/internal/game/roster"
	"github.com/cory-johannsen/tracker/internal/game/session"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

func newState() *session.State {
	return session.New(nil, dice.NewLoggedRoller(fixedSrc{val: 9}, zap.NewNop()))
}

func TestSnapshotRestore(t *testing.T) {
	s := newState()
	s.AddPlayer(roster.Combatant{Name: "Aria", Health: 20})
	s.Roster.Insert(roster.Combatant{Name: "Orc", Health: 15})
	s.Round = 3
	want := s.Roster.Snapshot()

	snap := s.Snapshot()
	s.Reset()
	s.Roster.Insert(roster.Combatant{Name: "Intruder"})
	s.Players.Add("Intruder")
	s.Round = 9

	s.Restore(snap)
	assert.Equal(t, want, s.Roster.Snapshot())
	assert.Equal(t, []string{"Aria"}, s.Players.Names())
	assert.Equal(t, 3, s.Round)

	// A restored state does not alias the snapshot.
	c, _, err := s.Roster.Find("Orc")
	require.NoError(t, err)
	c.ApplyDamage(100)
	s.Restore(snap)
	c, _, err = s.Roster.Find("Orc")
	require.NoError(t, err)
	assert.Equal(t, 15, c.Health)
}

func TestRemoveAndRenameKeepRegistryConsistent(t *testing.T) {
	s := newState()
	s.AddPlayer(roster.Combatant{Name: "Aria"})
	s.AddPlayer(roster.Combatant{Name: "Bran"})

	_, err := s.Rename("aria", "Ariadne")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ariadne", "Bran"}, s.Players.Names())

	_, err = s.Remove("BRAN")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ariadne"}, s.Players.Names())

	s.AddPlayer(roster.Combatant{Name: "Aria"})
	removed := s.RemoveMatching("ari")
	assert.Len(t, removed, 2)
	assert.Equal(t, 0, s.Players.Len())
}

func TestPresentPlayers(t *testing.T) {
	s := newState()
	s.AddPlayer(roster.Combatant{Name: "Zed"})
	s.AddPlayer(roster.Combatant{Name: "Amy"})
	s.Players.Add("Ghost")
	assert.Equal(t, []string{"Amy", "Zed"}, s.PresentPlayers())
}

func TestAdvanceRound_CountsRounds(t *testing.T) {
	s := newState()
	s.Roster.Insert(roster.Combatant{Name: "Orc", InitMod: 1})
	s.AdvanceRound()
	s.AdvanceRound()
	assert.Equal(t, 2, s.Round)
	c, _, err := s.Roster.Find("Orc")
	require.NoError(t, err)
	assert.Equal(t, 11, c.RollResult)
}

func TestSpawn_RollsEachCopy(t *testing.T) {
	s := session.New(nil, dice.NewLoggedRoller(&seqSrc{vals: []int{0, 5, 2}}, zap.NewNop()))
	tmpl := bestiary.Entry{Name: "Goblin", InitMod: 2, ArmorClass: 15, HealthRoll: "1d6", Type: "humanoid"}

	added, err := s.Spawn(tmpl, 3, false)
	require.NoError(t, err)
	require.Len(t, added, 3)
	assert.Equal(t, []string{"Goblin", "Goblin_2", "Goblin_3"}, s.Roster.Names())
	assert.Equal(t, 1, added[0].Health)
	assert.Equal(t, 6, added[1].Health)
	assert.Equal(t, 3, added[2].Health)
	assert.Equal(t, 15, added[2].ArmorClass)
	assert.Equal(t, 0, s.Players.Len())

	_, err = s.Spawn(bestiary.Entry{Name: "Broken", HealthRoll: "2x6"}, 2, true)
	assert.ErrorIs(t, err, dice.ErrMalformedExpression)
	assert.Equal(t, 3, s.Roster.Len(), "nothing inserted on error")

	players, err := s.Spawn(tmpl, 1, true)
	require.NoError(t, err)
	assert.True(t, s.Players.Has(players[0].Name))
}

type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(_ int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}
