package bestiary_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tracker/internal/game/bestiary"
)

const header = "name,size,type,alignment,languages,ac,hp,str,dex\n"

func loadCSV(t *testing.T, rows string) (*bestiary.Database, []bestiary.RowError) {
	t.Helper()
	db, skipped, err := bestiary.LoadCSV(strings.NewReader(header+rows), zap.NewNop())
	require.NoError(t, err)
	return db, skipped
}

func TestLoadCSV_DerivesFields(t *testing.T) {
	db, skipped := loadCSV(t, `Goblin,Small,humanoid,neutral evil,Common,15 (leather armor),7 (2d6),8,14
Ogre,Large,giant,chaotic evil,Giant,11 (hide armor),"59 (7d10 + 21)",19,8
`)
	assert.Empty(t, skipped)
	require.Equal(t, 2, db.Len())

	gob, ok := db.Get("Goblin")
	require.True(t, ok)
	assert.Equal(t, bestiary.Entry{Name: "Goblin", Type: "humanoid", ArmorClass: 15, InitMod: 2, HealthRoll: "2d6"}, gob)

	ogre, ok := db.Get("Ogre")
	require.True(t, ok)
	assert.Equal(t, -1, ogre.InitMod)
	assert.Equal(t, "7d10+21", ogre.HealthRoll)
	assert.Equal(t, 11, ogre.ArmorClass)
}

func TestLoadCSV_MissingDexDefaultsToZero(t *testing.T) {
	db, skipped := loadCSV(t, "Shrieker,Medium,plant,unaligned,,5,13 (3d8),1,\n")
	assert.Empty(t, skipped)
	e, ok := db.Get("Shrieker")
	require.True(t, ok)
	assert.Equal(t, 0, e.InitMod)
}

func TestLoadCSV_SkipsMalformedRows(t *testing.T) {
	db, skipped := loadCSV(t, `Goblin,Small,humanoid,ne,Common,15,7 (2d6),8,14
NoRoll,Small,humanoid,ne,Common,12,7,8,10
BadAC,Small,humanoid,ne,Common,high,7 (2d6),8,10
BadDex,Small,humanoid,ne,Common,12,7 (2d6),8,quick
BadDice,Small,humanoid,ne,Common,12,7 (2x6),8,10
Short,Small,humanoid
`)
	assert.Equal(t, 1, db.Len())
	require.Len(t, skipped, 5)
	names := make([]string, 0, len(skipped))
	for _, s := range skipped {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"NoRoll", "BadAC", "BadDex", "BadDice", "Short"}, names)
	_, ok := db.Get("BadAC")
	assert.False(t, ok, "partial entries must never be stored")
}

func TestLoadCSV_EmptyStream(t *testing.T) {
	db, skipped, err := bestiary.LoadCSV(strings.NewReader(""), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, 0, db.Len())
}

func TestDatabase_ResolveKeepsSourceOrder(t *testing.T) {
	db, err := bestiary.New(
		bestiary.Entry{Name: "Goblin Boss", HealthRoll: "6d6"},
		bestiary.Entry{Name: "Goblin", HealthRoll: "2d6"},
		bestiary.Entry{Name: "Gnoll", HealthRoll: "5d8"},
	)
	require.NoError(t, err)
	res := db.Resolve("gob")
	best, ok := res.Best()
	require.True(t, ok)
	assert.Equal(t, "Goblin", best.Name)
	assert.Len(t, res.Matches, 2)
}

func TestNew_RejectsDuplicatesAndInvalid(t *testing.T) {
	_, err := bestiary.New(bestiary.Entry{Name: "A", HealthRoll: "1d4"}, bestiary.Entry{Name: "A", HealthRoll: "1d4"})
	assert.Error(t, err)
	_, err = bestiary.New(bestiary.Entry{Name: "A", HealthRoll: "lots"})
	assert.Error(t, err)
	_, err = bestiary.New(bestiary.Entry{HealthRoll: "1d4"})
	assert.Error(t, err)
}

func TestYAML_RoundTrip(t *testing.T) {
	db, err := bestiary.New(
		bestiary.Entry{Name: "Goblin", Type: "humanoid", ArmorClass: 15, InitMod: 2, HealthRoll: "2d6"},
		bestiary.Entry{Name: "Ogre", Type: "giant", ArmorClass: 11, InitMod: -1, HealthRoll: "7d10+21"},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, bestiary.WriteYAML(&buf, db))

	back, skipped, err := bestiary.LoadYAML(&buf, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, db.Entries(), back.Entries())
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "monsters.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(header+"Rat,Tiny,beast,u,,10,1 (1d4-1),2,11\n"), 0644))
	db, _, err := bestiary.Load(csvPath, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, db.Len())

	yamlPath := filepath.Join(dir, "monsters.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("- name: Rat\n  health: 1d4-1\n"), 0644))
	db, _, err = bestiary.Load(yamlPath, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, db.Len())

	_, _, err = bestiary.Load(filepath.Join(dir, "monsters.txt"), zap.NewNop())
	assert.Error(t, err)
}

func TestParseHealthRoll(t *testing.T) {
	roll, err := bestiary.ParseHealthRoll("22 (4d8+4)")
	require.NoError(t, err)
	assert.Equal(t, "4d8+4", roll)

	_, err = bestiary.ParseHealthRoll("22")
	assert.Error(t, err)
	_, err = bestiary.ParseHealthRoll("22 (4d8")
	assert.Error(t, err)
}

func TestAbilityMod_KnownValues(t *testing.T) {
	cases := map[int]int{1: -5, 8: -1, 9: -1, 10: 0, 11: 0, 12: 1, 14: 2, 20: 5, 30: 10}
	for score, want := range cases {
		assert.Equal(t, want, bestiary.AbilityMod(score), "score %d", score)
	}
}

// Property: AbilityMod equals floor((score-10)/2) computed by float math.
func TestPropertyAbilityMod_Floor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.IntRange(-30, 60).Draw(rt, "score")
		diff := score - 10
		want := diff / 2
		if diff%2 != 0 && diff < 0 {
			want--
		}
		assert.Equal(rt, want, bestiary.AbilityMod(score))
	})
}
