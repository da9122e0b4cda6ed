package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir()
	SetDir(dir)
	t.Cleanup(func() { SetDir(prev) })
}

func TestLoadLibraryEmbedded(t *testing.T) {
	useDir(t, "")
	lib, err := LoadLibrary()
	require.NoError(t, err)

	knight, ok := lib.Combatants["knight"]
	require.True(t, ok)
	require.Equal(t, "sword_slash", knight.Weapon)
	require.Equal(t, 120.0, knight.Stats.MaxHealth)
	require.NotNil(t, knight.Knockback.Multiplier)
	require.Equal(t, 0.8, *knight.Knockback.Multiplier)
	require.NotNil(t, knight.Color)

	slash := lib.Attacks["sword_slash"]
	require.Equal(t, []string{"bleed"}, slash.OnHit)
	require.Equal(t, RectSpec{X: 8, Y: -12, Width: 28, Height: 24}, slash.Hitboxes["right"])

	bleed := lib.Effects["bleed"]
	require.True(t, bleed.Stackable)
	require.Equal(t, 5, bleed.MaxStacks)
	require.Equal(t, BehaviorDamageOverTime, bleed.Behavior.Type)

	require.Contains(t, lib.Scripts, "ember.tengo")
	require.Equal(t, []string{"knight", "rogue", "training_dummy"}, lib.CombatantNames())
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	override := []byte("attacks:\n  - name: poke\n    active: 0.1\n    damage: 1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, AttacksFile), override, 0o644))

	spec, err := LoadSpec[AttackSetSpec]("prefabs/" + AttacksFile)
	require.NoError(t, err)
	require.Len(t, spec.Attacks, 1)
	require.Equal(t, "poke", spec.Attacks[0].Name)

	_, ok := ModTime(AttacksFile)
	require.True(t, ok)
	_, ok = ModTime(EffectsFile)
	require.False(t, ok, "embedded-only files have no disk mod time")

	effects, err := LoadSpec[EffectSetSpec](EffectsFile)
	require.NoError(t, err)
	require.NotEmpty(t, effects.Effects, "falls back to the embedded copy")
}

func TestLoadSpecErrors(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	_, err := LoadSpec[AttackSetSpec]("missing.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "prefabs: load missing.yaml")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("attacks: [\n"), 0o644))
	_, err = LoadSpec[AttackSetSpec]("broken.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "prefabs: unmarshal broken.yaml")
}

func TestNewLibraryValidation(t *testing.T) {
	slash := AttackSpec{Name: "slash", Active: 0.1}
	bleed := EffectSpec{Name: "bleed", Behavior: BehaviorSpec{Type: BehaviorDamageOverTime}}

	cases := []struct {
		name       string
		attacks    []AttackSpec
		effects    []EffectSpec
		combatants []CombatantSpec
		want       error
	}{
		{name: "valid", attacks: []AttackSpec{slash}, effects: []EffectSpec{bleed}, combatants: []CombatantSpec{{Name: "a", Weapon: "slash"}}},
		{name: "duplicate_attack", attacks: []AttackSpec{slash, slash}, want: ErrDuplicateName},
		{name: "unnamed_effect", effects: []EffectSpec{{}}, want: ErrDuplicateName},
		{name: "unknown_on_hit", attacks: []AttackSpec{{Name: "x", Active: 0.1, OnHit: []string{"nope"}}}, want: ErrUnknownEffect},
		{name: "unknown_weapon", attacks: []AttackSpec{slash}, combatants: []CombatantSpec{{Name: "a", Weapon: "axe"}}, want: ErrUnknownAttack},
		{name: "unknown_skill", attacks: []AttackSpec{slash}, combatants: []CombatantSpec{{Name: "a", Skills: []string{"spin"}}}, want: ErrUnknownAttack},
		{name: "unknown_behavior", effects: []EffectSpec{{Name: "odd", Behavior: BehaviorSpec{Type: "teleport"}}}, want: ErrUnknownBehavior},
		{name: "no_active_window", attacks: []AttackSpec{{Name: "x"}}, want: ErrInvalidTiming},
		{name: "negative_wind_up", attacks: []AttackSpec{{Name: "x", Active: 0.1, WindUp: -1}}, want: ErrInvalidTiming},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewLibrary(
				AttackSetSpec{Attacks: c.attacks},
				EffectSetSpec{Effects: c.effects},
				CombatantSetSpec{Combatants: c.combatants},
			)
			if c.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, c.want)
		})
	}
}

func TestDecodeBehaviorSpec(t *testing.T) {
	src := `
name: burn
duration: 2
behavior:
  type: damage_over_time
  damage_per_second: 6
  interval: 0.25
  kind: fire
`
	var spec EffectSpec
	require.NoError(t, yaml.Unmarshal([]byte(src), &spec))
	require.Equal(t, BehaviorDamageOverTime, spec.Behavior.Type)

	dot, err := DecodeBehaviorSpec[DamageOverTimeSpec](spec.Behavior)
	require.NoError(t, err)
	require.Equal(t, DamageOverTimeSpec{DamagePerSecond: 6, Interval: 0.25, Kind: "fire"}, dot)

	empty, err := DecodeBehaviorSpec[RegenSpec](BehaviorSpec{})
	require.NoError(t, err)
	require.Zero(t, empty.HealPerSecond)
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.Color
		err  bool
	}{
		{in: `"#ff8000"`, want: color.NRGBA{R: 255, G: 128, A: 255}},
		{in: `"10203040"`, want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: `"#fff"`, err: true},
		{in: `[1, 2]`, err: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var col YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &col)
			if c.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, col.Color)
		})
	}
}

func TestClassify(t *testing.T) {
	require.Equal(t, FileAttacks, Classify("/tmp/prefabs/attacks.yaml"))
	require.Equal(t, FileEffects, Classify("effects.yaml"))
	require.Equal(t, FileCombatants, Classify("prefabs/combatants.yaml"))
	require.Equal(t, FileScript, Classify("prefabs/scripts/ember.tengo"))
	require.Equal(t, FileUnknown, Classify("prefabs/readme.md"))
}

func TestWatcherReportsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(10*time.Millisecond, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, AttacksFile), []byte("attacks: []\n"), 0o644))

	select {
	case name := <-w.Events:
		require.Equal(t, AttacksFile, filepath.Base(name))
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for attacks.yaml")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")
}
