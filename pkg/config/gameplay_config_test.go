package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedConfigMatchesDefaults(t *testing.T) {
	embedded, err := EmbeddedGameplayConfig()
	if err != nil {
		t.Fatalf("Failed to load embedded config: %v", err)
	}

	if !reflect.DeepEqual(embedded, DefaultGameplayConfig()) {
		t.Errorf("Embedded gameplay.yaml drifted from DefaultGameplayConfig():\n got %+v\nwant %+v",
			embedded, DefaultGameplayConfig())
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultGameplayConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.DeathLine() != 190 {
		t.Errorf("Expected death line 190, got %f", cfg.DeathLine())
	}
	if cfg.Round.Player2Spawn.X != 426 {
		t.Errorf("Expected player 2 spawn x 426, got %f", cfg.Round.Player2Spawn.X)
	}

	ak, ok := cfg.Weapon("ak")
	if !ok {
		t.Fatal("Expected ak weapon in defaults")
	}
	if ak.Pellets != 3 || ak.Speed != 10 {
		t.Errorf("Expected ak with 3 pellets at speed 10, got %d at %f", ak.Pellets, ak.Speed)
	}
	if _, ok := cfg.Weapon("railgun"); ok {
		t.Error("Unknown weapon should not be found")
	}
	if got := cfg.WeaponTypes(); !reflect.DeepEqual(got, []string{"laser", "ak", "bazooka"}) {
		t.Errorf("Unexpected weapon types %v", got)
	}
	if barrel, ok := cfg.ObstacleType("barrel"); !ok || barrel.Width != 18 {
		t.Errorf("Expected barrel 18 wide, got %+v", barrel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*GameplayConfig)
		errContains string
	}{
		{
			name:        "zero canvas",
			mutate:      func(c *GameplayConfig) { c.Canvas.Width = 0 },
			errContains: "canvas size",
		},
		{
			name:        "inverted auto jump interval",
			mutate:      func(c *GameplayConfig) { c.Character.AutoJumpIntervalMin = 20 },
			errContains: "autoJumpInterval",
		},
		{
			name:        "no weapons",
			mutate:      func(c *GameplayConfig) { c.Weapons = nil },
			errContains: "at least one weapon",
		},
		{
			name: "duplicate weapon",
			mutate: func(c *GameplayConfig) {
				c.Weapons = append(c.Weapons, c.Weapons[0])
			},
			errContains: "duplicate weapon",
		},
		{
			name:        "unknown weapon kind",
			mutate:      func(c *GameplayConfig) { c.Weapons[1].Kind = "plasma" },
			errContains: "unknown kind",
		},
		{
			name:        "missing default weapon",
			mutate:      func(c *GameplayConfig) { c.DefaultWeapon = "railgun" },
			errContains: "defaultWeapon",
		},
		{
			name:        "inverted drop delay",
			mutate:      func(c *GameplayConfig) { c.PowerUps.DropDelayMin = 5 },
			errContains: "dropDelay",
		},
		{
			name:        "spawn chance out of range",
			mutate:      func(c *GameplayConfig) { c.Obstacles.SpawnChance = 2 },
			errContains: "spawnChance",
		},
		{
			name:        "zero win score",
			mutate:      func(c *GameplayConfig) { c.Round.WinScore = 0 },
			errContains: "winScore",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGameplayConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.errContains)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Expected error containing %q, got %q", tt.errContains, err.Error())
			}
		})
	}
}

func TestLoadGameplayConfigYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameplay.yaml")
	content := `
round:
  winScore: 5
  forceWeaponChange: false
character:
  maxTilt: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadGameplayConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Round.WinScore != 5 {
		t.Errorf("Expected winScore 5, got %d", cfg.Round.WinScore)
	}
	if cfg.Round.ForceWeaponChange {
		t.Error("Expected forceWeaponChange false")
	}
	if cfg.Character.MaxTilt != 0.5 {
		t.Errorf("Expected maxTilt 0.5, got %f", cfg.Character.MaxTilt)
	}
	// 未覆盖的字段保持默认
	if cfg.Round.ResetDelay != 1.5 {
		t.Errorf("Expected default resetDelay 1.5, got %f", cfg.Round.ResetDelay)
	}
	if cfg.Character.JumpPower != 0.03 {
		t.Errorf("Expected default jumpPower 0.03, got %f", cfg.Character.JumpPower)
	}
}

func TestLoadGameplayConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameplay.toml")
	content := `
defaultWeapon = "ak"

[knockback]
base = 1.2

[[weapons]]
type = "ak"
kind = "standard"
speed = 12.0
bulletWidth = 4.0
bulletHeight = 3.0
pellets = 5
pelletSpacing = 4.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadGameplayConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Knockback.Base != 1.2 {
		t.Errorf("Expected knockback base 1.2, got %f", cfg.Knockback.Base)
	}
	if cfg.Knockback.DensityFactor != 60 {
		t.Errorf("Expected default density factor 60, got %f", cfg.Knockback.DensityFactor)
	}
	if len(cfg.Weapons) != 1 || cfg.Weapons[0].Pellets != 5 {
		t.Errorf("Expected weapon list replaced by a single 5-pellet ak, got %+v", cfg.Weapons)
	}
}

func TestLoadGameplayConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadGameplayConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	jsonPath := filepath.Join(dir, "gameplay.json")
	if err := os.WriteFile(jsonPath, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadGameplayConfig(jsonPath); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("Expected unsupported format error, got %v", err)
	}

	badPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("round:\n  winScore: 0\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadGameplayConfig(badPath); err == nil || !strings.Contains(err.Error(), "invalid gameplay config") {
		t.Errorf("Expected validation error, got %v", err)
	}

	cfg, err := LoadGameplayConfig("")
	if err != nil || cfg == nil {
		t.Errorf("Empty path should load embedded defaults, got err %v", err)
	}
}
