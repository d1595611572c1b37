package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"treeplacer/internal/scatter"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "non positive terrain dimensions",
			mutate:  func(cfg *Config) { cfg.Terrain.MaxHeight = 0 },
			wantErr: "terrain dimensions must be positive",
		},
		{
			name:    "tiny resolution",
			mutate:  func(cfg *Config) { cfg.Terrain.Resolution = 1 },
			wantErr: "terrain.resolution must be at least 2",
		},
		{
			name:    "negative terrain workers",
			mutate:  func(cfg *Config) { cfg.Terrain.Workers = -1 },
			wantErr: "terrain.workers cannot be negative",
		},
		{
			name:    "tree count above slider range",
			mutate:  func(cfg *Config) { cfg.Placement.Count = MaxTreeCount + 1 },
			wantErr: "placement.count must be within [0,5000]",
		},
		{
			name:    "missing prefabs",
			mutate:  func(cfg *Config) { cfg.Placement.Prefabs = nil },
			wantErr: "placement.prefabs cannot be empty",
		},
		{
			name:    "blank prefab",
			mutate:  func(cfg *Config) { cfg.Placement.Prefabs = []string{"oak", ""} },
			wantErr: "placement.prefabs[1] must be set",
		},
		{
			name:    "negative brush radius",
			mutate:  func(cfg *Config) { cfg.Brush.Radius = -1 },
			wantErr: "brush.radius cannot be negative",
		},
		{
			name:    "clamp angle beyond vertical",
			mutate:  func(cfg *Config) { cfg.Camera.ClampAngle = 95 },
			wantErr: "camera.clampAngle must be within [0,90]",
		},
		{
			name:    "upward gravity",
			mutate:  func(cfg *Config) { cfg.Player.Gravity = 9.81 },
			wantErr: "player.gravity must be negative",
		},
		{
			name:    "zero ground check",
			mutate:  func(cfg *Config) { cfg.Player.GroundCheckDistance = 0 },
			wantErr: "player.groundCheckDistance must be positive",
		},
		{
			name:    "negative tick rate",
			mutate:  func(cfg *Config) { cfg.Loop.TickRate = Duration(-time.Millisecond) },
			wantErr: "loop.tickRate cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected an error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("unexpected error: got %q want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateWrapsConstraintErrors(t *testing.T) {
	cfg := Default()
	cfg.Placement.Constraints.MinHeightFraction = 0.9
	cfg.Placement.Constraints.MaxHeightFraction = 0.1

	err := cfg.Validate()
	if !errors.Is(err, scatter.ErrInvalidConstraints) {
		t.Fatalf("expected constraint error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "placement.constraints: ") {
		t.Fatalf("unexpected error prefix: %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if want := Default(); !reflect.DeepEqual(cfg, want) {
		t.Fatalf("default configuration mismatch:\nwant: %#v\n got: %#v", want, cfg)
	}
}

func TestLoadReadsJSONFileAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Placement.Count = 42
	cfg.Placement.Prefabs = []string{"spruce"}
	cfg.Loop.TickRate = Duration(20 * time.Millisecond)

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("loaded configuration mismatch:\nwant: %#v\n got: %#v", cfg, got)
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "treeplacer.yml")

	doc := `
terrain:
  seed: 7
  resolution: 65
placement:
  count: 120
  prefabs: [fir, larch]
  constraints:
    min_height_fraction: 0.1
    max_height_fraction: 0.5
    max_slope_degrees: 25
    min_scale: 0.5
    max_scale: 1.5
camera:
  third_person_offset: [0, 3, 0]
loop:
  tick_rate: 20ms
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	want := Default()
	want.Terrain.Seed = 7
	want.Terrain.Resolution = 65
	want.Placement.Count = 120
	want.Placement.Prefabs = []string{"fir", "larch"}
	want.Placement.Constraints = scatter.Constraints{
		MinHeightFraction: 0.1,
		MaxHeightFraction: 0.5,
		MaxSlopeDegrees:   25,
		MinScale:          0.5,
		MaxScale:          1.5,
	}
	want.Camera.ThirdPersonOffset[1] = 3
	want.Loop.TickRate = Duration(20 * time.Millisecond)

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("loaded configuration mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestLoadInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Terrain.Width = 0

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err = Load(path)
	if err == nil {
		t.Fatalf("expected load to fail")
	}
	if !strings.Contains(err.Error(), "validate config: terrain dimensions must be positive") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestDurationDecodesStringsAndNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{`"150ms"`, 150 * time.Millisecond},
		{`""`, 0},
		{`null`, 0},
		{`1000`, time.Microsecond},
	}
	for _, tt := range tests {
		var d Duration
		if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.input, err)
		}
		if d.Duration() != tt.want {
			t.Fatalf("unmarshal %s = %v, want %v", tt.input, d.Duration(), tt.want)
		}
	}

	var d Duration
	if err := yaml.Unmarshal([]byte("2000"), &d); err != nil {
		t.Fatalf("yaml unmarshal int: %v", err)
	}
	if d.Duration() != 2*time.Microsecond {
		t.Fatalf("yaml int duration = %v, want 2µs", d.Duration())
	}

	if err := json.Unmarshal([]byte(`"soon"`), &d); err == nil {
		t.Fatalf("expected parse error for invalid duration")
	}
}
