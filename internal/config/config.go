package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"treeplacer/internal/scatter"
)

// Duration is a config-friendly wrapper around time.Duration that accepts
// human readable strings such as "33ms" in JSON and YAML files while still
// allowing numeric nanosecond values.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration: expected scalar at line %d", value.Line)
	}
	if value.Tag == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("duration: decode int: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	if value.Tag == "!!null" {
		*d = 0
		return nil
	}
	return d.parse(value.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MaxTreeCount caps placement.count, matching the editor slider range.
const MaxTreeCount = 5000

// Config captures everything the tree placer and the controller rig read.
type Config struct {
	Terrain   TerrainConfig   `json:"terrain" yaml:"terrain"`
	Placement PlacementConfig `json:"placement" yaml:"placement"`
	Brush     BrushConfig     `json:"brush" yaml:"brush"`
	Camera    CameraConfig    `json:"camera" yaml:"camera"`
	Player    PlayerConfig    `json:"player" yaml:"player"`
	Loop      LoopConfig      `json:"loop" yaml:"loop"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
}

type TerrainConfig struct {
	Seed           int64   `json:"seed" yaml:"seed"`
	Width          float64 `json:"width" yaml:"width"`                   // world units along X
	Depth          float64 `json:"depth" yaml:"depth"`                   // world units along Z
	MaxHeight      float64 `json:"maxHeight" yaml:"max_height"`          // terrain size on Y
	Resolution     int     `json:"resolution" yaml:"resolution"`         // samples per axis
	SurfaceRatio   float64 `json:"surfaceRatio" yaml:"surface_ratio"`    // base height as a fraction of maxHeight
	AmplitudeRatio float64 `json:"amplitudeRatio" yaml:"amplitude_ratio"` // noise swing as a fraction of maxHeight
	Frequency      float64 `json:"frequency" yaml:"frequency"`
	Octaves        int     `json:"octaves" yaml:"octaves"`
	Persistence    float64 `json:"persistence" yaml:"persistence"`
	Lacunarity     float64 `json:"lacunarity" yaml:"lacunarity"`
	Workers        int     `json:"workers" yaml:"workers"`
}

type PlacementConfig struct {
	Seed              int64               `json:"seed" yaml:"seed"`
	Count             int                 `json:"count" yaml:"count"`
	AttemptMultiplier int                 `json:"attemptMultiplier" yaml:"attempt_multiplier"`
	Prefabs           []string            `json:"prefabs" yaml:"prefabs"`
	Constraints       scatter.Constraints `json:"constraints" yaml:"constraints"`
}

type BrushConfig struct {
	Radius        float64 `json:"radius" yaml:"radius"`
	TreesPerBrush int     `json:"treesPerBrush" yaml:"trees_per_brush"`
}

type CameraConfig struct {
	MouseSensitivity    float64    `json:"mouseSensitivity" yaml:"mouse_sensitivity"`
	ClampAngle          float64    `json:"clampAngle" yaml:"clamp_angle"` // pitch limit in degrees
	ThirdPerson         bool       `json:"thirdPerson" yaml:"third_person"`
	ThirdPersonDistance float64    `json:"thirdPersonDistance" yaml:"third_person_distance"`
	ThirdPersonOffset   mgl64.Vec3 `json:"thirdPersonOffset" yaml:"third_person_offset"`
}

type PlayerConfig struct {
	MoveSpeed           float64 `json:"moveSpeed" yaml:"move_speed"`
	RunSpeed            float64 `json:"runSpeed" yaml:"run_speed"`
	JumpForce           float64 `json:"jumpForce" yaml:"jump_force"`
	Gravity             float64 `json:"gravity" yaml:"gravity"`
	GroundCheckDistance float64 `json:"groundCheckDistance" yaml:"ground_check_distance"`
	SpeedChangeRate     float64 `json:"speedChangeRate" yaml:"speed_change_rate"` // animator speed units per second
}

type LoopConfig struct {
	TickRate Duration `json:"tickRate" yaml:"tick_rate"` // e.g. "16ms"
}

type StorageConfig struct {
	Path string `json:"path" yaml:"path"` // empty keeps placements in memory
}

// Load reads configuration from a JSON or YAML file if provided. An empty
// path returns defaults. Files ending in .yaml or .yml are decoded as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := Decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Decode unmarshals data into cfg using the format implied by path.
func Decode(path string, data []byte, cfg *Config) error {
	if IsYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Seed:           1337,
			Width:          500,
			Depth:          500,
			MaxHeight:      600,
			Resolution:     513,
			SurfaceRatio:   0.35,
			AmplitudeRatio: 0.3,
			Frequency:      0.01,
			Octaves:        4,
			Persistence:    0.45,
			Lacunarity:     2.0,
		},
		Placement: PlacementConfig{
			Seed:              42,
			Count:             500,
			AttemptMultiplier: scatter.DefaultAttemptMultiplier,
			Prefabs:           []string{"oak", "pine", "birch"},
			Constraints:       scatter.DefaultConstraints(),
		},
		Brush: BrushConfig{
			Radius:        5,
			TreesPerBrush: 5,
		},
		Camera: CameraConfig{
			MouseSensitivity:    2,
			ClampAngle:          80,
			ThirdPersonDistance: 5,
			ThirdPersonOffset:   mgl64.Vec3{0, 2, 0},
		},
		Player: PlayerConfig{
			MoveSpeed:           5,
			RunSpeed:            10,
			JumpForce:           7,
			Gravity:             -9.81,
			GroundCheckDistance: 0.4,
			SpeedChangeRate:     5,
		},
		Loop: LoopConfig{
			TickRate: Duration(16 * time.Millisecond),
		},
	}
}

func (c *Config) Validate() error {
	if c.Terrain.Width <= 0 || c.Terrain.Depth <= 0 || c.Terrain.MaxHeight <= 0 {
		return errors.New("terrain dimensions must be positive")
	}
	if c.Terrain.Resolution < 2 {
		return errors.New("terrain.resolution must be at least 2")
	}
	if c.Terrain.Octaves < 0 {
		return errors.New("terrain.octaves cannot be negative")
	}
	if c.Terrain.Workers < 0 {
		return errors.New("terrain.workers cannot be negative")
	}
	if c.Placement.Count < 0 || c.Placement.Count > MaxTreeCount {
		return fmt.Errorf("placement.count must be within [0,%d]", MaxTreeCount)
	}
	if c.Placement.AttemptMultiplier < 0 {
		return errors.New("placement.attemptMultiplier cannot be negative")
	}
	if len(c.Placement.Prefabs) == 0 {
		return errors.New("placement.prefabs cannot be empty")
	}
	for i, prefab := range c.Placement.Prefabs {
		if prefab == "" {
			return fmt.Errorf("placement.prefabs[%d] must be set", i)
		}
	}
	if err := c.Placement.Constraints.Validate(); err != nil {
		return fmt.Errorf("placement.constraints: %w", err)
	}
	if c.Brush.Radius < 0 {
		return errors.New("brush.radius cannot be negative")
	}
	if c.Brush.TreesPerBrush < 0 {
		return errors.New("brush.treesPerBrush cannot be negative")
	}
	if c.Camera.ClampAngle < 0 || c.Camera.ClampAngle > 90 {
		return errors.New("camera.clampAngle must be within [0,90]")
	}
	if c.Camera.ThirdPersonDistance < 0 {
		return errors.New("camera.thirdPersonDistance cannot be negative")
	}
	if c.Player.MoveSpeed < 0 || c.Player.RunSpeed < 0 {
		return errors.New("player speeds cannot be negative")
	}
	if c.Player.Gravity >= 0 {
		return errors.New("player.gravity must be negative")
	}
	if c.Player.JumpForce < 0 {
		return errors.New("player.jumpForce cannot be negative")
	}
	if c.Player.GroundCheckDistance <= 0 {
		return errors.New("player.groundCheckDistance must be positive")
	}
	if c.Player.SpeedChangeRate <= 0 {
		return errors.New("player.speedChangeRate must be positive")
	}
	if c.Loop.TickRate < 0 {
		return errors.New("loop.tickRate cannot be negative")
	}
	return nil
}
