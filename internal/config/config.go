// Package config holds the simulation's tuning values. Everything has a
// sensible default; a YAML file can override any of it.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Card    CardConfig    `yaml:"card"`
	Stack   StackConfig   `yaml:"stack"`
	Physics PhysicsConfig `yaml:"physics"`
	Homing  HomingConfig  `yaml:"homing"`
	// Seed drives the deterministic pseudo-random draws (card packs).
	Seed uint64 `yaml:"seed"`
}

type CardConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type StackConfig struct {
	// Spacing is how much of the previous card stays visible when cards are
	// stacked: each card sits this far below the one beneath it.
	Spacing float64 `yaml:"spacing"`
	// ZFloor..ZCeiling is the depth range for stacks resting on the ground.
	ZFloor   float64 `yaml:"z_floor"`
	ZCeiling float64 `yaml:"z_ceiling"`
	// DeltaZ is the tiny depth increment that keeps cards within one stack in
	// a deterministic draw order.
	DeltaZ float64 `yaml:"delta_z"`
	// DragZ puts dragged stacks above everything resting on the ground.
	DragZ float64 `yaml:"drag_z"`
	// AutoMoveZ puts self-moving stacks above resting ones, below dragged ones.
	AutoMoveZ float64 `yaml:"auto_move_z"`
}

type PhysicsConfig struct {
	// OverlapMargin is the spacing stacks want to keep between each other.
	OverlapMargin float64 `yaml:"overlap_margin"`
	// OverlapSpeed caps how far a stack moves per second while being nudged.
	OverlapSpeed float64 `yaml:"overlap_speed"`
}

type HomingConfig struct {
	// Speed is the stack movement speed, in units per second, while a stack
	// is moving towards a merge target on its own.
	Speed float64 `yaml:"speed"`
	// SearchRadiusFactor scales the card diagonal into the radius used when
	// looking for a merge target.
	SearchRadiusFactor float64 `yaml:"search_radius_factor"`
}

func (c *Config) ApplyDefaults() {
	if c.Card.Width == 0 {
		c.Card.Width = 100
	}
	if c.Card.Height == 0 {
		c.Card.Height = 140
	}
	if c.Stack.Spacing == 0 {
		c.Stack.Spacing = 50
	}
	if c.Stack.ZFloor == 0 {
		c.Stack.ZFloor = 1
	}
	if c.Stack.ZCeiling == 0 {
		c.Stack.ZCeiling = 100
	}
	if c.Stack.DeltaZ == 0 {
		c.Stack.DeltaZ = 0.001
	}
	if c.Stack.DragZ == 0 {
		c.Stack.DragZ = c.Stack.ZCeiling + 100
	}
	if c.Stack.AutoMoveZ == 0 {
		c.Stack.AutoMoveZ = c.Stack.DragZ - 10
	}
	if c.Physics.OverlapMargin == 0 {
		c.Physics.OverlapMargin = 10
	}
	if c.Physics.OverlapSpeed == 0 {
		c.Physics.OverlapSpeed = 1000
	}
	if c.Homing.Speed == 0 {
		c.Homing.Speed = 2000
	}
	if c.Homing.SearchRadiusFactor == 0 {
		c.Homing.SearchRadiusFactor = 1.5
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
}

// Default returns a config with every field at its default value.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}
