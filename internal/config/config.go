// Package config handles viewer configuration loading and management.
package config

import (
	"github.com/Faultbox/clothsim/pkg/cloth"
	"github.com/Faultbox/clothsim/pkg/math"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Sim     SimConfig     `yaml:"sim"`
	Cloth   ClothConfig   `yaml:"cloth"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// SimConfig holds simulation scheduling and wind settings.
type SimConfig struct {
	FixedStep float32    `yaml:"fixed_step"` // Seconds per physics step, 0 uses frame time
	Wind      WindConfig `yaml:"wind"`
}

// WindConfig describes a sine wave wind source.
type WindConfig struct {
	Enabled     bool       `yaml:"enabled"`
	MaxVelocity [3]float32 `yaml:"max_velocity"`
	Frequency   float32    `yaml:"frequency"`
	Abs         bool       `yaml:"abs"`
	Normalize   bool       `yaml:"normalize"`
}

// ClothConfig holds the physics parameters applied to every cloth.
type ClothConfig struct {
	Gravity        [3]float32 `yaml:"gravity"`
	Friction       float32    `yaml:"friction"`
	Iterations     int        `yaml:"iterations"`
	SmoothingAlpha float32    `yaml:"smoothing_alpha"` // 0 disables acceleration smoothing
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Sim: SimConfig{
			FixedStep: 0,
			Wind: WindConfig{
				Enabled:     true,
				MaxVelocity: [3]float32{12, 0, 8},
				Frequency:   3,
				Abs:         false,
				Normalize:   false,
			},
		},
		Cloth: ClothConfig{
			Gravity:        [3]float32{0, cloth.DefaultGravityY, 0},
			Friction:       cloth.DefaultFriction,
			Iterations:     cloth.DefaultIterations,
			SmoothingAlpha: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Simulation converts the cloth section into a validated physics config.
func (c ClothConfig) Simulation() (cloth.Config, error) {
	cfg := cloth.Config{
		Gravity:    math.Vec3{X: c.Gravity[0], Y: c.Gravity[1], Z: c.Gravity[2]},
		Friction:   c.Friction,
		Iterations: c.Iterations,
	}
	if c.SmoothingAlpha > 0 {
		cfg.Smoothing = cloth.SmoothedAverage(c.SmoothingAlpha)
	}
	if err := cfg.Validate(); err != nil {
		return cloth.Config{}, err
	}
	return cfg, nil
}

// Build constructs the wind source, or nil when disabled.
func (w WindConfig) Build() cloth.Wind {
	if !w.Enabled {
		return nil
	}
	return cloth.SinWaveWind{
		MaxVelocity: math.Vec3{X: w.MaxVelocity[0], Y: w.MaxVelocity[1], Z: w.MaxVelocity[2]},
		Frequency:   w.Frequency,
		Abs:         w.Abs,
		Normalize:   w.Normalize,
	}
}
