package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/clothsim/pkg/cloth"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Sim defaults
	if cfg.Sim.FixedStep != 0 {
		t.Errorf("expected fixed_step 0, got %f", cfg.Sim.FixedStep)
	}
	if !cfg.Sim.Wind.Enabled {
		t.Error("expected wind to be enabled by default")
	}

	// Cloth defaults
	if cfg.Cloth.Gravity[1] != cloth.DefaultGravityY {
		t.Errorf("expected gravity y %f, got %f", cloth.DefaultGravityY, cfg.Cloth.Gravity[1])
	}
	if cfg.Cloth.Friction != cloth.DefaultFriction {
		t.Errorf("expected friction %f, got %f", cloth.DefaultFriction, cfg.Cloth.Friction)
	}
	if cfg.Cloth.Iterations != cloth.DefaultIterations {
		t.Errorf("expected iterations %d, got %d", cloth.DefaultIterations, cfg.Cloth.Iterations)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

sim:
  fixed_step: 0.016
  wind:
    enabled: false

cloth:
  gravity: [0, -4.0, 0]
  friction: 0.05
  iterations: 8
  smoothing_alpha: 0.25

logging:
  level: "debug"
  log_file: "clothview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Window.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Window.FPSLimit)
	}

	if cfg.Sim.FixedStep != 0.016 {
		t.Errorf("expected fixed_step 0.016, got %f", cfg.Sim.FixedStep)
	}
	if cfg.Sim.Wind.Enabled {
		t.Error("expected wind to be disabled")
	}

	if cfg.Cloth.Gravity[1] != -4.0 {
		t.Errorf("expected gravity y -4.0, got %f", cfg.Cloth.Gravity[1])
	}
	if cfg.Cloth.Friction != 0.05 {
		t.Errorf("expected friction 0.05, got %f", cfg.Cloth.Friction)
	}
	if cfg.Cloth.Iterations != 8 {
		t.Errorf("expected iterations 8, got %d", cfg.Cloth.Iterations)
	}
	if cfg.Cloth.SmoothingAlpha != 0.25 {
		t.Errorf("expected smoothing_alpha 0.25, got %f", cfg.Cloth.SmoothingAlpha)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "clothview.log" {
		t.Errorf("expected log file 'clothview.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "nowind flag",
			setup: func() {
				*flagNoWind = true
			},
			verify: func(cfg *Config) {
				if cfg.Sim.Wind.Enabled {
					t.Error("expected wind to be disabled with nowind flag")
				}
			},
			teardown: func() {
				*flagNoWind = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestClothConfigSimulation(t *testing.T) {
	cfg, err := Default().Cloth.Simulation()
	if err != nil {
		t.Fatalf("default cloth config should validate: %v", err)
	}
	if cfg.Gravity.Y != cloth.DefaultGravityY {
		t.Errorf("expected gravity y %f, got %f", cloth.DefaultGravityY, cfg.Gravity.Y)
	}
	if cfg.Smoothing.Averaged {
		t.Error("expected smoothing to be disabled with alpha 0")
	}

	smoothed := ClothConfig{
		Gravity:        [3]float32{0, -9.81, 0},
		Friction:       0.02,
		Iterations:     5,
		SmoothingAlpha: 0.3,
	}
	cfg, err = smoothed.Simulation()
	if err != nil {
		t.Fatalf("smoothed cloth config should validate: %v", err)
	}
	if !cfg.Smoothing.Averaged {
		t.Error("expected smoothing to be enabled with alpha 0.3")
	}

	bad := ClothConfig{Friction: 2, Iterations: 5}
	if _, err := bad.Simulation(); err == nil {
		t.Error("expected error for friction out of range, got nil")
	}
}

func TestWindConfigBuild(t *testing.T) {
	disabled := WindConfig{Enabled: false}
	if disabled.Build() != nil {
		t.Error("expected nil wind when disabled")
	}

	enabled := WindConfig{
		Enabled:     true,
		MaxVelocity: [3]float32{1, 0, 2},
		Frequency:   0.5,
	}
	w := enabled.Build()
	if w == nil {
		t.Fatal("expected wind when enabled")
	}
	// At elapsed 0 the sine wave contributes nothing.
	if v := w.VelocityAt(0); v.Length() != 0 {
		t.Errorf("expected zero velocity at elapsed 0, got %v", v)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 1600
	cfg.Window.VSync = false
	cfg.Sim.Wind.Frequency = 1.5
	cfg.Cloth.Iterations = 9
	cfg.Logging.Level = "debug"

	// SaveTo creates the missing parent directory.
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.Window.Width != 1600 {
		t.Errorf("expected width 1600, got %d", loaded.Window.Width)
	}
	if loaded.Window.VSync {
		t.Error("expected vsync to be false after round trip")
	}
	if loaded.Sim.Wind.Frequency != 1.5 {
		t.Errorf("expected wind frequency 1.5, got %f", loaded.Sim.Wind.Frequency)
	}
	if loaded.Cloth.Iterations != 9 {
		t.Errorf("expected iterations 9, got %d", loaded.Cloth.Iterations)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", loaded.Logging.Level)
	}
}
