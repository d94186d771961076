// Package config handles player configuration loading and management.
package config

// Config holds all player settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Player    PlayerConfig    `yaml:"player"`
	Particles ParticlesConfig `yaml:"particles"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// PlayerConfig holds playback settings.
type PlayerConfig struct {
	ScenePath string  `yaml:"scene_path"` // Empty selects the built-in demo scene
	Speed     float32 `yaml:"speed"`      // Animation speed multiplier
	Paused    bool    `yaml:"paused"`     // Start with animation paused
	ShowFPS   bool    `yaml:"show_fps"`
}

// ParticlesConfig holds particle system settings.
type ParticlesConfig struct {
	Seed          uint32 `yaml:"seed"`            // Base RNG seed, emitter index is added per pool
	MaxPerEmitter int    `yaml:"max_per_emitter"` // Upper bound applied to every emitter's pool
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Player: PlayerConfig{
			ScenePath: "",
			Speed:     1.0,
			Paused:    false,
			ShowFPS:   false,
		},
		Particles: ParticlesConfig{
			Seed:          1,
			MaxPerEmitter: 4096,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
