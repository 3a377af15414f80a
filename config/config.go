// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Editor   EditorConfig   `yaml:"editor"`
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	VSync    bool `yaml:"vsync"`
	FPSLimit int  `yaml:"fps_limit"`
}

// EditorConfig holds viewport and tooling settings.
type EditorConfig struct {
	CameraSpeed       float32    `yaml:"camera_speed"`
	CameraSensitivity float32    `yaml:"camera_sensitivity"`
	ShowGizmos        bool       `yaml:"show_gizmos"`
	ShowStats         bool       `yaml:"show_stats"`
	HighlightColor    [4]float32 `yaml:"highlight_color"`
}

// PathsConfig holds remembered filesystem locations.
type PathsConfig struct {
	LastScene string `yaml:"last_scene"`
	AssetDir  string `yaml:"asset_dir"`
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
			Width:    1280,
			Height:   720,
			VSync:    true,
			FPSLimit: 0,
		},
		Editor: EditorConfig{
			CameraSpeed:       10.0,
			CameraSensitivity: 0.003,
			ShowGizmos:        true,
			ShowStats:         true,
			HighlightColor:    [4]float32{1.0, 0.6, 0.1, 1.0},
		},
		Paths: PathsConfig{
			AssetDir: "assets",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
