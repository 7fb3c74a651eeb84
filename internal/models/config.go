package models

import "time"

// Config represents the main configuration
type Config struct {
	Logging    LoggingConfig     `mapstructure:"logging"`
	Fetch      FetchConfig       `mapstructure:"fetch"`
	Translator TranslatorConfig  `mapstructure:"translator"`
	Palette    map[string]string `mapstructure:"palette"`
	Scripts    []ScriptEntry     `mapstructure:"scripts"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"` // console, json or file
	File   string `mapstructure:"file"`
}

// FetchConfig contains settings for reading scripts over HTTP
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// TranslatorConfig contains script translation settings
type TranslatorConfig struct {
	Indent      string `mapstructure:"indent"`
	PaletteFile string `mapstructure:"palette_file"`
}

// ScriptEntry represents a single configured filter script
type ScriptEntry struct {
	Name    string `mapstructure:"name"`
	Path    string `mapstructure:"path"`
	Enabled bool   `mapstructure:"enabled"`
}

// EnabledScripts returns only enabled scripts
func (c *Config) EnabledScripts() []ScriptEntry {
	var enabled []ScriptEntry
	for _, s := range c.Scripts {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// Script looks up a configured script by name
func (c *Config) Script(name string) (ScriptEntry, bool) {
	for _, s := range c.Scripts {
		if s.Name == name {
			return s, true
		}
	}
	return ScriptEntry{}, false
}
