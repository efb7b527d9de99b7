package snaplive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/shibukawa/snaplive/logger"
)

// Config represents the snaplive project configuration
type Config struct {
	Crate      string    `yaml:"crate"`       // module prefix of every discovered file
	InputDir   string    `yaml:"input_dir"`   // root directory of live sources
	TypesFile  string    `yaml:"types_file"`  // optional YAML type metadata
	Extensions []string  `yaml:"extensions"`  // file extensions to load, with leading dot
	IgnoreFile string    `yaml:"ignore_file"` // gitignore-style file inside input_dir
	Log        LogConfig `yaml:"log"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

var (
	cratePattern    = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*(::[\p{L}_][\p{L}\p{N}_]*)*$`)
	bracedEnvVar    = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar     = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	validLogFormats = map[string]bool{"": true, "text": true, "json": true}
)

// LoadConfig loads configuration from the specified file.
// A missing file yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration for common errors
func validateConfig(config *Config) error {
	if !cratePattern.MatchString(config.Crate) {
		return fmt.Errorf("%w: invalid crate %q (expected name or a::b path)", ErrConfigValidation, config.Crate)
	}

	if config.InputDir == "" {
		return fmt.Errorf("%w: input_dir must not be empty", ErrConfigValidation)
	}

	if len(config.Extensions) == 0 {
		return fmt.Errorf("%w: at least one extension is required", ErrConfigValidation)
	}

	for _, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrConfigValidation, ext)
		}
	}

	if _, err := logger.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	if !validLogFormats[strings.ToLower(config.Log.Format)] {
		return fmt.Errorf("%w: invalid log format %q (valid: text, json)", ErrConfigValidation, config.Log.Format)
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Crate:      "app",
		InputDir:   ".",
		Extensions: []string{".live", ".md"},
		IgnoreFile: ".liveignore",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// applyDefaults fills the values the file left empty
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Crate == "" {
		config.Crate = defaults.Crate
	}

	if config.InputDir == "" {
		config.InputDir = defaults.InputDir
	}

	if len(config.Extensions) == 0 {
		config.Extensions = defaults.Extensions
	}

	if config.IgnoreFile == "" {
		config.IgnoreFile = defaults.IgnoreFile
	}

	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}

	if config.Log.Format == "" {
		config.Log.Format = defaults.Log.Format
	}
}

// loadEnvFiles loads the .env file next to the configuration and in the working directory.
// Variables that are already set win.
func loadEnvFiles(dir string) error {
	candidates := []string{filepath.Join(dir, ".env")}
	if dir != "." {
		candidates = append(candidates, ".env")
	}

	for _, path := range candidates {
		if !fileExists(path) {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

func expandConfigEnvVars(config *Config) {
	config.Crate = expandEnvVars(config.Crate)
	config.InputDir = expandEnvVars(config.InputDir)
	config.TypesFile = expandEnvVars(config.TypesFile)
	config.IgnoreFile = expandEnvVars(config.IgnoreFile)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
