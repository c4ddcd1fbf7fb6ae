package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/ncreg/pkg/exitcode"
	"github.com/fulmenhq/ncreg/pkg/safeio"
	"github.com/spf13/viper"
)

// Config holds all configuration for ncreg
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths" json:"paths"`
	Manifest ManifestConfig `mapstructure:"manifest" json:"manifest"`
}

// PathsConfig locates the input and output files, relative to the base directory.
type PathsConfig struct {
	GlobList string `mapstructure:"globlist" json:"globlist"`
	Exclude  string `mapstructure:"exclude" json:"exclude"`
	Manifest string `mapstructure:"manifest" json:"manifest"`
	Backup   string `mapstructure:"backup" json:"backup"`
	Ignore   string `mapstructure:"ignore" json:"ignore"`
}

// ManifestConfig controls how the manifest is rendered.
type ManifestConfig struct {
	PathMode    string `mapstructure:"path_mode" json:"path_mode"`
	Deduplicate bool   `mapstructure:"deduplicate" json:"deduplicate"`
}

// EnvPrefix is the prefix for environment overrides, e.g. NCREG_MANIFEST_PATH_MODE.
const EnvPrefix = "NCREG"

// ConfigName is the file name (without extension) searched in the base directory.
const ConfigName = ".ncreg"

var defaultConfig = Config{
	Paths: PathsConfig{
		GlobList: "app/etc/registration_globlist.php",
		Exclude:  "app/etc/NonComposerComponentRegistrationExclude.php",
		Manifest: "app/etc/NonComposerComponentRegistration.php",
		Backup:   "",
		Ignore:   ".ncregignore",
	},
	Manifest: ManifestConfig{
		PathMode:    "relative",
		Deduplicate: true,
	},
}

// Default returns a copy of the built-in configuration.
func Default() Config {
	return defaultConfig
}

// Load reads configuration for the project at baseDir. configFile, when
// set, must exist; otherwise .ncreg.{yaml,yml,json,toml} in baseDir is
// used if present. Environment variables override both.
func Load(baseDir, configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("paths.globlist", defaultConfig.Paths.GlobList)
	v.SetDefault("paths.exclude", defaultConfig.Paths.Exclude)
	v.SetDefault("paths.manifest", defaultConfig.Paths.Manifest)
	v.SetDefault("paths.backup", defaultConfig.Paths.Backup)
	v.SetDefault("paths.ignore", defaultConfig.Paths.Ignore)
	v.SetDefault("manifest.path_mode", defaultConfig.Manifest.PathMode)
	v.SetDefault("manifest.deduplicate", defaultConfig.Manifest.Deduplicate)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(baseDir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, &exitcode.ConfigErr{Err: fmt.Errorf("read config: %w", err)}
		}
	}

	if used := v.ConfigFileUsed(); used != "" {
		if err := validateFile(used); err != nil {
			return nil, &exitcode.ConfigErr{Err: fmt.Errorf("%s: %w", used, err)}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &exitcode.ConfigErr{Err: fmt.Errorf("error unmarshaling config: %w", err)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateFile checks the raw YAML or JSON document so unknown keys are
// reported instead of silently ignored.
func validateFile(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil
	}
	data, err := os.ReadFile(name) // #nosec G304 -- config path chosen by the operator
	if err != nil {
		return err
	}
	return ValidateDocument(data)
}

// Validate checks the configuration against the embedded schema and
// rejects paths that leave the base directory.
func (c *Config) Validate() error {
	if err := ValidateSchema(c); err != nil {
		return &exitcode.ConfigErr{Err: err}
	}

	named := map[string]string{
		"paths.globlist": c.Paths.GlobList,
		"paths.exclude":  c.Paths.Exclude,
		"paths.manifest": c.Paths.Manifest,
		"paths.backup":   c.Paths.Backup,
		"paths.ignore":   c.Paths.Ignore,
	}
	for _, key := range []string{"paths.globlist", "paths.exclude", "paths.manifest", "paths.backup", "paths.ignore"} {
		p := named[key]
		if p == "" {
			continue
		}
		if filepath.IsAbs(p) || path.IsAbs(filepath.ToSlash(p)) {
			return &exitcode.ConfigErr{Err: fmt.Errorf("%s must be relative to the base directory: %s", key, p)}
		}
		if _, err := safeio.CleanUserPath(p); err != nil {
			return &exitcode.ConfigErr{Err: fmt.Errorf("%s: %w", key, err)}
		}
	}
	return nil
}

// BackupPath returns the configured backup path or the manifest-derived default.
func (c *Config) BackupPath() string {
	if c.Paths.Backup != "" {
		return c.Paths.Backup
	}
	return c.Paths.Manifest + ".backup"
}
