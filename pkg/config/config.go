package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for codeutf8
type Config struct {
	Root             string   `mapstructure:"root"`
	Workers          int      `mapstructure:"workers"`
	Extensions       []string `mapstructure:"extensions"`
	FallbackEncoding string   `mapstructure:"fallback_encoding"`
	MinConfidence    int      `mapstructure:"min_confidence"` // chardet confidence, 0-100
	RespectIgnore    bool     `mapstructure:"respect_ignore"`
	Format           string   `mapstructure:"format"` // manifest output: json, yaml, toml
	NoOp             bool     `mapstructure:"no_op"`  // inspect and strip without writing
}

// Supported manifest formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// DefaultWorkers is the worker-pool size for every pipeline stage.
const DefaultWorkers = 100

var defaultConfig = Config{
	Workers:          DefaultWorkers,
	Extensions:       []string{"cpp", "h", "c"},
	FallbackEncoding: "utf-8",
	MinConfidence:    10,
	RespectIgnore:    false,
	Format:           FormatJSON,
	NoOp:             false,
}

// flagKeys maps config keys to the cobra flag names that may override them.
var flagKeys = map[string]string{
	"root":              "root",
	"workers":           "workers",
	"extensions":        "extensions",
	"fallback_encoding": "fallback-encoding",
	"min_confidence":    "min-confidence",
	"respect_ignore":    "respect-ignore",
	"format":            "format",
	"no_op":             "no-op",
}

// Default returns a copy of the built-in defaults.
func Default() *Config {
	c := defaultConfig
	c.Extensions = append([]string(nil), defaultConfig.Extensions...)
	return &c
}

// LoadConfig loads configuration from defaults, an optional .codeutf8 config
// file, CODEUTF8_* environment variables and finally any flags in fs that
// were set explicitly. searchDirs are checked for the config file before the
// working directory and $HOME.
func LoadConfig(fs *pflag.FlagSet, searchDirs ...string) (*Config, error) {
	v := viper.New()

	v.SetDefault("root", "")
	v.SetDefault("workers", defaultConfig.Workers)
	v.SetDefault("extensions", defaultConfig.Extensions)
	v.SetDefault("fallback_encoding", defaultConfig.FallbackEncoding)
	v.SetDefault("min_confidence", defaultConfig.MinConfidence)
	v.SetDefault("respect_ignore", defaultConfig.RespectIgnore)
	v.SetDefault("format", defaultConfig.Format)
	v.SetDefault("no_op", defaultConfig.NoOp)

	// .codeutf8.yaml, .codeutf8.toml, .codeutf8.json ...
	v.SetConfigName(".codeutf8")
	for _, dir := range searchDirs {
		if dir != "" {
			v.AddConfigPath(dir)
		}
	}
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("CODEUTF8")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Normalize(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ConfigFileUsed reports which config file LoadConfig would read, or "" if none.
func ConfigFileUsed(searchDirs ...string) string {
	for _, dir := range append(searchDirs, ".") {
		if dir == "" {
			continue
		}
		for _, ext := range viper.SupportedExts {
			candidate := filepath.Join(dir, ".codeutf8."+ext)
			if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for key, name := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Normalize cleans user-supplied values and rejects ones the pipeline cannot use.
func (c *Config) Normalize() error {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}

	exts := make([]string, 0, len(c.Extensions))
	seen := make(map[string]bool)
	for _, raw := range c.Extensions {
		ext := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(raw), "*"), ".")
		if ext == "" || seen[ext] {
			continue
		}
		if strings.ContainsAny(ext, `/\*?[]{}`) {
			return fmt.Errorf("invalid extension %q", raw)
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		return fmt.Errorf("no file extensions configured")
	}
	c.Extensions = exts

	if strings.TrimSpace(c.FallbackEncoding) == "" {
		c.FallbackEncoding = defaultConfig.FallbackEncoding
	}
	if c.MinConfidence < 0 {
		c.MinConfidence = 0
	}

	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	switch c.Format {
	case "":
		c.Format = FormatJSON
	case FormatJSON, FormatYAML, FormatTOML:
	default:
		return fmt.Errorf("unsupported manifest format %q (expected json, yaml or toml)", c.Format)
	}
	return nil
}

// DefaultRoot returns the directory containing the running executable,
// falling back to the working directory when that cannot be determined.
func DefaultRoot() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ResolveRoot picks the directory to process: an explicit argument wins,
// then the configured root, then DefaultRoot. The result is absolute.
func (c *Config) ResolveRoot(arg string) (string, error) {
	root := arg
	if root == "" {
		root = c.Root
	}
	if root == "" {
		root = DefaultRoot()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat root %s: %w", abs, err)
	}
	if !st.IsDir() {
		return "", fmt.Errorf("root %s is not a directory", abs)
	}
	return abs, nil
}
