package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment variables that override settings
const EnvPrefix = "GSMAKE_"

// Settings tune gsmake itself, independently of any repository
type Settings struct {
	LogDepth       int           `koanf:"log_depth"`
	HeadLines      int           `koanf:"head_lines"`
	Format         string        `koanf:"format"`
	Manifest       string        `koanf:"manifest"`
	UserConfig     string        `koanf:"user_config"`
	ProjectConfig  string        `koanf:"project_config"`
	SkipDirs       []string      `koanf:"skip_dirs"`
	CommandTimeout time.Duration `koanf:"command_timeout"`
}

// SettingsPath is the optional settings file in the user's config dir
func SettingsPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "gsmake", "settings.toml")
}

// LoadSettings merges, lowest priority first: built-in defaults, the
// settings file, GSMAKE_ environment variables and overrides (usually
// command-line flags).
func LoadSettings(overrides map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load default settings")
	}

	// 2. Settings file
	path := SettingsPath()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load settings from %s", path)
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load settings from environment")
	}

	// 4. Explicit overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply setting overrides")
		}
	}

	var s Settings
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, conf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode settings")
	}
	if s.HeadLines <= 0 {
		return nil, errors.Newf(errors.ErrConfigParse, "head_lines must be positive, got %d", s.HeadLines)
	}
	if s.LogDepth < -1 {
		return nil, errors.Newf(errors.ErrConfigParse, "log_depth must be -1 or more, got %d", s.LogDepth)
	}
	return &s, nil
}
