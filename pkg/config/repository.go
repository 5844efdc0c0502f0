package config

import (
	"os"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// UserConfig is a repository's machine-specific configuration
// (config_user.yaml). It is not committed.
type UserConfig struct {
	Local struct {
		// Executables overrides application and tool executables
		Executables map[string]string `koanf:"executables"`
	} `koanf:"local"`
	// External maps placeholder names to paths outside the repository
	External map[string]string `koanf:"external"`
}

// ProjectConfig is a repository's committed configuration (config.yaml)
type ProjectConfig struct {
	SoftwareRequired map[string]bool `koanf:"software_required"`
	GitLFSRequired   bool            `koanf:"git_lfs_required"`
}

// LoadUserConfig reads config_user.yaml
func LoadUserConfig(path string) (*UserConfig, error) {
	var cfg UserConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Local.Executables == nil {
		cfg.Local.Executables = map[string]string{}
	}
	if cfg.External == nil {
		cfg.External = map[string]string{}
	}
	return &cfg, nil
}

// LoadProjectConfig reads config.yaml
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.SoftwareRequired == nil {
		cfg.SoftwareRequired = map[string]bool{}
	}
	return &cfg, nil
}

// RequiredSoftware lists the applications marked as required
func (p *ProjectConfig) RequiredSoftware() []string {
	var names []string
	for name, required := range p.SoftwareRequired {
		if required {
			names = append(names, name)
		}
	}
	return sortedCopy(names)
}

func loadYAML(path string, out interface{}) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, errors.ErrNotFound, "File `%s` cannot be found", path).
			WithDetail("path", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
	}

	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           out,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", out, conf); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to decode %s", path)
	}
	return nil
}
