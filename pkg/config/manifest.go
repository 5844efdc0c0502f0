package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Manifest describes how a module is built (gsmake.yaml). Steps run in
// the order: remove, clear, makelog start, link, copy, source logs,
// modified check, programs, output logs, makelog end.
type Manifest struct {
	// Dir is the module directory, the manifest's parent
	Dir string `koanf:"-"`

	Paths         map[string]string `koanf:"paths"`
	Remove        []string          `koanf:"remove"`
	Clear         []string          `koanf:"clear"`
	Link          Sources           `koanf:"link"`
	Copy          Sources           `koanf:"copy"`
	SourceLogs    bool              `koanf:"source_logs"`
	CheckModified bool              `koanf:"check_modified"`
	Programs      []Step            `koanf:"programs"`
	LogOutputs    bool              `koanf:"log_outputs"`
	// Depth overrides the log_depth setting for this module
	Depth *int `koanf:"depth"`
}

// Sources lists instruction files for inputs and externals
type Sources struct {
	Inputs    []string `koanf:"inputs"`
	Externals []string `koanf:"externals"`
}

// Empty reports whether no instruction file is listed
func (s Sources) Empty() bool {
	return len(s.Inputs) == 0 && len(s.Externals) == 0
}

// Step is one entry of the programs list: either a program run by an
// application or a raw command line
type Step struct {
	App        string `koanf:"app"`
	Program    string `koanf:"program"`
	Command    string `koanf:"command"`
	Executable string `koanf:"executable"`
	Option     string `koanf:"option"`
	Args       string `koanf:"args"`
	Log        string `koanf:"log"`
	LST        string `koanf:"lst"`
	Doctype    string `koanf:"doctype"`
	Timeout    int    `koanf:"timeout"`
	Kernel     string `koanf:"kernel"`
}

// IsCommand reports whether the step runs a raw command line
func (s Step) IsCommand() bool {
	return s.Command != ""
}

// Request converts a program step
func (s Step) Request() (programs.Request, error) {
	app, err := programs.ParseApplication(s.App)
	if err != nil {
		return programs.Request{}, err
	}
	return programs.Request{
		App:        app,
		Program:    s.Program,
		Executable: s.Executable,
		Option:     s.Option,
		Args:       s.Args,
		Log:        s.Log,
		LST:        s.LST,
		Doctype:    s.Doctype,
		Timeout:    s.Timeout,
		Kernel:     s.Kernel,
	}, nil
}

// String names the step in messages
func (s Step) String() string {
	if s.IsCommand() {
		return fmt.Sprintf("command `%s`", s.Command)
	}
	return fmt.Sprintf("%s `%s`", s.App, s.Program)
}

var manifestDefaults = map[string]interface{}{
	"source_logs": true,
	"log_outputs": true,
}

// LoadManifest reads and validates a module manifest
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve %s", path)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "File `%s` cannot be found", abs).
			WithDetail("path", abs)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(manifestDefaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load manifest defaults")
	}
	if err := k.Load(file.Provider(abs), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse manifest %s", abs)
	}

	var m Manifest
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &m,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &m, conf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to decode manifest %s", abs)
	}
	m.Dir = filepath.Dir(abs)
	if m.Paths == nil {
		m.Paths = map[string]string{}
	}

	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid manifest %s", abs)
	}
	return &m, nil
}

// Validate checks the paths and every program step
func (m *Manifest) Validate() error {
	for _, key := range sortedCopy(mapKeys(m.Paths)) {
		if err := paths.ValidatePath(m.Paths[key]); err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput, "paths.%s", key)
		}
	}
	for i, step := range m.Programs {
		switch {
		case step.IsCommand() && (step.App != "" || step.Program != ""):
			return errors.Newf(errors.ErrInvalidInput, "programs[%d]: a step has either `command` or `app` and `program`", i)
		case step.IsCommand():
		case step.App == "" || step.Program == "":
			return errors.Newf(errors.ErrInvalidInput, "programs[%d]: `app` and `program` are required", i)
		default:
			if _, err := programs.ParseApplication(step.App); err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "programs[%d]", i)
			}
		}
		if step.Timeout < 0 {
			return errors.Newf(errors.ErrInvalidInput, "programs[%d]: timeout cannot be negative", i)
		}
	}
	return nil
}

// Applications lists the applications the manifest's steps use
func (m *Manifest) Applications() []programs.Application {
	seen := map[programs.Application]bool{}
	var apps []programs.Application
	for _, step := range m.Programs {
		if step.IsCommand() {
			continue
		}
		if app, err := programs.ParseApplication(step.App); err == nil && !seen[app] {
			seen[app] = true
			apps = append(apps, app)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i] < apps[j] })
	return apps
}

func mapKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
