package programs

import (
	_ "embed"
	stderrors "errors"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

//go:embed embedded/applications.toml
var defaultTable []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Defaults are the executable and option used on one OS
type Defaults struct {
	Executable string `koanf:"executable"`
	Option     string `koanf:"option"`
}

// Spec describes one application
type Spec struct {
	Extensions []string `koanf:"extensions"`
	Posix      Defaults `koanf:"posix"`
	NT         Defaults `koanf:"nt"`
}

// For returns the defaults of osName
func (s Spec) For(osName paths.OS) Defaults {
	if osName == paths.OSNT {
		return s.NT
	}
	return s.Posix
}

// Allows reports whether ext, including its dot, is a program extension
// of the application. The comparison is case sensitive.
func (s Spec) Allows(ext string) bool {
	for _, e := range s.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

type document struct {
	Apps  map[string]Spec   `koanf:"apps"`
	Tools map[string]string `koanf:"tools"`
}

// Table is the resolved application table. It is never modified after
// construction; WithExecutables returns a copy.
type Table struct {
	apps      map[Application]Spec
	tools     map[string]string
	overrides map[string]string
}

var (
	defaultOnce sync.Once
	defaultTbl  *Table
	defaultErr  error
)

// Default returns the built-in table, loading it on first use
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTbl, defaultErr = Load(defaultTable)
	})
	return defaultTbl, defaultErr
}

// Load parses a TOML application table
func Load(data []byte) (*Table, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse application table")
	}

	var doc document
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &doc,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &doc, conf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot decode application table")
	}

	t := &Table{
		apps:      make(map[Application]Spec, len(doc.Apps)),
		tools:     make(map[string]string, len(doc.Tools)),
		overrides: map[string]string{},
	}
	for name, spec := range doc.Apps {
		app, err := ParseApplication(name)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid application table")
		}
		t.apps[app] = spec
	}
	for name, exe := range doc.Tools {
		t.tools[name] = exe
	}

	logger := logging.GetLogger("programs")
	logger.Trace().
		Int("apps", len(t.apps)).
		Int("tools", len(t.tools)).
		Msg("Loaded application table")
	return t, nil
}

// Spec returns the description of app
func (t *Table) Spec(app Application) (Spec, bool) {
	s, ok := t.apps[app]
	return s, ok
}

// Applications lists the applications the table knows, in name order
func (t *Table) Applications() []Application {
	out := make([]Application, 0, len(t.apps))
	for app := range t.apps {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Executable returns the executable for app on osName, honouring
// overrides
func (t *Table) Executable(app Application, osName paths.OS) string {
	if exe, ok := t.overrides[string(app)]; ok {
		return exe
	}
	return t.apps[app].For(osName).Executable
}

// Option returns the default option string for app on osName
func (t *Table) Option(app Application, osName paths.OS) string {
	return t.apps[app].For(osName).Option
}

// Tool returns the executable of a supporting tool such as git-lfs
func (t *Table) Tool(name string) string {
	if exe, ok := t.overrides[name]; ok {
		return exe
	}
	if exe, ok := t.tools[name]; ok {
		return exe
	}
	return name
}

// WithExecutables returns a table where the given executables replace the
// defaults. Keys are application names, aliases or tool names; empty
// values are ignored.
func (t *Table) WithExecutables(executables map[string]string) *Table {
	out := &Table{
		apps:      t.apps,
		tools:     t.tools,
		overrides: make(map[string]string, len(t.overrides)+len(executables)),
	}
	for k, v := range t.overrides {
		out.overrides[k] = v
	}
	for name, exe := range executables {
		exe = strings.TrimSpace(exe)
		if exe == "" {
			continue
		}
		key := name
		if app, err := ParseApplication(name); err == nil {
			key = string(app)
		}
		out.overrides[key] = exe
	}
	return out
}

type renderedApp struct {
	Executable string   `toml:"executable"`
	Option     string   `toml:"option"`
	Extensions []string `toml:"extensions"`
}

type rendered struct {
	OS    string                 `toml:"os"`
	Apps  map[string]renderedApp `toml:"apps"`
	Tools map[string]string      `toml:"tools"`
}

// Render writes the table as resolved for osName in TOML
func (t *Table) Render(osName paths.OS) ([]byte, error) {
	r := rendered{
		OS:    string(osName),
		Apps:  make(map[string]renderedApp, len(t.apps)),
		Tools: make(map[string]string, len(t.tools)),
	}
	for app, spec := range t.apps {
		r.Apps[string(app)] = renderedApp{
			Executable: t.Executable(app, osName),
			Option:     t.Option(app, osName),
			Extensions: spec.Extensions,
		}
	}
	for name := range t.tools {
		r.Tools[name] = t.Tool(name)
	}
	data, err := gotoml.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot render application table")
	}
	return data, nil
}
