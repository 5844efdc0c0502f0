package paths

import (
	"github.com/arthur-debert/gsmake/pkg/errors"
)

// Well-known keys of a module's path mapping
const (
	KeyMakelog        = "makelog"
	KeyInputDir       = "input_dir"
	KeyExternalDir    = "external_dir"
	KeyOutputDir      = "output_dir"
	KeyOutputLocalDir = "output_local_dir"
	KeyPDFDir         = "pdf_dir"
	KeyConfigUser     = "config_user"
	KeyRoot           = "root"

	KeyInputStatsLog    = "input_stats_log"
	KeyInputHeadsLog    = "input_heads_log"
	KeyInputMapLog      = "input_map_log"
	KeyExternalStatsLog = "external_stats_log"
	KeyExternalHeadsLog = "external_heads_log"
	KeyExternalMapLog   = "external_map_log"
	KeyOutputStatsLog   = "output_stats_log"
	KeyOutputHeadsLog   = "output_heads_log"
	KeyLinkStatsLog     = "link_stats_log"
	KeyLinkHeadsLog     = "link_heads_log"
	KeyLinkMapLog       = "link_map_log"
)

// Paths is the named path mapping of a module. It doubles as the
// substitution mapping for `{name}` placeholders in instruction files.
type Paths map[string]string

// Get returns the path stored under key or a configuration error naming
// the missing key.
func (p Paths) Get(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", errors.Newf(errors.ErrMissingPathKey,
			"argument `paths` is missing a value for key `%s`; add a path for `%s` to your paths",
			key, key).WithDetail("key", key)
	}
	return v, nil
}

// Lookup returns the path stored under key and whether it is set and non-empty
func (p Paths) Lookup(key string) (string, bool) {
	v, ok := p[key]
	return v, ok && v != ""
}

// Mapping returns a copy suitable for placeholder substitution
func (p Paths) Mapping() map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a new Paths with other's entries layered over p
func (p Paths) Merge(other map[string]string) Paths {
	out := make(Paths, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
