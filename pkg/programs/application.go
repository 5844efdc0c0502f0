package programs

import (
	"sort"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
)

// Application is an external interpreter that runs programs
type Application string

const (
	Stata        Application = "stata"
	R            Application = "r"
	Python       Application = "python"
	Matlab       Application = "matlab"
	Perl         Application = "perl"
	SAS          Application = "sas"
	Jupyter      Application = "jupyter"
	LyX          Application = "lyx"
	Mathematica  Application = "mathematica"
	StatTransfer Application = "stat_transfer"
)

var applications = []Application{
	Jupyter, LyX, Mathematica, Matlab, Perl, Python, R, SAS, StatTransfer, Stata,
}

var aliases = map[string]Application{
	"math":         Mathematica,
	"st":           StatTransfer,
	"stattransfer": StatTransfer,
	"rscript":      R,
	"ipynb":        Jupyter,
}

// Applications lists every supported application in name order
func Applications() []Application {
	out := make([]Application, len(applications))
	copy(out, applications)
	return out
}

// Title is the display name used in messages
func (a Application) Title() string {
	switch a {
	case Stata:
		return "Stata"
	case R:
		return "R"
	case Python:
		return "Python"
	case Matlab:
		return "Matlab"
	case Perl:
		return "Perl"
	case SAS:
		return "SAS"
	case Jupyter:
		return "Jupyter"
	case LyX:
		return "LyX"
	case Mathematica:
		return "Mathematica"
	case StatTransfer:
		return "StatTransfer"
	}
	return string(a)
}

// ParseApplication accepts an application name or one of its short
// aliases, ignoring case.
func ParseApplication(name string) (Application, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, a := range applications {
		if string(a) == key {
			return a, nil
		}
	}
	if a, ok := aliases[key]; ok {
		return a, nil
	}

	names := make([]string, 0, len(applications))
	for _, a := range applications {
		names = append(names, string(a))
	}
	sort.Strings(names)
	return "", errors.Newf(errors.ErrUnknownApp,
		"application `%s` is not supported; use one of: %s", name, strings.Join(names, ", ")).
		WithDetail("application", name)
}
