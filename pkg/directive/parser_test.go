package directive

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parserFixture(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fixture uses POSIX paths")
	}
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(name), 0755))
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0644))
	}
	return fsys
}

func TestParseFiles_WildcardScenario(t *testing.T) {
	fsys := parserFixture(t, map[string]string{
		"/proj/raw/a.txt":          "a",
		"/proj/raw/b.txt":          "b",
		"/proj/inputs.txt":         "# inputs\n\n*.txt | raw/*.txt\n",
		"/proj/external/empty.txt": "",
	})

	p := NewParser(fsys, "/proj")
	directives, err := p.ParseFiles([]string{"inputs.txt"}, "out", nil)
	require.NoError(t, err)
	require.Len(t, directives, 1)

	d := directives[0]
	assert.Equal(t, "/proj/inputs.txt", d.File)
	assert.Equal(t, "*.txt | raw/*.txt", d.RawLine)
	assert.Equal(t, "/proj/raw/*.txt", d.Source)
	assert.Equal(t, "/proj/out/*.txt", d.Destination)

	pairs, err := ExpandAll(fsys, directives)
	require.NoError(t, err)
	assert.Equal(t, Map{
		{Source: "/proj/raw/a.txt", Destination: "/proj/out/a.txt"},
		{Source: "/proj/raw/b.txt", Destination: "/proj/out/b.txt"},
	}, pairs)
}

func TestParseFiles_SubstitutionAndQuotes(t *testing.T) {
	fsys := parserFixture(t, map[string]string{
		"/data/survey.dta":       "x",
		"/proj/links/inputs.txt": `"survey.dta" | '{data}/survey.dta'`,
	})

	p := NewParser(fsys, "/proj")
	directives, err := p.ParseFiles([]string{"links/*.txt"}, "/proj/input", map[string]string{"data": "/data"})
	require.NoError(t, err)
	require.Len(t, directives, 1)
	assert.Equal(t, "/data/survey.dta", directives[0].Source)
	assert.Equal(t, "/proj/input/survey.dta", directives[0].Destination)
	assert.Equal(t, `"survey.dta" | '/data/survey.dta'`, directives[0].Line)
}

func TestParseFiles_EmptyInstructionFile(t *testing.T) {
	fsys := parserFixture(t, map[string]string{
		"/proj/inputs.txt": "# nothing here\n\n   \n",
	})

	directives, err := NewParser(fsys, "/proj").ParseFiles([]string{"inputs.txt"}, "input", nil)
	require.NoError(t, err)
	assert.Empty(t, directives)

	pairs, err := ExpandAll(fsys, directives)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestParseFiles_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		mapping  map[string]string
		wantCode errors.ErrorCode
		contains []string
	}{
		{
			name:     "no separator",
			content:  "a.txt raw/a.txt",
			wantCode: errors.ErrSyntax,
			contains: []string{"destination | source"},
		},
		{
			name:     "too many separators",
			content:  "a.txt | raw/a.txt | b",
			wantCode: errors.ErrSyntax,
		},
		{
			name:     "wildcard count mismatch",
			content:  "out.txt | raw/*.txt",
			wantCode: errors.ErrSyntax,
			contains: []string{"same number of wildcards"},
		},
		{
			name:     "missing plain source",
			content:  "a.txt | raw/missing.txt",
			wantCode: errors.ErrNotFound,
			contains: []string{"/proj/raw/missing.txt"},
		},
		{
			name:     "wildcard matches nothing",
			content:  "*.dta | raw/*.dta",
			wantCode: errors.ErrNotFound,
			contains: []string{"/proj/raw/*.dta"},
		},
		{
			name:     "unknown placeholder",
			content:  "a.txt | {external_data}/a.txt",
			wantCode: errors.ErrPathMapping,
			contains: []string{"external_data", "/proj/inputs.txt", "{external_data}/a.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := parserFixture(t, map[string]string{
				"/proj/raw/a.txt":  "a",
				"/proj/inputs.txt": tt.content,
			})

			_, err := NewParser(fsys, "/proj").ParseFiles([]string{"inputs.txt"}, "input", tt.mapping)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetErrorCode(err))
			for _, c := range tt.contains {
				assert.Contains(t, err.Error(), c)
			}
		})
	}
}

func TestParseFiles_NoInstructionFiles(t *testing.T) {
	fsys := parserFixture(t, map[string]string{"/proj/raw/a.txt": "a"})

	_, err := NewParser(fsys, "/proj").ParseFiles([]string{"links/*.txt", "inputs.txt"}, "input", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Contains(t, err.Error(), "`links/*.txt`, `inputs.txt`")
}

func TestParseFiles_MultipleFilesInOrder(t *testing.T) {
	fsys := parserFixture(t, map[string]string{
		"/proj/raw/a.txt":   "a",
		"/proj/raw/b.txt":   "b",
		"/proj/links/2.txt": "b.txt | raw/b.txt",
		"/proj/links/1.txt": "a.txt | raw/a.txt",
		"/proj/extra/x.txt": "a2.txt | raw/a.txt",
	})

	directives, err := NewParser(fsys, "/proj").ParseFiles(
		[]string{"links/*.txt", "extra/x.txt", "links/1.txt"}, "input", nil)
	require.NoError(t, err)

	var dests []string
	for _, d := range directives {
		dests = append(dests, filepath.Base(d.Destination))
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "a2.txt"}, dests)
}
