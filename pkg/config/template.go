package config

import (
	"bytes"
	"path/filepath"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Tools listed in the user template next to the applications
var templateTools = []string{"git-lfs"}

// UserTemplate renders a config_user.yaml holding the default
// executables of table for osName and an empty external mapping
func UserTemplate(table *programs.Table, osName paths.OS) ([]byte, error) {
	executables := &yaml.Node{Kind: yaml.MappingNode}
	for _, app := range table.Applications() {
		executables.Content = append(executables.Content,
			scalar(string(app)), scalar(table.Executable(app, osName)))
	}
	for _, tool := range templateTools {
		executables.Content = append(executables.Content, scalar(tool), scalar(table.Tool(tool)))
	}

	external := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}

	localKey := scalar("local")
	localKey.HeadComment = "Executables used on this machine. Replace a value with the full\n" +
		"path when the program is not on PATH."
	externalKey := scalar("external")
	externalKey.HeadComment = "Paths outside the repository, usable as {name} in instruction files.\n" +
		"Example:\n  raw_data: /mnt/shared/project/raw"

	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			localKey,
			{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar("executables"), executables}},
			externalKey,
			external,
		},
	}
	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "gsmake user configuration. Keep this file out of version control.",
		Content:     []*yaml.Node{root},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot render user configuration template")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot render user configuration template")
	}
	return buf.Bytes(), nil
}

// WriteUserTemplate writes the template to path, creating parent
// directories. An existing file is overwritten.
func WriteUserTemplate(fsys afero.Fs, path string, table *programs.Table, osName paths.OS) error {
	data, err := UserTemplate(table, osName)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for `%s`", path)
	}
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write `%s`", path)
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
