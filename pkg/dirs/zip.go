package dirs

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/spf13/afero"
)

// ZipDir writes every file below source into a zip archive at dest.
// Entries keep their path relative to source.
func (m *Manager) ZipDir(source, dest string) (err error) {
	source = paths.NormPathIn(m.workDir, source)
	dest = paths.NormPathIn(m.workDir, dest)

	var files []string
	walkErr := afero.Walk(m.fs, source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() && path != dest {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return errors.Wrapf(walkErr, errors.ErrFileAccess, "cannot walk `%s`", source)
	}
	sort.Strings(files)

	if err := m.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for `%s`", dest)
	}
	out, err := m.fs.Create(dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create `%s`", dest)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, errors.ErrFileWrite, "cannot write `%s`", dest)
		}
	}()

	zw := zip.NewWriter(out)
	for _, path := range files {
		name := filepath.ToSlash(paths.RelTo(source, path))
		if err := m.addToZip(zw, path, name); err != nil {
			return err
		}
		m.printer.Success("Zipped: `%s` as `%s`", path, name)
	}
	if err := zw.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write `%s`", dest)
	}
	return nil
}

func (m *Manager) addToZip(zw *zip.Writer, path, name string) error {
	in, err := m.fs.Open(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read `%s`", path)
	}
	defer func() { _ = in.Close() }()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot add `%s`", name)
	}
	if _, err := io.Copy(w, in); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot add `%s`", name)
	}
	return nil
}

// Unzip extracts archive into outputDir. Entries that would land
// outside outputDir are rejected.
func (m *Manager) Unzip(archive, outputDir string) error {
	archive = paths.NormPathIn(m.workDir, archive)
	outputDir = paths.NormPathIn(m.workDir, outputDir)

	f, err := m.fs.Open(archive)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNotFound, "File `%s` cannot be found", archive)
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat `%s`", archive)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "`%s` is not a zip archive", archive)
	}

	for _, entry := range zr.File {
		target := filepath.Join(outputDir, filepath.FromSlash(entry.Name))
		if target != outputDir && !strings.HasPrefix(target, outputDir+string(filepath.Separator)) {
			return errors.Newf(errors.ErrInvalidInput, "zip entry `%s` escapes `%s`", entry.Name, outputDir)
		}
		if entry.FileInfo().IsDir() {
			if err := m.fs.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory `%s`", target)
			}
			continue
		}
		if err := m.extract(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) extract(entry *zip.File, target string) error {
	if err := m.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for `%s`", target)
	}
	rc, err := entry.Open()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read zip entry `%s`", entry.Name)
	}
	defer func() { _ = rc.Close() }()

	out, err := m.fs.Create(target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create `%s`", target)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write `%s`", target)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write `%s`", target)
	}
	return nil
}
