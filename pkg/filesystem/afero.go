package filesystem

import (
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// NewOS returns the OS-backed filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Lstat stats name without following a trailing symlink when the
// filesystem supports it, and falls back to Stat otherwise.
func Lstat(fsys afero.Fs, name string) (fs.FileInfo, error) {
	if l, ok := fsys.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return fsys.Stat(name)
}

// IsSymlink reports whether name exists and is a symbolic link
func IsSymlink(fsys afero.Fs, name string) bool {
	info, err := Lstat(fsys, name)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// Exists reports whether name exists. Broken symlinks count as existing.
func Exists(fsys afero.Fs, name string) bool {
	_, err := Lstat(fsys, name)
	return err == nil
}

// IsDir reports whether name exists and is a directory
func IsDir(fsys afero.Fs, name string) bool {
	ok, err := afero.IsDir(fsys, name)
	return err == nil && ok
}

// AppendFile appends data to name, which must already exist
func AppendFile(fsys afero.Fs, name string, data []byte) error {
	f, err := fsys.OpenFile(name, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// CopyFile copies the regular file src to dst, truncating dst
func CopyFile(fsys afero.Fs, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
