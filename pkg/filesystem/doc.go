// Package filesystem provides the afero filesystems gsmake works on and a
// few helpers the standard afero API lacks (symlink detection, appending,
// copying).
//
// Production code uses NewOS. Unit tests for parsing, expansion and log
// writing use NewMemory; anything that creates symlinks or runs external
// processes needs the real OS filesystem.
package filesystem
