// Package linker creates the symlinks or copies described by instruction
// files. Each pair is realized with the native command of the OS family
// (ln/cp on POSIX, mklink/xcopy/copy on NT) run as an argv list.
//
// Running a batch twice is safe: a destination that already holds what
// would be created (a symlink in link mode, a file or directory of the
// source's kind in copy mode) is replaced. Any other existing entry is a
// conflict and stops the batch.
package linker
