// Package paths normalizes filesystem paths across POSIX and NT, expands
// glob patterns to a bounded depth and holds the named path mapping a
// module is configured with (makelog, input_dir, output_dir, ...).
//
// Paths accepted from instruction files and configuration may use either
// `/` or `\` as separators and may start with `~`. NormPath turns any of
// them into an absolute path using the separator of the running OS.
package paths
