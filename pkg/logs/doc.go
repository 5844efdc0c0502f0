// Package logs writes the file logs a module build leaves next to its
// makelog: statistics (name, modification time, size), headers (the
// first lines of each file) and maps (which destination came from which
// source).
package logs
