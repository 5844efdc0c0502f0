// Package module builds a module from its manifest (gsmake.yaml). A build
// runs its steps strictly in order: directories are removed and cleared,
// the makelog is started, sources are linked or copied and logged,
// modified sources are reported, programs run one after another, output
// logs are written and the makelog is closed.
//
// Any failing step stops the build. The error has already been appended
// to the makelog by the component that raised it.
package module
