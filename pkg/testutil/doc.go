// Package testutil provides helpers shared by gsmake's package tests:
// a testify mock of execution.Runner and builders for file trees on
// either an afero memory filesystem or a real temporary directory.
package testutil
