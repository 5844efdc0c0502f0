// Package config loads gsmake's configuration: tool settings, the
// user and project configuration files of a repository, and module
// manifests.
package config
