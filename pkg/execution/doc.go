// Package execution runs external commands as argv lists and captures
// their output.
//
// Commands are never passed through a shell. Anything that used to be a
// shell string (redirections, pipes) is expressed with Command fields:
// Stdin names a file fed to the process, Dir sets the working directory.
// The Runner interface is what the linker and program runner depend on so
// tests can replace real processes with a mock.
package execution
