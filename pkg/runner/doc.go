// Package runner executes programs and shell commands for a module build.
//
// Every run follows the same shape: resolve the program, check that its
// executable is installed, run it, and record what it printed in the
// makelog. Applications that write their own log files (Matlab, SAS and
// Stata) have those files moved into the makelog and the requested log
// destination afterwards. Failures are appended to the makelog before
// they are returned.
package runner
