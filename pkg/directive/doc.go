// Package directive parses link and copy instruction files and expands
// their wildcards into concrete source/destination pairs.
//
// An instruction file holds one directive per line:
//
//	# comments and blank lines are ignored
//	destination | source
//	data_*.csv  | {root}/raw/data_*.csv
//
// `{name}` placeholders are filled from the module's path mapping before
// the line is split. Destinations are relative to the move directory
// (input or external dir). Each `*` in the source captures the text it
// matched and the captures fill the destination's `*`s left to right.
package directive
