// Package errors provides structured errors for the knobs CLI.
//
// A CLIError carries a short message, an optional detail paragraph, and
// a hint telling the user how to fix the problem. Format renders the
// error for terminal display with ANSI colors; PrintError writes it to
// stderr. Library packages return plain errors; only the CLI layer
// wraps them here.
package errors
