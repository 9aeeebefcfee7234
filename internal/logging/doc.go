// Package logging wraps log/slog with the handlers and helpers the CLI
// uses for diagnostics.
//
// The console format prints one line per record with the component folded
// into the prefix; the json format emits machine-readable records with
// ts/level/msg keys. Commands run at warn level by default so stdout stays
// reserved for command output; --verbose drops the level to debug.
package logging
