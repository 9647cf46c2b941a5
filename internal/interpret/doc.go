// Package interpret turns raw terminal output from an AI coding agent into
// a small activity signal: whether a recognized agent is present, whether it
// is working or idle, and a one-line summary of what it is doing.
//
// The Interpreter is a per-session state machine fed successive chunks of
// PTY output. Chunks arrive at arbitrary boundaries and may split escape
// sequences or words; the interpreter accumulates a bounded tail buffer and
// re-derives everything from that buffer on each call, so split input needs
// no special handling. All classification is best-effort pattern matching
// over ANSI-stripped text: unrecognized input yields "no new signal", never
// an error.
//
// One interpreter instance belongs to one session and is called from that
// session's single reader. It performs no I/O, holds no timers, and never
// panics on malformed input.
package interpret
