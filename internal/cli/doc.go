// Package cli implements the interactive Veritas client: a small REPL over
// the session manager, preference synchronizer, and data portability engine.
// It is also the composition root: it wires the store, owns the session
// subscription lifecycle, and tears everything down on exit.
package cli
