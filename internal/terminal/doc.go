// Package terminal owns the controlling terminal for the lifetime of a viewer
// session: input mode, alternate screen, geometry queries and the buffered
// writer every renderer draws through.
//
// Sequences are emitted directly as ANSI/VT bytes; terminfo is not consulted.
package terminal
