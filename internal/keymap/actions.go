// Package keymap maps input bytes to gallery actions.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionNone Action = ""
	ActionQuit Action = "quit"
	ActionPrev Action = "prev" // previous image, wrapping to the last
	ActionNext Action = "next" // next image, wrapping to the first
)
