// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Image operations
	OpDecodeImage Op = "decode image"
	OpRenderImage Op = "render image"

	// Terminal operations
	OpTerminalSetup   Op = "set up terminal"
	OpTerminalRestore Op = "restore terminal"
	OpTerminalDraw    Op = "draw to terminal"

	// Input operations
	OpLoadPath  Op = "load path"
	OpReadCover Op = "read cover art"

	// Initialization
	OpLoadConfig Op = "load configuration"
	OpOpenLog    Op = "open log file"
	OpInitialize Op = "initialize gallery"
)

// Messages drawn inside the gallery window.
const (
	EmptyList  = "The list is empty"
	NotAnImage = "Not an image file"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
