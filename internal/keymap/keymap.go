package keymap

import "strings"

// Binding ties keys to an action. Keys are single printable ASCII
// characters because input is read one byte at a time.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
}

// Bindings contains the default key bindings.
var Bindings = []Binding{
	{ActionQuit, []string{"q"}, "Quit"},
	{ActionPrev, []string{"j"}, "Previous image"},
	{ActionNext, []string{"l"}, "Next image"},
}

// WithOverrides returns the default bindings with the keys of some actions
// replaced. Actions missing from overrides, or mapped to no keys, keep their
// defaults.
func WithOverrides(overrides map[Action][]string) []Binding {
	result := make([]Binding, len(Bindings))
	for i, b := range Bindings {
		result[i] = b
		if keys := overrides[b.Action]; len(keys) > 0 {
			result[i].Keys = append([]string(nil), keys...)
		}
	}
	return result
}

// Help renders bindings as "q quit, j previous image, l next image".
func Help(bindings []Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, strings.Join(b.Keys, "/")+" "+strings.ToLower(b.Description))
	}
	return strings.Join(parts, ", ")
}
