package keymap

import "fmt"

// Resolver maps input bytes to actions.
type Resolver struct {
	bindings map[byte]Action     // key -> action
	byAction map[Action][]string // action -> keys (for help/documentation)
}

// NewResolver creates a resolver from bindings. Every key must be a single
// printable ASCII character and may belong to only one action.
func NewResolver(bindings []Binding) (*Resolver, error) {
	r := &Resolver{
		bindings: make(map[byte]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			if len(key) != 1 || key[0] < 0x21 || key[0] > 0x7e {
				return nil, fmt.Errorf("key %q for %s: want a single printable ASCII character", key, b.Action)
			}
			if prev, ok := r.bindings[key[0]]; ok && prev != b.Action {
				return nil, fmt.Errorf("key %q bound to both %s and %s", key, prev, b.Action)
			}
			r.bindings[key[0]] = b.Action
		}
		r.byAction[b.Action] = dedupe(append(r.byAction[b.Action], b.Keys...))
	}
	return r, nil
}

// Resolve returns the action for a key, or ActionNone if it is not bound.
func (r *Resolver) Resolve(key byte) Action {
	return r.bindings[key]
}

// KeysFor returns the keys bound to an action (for help/documentation).
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// dedupe removes duplicate strings from a slice.
func dedupe(s []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
