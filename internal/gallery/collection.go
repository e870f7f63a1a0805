package gallery

// Entry is one named image blob. Data is never modified.
type Entry struct {
	Name string
	Data []byte
}

// Collection is a fixed, ordered list of entries.
type Collection struct {
	entries []Entry
}

// NewCollection copies entries into a Collection.
func NewCollection(entries []Entry) Collection {
	return Collection{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of entries.
func (c Collection) Len() int {
	return len(c.entries)
}

// At returns the entry at index i.
func (c Collection) At(i int) Entry {
	return c.entries[i]
}

// Names returns the entry names in order.
func (c Collection) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Size returns the total number of bytes held by the entries.
func (c Collection) Size() int {
	total := 0
	for _, e := range c.entries {
		total += len(e.Data)
	}
	return total
}
