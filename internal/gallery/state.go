package gallery

// Phase is the gallery's current display state.
type Phase int

const (
	PhasePending    Phase = iota // nothing drawn yet
	PhaseEmpty                   // no entries
	PhaseDisplaying              // current entry decoded and drawn
	PhaseImageError              // current entry failed to decode
	PhaseQuit                    // quit requested
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseEmpty:
		return "empty"
	case PhaseDisplaying:
		return "displaying"
	case PhaseImageError:
		return "image-error"
	case PhaseQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ViewerState tracks navigation. Previous equals the collection length until
// the first entry has been shown.
type ViewerState struct {
	Current    int
	Previous   int
	Running    bool
	EmptyDrawn bool
}
