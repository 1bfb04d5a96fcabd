package types

// State represents the current state of the selection loop
type State int

const (
	// Rendering draws the menu and the default pick
	Rendering State = iota
	// AwaitingInput waits for the user to type a choice
	AwaitingInput
	// Selected means an entry was chosen
	Selected
	// Quit means the user asked to leave without doing anything
	Quit
)

func (s State) String() string {
	switch s {
	case Rendering:
		return "rendering"
	case AwaitingInput:
		return "awaiting input"
	case Selected:
		return "selected"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Done reports whether the selection loop has finished
func (s State) Done() bool {
	return s == Selected || s == Quit
}
