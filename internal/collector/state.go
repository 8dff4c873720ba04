package collector

// State is a phase of the collection loop.
type State int

const (
	// StateExtract checks the stop conditions and pulls new items from the page.
	StateExtract State = iota
	// StateLoadMore triggers the load-more control and waits for growth.
	StateLoadMore
	// StateRetryPause backs off after a failed extraction.
	StateRetryPause
	// StateDone is terminal.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateExtract:
		return "extract"
	case StateLoadMore:
		return "load_more"
	case StateRetryPause:
		return "retry_pause"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
