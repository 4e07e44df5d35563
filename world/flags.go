package world

// SetFlags configure the side effects of a state mutation. The zero value commits the state with minimal
// notification: the host still receives a state change record, but no neighbours are notified.
type SetFlags uint32

const (
	// NotifyNeighbours propagates neighbour updates to the six adjacent positions.
	NotifyNeighbours SetFlags = 1 << iota
	// NotifyListeners marks the change as one the host should send to viewers.
	NotifyListeners
	// ForceState skips the neighbour state adjustment (StateForNeighbourUpdate) of notified neighbours.
	ForceState
	// SkipDrops omits the item drop side effect of a break.
	SkipDrops
)

// NotifyAll propagates to all neighbours and listeners.
const NotifyAll = NotifyNeighbours | NotifyListeners

// Has returns true if all flags in f2 are set in f.
func (f SetFlags) Has(f2 SetFlags) bool {
	return f&f2 == f2
}

// BreakCause describes why a block was broken.
type BreakCause uint8

const (
	CauseUnknown BreakCause = iota
	// CauseActor is a break performed by an actor such as a player.
	CauseActor
	// CauseInvalid is a block removing itself because its configuration became illegal.
	CauseInvalid
	// CauseCommand is a break performed by SetBlock in destroy mode.
	CauseCommand
)
