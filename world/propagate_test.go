package world

import (
	"slices"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blocksim/event"
	"github.com/oomph-ac/blocksim/settings"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// toggleBehaviour flips its state on every neighbour update, notifying its own neighbours in turn. Blocks
// with this behaviour trigger each other indefinitely unless propagation stops them.
type toggleBehaviour struct {
	NopBehaviour
}

func (toggleBehaviour) NeighbourUpdate(v View, pos, source cube.Pos) {
	toggleCalls[[2]cube.Pos{pos, source}]++
	s := v.BlockState(pos)
	v.SetBlockState(pos, testToggle.WithBool(s, "on", !testToggle.Bool(s, "on")), NotifyAll)
}

// supportBehaviour tracks whether the block below it is solid in its state.
type supportBehaviour struct {
	NopBehaviour
}

func (supportBehaviour) StateForNeighbourUpdate(v View, pos cube.Pos, state State, face cube.Face, _ cube.Pos, neighbourState State) State {
	if face != cube.FaceDown {
		return state
	}
	return testSupported.WithBool(state, "supported", BlockOf(neighbourState).Solid)
}

var (
	toggleCalls = map[[2]cube.Pos]int{}

	testToggle = &BlockType{
		Name:       "test:toggle",
		Properties: []Property{BoolProperty("on")},
		Behaviour:  toggleBehaviour{},
	}
	testSupported = &BlockType{
		Name:       "test:supported",
		Properties: []Property{BoolProperty("supported")},
		Behaviour:  supportBehaviour{},
	}
)

func init() {
	RegisterBlock(testToggle)
	RegisterBlock(testSupported)
}

func TestPropagationOrder(t *testing.T) {
	resetRecorded()
	store := newMockStore(protocol.ChunkPos{0, 0})
	e, _ := newTestEngine(store)
	origin := cube.Pos{8, 8, 8}
	for _, face := range cube.Faces() {
		store.Store(origin.Side(face), testProbe.DefaultState())
	}

	e.Exec(func(tx *Tx) {
		tx.SetBlockState(origin, testSolid.DefaultState(), NotifyAll)
	})
	want := []cube.Pos{{8, 7, 8}, {8, 9, 8}, {8, 8, 7}, {8, 8, 9}, {7, 8, 8}, {9, 8, 8}}
	if !slices.Equal(recordedUpdates, want) {
		t.Fatalf("expected neighbour updates in order %v, got %v", want, recordedUpdates)
	}
}

func TestPropagationWithoutNotify(t *testing.T) {
	resetRecorded()
	store := newMockStore(protocol.ChunkPos{0, 0})
	e, _ := newTestEngine(store)
	store.Store(cube.Pos{8, 9, 8}, testProbe.DefaultState())

	e.Exec(func(tx *Tx) {
		tx.SetBlockState(cube.Pos{8, 8, 8}, testSolid.DefaultState(), NotifyListeners)
	})
	if len(recordedUpdates) != 0 {
		t.Fatalf("expected no neighbour updates, got %v", recordedUpdates)
	}
}

func TestPropagationTerminates(t *testing.T) {
	clear(toggleCalls)
	store := newMockStore(protocol.ChunkPos{0, 0})
	e, _ := newTestEngine(store)
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			for z := 0; z < 3; z++ {
				store.Store(cube.Pos{x, y + 1, z}, testToggle.DefaultState())
			}
		}
	}

	e.Exec(func(tx *Tx) {
		tx.SetBlockState(cube.Pos{1, 0, 1}, testSolid.DefaultState(), NotifyAll)
	})
	if len(toggleCalls) == 0 {
		t.Fatalf("expected toggles to react")
	}
	for pair, n := range toggleCalls {
		if n != 1 {
			t.Fatalf("expected %v to be notified from %v once, got %d", pair[0], pair[1], n)
		}
	}

	// A second chain starts with a fresh visited set.
	clear(toggleCalls)
	e.Exec(func(tx *Tx) {
		tx.SetBlockState(cube.Pos{1, 0, 1}, AirState, NotifyAll)
	})
	if toggleCalls[[2]cube.Pos{{1, 1, 1}, {1, 0, 1}}] != 1 {
		t.Fatalf("expected second chain to notify the toggle above again")
	}
}

func TestPropagationChainLimit(t *testing.T) {
	clear(toggleCalls)
	store := newMockStore(protocol.ChunkPos{0, 0})
	s := settings.DefaultSettings()
	s.Simulation.MaxChainUpdates = 5
	e := Config{Settings: s}.New(store)
	for x := 0; x < 8; x++ {
		store.Store(cube.Pos{x, 1, 0}, testToggle.DefaultState())
	}

	e.Exec(func(tx *Tx) {
		tx.SetBlockState(cube.Pos{0, 0, 0}, testSolid.DefaultState(), NotifyAll)
	})
	var total int
	for _, n := range toggleCalls {
		total += n
	}
	if total == 0 || total > 5 {
		t.Fatalf("expected between 1 and 5 reactions, got %d", total)
	}
}

func TestStateForNeighbourUpdate(t *testing.T) {
	resetRecorded()
	store := newMockStore(protocol.ChunkPos{0, 0})
	e, rec := newTestEngine(store)
	pos := cube.Pos{8, 8, 8}
	store.Store(pos, testSupported.DefaultState())
	store.Store(pos.Side(cube.FaceEast), testProbe.DefaultState())

	e.Exec(func(tx *Tx) {
		tx.SetBlockState(pos.Side(cube.FaceDown), testSolid.DefaultState(), NotifyAll)
	})
	if s, _ := store.Load(pos); !testSupported.Bool(s, "supported") {
		t.Fatalf("expected block to adjust its state, got %v", StateString(s))
	}
	if len(recordedUpdates) != 0 {
		t.Fatalf("expected silent state adjustment, got neighbour updates %v", recordedUpdates)
	}
	var adjusted bool
	for _, ev := range rec.Events() {
		if c, ok := ev.(event.StateChange); ok && c.Pos == pos {
			adjusted = c.Flags == uint32(NotifyListeners)
		}
	}
	if !adjusted {
		t.Fatalf("expected listener-only state change for %v", pos)
	}

	// ForceState skips the adjustment.
	e.Exec(func(tx *Tx) {
		tx.SetBlockState(pos.Side(cube.FaceDown), AirState, NotifyAll|ForceState)
	})
	if s, _ := store.Load(pos); !testSupported.Bool(s, "supported") {
		t.Fatalf("expected forced update to leave the state alone, got %v", StateString(s))
	}
}
