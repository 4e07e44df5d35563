package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// View is the read/write capability set handed to behaviours. Positions that are out of range or in a
// region that is not loaded read as air, and writes to them are dropped.
type View interface {
	// Block returns the block at the position passed.
	Block(pos cube.Pos) *BlockType
	// BlockState returns the state at the position passed.
	BlockState(pos cube.Pos) State
	// BlockAndState returns both the block and state at the position passed.
	BlockAndState(pos cube.Pos) (*BlockType, State)
	// SetBlockState commits a state and returns the state it replaced.
	SetBlockState(pos cube.Pos, s State, flags SetFlags) State
	// BreakBlock removes the block at the position passed.
	BreakBlock(pos cube.Pos, cause BreakCause, flags SetFlags)
	// ScheduleTick registers a delayed tick for the block at the position passed.
	ScheduleTick(t *BlockType, pos cube.Pos, delay int, priority TickPriority)
}

// Store is the world storage owned by the host. The engine is the only writer of a Store while it holds the
// world's lock and never keeps references to it across calls of the host.
type Store interface {
	// Load returns the state at the position passed. The bool is false if the region holding the position
	// is not loaded.
	Load(pos cube.Pos) (State, bool)
	// Store writes a state. It is only called for positions in loaded regions.
	Store(pos cube.Pos, s State)
	// Loaded returns true if the region passed is loaded.
	Loaded(pos protocol.ChunkPos) bool
	// Range calls f for every non-air state in loaded regions, in an order that only depends on the
	// contents of the store. Range stops when f returns false.
	Range(f func(pos cube.Pos, s State) bool)
}
