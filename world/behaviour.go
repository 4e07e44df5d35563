package world

import (
	"math/rand/v2"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// Behaviour is the set of reactions of a block type. Implementations embed NopBehaviour and override only
// the reactions they need. One Behaviour value is shared by every position holding the block, so
// implementations must not keep per-position state.
//
// Reactions never return errors. A reaction that finds its block in an illegal configuration removes the
// block instead, and a reaction that cannot make progress does nothing.
type Behaviour interface {
	// OnPlace returns the state to install when the block is placed.
	OnPlace(v View, ctx PlaceContext) State
	// Placed is called after the state returned by OnPlace has been committed.
	Placed(v View, pos cube.Pos, state, old State)
	// NeighbourUpdate is called when the state of an adjacent position changed.
	NeighbourUpdate(v View, pos, source cube.Pos)
	// ScheduledTick is called when a tick scheduled for the position expires.
	ScheduledTick(v View, pos cube.Pos)
	// RandomTicking reports whether positions holding the block take part in random ticking.
	RandomTicking() bool
	// RandomTick is called when a random tick trial for the position succeeded.
	RandomTick(v View, pos cube.Pos, r *rand.Rand)
	// StateForNeighbourUpdate is called before NeighbourUpdate and may return an adjusted state for the
	// block. face points from pos towards the neighbour that changed.
	StateForNeighbourUpdate(v View, pos cube.Pos, state State, face cube.Face, neighbour cube.Pos, neighbourState State) State
	// CanPlaceAt reports whether the block may be placed at the position passed.
	CanPlaceAt(v View, pos cube.Pos, face cube.Face, ctx *PlaceContext) bool
}

// NopBehaviour implements every reaction of Behaviour with its default.
type NopBehaviour struct{}

func (NopBehaviour) OnPlace(_ View, ctx PlaceContext) State {
	return ctx.Block.DefaultState()
}

func (NopBehaviour) Placed(View, cube.Pos, State, State)                      {}
func (NopBehaviour) NeighbourUpdate(View, cube.Pos, cube.Pos)                 {}
func (NopBehaviour) ScheduledTick(View, cube.Pos)                             {}
func (NopBehaviour) RandomTicking() bool                                      { return false }
func (NopBehaviour) RandomTick(View, cube.Pos, *rand.Rand)                    {}
func (NopBehaviour) CanPlaceAt(View, cube.Pos, cube.Face, *PlaceContext) bool { return true }

func (NopBehaviour) StateForNeighbourUpdate(_ View, _ cube.Pos, state State, _ cube.Face, _ cube.Pos, _ State) State {
	return state
}

// behaviourOf returns the behaviour of a block, falling back to NopBehaviour.
func behaviourOf(t *BlockType) Behaviour {
	if t == nil || t.Behaviour == nil {
		return NopBehaviour{}
	}
	return t.Behaviour
}

// PlaceContext describes a placement that is about to happen.
type PlaceContext struct {
	Actor     Actor
	Pos       cube.Pos
	// Face is the face of the clicked block the new block is placed against.
	Face      cube.Face
	Block     *BlockType
	Replacing Replacing
}

// Replacing describes what a placement overwrites.
type Replacing struct {
	Previous State
	// WaterSource is true if the previous block was a water source.
	WaterSource bool
}
