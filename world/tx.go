package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blocksim/assert"
	"github.com/oomph-ac/blocksim/event"
)

// Tx is the exclusive access to a world granted for the duration of Engine.Exec or Engine.Step. It
// implements View and is handed to every reaction.
type Tx struct {
	e      *Engine
	closed bool
}

func (tx *Tx) close() {
	tx.closed = true
}

func (tx *Tx) engine() *Engine {
	assert.IsTrue(!tx.closed, "world transaction used after it was closed")
	return tx.e
}

// Range returns the vertical range of the world.
func (tx *Tx) Range() cube.Range {
	return tx.engine().ra
}

// Block returns the block at the position passed.
func (tx *Tx) Block(pos cube.Pos) *BlockType {
	return BlockOf(tx.BlockState(pos))
}

// BlockState returns the state at the position passed. Out of range and unloaded positions hold air.
func (tx *Tx) BlockState(pos cube.Pos) State {
	e := tx.engine()
	if pos.OutOfBounds(e.ra) {
		return AirState
	}
	s, ok := e.store.Load(pos)
	if !ok {
		return AirState
	}
	return s
}

// BlockAndState returns the block and state at the position passed.
func (tx *Tx) BlockAndState(pos cube.Pos) (*BlockType, State) {
	s := tx.BlockState(pos)
	return BlockOf(s), s
}

// loaded returns true if the position passed may be written to.
func (tx *Tx) loaded(pos cube.Pos) bool {
	e := tx.engine()
	return !pos.OutOfBounds(e.ra) && e.store.Loaded(ChunkPosOf(pos))
}

// SetBlockState commits the state passed and returns the state it replaced. Setting a position to the state
// it already holds does nothing. If flags contain NotifyNeighbours, the six neighbours of the position are
// notified; when SetBlockState is called outside a causal chain, it does not return until the chain it
// started has fully resolved.
func (tx *Tx) SetBlockState(pos cube.Pos, s State, flags SetFlags) State {
	e := tx.engine()
	if !tx.loaded(pos) {
		return AirState
	}
	old, _ := e.store.Load(pos)
	if old == s {
		return old
	}
	e.store.Store(pos, s)
	e.emit(event.StateChange{EvTick: e.tick, Pos: pos, Old: uint32(old), New: uint32(s), Flags: uint32(flags)})

	if flags.Has(NotifyNeighbours) {
		e.prop.notifyAround(tx, pos, flags)
	}
	return old
}

// BreakBlock removes the block at the position passed. Blocks that were waterlogged leave a water source
// behind. The host receives a break record so it can play effects and, unless SkipDrops is set, spawn drops.
func (tx *Tx) BreakBlock(pos cube.Pos, cause BreakCause, flags SetFlags) {
	e := tx.engine()
	t, s := tx.BlockAndState(pos)
	if t == Air || !tx.loaded(pos) {
		return
	}
	e.emit(event.BlockBreak{EvTick: e.tick, Pos: pos, State: uint32(s), Cause: uint8(cause), Flags: uint32(flags)})

	replacement := AirState
	if t.HasProperty("waterlogged") && t.Bool(s, "waterlogged") {
		if water, ok := BlockByName("minecraft:water"); ok {
			replacement = water.DefaultState()
		}
	}
	tx.SetBlockState(pos, replacement, flags)
}

// ScheduleTick registers a tick for the block passed that fires after delay steps. Ticks for positions in
// regions that are not loaded are dropped.
func (tx *Tx) ScheduleTick(t *BlockType, pos cube.Pos, delay int, priority TickPriority) {
	e := tx.engine()
	if !tx.loaded(pos) {
		return
	}
	e.scheduler.Schedule(ScheduledTick{Pos: pos, Block: t, Priority: priority, Delay: delay})
	e.emit(event.TickScheduled{EvTick: e.tick, Pos: pos, Block: t.Name, Delay: int32(delay), Priority: int8(priority)})
}

// PlaceBlock places a block on behalf of an actor. It returns false without changing anything if the
// position is occupied by a block that cannot be replaced or if the block may not be placed there.
func (tx *Tx) PlaceBlock(actor Actor, pos cube.Pos, face cube.Face, t *BlockType) bool {
	e := tx.engine()
	if !tx.loaded(pos) {
		return false
	}
	prev, prevState := tx.BlockAndState(pos)
	if !prev.Replaceable {
		return false
	}
	ctx := PlaceContext{
		Actor: actor,
		Pos:   pos,
		Face:  face,
		Block: t,
		Replacing: Replacing{
			Previous:    prevState,
			WaterSource: prev.Name == "minecraft:water" && prevState == prev.DefaultState(),
		},
	}
	b := behaviourOf(t)
	if !reactValue(e, "CanPlaceAt", pos, false, func() bool { return b.CanPlaceAt(tx, pos, face, &ctx) }) {
		return false
	}
	s := reactValue(e, "OnPlace", pos, t.DefaultState(), func() State { return b.OnPlace(tx, ctx) })
	if !t.Contains(s) {
		e.log.Warnf("OnPlace of %v returned foreign state %v, using default state", t, StateString(s))
		s = t.DefaultState()
	}
	old := tx.SetBlockState(pos, s, NotifyAll)
	e.react("Placed", pos, func() { b.Placed(tx, pos, s, old) })
	return true
}

// SetBlockMode controls how SetBlock treats the block it replaces.
type SetBlockMode uint8

const (
	// SetBlockReplace overwrites the block without break effects.
	SetBlockReplace SetBlockMode = iota
	// SetBlockDestroy breaks the block with effects and drops first.
	SetBlockDestroy
	// SetBlockKeep only sets the block if the position holds air.
	SetBlockKeep
)

// SetBlock forces a state on behalf of an actor, bypassing placement rules. Actors below the SetBlockLevel
// permission level are refused. SetBlock returns true if the state was set.
func (tx *Tx) SetBlock(actor Actor, pos cube.Pos, s State, mode SetBlockMode) bool {
	e := tx.engine()
	if actor.PermissionLevel < e.conf.Settings.Permissions.SetBlockLevel || !tx.loaded(pos) {
		return false
	}
	switch mode {
	case SetBlockDestroy:
		tx.BreakBlock(pos, CauseCommand, NotifyAll)
	case SetBlockKeep:
		if tx.Block(pos) != Air {
			return false
		}
	}
	tx.SetBlockState(pos, s, NotifyAll)
	return true
}
