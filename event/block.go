package event

import (
	"bytes"
	"encoding/binary"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// StateChange is produced for every committed block state mutation.
type StateChange struct {
	EvTick   int64
	Pos      cube.Pos
	Old, New uint32
	// Flags are the set flags the mutation was committed with.
	Flags uint32
}

func (StateChange) ID() byte       { return EventIDStateChange }
func (ev StateChange) Tick() int64 { return ev.EvTick }

func (ev StateChange) encodePayload(buf *bytes.Buffer) {
	encodePos(buf, ev.Pos)
	_ = binary.Write(buf, binary.LittleEndian, ev.Old)
	_ = binary.Write(buf, binary.LittleEndian, ev.New)
	_ = binary.Write(buf, binary.LittleEndian, ev.Flags)
}

// BlockBreak is a request for the host to play break effects and, unless the flags say otherwise, spawn
// drops for the state that was broken.
type BlockBreak struct {
	EvTick int64
	Pos    cube.Pos
	State  uint32
	Cause  uint8
	Flags  uint32
}

func (BlockBreak) ID() byte       { return EventIDBlockBreak }
func (ev BlockBreak) Tick() int64 { return ev.EvTick }

func (ev BlockBreak) encodePayload(buf *bytes.Buffer) {
	encodePos(buf, ev.Pos)
	_ = binary.Write(buf, binary.LittleEndian, ev.State)
	buf.WriteByte(ev.Cause)
	_ = binary.Write(buf, binary.LittleEndian, ev.Flags)
}

// TickScheduled is produced when a delayed tick is registered.
type TickScheduled struct {
	EvTick   int64
	Pos      cube.Pos
	Block    string
	Delay    int32
	Priority int8
}

func (TickScheduled) ID() byte       { return EventIDTickScheduled }
func (ev TickScheduled) Tick() int64 { return ev.EvTick }

func (ev TickScheduled) encodePayload(buf *bytes.Buffer) {
	encodePos(buf, ev.Pos)
	_ = binary.Write(buf, binary.LittleEndian, ev.Delay)
	_ = binary.Write(buf, binary.LittleEndian, ev.Priority)
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(ev.Block)))
	buf.WriteString(ev.Block)
}
