package event

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blocksim/internal"
	"github.com/oomph-ac/blocksim/oerror"
)

const EventsVersion = "1"

// Event is a record produced by the simulation core. The host turns events into packets, persistence writes
// and effects.
type Event interface {
	ID() byte
	// Tick returns the simulation tick the event was produced in.
	Tick() int64
	encodePayload(buf *bytes.Buffer)
}

const (
	_ = iota
	EventIDStateChange
	EventIDBlockBreak
	EventIDTickScheduled
)

// Handler receives events as they are produced. Handlers are called from within the world's single
// mutation stream and must not call back into the engine.
type Handler interface {
	HandleEvent(ev Event)
}

// NopHandler discards all events.
type NopHandler struct{}

func (NopHandler) HandleEvent(Event) {}

// Encode encodes an event into a self-delimiting binary record.
func Encode(ev Event) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	writeEventHeader(ev, buf)
	ev.encodePayload(buf)
	return bytes.Clone(buf.Bytes())
}

func writeEventHeader(ev Event, buf *bytes.Buffer) {
	_ = binary.Write(buf, binary.LittleEndian, uint64(ev.ID()))
	_ = binary.Write(buf, binary.LittleEndian, uint64(ev.Tick()))
}

// DecodeEvents decodes all events present in dat.
func DecodeEvents(dat []byte) ([]Event, error) {
	r := bytes.NewReader(dat)
	var events []Event
	for r.Len() > 0 {
		ev, err := DecodeEvent(r)
		if err != nil {
			return events, oerror.New("error decoding event: %v", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// DecodeEvent decodes a single event from r.
func DecodeEvent(r io.Reader) (Event, error) {
	var header struct {
		ID   uint64
		Tick uint64
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	tick := int64(header.Tick)

	switch byte(header.ID) {
	case EventIDStateChange:
		var payload struct {
			Pos      [3]int64
			Old, New uint32
			Flags    uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &payload); err != nil {
			return nil, oerror.New("error reading StateChange: %v", err)
		}
		return StateChange{EvTick: tick, Pos: decodePos(payload.Pos), Old: payload.Old, New: payload.New, Flags: payload.Flags}, nil
	case EventIDBlockBreak:
		var payload struct {
			Pos   [3]int64
			State uint32
			Cause uint8
			Flags uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &payload); err != nil {
			return nil, oerror.New("error reading BlockBreak: %v", err)
		}
		return BlockBreak{EvTick: tick, Pos: decodePos(payload.Pos), State: payload.State, Cause: payload.Cause, Flags: payload.Flags}, nil
	case EventIDTickScheduled:
		var payload struct {
			Pos      [3]int64
			Delay    int32
			Priority int8
			NameLen  uint16
		}
		if err := binary.Read(r, binary.LittleEndian, &payload); err != nil {
			return nil, oerror.New("error reading TickScheduled: %v", err)
		}
		name := make([]byte, payload.NameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, oerror.New("error reading TickScheduled block name: %v", err)
		}
		return TickScheduled{EvTick: tick, Pos: decodePos(payload.Pos), Block: string(name), Delay: payload.Delay, Priority: payload.Priority}, nil
	default:
		return nil, oerror.New("unknown event: %d", header.ID)
	}
}

func encodePos(buf *bytes.Buffer, pos cube.Pos) {
	_ = binary.Write(buf, binary.LittleEndian, [3]int64{int64(pos[0]), int64(pos[1]), int64(pos[2])})
}

func decodePos(p [3]int64) cube.Pos {
	return cube.Pos{int(p[0]), int(p[1]), int(p[2])}
}
