package virtual

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world/chunk"
	"github.com/oomph-ac/blocksim/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// World is an in-memory world.Store. Block states are kept in dragonfly chunks, one per loaded region.
type World struct {
	log *logrus.Logger
	r   cube.Range

	chunkMu sync.Mutex
	chunks  map[protocol.ChunkPos]*column
}

// column is a loaded region: the chunk holding its states and the set of its non-air positions.
type column struct {
	c      *chunk.Chunk
	blocks map[cube.Pos]struct{}
}

// NewWorld creates a new world without any loaded regions.
func NewWorld(log *logrus.Logger, r cube.Range) *World {
	return &World{
		log:    log,
		r:      r,
		chunks: make(map[protocol.ChunkPos]*column),
	}
}

// OutOfBounds returns true if the region is further than viewDistance regions away from activePos.
func (w *World) OutOfBounds(pos, activePos protocol.ChunkPos, viewDistance int32) bool {
	diffX, diffZ := pos[0]-activePos[0], pos[1]-activePos[1]
	dist := math.Sqrt(float64(diffX*diffX) + float64(diffZ*diffZ))
	return int32(dist) > viewDistance
}

// LoadChunk loads an empty region at the position passed. Loading a region that is already loaded does
// nothing.
func (w *World) LoadChunk(pos protocol.ChunkPos) {
	w.chunkMu.Lock()
	defer w.chunkMu.Unlock()
	if _, ok := w.chunks[pos]; ok {
		return
	}
	w.chunks[pos] = &column{
		c:      chunk.New(uint32(world.AirState), w.r),
		blocks: make(map[cube.Pos]struct{}),
	}
}

// LoadArea loads every region overlapping the block area between a and b.
func (w *World) LoadArea(a, b cube.Pos) {
	minPos, maxPos := world.ChunkPosOf(a), world.ChunkPosOf(b)
	for x := min(minPos[0], maxPos[0]); x <= max(minPos[0], maxPos[0]); x++ {
		for z := min(minPos[1], maxPos[1]); z <= max(minPos[1], maxPos[1]); z++ {
			w.LoadChunk(protocol.ChunkPos{x, z})
		}
	}
}

// UnloadChunk unloads the region at the position passed, discarding its contents.
func (w *World) UnloadChunk(pos protocol.ChunkPos) {
	w.chunkMu.Lock()
	delete(w.chunks, pos)
	w.chunkMu.Unlock()
}

// Loaded ...
func (w *World) Loaded(pos protocol.ChunkPos) bool {
	w.chunkMu.Lock()
	_, ok := w.chunks[pos]
	w.chunkMu.Unlock()
	return ok
}

// Load ...
func (w *World) Load(pos cube.Pos) (world.State, bool) {
	if pos.OutOfBounds(w.r) {
		return world.AirState, false
	}
	w.chunkMu.Lock()
	defer w.chunkMu.Unlock()

	col, ok := w.chunks[world.ChunkPosOf(pos)]
	if !ok {
		return world.AirState, false
	}
	return world.State(col.c.Block(uint8(pos[0]&15), int16(pos[1]), uint8(pos[2]&15), 0)), true
}

// Store ...
func (w *World) Store(pos cube.Pos, s world.State) {
	if pos.OutOfBounds(w.r) {
		return
	}
	w.chunkMu.Lock()
	defer w.chunkMu.Unlock()

	col, ok := w.chunks[world.ChunkPosOf(pos)]
	if !ok {
		w.log.Errorf("failed to store %v at %v: region not loaded", world.StateString(s), pos)
		return
	}
	col.c.SetBlock(uint8(pos[0]&15), int16(pos[1]), uint8(pos[2]&15), 0, uint32(s))
	if s == world.AirState {
		delete(col.blocks, pos)
	} else {
		col.blocks[pos] = struct{}{}
	}
}

// Range calls f for every non-air state, ordered by region and then by y, z and x.
func (w *World) Range(f func(pos cube.Pos, s world.State) bool) {
	for _, e := range w.entries() {
		if !f(e.pos, e.s) {
			return
		}
	}
}

// Fill stores the state passed in every position of the box between a and b, loading regions as needed.
// Fill writes to the store directly and does not trigger any reactions; it is meant for setting up worlds.
func (w *World) Fill(a, b cube.Pos, s world.State) {
	w.LoadArea(a, b)
	for x := min(a[0], b[0]); x <= max(a[0], b[0]); x++ {
		for y := min(a[1], b[1]); y <= max(a[1], b[1]); y++ {
			for z := min(a[2], b[2]); z <= max(a[2], b[2]); z++ {
				w.Store(cube.Pos{x, y, z}, s)
			}
		}
	}
}

// Digest returns a hash of every non-air state and its position. Two worlds with equal contents have equal
// digests.
func (w *World) Digest() uint64 {
	h := xxh3.New()
	var buf [28]byte
	for _, e := range w.entries() {
		binary.LittleEndian.PutUint64(buf[0:], uint64(int64(e.pos[0])))
		binary.LittleEndian.PutUint64(buf[8:], uint64(int64(e.pos[1])))
		binary.LittleEndian.PutUint64(buf[16:], uint64(int64(e.pos[2])))
		binary.LittleEndian.PutUint32(buf[24:], uint32(e.s))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

type entry struct {
	pos cube.Pos
	s   world.State
}

// entries returns a snapshot of all non-air states in a deterministic order.
func (w *World) entries() []entry {
	w.chunkMu.Lock()
	defer w.chunkMu.Unlock()

	positions := make([]protocol.ChunkPos, 0, len(w.chunks))
	for pos := range w.chunks {
		positions = append(positions, pos)
	}
	slices.SortFunc(positions, func(a, b protocol.ChunkPos) int {
		if a[0] != b[0] {
			return int(a[0] - b[0])
		}
		return int(a[1] - b[1])
	})

	var entries []entry
	for _, chunkPos := range positions {
		col := w.chunks[chunkPos]
		start := len(entries)
		for pos := range col.blocks {
			s := col.c.Block(uint8(pos[0]&15), int16(pos[1]), uint8(pos[2]&15), 0)
			entries = append(entries, entry{pos: pos, s: world.State(s)})
		}
		slices.SortFunc(entries[start:], func(a, b entry) int {
			for _, i := range [...]int{1, 2, 0} {
				if a.pos[i] != b.pos[i] {
					return a.pos[i] - b.pos[i]
				}
			}
			return 0
		})
	}
	return entries
}
