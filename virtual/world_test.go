package virtual

import (
	"slices"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/blocksim/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sirupsen/logrus"
)

var testStone = &world.BlockType{Name: "test:stone", Solid: true, FullCube: true}

func init() {
	world.RegisterBlock(testStone)
}

func newTestWorld() *World {
	return NewWorld(logrus.New(), world.Overworld.Range())
}

func TestLoadStore(t *testing.T) {
	w := newTestWorld()
	pos := cube.Pos{-3, -60, 17}
	if _, ok := w.Load(pos); ok {
		t.Fatalf("expected %v to be unloaded", pos)
	}

	w.LoadChunk(world.ChunkPosOf(pos))
	if s, ok := w.Load(pos); !ok || s != world.AirState {
		t.Fatalf("expected loaded air at %v, got %v (%v)", pos, s, ok)
	}
	w.Store(pos, testStone.DefaultState())
	if s, _ := w.Load(pos); s != testStone.DefaultState() {
		t.Fatalf("expected stone at %v, got %v", pos, world.StateString(s))
	}
	if s, _ := w.Load(pos.Add(cube.Pos{16, 0, 0})); s != world.AirState {
		t.Fatalf("expected store to only affect %v", pos)
	}

	w.UnloadChunk(world.ChunkPosOf(pos))
	if w.Loaded(world.ChunkPosOf(pos)) {
		t.Fatalf("expected region to be unloaded")
	}
}

func TestRangeOrder(t *testing.T) {
	w := newTestWorld()
	stored := []cube.Pos{{20, 1, 0}, {1, 2, 0}, {2, 1, 1}, {1, 1, 1}, {-5, 0, 0}}
	for _, pos := range stored {
		w.LoadChunk(world.ChunkPosOf(pos))
		w.Store(pos, testStone.DefaultState())
	}
	w.Store(cube.Pos{1, 2, 0}, world.AirState)

	var visited []cube.Pos
	w.Range(func(pos cube.Pos, _ world.State) bool {
		visited = append(visited, pos)
		return true
	})
	want := []cube.Pos{{-5, 0, 0}, {1, 1, 1}, {2, 1, 1}, {20, 1, 0}}
	if !slices.Equal(visited, want) {
		t.Fatalf("expected %v, got %v", want, visited)
	}
}

func TestDigest(t *testing.T) {
	a, b := newTestWorld(), newTestWorld()
	a.Fill(cube.Pos{0, 0, 0}, cube.Pos{20, 2, 3}, testStone.DefaultState())
	b.Fill(cube.Pos{20, 2, 3}, cube.Pos{0, 0, 0}, testStone.DefaultState())
	if a.Digest() != b.Digest() {
		t.Fatalf("expected equal worlds to have equal digests")
	}
	b.Store(cube.Pos{4, 1, 1}, world.AirState)
	if a.Digest() == b.Digest() {
		t.Fatalf("expected different worlds to have different digests")
	}
}

func TestViewer(t *testing.T) {
	w := newTestWorld()
	var unloaded []protocol.ChunkPos
	v := NewViewer(w, 1, mgl64.Vec3{8, 0, 8}, func(pos protocol.ChunkPos) {
		unloaded = append(unloaded, pos)
	})
	for _, pos := range []protocol.ChunkPos{{0, 0}, {1, 0}, {0, -1}, {1, 1}} {
		if !w.Loaded(pos) {
			t.Fatalf("expected %v to be loaded", pos)
		}
	}

	v.Move(mgl64.Vec3{48, 0, 0})
	if v.ChunkPos() != (protocol.ChunkPos{3, 0}) {
		t.Fatalf("expected viewer in region 3,0, got %v", v.ChunkPos())
	}
	if w.Loaded(protocol.ChunkPos{0, 0}) || !w.Loaded(protocol.ChunkPos{4, 0}) {
		t.Fatalf("expected view to follow the viewer")
	}
	if !slices.Contains(unloaded, protocol.ChunkPos{0, 0}) {
		t.Fatalf("expected unload hook to be called for 0,0, got %v", unloaded)
	}
}
