package virtual

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"go.uber.org/atomic"
)

// Viewer keeps the regions of a World within its view distance loaded. Regions that leave the view are
// unloaded, so that the scheduled ticks in them are dropped.
type Viewer struct {
	w *World

	pos atomic.Value

	viewDist int32
	// onUnload is called for every region right before it is unloaded.
	onUnload func(pos protocol.ChunkPos)
}

// NewViewer creates a viewer at the position passed and loads the regions around it. onUnload may be nil.
func NewViewer(w *World, viewDist int32, pos mgl64.Vec3, onUnload func(pos protocol.ChunkPos)) *Viewer {
	v := &Viewer{
		w:        w,
		viewDist: viewDist,
		onUnload: onUnload,
	}
	v.pos.Store(pos)
	v.refresh()
	return v
}

// Move moves the viewer by the delta passed and updates the loaded regions.
func (v *Viewer) Move(delta mgl64.Vec3) {
	v.pos.Store(v.Position().Add(delta))
	v.refresh()
}

// Position returns the current position of the viewer.
func (v *Viewer) Position() mgl64.Vec3 {
	return v.pos.Load().(mgl64.Vec3)
}

// ChunkPos returns the region the viewer is in.
func (v *Viewer) ChunkPos() protocol.ChunkPos {
	pos := v.Position()
	return protocol.ChunkPos{int32(math.Floor(pos[0])) >> 4, int32(math.Floor(pos[2])) >> 4}
}

// refresh loads all regions in view and unloads the ones that left it.
func (v *Viewer) refresh() {
	activePos := v.ChunkPos()

	v.w.chunkMu.Lock()
	var stale []protocol.ChunkPos
	for pos := range v.w.chunks {
		if v.w.OutOfBounds(pos, activePos, v.viewDist) {
			stale = append(stale, pos)
		}
	}
	v.w.chunkMu.Unlock()

	for _, pos := range stale {
		if v.onUnload != nil {
			v.onUnload(pos)
		}
		v.w.UnloadChunk(pos)
	}
	for x := activePos[0] - v.viewDist; x <= activePos[0]+v.viewDist; x++ {
		for z := activePos[1] - v.viewDist; z <= activePos[1]+v.viewDist; z++ {
			pos := protocol.ChunkPos{x, z}
			if !v.w.OutOfBounds(pos, activePos, v.viewDist) {
				v.w.LoadChunk(pos)
			}
		}
	}
}
