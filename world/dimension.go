package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

var (
	Overworld overworld
)

type overworld struct{}

func (overworld) Range() cube.Range { return cube.Range{-64, 319} }
func (overworld) String() string    { return "Overworld" }

// ChunkPosOf returns the position of the region (chunk column) holding the block position passed.
func ChunkPosOf(pos cube.Pos) protocol.ChunkPos {
	return protocol.ChunkPos{int32(pos[0] >> 4), int32(pos[2] >> 4)}
}

// neighbourFaces is the fixed order in which neighbours are notified.
var neighbourFaces = [...]cube.Face{cube.FaceDown, cube.FaceUp, cube.FaceNorth, cube.FaceSouth, cube.FaceWest, cube.FaceEast}
