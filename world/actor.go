package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/blocksim/utils"
)

// Actor is a read-only snapshot of whoever triggered a placement. The core only uses it as a placement
// tie-break and for permission checks.
type Actor struct {
	// Rotation holds the yaw and pitch of the actor in degrees.
	Rotation mgl32.Vec2
	// PermissionLevel is the operator level of the actor, 0 for regular players.
	PermissionLevel int
}

// HorizontalFacing returns the horizontal direction the actor is looking in.
func (a Actor) HorizontalFacing() cube.Direction {
	return utils.GetFaceFromRotation(a.Rotation.X()).Direction()
}
