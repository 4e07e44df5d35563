package block

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blocksim/world"
)

// railShapeOf returns the shape of a rail state. The bool is false if the block is not a rail.
func railShapeOf(t *world.BlockType, s world.State) (RailShape, bool) {
	if !t.Tagged(railsTag) {
		return 0, false
	}
	return parseRailShape(t.Value(s, "shape"))
}

// findRail looks for a rail next to pos in the direction passed, at the same height, one block higher or
// one block lower, in that order.
func findRail(v world.View, pos cube.Pos, d cube.Direction) (railNeighbour, bool) {
	side := pos.Side(d.Face())
	candidates := [...]struct {
		pos       cube.Pos
		elevation RailElevation
	}{
		{side, RailFlat},
		{side.Side(cube.FaceUp), RailUp},
		{side.Side(cube.FaceDown), RailDown},
	}
	for _, c := range candidates {
		if shape, ok := railShapeOf(v.BlockAndState(c.pos)); ok {
			return railNeighbour{Pos: c.pos, Shape: shape, Elevation: c.elevation}, true
		}
	}
	return railNeighbour{}, false
}

// connectsTo returns true if one of the connections of the rail points at the column of target.
func (n railNeighbour) connectsTo(target cube.Pos) bool {
	for _, d := range n.Shape.Connections() {
		side := n.Pos.Side(d.Face())
		if side[0] == target[0] && side[2] == target[2] {
			return true
		}
	}
	return false
}

// railUnlocked returns true if the rail n may connect to target: either it already does, or at least one of
// its connections does not lead to a rail that connects back to n.
func railUnlocked(v world.View, n railNeighbour, target cube.Pos) bool {
	if n.connectsTo(target) {
		return true
	}
	for _, d := range n.Shape.Connections() {
		other, ok := findRail(v, n.Pos, d)
		if !ok || !other.connectsTo(n.Pos) {
			return true
		}
	}
	return false
}

// worldRailQuery is a railQuery reading rails from a world.
type worldRailQuery struct {
	v   world.View
	pos cube.Pos
}

func (q worldRailQuery) find(d cube.Direction) (railNeighbour, bool) {
	n, ok := findRail(q.v, q.pos, d)
	if !ok || !railUnlocked(q.v, n, q.pos) {
		return railNeighbour{}, false
	}
	return n, true
}

// updateFlankingRails re-resolves the rails the rail at pos connects to, so that they turn towards it. Only
// direct neighbours are updated.
func updateFlankingRails(v world.View, pos cube.Pos, shape RailShape) {
	for _, d := range shape.Connections() {
		n, ok := findRail(v, pos, d)
		if !ok || n.connectsTo(pos) || !railUnlocked(v, n, pos) {
			continue
		}
		t, s := v.BlockAndState(n.Pos)
		r, _ := t.Behaviour.(rail)
		updated := resolveRailShape(worldRailQuery{v: v, pos: n.Pos}, n.Shape, r.curves)
		if updated == n.Shape {
			continue
		}
		v.SetBlockState(n.Pos, t.With(s, "shape", updated.String()), world.NotifyAll)
	}
}

// railPlacementIsValid checks that the rail at pos rests on a full block and, if it ascends, that the block
// it ascends onto is a full block too.
func railPlacementIsValid(v world.View, pos cube.Pos) bool {
	shape, ok := railShapeOf(v.BlockAndState(pos))
	if !ok {
		return false
	}
	if !v.Block(pos.Side(cube.FaceDown)).FullCube {
		return false
	}
	if d, ok := shape.Ascending(); ok {
		return v.Block(pos.Side(d.Face())).FullCube
	}
	return true
}
