package block

import (
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// RailShape is the local connectivity of a rail segment.
type RailShape uint8

const (
	RailNorthSouth RailShape = iota
	RailEastWest
	RailAscendingEast
	RailAscendingWest
	RailAscendingNorth
	RailAscendingSouth
	RailSouthEast
	RailSouthWest
	RailNorthWest
	RailNorthEast
)

// railShapeNames holds the property values of all shapes. The straight shapes come first so that rails
// that cannot curve use a prefix of the list.
var railShapeNames = []string{
	"north_south", "east_west",
	"ascending_east", "ascending_west", "ascending_north", "ascending_south",
	"south_east", "south_west", "north_west", "north_east",
}

// straightRailShapes is the amount of shapes that are not curves.
const straightRailShapes = 6

func (s RailShape) String() string {
	return railShapeNames[s]
}

// parseRailShape returns the shape with the property value passed.
func parseRailShape(name string) (RailShape, bool) {
	i := slices.Index(railShapeNames, name)
	return RailShape(i), i >= 0
}

// Curved returns true if the shape connects two perpendicular directions.
func (s RailShape) Curved() bool {
	return s >= straightRailShapes
}

// Ascending returns the direction in which the rail rises, if it does.
func (s RailShape) Ascending() (cube.Direction, bool) {
	switch s {
	case RailAscendingEast:
		return cube.East, true
	case RailAscendingWest:
		return cube.West, true
	case RailAscendingNorth:
		return cube.North, true
	case RailAscendingSouth:
		return cube.South, true
	}
	return 0, false
}

// Connections returns the two horizontal directions the rail connects to.
func (s RailShape) Connections() [2]cube.Direction {
	switch s {
	case RailNorthSouth, RailAscendingNorth:
		return [2]cube.Direction{cube.North, cube.South}
	case RailAscendingSouth:
		return [2]cube.Direction{cube.South, cube.North}
	case RailEastWest, RailAscendingEast:
		return [2]cube.Direction{cube.East, cube.West}
	case RailAscendingWest:
		return [2]cube.Direction{cube.West, cube.East}
	case RailSouthEast:
		return [2]cube.Direction{cube.South, cube.East}
	case RailSouthWest:
		return [2]cube.Direction{cube.South, cube.West}
	case RailNorthWest:
		return [2]cube.Direction{cube.North, cube.West}
	default:
		return [2]cube.Direction{cube.North, cube.East}
	}
}

// flatRailShape returns the flat straight shape running along the direction passed.
func flatRailShape(d cube.Direction) RailShape {
	if d == cube.East || d == cube.West {
		return RailEastWest
	}
	return RailNorthSouth
}

// RailElevation is the height of a neighbouring rail relative to the rail being resolved.
type RailElevation uint8

const (
	RailFlat RailElevation = iota
	RailUp
	RailDown
)

// railNeighbour is a rail found next to the position being resolved.
type railNeighbour struct {
	Pos       cube.Pos
	Shape     RailShape
	Elevation RailElevation
}

// railQuery finds the rails around a position. find only reports rails that are free to connect to the
// position.
type railQuery interface {
	find(d cube.Direction) (railNeighbour, bool)
}

// railSurroundings holds the result of querying all four horizontal directions.
type railSurroundings struct {
	rails [4]railNeighbour
	found [4]bool
}

func (r railSurroundings) has(d cube.Direction) bool {
	return r.found[d]
}

// up returns true if a rail was found in the direction passed one block higher.
func (r railSurroundings) up(d cube.Direction) bool {
	return r.found[d] && r.rails[d].Elevation == RailUp
}

// railRule is a row of the rail shape table. The first row whose condition holds decides the shape.
type railRule struct {
	shape RailShape
	when  func(r railSurroundings) bool
}

// railRules is the shape table, in order of precedence. The east and south rows check for curves before
// slopes while the west and north rows do not look east or south again: rails with an east or south
// neighbour never reach them.
var railRules = []railRule{
	{RailSouthEast, func(r railSurroundings) bool { return r.has(cube.East) && r.has(cube.South) }},
	{RailNorthEast, func(r railSurroundings) bool { return r.has(cube.East) && r.has(cube.North) }},
	{RailAscendingWest, func(r railSurroundings) bool { return r.has(cube.East) && r.up(cube.West) }},
	{RailAscendingEast, func(r railSurroundings) bool { return r.up(cube.East) }},
	{RailEastWest, func(r railSurroundings) bool { return r.has(cube.East) }},

	{RailSouthWest, func(r railSurroundings) bool { return r.has(cube.South) && r.has(cube.West) }},
	{RailAscendingSouth, func(r railSurroundings) bool { return r.up(cube.South) }},
	{RailAscendingNorth, func(r railSurroundings) bool { return r.has(cube.South) && r.up(cube.North) }},
	{RailNorthSouth, func(r railSurroundings) bool { return r.has(cube.South) }},

	{RailNorthWest, func(r railSurroundings) bool { return r.has(cube.West) && r.has(cube.North) }},
	{RailAscendingWest, func(r railSurroundings) bool { return r.up(cube.West) }},
	{RailEastWest, func(r railSurroundings) bool { return r.has(cube.West) }},

	{RailAscendingNorth, func(r railSurroundings) bool { return r.up(cube.North) }},
	{RailNorthSouth, func(r railSurroundings) bool { return r.has(cube.North) }},
}

// resolveRailShape picks the shape of a rail from the rails around it. If no rail constrains the shape,
// fallback is returned. Rails that cannot curve skip the curve rows of the table.
func resolveRailShape(q railQuery, fallback RailShape, curves bool) RailShape {
	var r railSurroundings
	for _, d := range cube.Directions() {
		r.rails[d], r.found[d] = q.find(d)
	}
	for _, rule := range railRules {
		if rule.shape.Curved() && !curves {
			continue
		}
		if rule.when(r) {
			return rule.shape
		}
	}
	return fallback
}
