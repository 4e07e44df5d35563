package block

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blocksim/world"
)

const railsTag = "minecraft:rails"

// Rail is a rail that curves to connect to its neighbours.
var Rail = &world.BlockType{
	Name: "minecraft:rail",
	Properties: []world.Property{
		world.EnumProperty("shape", railShapeNames...),
		world.BoolProperty("waterlogged"),
	},
	Tags:      []string{railsTag},
	Behaviour: rail{curves: true},
}

// PoweredRail is a rail that only runs straight.
var PoweredRail = &world.BlockType{
	Name: "minecraft:powered_rail",
	Properties: []world.Property{
		world.EnumProperty("shape", railShapeNames[:straightRailShapes]...),
		world.BoolProperty("powered"),
		world.BoolProperty("waterlogged"),
	},
	Tags:      []string{railsTag},
	Behaviour: rail{},
}

func init() {
	world.RegisterBlock(Rail)
	world.RegisterBlock(PoweredRail)
}

// rail implements the behaviour shared by all rails.
type rail struct {
	world.NopBehaviour
	curves bool
}

func (r rail) OnPlace(v world.View, ctx world.PlaceContext) world.State {
	q := worldRailQuery{v: v, pos: ctx.Pos}
	shape := resolveRailShape(q, flatRailShape(ctx.Actor.HorizontalFacing()), r.curves)

	s := ctx.Block.With(ctx.Block.DefaultState(), "shape", shape.String())
	return ctx.Block.WithBool(s, "waterlogged", ctx.Replacing.WaterSource)
}

func (rail) Placed(v world.View, pos cube.Pos, _, _ world.State) {
	// The rail may already have broken itself while its neighbours were notified.
	shape, ok := railShapeOf(v.BlockAndState(pos))
	if !ok {
		return
	}
	updateFlankingRails(v, pos, shape)
}

func (rail) NeighbourUpdate(v world.View, pos, _ cube.Pos) {
	if !railPlacementIsValid(v, pos) {
		v.BreakBlock(pos, world.CauseInvalid, world.NotifyAll)
	}
}

func (rail) CanPlaceAt(v world.View, pos cube.Pos, _ cube.Face, _ *world.PlaceContext) bool {
	return v.Block(pos.Side(cube.FaceDown)).FullCube
}
