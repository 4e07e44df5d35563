package block

import (
	"math/rand/v2"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blocksim/world"
)

// maxCactusAge is the age at which a cactus grows a new segment instead of ageing further.
const maxCactusAge = 15

// Cactus is a plant that grows upwards on sand and breaks when it is crowded by solid blocks.
var Cactus = &world.BlockType{
	Name:       "minecraft:cactus",
	Properties: []world.Property{world.IntProperty("age", 0, maxCactusAge)},
	Solid:      true,
	Behaviour:  cactus{},
}

func init() {
	world.RegisterBlock(Cactus)
}

type cactus struct {
	world.NopBehaviour
}

func (cactus) CanPlaceAt(v world.View, pos cube.Pos, _ cube.Face, _ *world.PlaceContext) bool {
	return cactusCanSurvive(v, pos)
}

// StateForNeighbourUpdate does not break the cactus directly; instead a tick is scheduled that checks the
// cactus again once the current chain has settled.
func (cactus) StateForNeighbourUpdate(v world.View, pos cube.Pos, state world.State, _ cube.Face, _ cube.Pos, _ world.State) world.State {
	if !cactusCanSurvive(v, pos) {
		v.ScheduleTick(Cactus, pos, 1, world.PriorityNormal)
	}
	return state
}

func (cactus) ScheduledTick(v world.View, pos cube.Pos) {
	if !cactusCanSurvive(v, pos) {
		v.BreakBlock(pos, world.CauseInvalid, world.NotifyAll)
	}
}

func (cactus) RandomTicking() bool {
	return true
}

func (cactus) RandomTick(v world.View, pos cube.Pos, _ *rand.Rand) {
	up := pos.Side(cube.FaceUp)
	if v.Block(up) != world.Air {
		return
	}
	s := v.BlockState(pos)
	age := Cactus.Int(s, "age")
	if age < maxCactusAge {
		v.SetBlockState(pos, Cactus.WithIndex(s, "age", age+1), world.NotifyListeners)
		return
	}
	// The new segment only notifies its neighbours; it checks itself once one of them changes.
	v.SetBlockState(up, Cactus.DefaultState(), world.NotifyAll)
	v.SetBlockState(pos, Cactus.WithIndex(s, "age", 0), world.NotifyListeners)
}

// cactusCanSurvive checks that no horizontal neighbour is solid or lava, that the cactus stands on another
// cactus or on sand and that no liquid is above it.
func cactusCanSurvive(v world.View, pos cube.Pos) bool {
	for _, face := range cube.HorizontalFaces() {
		if t := v.Block(pos.Side(face)); t.Solid || t == Lava {
			return false
		}
	}
	if below := v.Block(pos.Side(cube.FaceDown)); below != Cactus && !below.Tagged(sandTag) {
		return false
	}
	return !v.Block(pos.Side(cube.FaceUp)).Liquid
}
