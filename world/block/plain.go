package block

import (
	"github.com/oomph-ac/blocksim/world"
)

const sandTag = "minecraft:sand"

// Blocks without any reactions of their own.
var (
	Stone      = &world.BlockType{Name: "minecraft:stone", Solid: true, FullCube: true}
	Dirt       = &world.BlockType{Name: "minecraft:dirt", Solid: true, FullCube: true}
	GrassBlock = &world.BlockType{Name: "minecraft:grass_block", Solid: true, FullCube: true}
	Bedrock    = &world.BlockType{Name: "minecraft:bedrock", Solid: true, FullCube: true}
	Gravel     = &world.BlockType{Name: "minecraft:gravel", Solid: true, FullCube: true}
	Sand       = &world.BlockType{Name: "minecraft:sand", Solid: true, FullCube: true, Tags: []string{sandTag}}
	RedSand    = &world.BlockType{Name: "minecraft:red_sand", Solid: true, FullCube: true, Tags: []string{sandTag}}

	// Water and Lava are only tracked as sources: liquids do not flow.
	Water = &world.BlockType{Name: "minecraft:water", Liquid: true, Replaceable: true}
	Lava  = &world.BlockType{Name: "minecraft:lava", Liquid: true, Replaceable: true}
)

func init() {
	for _, t := range []*world.BlockType{Stone, Dirt, GrassBlock, Bedrock, Gravel, Sand, RedSand, Water, Lava} {
		world.RegisterBlock(t)
	}
}
