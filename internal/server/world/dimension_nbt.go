package world

import (
	"bytes"
	"sync"

	"github.com/quarrymc/server/internal/server/nbt"
)

// World vertical bounds advertised in join_game and used by synthesized
// chunks: 16 sections starting at Y 0.
const (
	WorldMinY     = 0
	WorldSections = 16
	WorldHeight   = WorldSections * 16
)

var (
	codecOnce     sync.Once
	codecBlob     []byte
	overworldBlob []byte
)

// DimensionCodecNBT returns the registry codec compound sent in join_game.
func DimensionCodecNBT() []byte {
	codecOnce.Do(buildDimensionNBT)
	return codecBlob
}

// OverworldNBT returns the dimension-type element for the overworld.
func OverworldNBT() []byte {
	codecOnce.Do(buildDimensionNBT)
	return overworldBlob
}

func buildDimensionNBT() {
	var buf bytes.Buffer
	w := nbt.NewWriter(&buf)

	w.BeginCompound("")

	w.BeginCompound("minecraft:dimension_type")
	w.WriteString("type", "minecraft:dimension_type")
	w.BeginList("value", nbt.TagCompound, 1)
	// List elements are anonymous compounds: members follow directly.
	w.WriteString("name", "minecraft:overworld")
	w.WriteInt("id", 0)
	w.BeginCompound("element")
	writeOverworldElement(w)
	w.EndCompound()
	w.EndCompound()
	w.EndCompound()

	w.BeginCompound("minecraft:worldgen/biome")
	w.WriteString("type", "minecraft:worldgen/biome")
	w.BeginList("value", nbt.TagCompound, 1)
	w.WriteString("name", "minecraft:plains")
	w.WriteInt("id", 1)
	w.BeginCompound("element")
	w.WriteString("precipitation", "rain")
	w.WriteFloat("temperature", 0.8)
	w.WriteFloat("downfall", 0.4)
	w.WriteString("category", "plains")
	w.BeginCompound("effects")
	w.WriteInt("sky_color", 7907327)
	w.WriteInt("water_fog_color", 329011)
	w.WriteInt("fog_color", 12638463)
	w.WriteInt("water_color", 4159204)
	w.BeginCompound("mood_sound")
	w.WriteInt("tick_delay", 6000)
	w.WriteDouble("offset", 2.0)
	w.WriteString("sound", "minecraft:ambient.cave")
	w.WriteInt("block_search_extent", 8)
	w.EndCompound()
	w.EndCompound()
	w.EndCompound()
	w.EndCompound()
	w.EndCompound()

	w.EndCompound()

	if w.Err() != nil {
		panic(w.Err())
	}
	codecBlob = buf.Bytes()

	buf.Reset()
	w = nbt.NewWriter(&buf)
	w.BeginCompound("")
	writeOverworldElement(w)
	w.EndCompound()
	if w.Err() != nil {
		panic(w.Err())
	}
	overworldBlob = buf.Bytes()
}

func writeOverworldElement(w *nbt.Writer) {
	w.WriteTagByte("piglin_safe", 0)
	w.WriteTagByte("natural", 1)
	w.WriteFloat("ambient_light", 0.0)
	w.WriteString("infiniburn", "#minecraft:infiniburn_overworld")
	w.WriteTagByte("respawn_anchor_works", 0)
	w.WriteTagByte("has_skylight", 1)
	w.WriteTagByte("bed_works", 1)
	w.WriteString("effects", "minecraft:overworld")
	w.WriteTagByte("has_raids", 1)
	w.WriteInt("min_y", WorldMinY)
	w.WriteInt("height", WorldHeight)
	w.WriteInt("logical_height", WorldHeight)
	w.WriteDouble("coordinate_scale", 1.0)
	w.WriteTagByte("ultrawarm", 0)
	w.WriteTagByte("has_ceiling", 0)
}
