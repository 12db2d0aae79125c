// Code generated from reports/blocks.json and reports/registries.json
// (1.18.2, data version 2975). DO NOT EDIT.

package catalog

// Kind values, id-ascending. The state ranges below are contiguous and
// non-overlapping and cover [0, TotalStates).
const (
	KindAir Kind = iota
	KindStone
	KindGranite
	KindPolishedGranite
	KindDiorite
	KindPolishedDiorite
	KindAndesite
	KindPolishedAndesite
	KindGrassBlock
	KindDirt
	KindCoarseDirt
	KindPodzol
	KindBedrock
	KindWater
	KindLava
	KindSand
	KindGravel
	KindOakLog
	KindOakPlanks
	KindOakLeaves
	KindGlass
	KindOakStairs
	KindFurnace
	KindCraftingTable
	KindCobblestone
)

// TotalStates is the number of global block-state ids.
const TotalStates StateID = 158

type blockDef struct {
	name  string
	start StateID
	def   StateID
	props []Property
}

var blocks = [...]blockDef{
	{name: "air", start: 0, def: 0},
	{name: "stone", start: 1, def: 1},
	{name: "granite", start: 2, def: 2},
	{name: "polished_granite", start: 3, def: 3},
	{name: "diorite", start: 4, def: 4},
	{name: "polished_diorite", start: 5, def: 5},
	{name: "andesite", start: 6, def: 6},
	{name: "polished_andesite", start: 7, def: 7},
	{name: "grass_block", start: 8, def: 9, props: []Property{
		{Name: "snowy", Kind: PropBool},
	}},
	{name: "dirt", start: 10, def: 10},
	{name: "coarse_dirt", start: 11, def: 11},
	{name: "podzol", start: 12, def: 13, props: []Property{
		{Name: "snowy", Kind: PropBool},
	}},
	{name: "bedrock", start: 14, def: 14},
	{name: "water", start: 15, def: 15, props: []Property{
		{Name: "level", Kind: PropInt, Min: 0, Max: 15},
	}},
	{name: "lava", start: 31, def: 31, props: []Property{
		{Name: "level", Kind: PropInt, Min: 0, Max: 15},
	}},
	{name: "sand", start: 47, def: 47},
	{name: "gravel", start: 48, def: 48},
	{name: "oak_log", start: 49, def: 50, props: []Property{
		{Name: "axis", Kind: PropEnum, Values: []string{"x", "y", "z"}},
	}},
	{name: "oak_planks", start: 52, def: 52},
	{name: "oak_leaves", start: 53, def: 66, props: []Property{
		{Name: "distance", Kind: PropInt, Min: 1, Max: 7},
		{Name: "persistent", Kind: PropBool},
	}},
	{name: "glass", start: 67, def: 67},
	{name: "oak_stairs", start: 68, def: 79, props: []Property{
		{Name: "facing", Kind: PropEnum, Values: []string{"north", "south", "west", "east"}},
		{Name: "half", Kind: PropEnum, Values: []string{"top", "bottom"}},
		{Name: "shape", Kind: PropEnum, Values: []string{"straight", "inner_left", "inner_right", "outer_left", "outer_right"}},
		{Name: "waterlogged", Kind: PropBool},
	}},
	{name: "furnace", start: 148, def: 149, props: []Property{
		{Name: "facing", Kind: PropEnum, Values: []string{"north", "south", "west", "east"}},
		{Name: "lit", Kind: PropBool},
	}},
	{name: "crafting_table", start: 156, def: 156},
	{name: "cobblestone", start: 157, def: 157},
}

// itemBlocks maps item registry ids to block kinds; -1 marks items that do
// not place a block.
var itemBlocks = [...]int16{
	0:  int16(KindAir),
	1:  int16(KindStone),
	2:  int16(KindGranite),
	3:  int16(KindPolishedGranite),
	4:  int16(KindDiorite),
	5:  int16(KindPolishedDiorite),
	6:  int16(KindAndesite),
	7:  int16(KindPolishedAndesite),
	8:  int16(KindGrassBlock),
	9:  int16(KindDirt),
	10: int16(KindCoarseDirt),
	11: int16(KindPodzol),
	12: int16(KindBedrock),
	13: int16(KindSand),
	14: int16(KindGravel),
	15: int16(KindOakLog),
	16: int16(KindOakPlanks),
	17: int16(KindOakLeaves),
	18: int16(KindGlass),
	19: int16(KindOakStairs),
	20: int16(KindFurnace),
	21: int16(KindCraftingTable),
	22: int16(KindCobblestone),
	23: -1, // water_bucket
	24: -1, // lava_bucket
	25: -1, // stick
	26: -1, // bowl
	27: -1, // string
	28: -1, // feather
}
