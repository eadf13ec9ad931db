package world

// Biome defines the surface materials of a column.
type Biome struct {
	ID          int
	Name        string
	TopBlock    BlockType // e.g. Grass
	FillerBlock BlockType // e.g. Dirt (under grass)
}

var (
	BiomePlains = &Biome{
		ID:          0,
		Name:        "Plains",
		TopBlock:    BlockTypeGrass,
		FillerBlock: BlockTypeDirt,
	}
	BiomeBeach = &Biome{
		ID:          1,
		Name:        "Beach",
		TopBlock:    BlockTypeSand,
		FillerBlock: BlockTypeSand,
	}
	BiomeDesert = &Biome{
		ID:          2,
		Name:        "Desert",
		TopBlock:    BlockTypeSand,
		FillerBlock: BlockTypeSand,
	}
	BiomeMountains = &Biome{
		ID:          3,
		Name:        "Mountains",
		TopBlock:    BlockTypeStone,
		FillerBlock: BlockTypeStone,
	}
	// BiomeWetlands covers humid lowland. It shares the plains materials.
	BiomeWetlands = &Biome{
		ID:          4,
		Name:        "Wetlands",
		TopBlock:    BlockTypeGrass,
		FillerBlock: BlockTypeDirt,
	}
)

// Biomes lists every biome SelectBiome can return.
var Biomes = []*Biome{BiomePlains, BiomeBeach, BiomeDesert, BiomeMountains, BiomeWetlands}

// Climate is the per-column signal set a biome is chosen from. All fields are in [0, 1].
type Climate struct {
	Continentalness float64
	Temperature     float64
	Moisture        float64
}

// SelectBiome picks the biome for a column from its height and climate.
// Order matters: beach wins over desert, which wins over mountains.
func SelectBiome(height int, c Climate) *Biome {
	switch {
	case height <= WaterLevel+BeachBand:
		return BiomeBeach
	case c.Temperature > DesertMinTemperature && c.Moisture < DesertMaxMoisture:
		return BiomeDesert
	case c.Continentalness > MountainMinContinentalness && height > WaterLevel+MountainMinHeightAboveWater:
		return BiomeMountains
	case c.Moisture > WetlandsMinMoisture:
		return BiomeWetlands
	default:
		return BiomePlains
	}
}
