package world

import (
	"math"
)

// TerrainGenerator fills freshly created chunks. Implementations must be
// deterministic and safe for concurrent use.
type TerrainGenerator interface {
	// HeightAt computes world surface height (block Y) at world X,Z.
	HeightAt(worldX, worldZ int) int
	// PopulateChunk writes terrain into an empty chunk and marks it dirty.
	PopulateChunk(c *Chunk)
}

// Terrain shape.
const (
	TerrainScale         = 0.01 // noise units per block
	ContinentScale       = 0.5  // continentalness frequency relative to TerrainScale
	ContinentOctaves     = 3
	ContinentPersistence = 0.4
	DetailOctaves        = 7
	RidgeOctaves         = 3
	Persistence          = 0.5
	Lacunarity           = 2.0
	WarpStrength         = 0.35 // in noise units

	BaseElevation     = 30.0
	DetailAmplitude   = 15.0
	MountainAmplitude = 40.0 // extra detail amplitude at full continentalness
	RidgeAmplitude    = 10.0 // ridge contribution at full continentalness
)

// Surface materials and climate.
const (
	WaterLevel      = 28
	BeachBand       = 1 // columns up to WaterLevel+BeachBand are beach
	SubsurfaceDepth = 2 // filler layers under the surface block

	ClimateScale                = 0.003
	ClimateOctaves              = 2
	DesertMinTemperature        = 0.6
	DesertMaxMoisture           = 0.4
	MountainMinContinentalness  = 0.55
	MountainMinHeightAboveWater = 22
	WetlandsMinMoisture         = 0.65
)

// Vegetation.
const (
	ForestMinHeight = WaterLevel + 2 // exclusive
	ForestMaxHeight = 50             // exclusive
	TreeScale       = 0.5
	TreeOctaves     = 2
	TreeThreshold   = 0.35
	TrunkHeight     = 5
	FoliageRadius   = 2
	FoliageLayers   = 3
)

// Column is the generated description of one (x, z) world column.
type Column struct {
	Height  int
	Climate Climate
	Biome   *Biome
}

// Generator produces layered-noise terrain from a NoiseField.
type Generator struct {
	field *NoiseField
}

// NewGenerator creates a generator reading the given noise field.
func NewGenerator(field *NoiseField) *Generator {
	return &Generator{field: field}
}

// Generate builds and populates the chunk at coord. It is a pure function of
// coord, dims and the field seed.
func Generate(coord ChunkCoord, field *NoiseField, dims Dims) *Chunk {
	return NewGenerator(field).Generate(coord, dims)
}

// Generate builds and populates the chunk at coord.
func (g *Generator) Generate(coord ChunkCoord, dims Dims) *Chunk {
	c := NewChunk(coord.X, coord.Z, dims)
	g.PopulateChunk(c)
	return c
}

// ColumnAt evaluates height, climate and biome for a world column without
// regard to chunk height limits.
func (g *Generator) ColumnAt(worldX, worldZ int) Column {
	x, z := g.terrainCoords(float64(worldX), float64(worldZ))

	intensity := unit(g.continentAt(x, z))
	height := BaseElevation +
		g.detailAt(x, z)*(DetailAmplitude+intensity*MountainAmplitude) +
		g.ridgeAt(x, z)*intensity*RidgeAmplitude

	temperature, moisture := g.climateAt(float64(worldX), float64(worldZ))
	climate := Climate{
		Continentalness: intensity,
		Temperature:     unit(temperature),
		Moisture:        unit(moisture),
	}

	h := int(math.Floor(height))
	return Column{Height: h, Climate: climate, Biome: SelectBiome(h, climate)}
}

// terrainCoords maps world coordinates into warped terrain noise space.
func (g *Generator) terrainCoords(worldX, worldZ float64) (float64, float64) {
	return g.field.Warp(worldX*TerrainScale, worldZ*TerrainScale, WarpStrength)
}

func (g *Generator) continentAt(x, z float64) float64 {
	return g.field.FBM((x+offsetContinent)*ContinentScale, (z+offsetContinent)*ContinentScale,
		ContinentOctaves, ContinentPersistence, Lacunarity)
}

func (g *Generator) detailAt(x, z float64) float64 {
	return g.field.FBM(x+offsetDetail, z+offsetDetail, DetailOctaves, Persistence, Lacunarity)
}

func (g *Generator) ridgeAt(x, z float64) float64 {
	return g.field.Ridge(x+offsetRidge, z+offsetRidge, RidgeOctaves, Persistence, Lacunarity)
}

// climateAt returns raw temperature and moisture in [-1, 1] for world coordinates.
func (g *Generator) climateAt(worldX, worldZ float64) (float64, float64) {
	cx, cz := worldX*ClimateScale, worldZ*ClimateScale
	return g.field.FBM(cx+offsetTemperature, cz+offsetTemperature, ClimateOctaves, Persistence, Lacunarity),
		g.field.FBM(cx+offsetMoisture, cz+offsetMoisture, ClimateOctaves, Persistence, Lacunarity)
}

func (g *Generator) treeNoise(worldX, worldZ float64) float64 {
	return g.field.FBM(worldX*TreeScale+offsetTrees, worldZ*TreeScale+offsetTrees, TreeOctaves, Persistence, Lacunarity)
}

// HeightAt computes world surface height (block Y) at world X,Z, unclamped.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	return g.ColumnAt(worldX, worldZ).Height
}

// BiomeAt returns the biome of a world column.
func (g *Generator) BiomeAt(worldX, worldZ int) *Biome {
	return g.ColumnAt(worldX, worldZ).Biome
}

// treeAt reports whether the vegetation noise places a tree on this column.
func (g *Generator) treeAt(worldX, worldZ int) bool {
	return g.treeNoise(float64(worldX), float64(worldZ)) > TreeThreshold
}

// PopulateChunk fills a chunk: column fill first, then a vegetation pass.
func (g *Generator) PopulateChunk(c *Chunk) {
	dims := c.Dims()
	heights := make([]int, dims.Size*dims.Size)

	for lx := range dims.Size {
		for lz := range dims.Size {
			worldX := c.X*dims.Size + lx
			worldZ := c.Z*dims.Size + lz
			col := g.ColumnAt(worldX, worldZ)

			height := clampInt(col.Height, 1, dims.Height-1)
			heights[lx*dims.Size+lz] = height
			fillColumn(c, lx, lz, height, col.Biome)
		}
	}

	for lx := range dims.Size {
		for lz := range dims.Size {
			height := heights[lx*dims.Size+lz]
			if height <= ForestMinHeight || height >= ForestMaxHeight {
				continue
			}
			if c.GetBlock(lx, height, lz) != BlockTypeGrass {
				continue
			}
			if g.treeAt(c.X*dims.Size+lx, c.Z*dims.Size+lz) {
				stampTree(c, lx, height+1, lz)
			}
		}
	}

	c.MarkDirty()
}

// fillColumn writes one column: stone, filler band, surface, then water up to WaterLevel.
func fillColumn(c *Chunk, lx, lz, height int, biome *Biome) {
	top := min(max(height, WaterLevel), c.dims.Height-1)
	for y := 0; y <= top; y++ {
		var b BlockType
		switch {
		case y > height:
			b = BlockTypeWater // y <= WaterLevel by construction of top
		case y == height:
			b = biome.TopBlock
		case y >= height-SubsurfaceDepth:
			b = biome.FillerBlock
		default:
			b = BlockTypeStone
		}
		c.SetBlock(lx, y, lz, b)
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FlatGenerator produces a flat world: stone, then dirt, with grass at a fixed height.
type FlatGenerator struct {
	height int
}

// NewFlatGenerator creates a flat generator whose surface sits at the given height.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{height: height}
}

// HeightAt returns the fixed surface height.
func (g *FlatGenerator) HeightAt(worldX, worldZ int) int {
	return g.height
}

// PopulateChunk fills the chunk up to the configured height.
func (g *FlatGenerator) PopulateChunk(c *Chunk) {
	dims := c.Dims()
	height := min(g.height, dims.Height-1)
	for lx := range dims.Size {
		for lz := range dims.Size {
			for y := 0; y <= height; y++ {
				switch {
				case y == height:
					c.SetBlock(lx, y, lz, BlockTypeGrass)
				case y >= height-SubsurfaceDepth:
					c.SetBlock(lx, y, lz, BlockTypeDirt)
				default:
					c.SetBlock(lx, y, lz, BlockTypeStone)
				}
			}
		}
	}
	c.MarkDirty()
}
