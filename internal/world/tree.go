package world

// stampTree places a trunk at local (x, y, z) going up, topped by a tapering
// foliage diamond. Only air is ever overwritten and everything outside the
// chunk is clipped.
func stampTree(c *Chunk, x, y, z int) {
	for dy := range TrunkHeight {
		if c.IsAir(x, y+dy, z) {
			c.SetBlock(x, y+dy, z, BlockTypeWood)
		}
	}

	base := y + TrunkHeight - 1
	for layer := range FoliageLayers {
		// manhattan reach shrinks by one per layer: 3, 2, 1 with the defaults
		reach := FoliageRadius + 1 - layer
		ly := base + layer
		for dx := -FoliageRadius; dx <= FoliageRadius; dx++ {
			for dz := -FoliageRadius; dz <= FoliageRadius; dz++ {
				if abs(dx)+abs(dz) > reach {
					continue
				}
				lx, lz := x+dx, z+dz
				if !c.InBounds(lx, ly, lz) || !c.IsAir(lx, ly, lz) {
					continue
				}
				c.SetBlock(lx, ly, lz, BlockTypeLeaves)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
