package world

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Perlin parameters for a single raw octave. Octave summation is done by FBM,
// so the library is asked for exactly one octave; alpha and beta are unused then.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 1
)

// Channel offsets shift samples far apart in noise space so that the
// channels behave as independent signals drawn from one seeded field.
// All offsets are positive; see domainBias.
const (
	offsetContinent   = 0.0
	offsetDetail      = 1031.7
	offsetRidge       = 2087.3
	offsetTemperature = 4099.1
	offsetMoisture    = 6151.9
	offsetTrees       = 8209.37
	offsetWarpX       = 10243.5
	offsetWarpZ       = 12289.5
)

// domainBias is added to every coordinate handed to go-perlin. The library
// truncates toward zero when locating the lattice cell, so inputs below -4096
// land in the wrong cell and the noise jumps at every integer. The bias keeps
// octave-scaled coordinates positive for worlds spanning millions of blocks.
// It is a multiple of the 256-cell lattice period.
const domainBias = 1 << 24

// NoiseField is a seeded coherent-noise source. It is read-only after
// construction and safe for concurrent use.
type NoiseField struct {
	seed int64
	p    *perlin.Perlin
}

// NewNoiseField creates a noise field. The same seed always yields the same field.
func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{
		seed: seed,
		p:    perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
	}
}

// Seed returns the seed the field was built from.
func (n *NoiseField) Seed() int64 { return n.seed }

// Sample returns raw 2D coherent noise, clamped to [-1, 1].
func (n *NoiseField) Sample(x, z float64) float64 {
	return clamp(n.p.Noise2D(x+domainBias, z+domainBias), -1, 1)
}

// FBM sums octaves of coherent noise at geometrically increasing frequency and
// decreasing amplitude, normalized by the total amplitude to stay in [-1, 1].
func (n *NoiseField) FBM(x, z float64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for range octaves {
		sum += n.Sample(x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// Ridge returns a ridged fBm in [0, 1]: each octave is folded as (1-|n|)^2,
// which turns zero crossings into sharp crests.
func (n *NoiseField) Ridge(x, z float64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for range octaves {
		r := 1 - math.Abs(n.Sample(x*frequency, z*frequency))
		sum += r * r * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// Warp displaces (x, z) by a low-frequency vector field of the given strength.
func (n *NoiseField) Warp(x, z, strength float64) (float64, float64) {
	wx := n.FBM(x+offsetWarpX, z+offsetWarpX, 2, 0.5, 2.0)
	wz := n.FBM(x+offsetWarpZ, z+offsetWarpZ, 2, 0.5, 2.0)
	return x + wx*strength, z + wz*strength
}

// unit maps a [-1, 1] signal onto [0, 1].
func unit(v float64) float64 {
	return clamp((v+1)*0.5, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
