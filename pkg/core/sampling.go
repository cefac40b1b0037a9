package core

import (
	"math"
	"math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own PCG stream
func NewSeededSampler(seed uint64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15)))
}

// NewPixelSampler creates an independent, reproducible stream for one pixel of one pass.
// The same (seed, pass, pixel) triple always yields the same sequence.
func NewPixelSampler(seed uint64, pass, pixel int) *RandomSampler {
	hi := mix64(seed ^ uint64(pass)*0xbf58476d1ce4e5b9)
	lo := mix64(uint64(pixel) + 0x94d049bb133111eb*uint64(pass+1))
	return NewRandomSampler(rand.New(rand.NewPCG(hi, lo)))
}

// mix64 is the splitmix64 finalizer
func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Perpendicular returns a unit vector orthogonal to v
func Perpendicular(v Vec3) Vec3 {
	if math.Abs(v.X) > 0.1 {
		return NewVec3(0, 1, 0).Cross(v).Normalize()
	}
	return NewVec3(1, 0, 0).Cross(v).Normalize()
}

// TangentFrame builds an orthonormal basis (tangent, bitangent) around the normal
func TangentFrame(normal Vec3) (Vec3, Vec3) {
	tangent := Perpendicular(normal)
	bitangent := normal.Cross(tangent)
	return tangent, bitangent
}

// FromLocal transforms a direction given in the (tangent, bitangent, normal) frame to world space
func FromLocal(local, normal Vec3) Vec3 {
	tangent, bitangent := TangentFrame(normal)
	return tangent.Multiply(local.X).Add(bitangent.Multiply(local.Y)).Add(normal.Multiply(local.Z))
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	// Point on the unit disk projected up to the hemisphere
	a := 2.0 * math.Pi * sample.X
	r := math.Sqrt(sample.Y)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	z := math.Sqrt(math.Max(0, 1.0-sample.Y))

	return FromLocal(NewVec3(x, y, z), normal).Normalize()
}

// SampleUniformHemisphere generates a uniformly distributed direction around normal (pdf 1/2π)
func SampleUniformHemisphere(normal Vec3, sample Vec2) Vec3 {
	z := sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return FromLocal(NewVec3(r*math.Cos(phi), r*math.Sin(phi), z), normal).Normalize()
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(sample Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec2(0, 0)
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}
