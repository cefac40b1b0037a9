package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// LinearBlend combines two nodes with a fixed weight: W·A + (1-W)·B
type LinearBlend struct {
	W float64 // Weight of A, clamped to [0, 1]
	A Node
	B Node
}

// NewLinearBlend creates a new blend node
func NewLinearBlend(w float64, a, b Node) *LinearBlend {
	return &LinearBlend{
		W: math.Max(0.0, math.Min(w, 1.0)),
		A: a,
		B: b,
	}
}

// Evaluate returns the weighted sum of both children
func (l *LinearBlend) Evaluate(wi, wo, n core.Vec3) core.Vec3 {
	return l.A.Evaluate(wi, wo, n).Multiply(l.W).Add(l.B.Evaluate(wi, wo, n).Multiply(1.0 - l.W))
}

// Sample selects one child with probability equal to its weight and returns its sample as is.
// The weight cancels against the selection probability.
func (l *LinearBlend) Sample(wo, n core.Vec3, sampler core.Sampler) WiSample {
	if sampler.Get1D() < l.W {
		return l.A.Sample(wo, n, sampler)
	}
	return l.B.Sample(wo, n, sampler)
}
