package material

// TreeBuilder builds the per-hit material tree for a surface
type TreeBuilder func(s *Surface) Node

// NewGlassTree builds the default tree: glass blended with diffuse by the surface transparency
func NewGlassTree(s *Surface) Node {
	glass := NewGlassBTDF(s.IOR)
	diffuse := NewDiffuse(s.Color)
	return NewLinearBlend(s.Transparency, glass, diffuse)
}

// NewMetalTree builds the metal/dielectric tree: a metal lobe blended by metalness with a
// dielectric coating over a diffuse base
func NewMetalTree(s *Surface) Node {
	microfacet := NewMicrofacetBRDF(s.Shininess)
	diffuse := NewDiffuse(s.Color)
	dielectric := NewDielectricBSDF(microfacet, diffuse, s.Fresnel)
	metal := NewMetalBSDF(microfacet, s.Color, s.Fresnel)
	return NewLinearBlend(s.Metalness, metal, dielectric)
}
