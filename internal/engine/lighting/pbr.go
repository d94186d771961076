package lighting

import "math"

// DistributionGGX is the GGX/Trowbridge-Reitz normal distribution term.
// nDotH is the cosine between surface normal and half vector, roughness the
// perceptual roughness in [0, 1]. The result is non-negative and peaks as
// roughness approaches zero.
func DistributionGGX(nDotH, roughness float32) float32 {
	a := roughness * roughness
	a2 := a * a
	nDotH2 := nDotH * nDotH

	denom := nDotH2*(a2-1) + 1
	denom = float32(math.Pi) * denom * denom
	if denom < 1e-8 {
		denom = 1e-8
	}
	return a2 / denom
}

// GeometrySchlickGGX is the Schlick-GGX geometry term for a single
// direction, with the direct-lighting remapping k = (roughness+1)^2 / 8.
// The result is bounded to [0, 1].
func GeometrySchlickGGX(nDotV, roughness float32) float32 {
	r := roughness + 1
	k := (r * r) / 8

	denom := nDotV*(1-k) + k
	if denom < 1e-8 {
		denom = 1e-8
	}
	return nDotV / denom
}

// GeometrySmith combines the Schlick-GGX term for view and light directions.
func GeometrySmith(nDotV, nDotL, roughness float32) float32 {
	return GeometrySchlickGGX(nDotV, roughness) * GeometrySchlickGGX(nDotL, roughness)
}

// FresnelSchlick is the Schlick approximation of the Fresnel reflectance for
// one channel. f0 is the reflectance at normal incidence.
func FresnelSchlick(cosTheta, f0 float32) float32 {
	m := 1 - cosTheta
	if m < 0 {
		m = 0
	}
	return f0 + (1-f0)*m*m*m*m*m
}
