package shadow

import (
	gomath "math"
)

// CascadeSplits computes the depth boundaries for parallel-split shadow
// maps. The returned slice has numCascades+1 entries, starting at near and
// ending at far. lambda in [0, 1] blends between a uniform split (0) and a
// logarithmic split (1); intermediate values trade resolution near the
// camera against coverage in the distance.
func CascadeSplits(near, far float32, numCascades int, lambda float32) []float32 {
	if numCascades < 1 {
		numCascades = 1
	}
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}

	splits := make([]float32, numCascades+1)
	splits[0] = near
	splits[numCascades] = far

	for i := 1; i < numCascades; i++ {
		fraction := float64(i) / float64(numCascades)
		uniSplit := near + (far-near)*float32(fraction)
		// The logarithmic scheme needs a positive near plane; degrade to
		// the uniform split when it is not.
		logSplit := uniSplit
		if near > 0 {
			logSplit = float32(float64(near) * gomath.Pow(float64(far/near), fraction))
		}
		splits[i] = lambda*logSplit + (1-lambda)*uniSplit
	}
	return splits
}
