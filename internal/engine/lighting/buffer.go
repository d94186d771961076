package lighting

import (
	"github.com/openreality/goplayer/internal/engine/scene"
)

// MaxPointLights is the maximum number of point lights the forward shader
// supports per draw.
const MaxPointLights = 32

// PointLightBuffer packs scene point lights into the flat uniform arrays the
// shader consumes.
type PointLightBuffer struct {
	Lights []scene.PointLight
	Count  int
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]scene.PointLight, 0, MaxPointLights),
	}
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Count = 0
}

// SetLights replaces all lights in the buffer, truncating to MaxPointLights
// and clamping colors to [0, 1].
func (b *PointLightBuffer) SetLights(lights []scene.PointLight) {
	b.Clear()
	count := len(lights)
	if count > MaxPointLights {
		count = MaxPointLights
	}
	for _, light := range lights[:count] {
		for i := 0; i < 3; i++ {
			if light.Color[i] > 1 {
				light.Color[i] = 1
			}
			if light.Color[i] < 0 {
				light.Color[i] = 0
			}
		}
		if light.Range <= 0 {
			light.Range = 10
		}
		b.Lights = append(b.Lights, light)
	}
	b.Count = len(b.Lights)
}

// Positions returns positions as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...], padded to MaxPointLights.
func (b *PointLightBuffer) Positions() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Position[:])
	}
	return result
}

// Colors returns colors as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Colors() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Color[:])
	}
	return result
}

// Ranges returns falloff ranges as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Ranges() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Range
	}
	return result
}

// Intensities returns intensity multipliers as a flat float32 slice for GPU
// upload.
func (b *PointLightBuffer) Intensities() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Intensity
	}
	return result
}
