package sceneview

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/khai-campus/campusview/internal/engine/lighting"
	"github.com/khai-campus/campusview/internal/engine/model"
	"github.com/khai-campus/campusview/internal/engine/scene"
)

// Camera constants.
const (
	FieldOfView = 75
	NearPlane   = 0.2
	FarPlane    = 2000
)

// RigConfig holds the tunable parts of the light rig and sun orbit.
type RigConfig struct {
	ShadowMapSize int32
	SunStep       float64
	SunResetBand  float64
}

// DefaultRig returns the stock campus lighting.
func DefaultRig() RigConfig {
	return RigConfig{
		ShadowMapSize: 8096,
		SunStep:       0.001,
		SunResetBand:  -180,
	}
}

// buildRig fills sc with the background, hemisphere light, sun and sun body.
func buildRig(sc *scene.Scene, cfg RigConfig) {
	sc.Background = lighting.Hex(0xffffff)

	sc.Hemisphere = &lighting.Hemisphere{
		Sky:       lighting.HSL(0.6, 1, 0.6),
		Ground:    lighting.HSL(0.095, 1, 0.75),
		Intensity: 0.6,
		Position:  mgl32.Vec3{0, 50, 0},
	}

	sunPos := mgl32.Vec3{100, 120, 100}
	sc.Sun = &lighting.Directional{
		Color:      lighting.Hex(0xf6e124),
		Intensity:  10,
		Position:   sunPos,
		CastShadow: true,
		Shadow: lighting.ShadowConfig{
			MapSize: cfg.ShadowMapSize,
			Radius:  10,
			Bias:    -0.005,
			Frustum: lighting.Frustum{
				Top:    270,
				Bottom: -170,
				Left:   -200,
				Right:  200,
				Near:   25,
				Far:    350,
			},
		},
	}

	yellow := lighting.Hex(0xffff00)
	sc.SunBody = &scene.Body{
		Mesh: model.Sphere(10, 32, 32, model.Material{
			BaseColor: [4]float32{yellow[0], yellow[1], yellow[2], 1},
			Unlit:     true,
		}),
		Position: sunPos,
	}
}
