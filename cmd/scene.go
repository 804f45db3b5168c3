package cmd

import (
	"fmt"
	"strings"

	"github.com/joeylitalien/mitsuba/integrator"
	"github.com/joeylitalien/mitsuba/scene"
	"github.com/joeylitalien/mitsuba/types"
)

// Build the demo scene used when no external scene loader is attached:
// a ground sphere and a small cluster above it.
func demoScene() *scene.Scene {
	return &scene.Scene{
		Camera: scene.NewCamera(
			types.XYZ(0, 1.5, 4),
			types.XYZ(0, 0.5, 0),
			types.XYZ(0, 1, 0),
			50.0,
		),
		Spheres: []*scene.Sphere{
			{Center: types.XYZ(0, -100, 0), Radius: 100, Albedo: types.XYZ(0.6, 0.6, 0.6)},
			{Center: types.XYZ(-1.1, 0.5, 0), Radius: 0.5, Albedo: types.XYZ(0.9, 0.2, 0.2)},
			{Center: types.XYZ(0, 0.5, 0), Radius: 0.5, Albedo: types.XYZ(0.2, 0.9, 0.2)},
			{Center: types.XYZ(1.1, 0.5, 0), Radius: 0.5, Albedo: types.XYZ(0.2, 0.2, 0.9)},
		},
	}
}

// Build the default integrator tree: a faint emitted base color split
// with a proximity term whose max distance is derived during
// preprocessing.
func demoIntegrator() integrator.Integrator {
	return integrator.NewSplit(
		integrator.Term{
			Contributes: integrator.Emitted,
			Node:        integrator.NewConstant(types.XYZ(0.05, 0.05, 0.08)),
		},
		integrator.Term{
			Contributes: integrator.Direct,
			Node:        integrator.NewProximity(types.XYZ(1, 1, 1), 0),
		},
	)
}

// Parse a comma separated component list into a request mask.
func parseComponents(spec string) (integrator.Component, error) {
	if spec == "" || spec == "all" {
		return integrator.AllComponents, nil
	}

	var mask integrator.Component
	for _, name := range strings.Split(spec, ",") {
		switch strings.TrimSpace(name) {
		case "emitted":
			mask |= integrator.Emitted
		case "direct":
			mask |= integrator.Direct
		case "indirect":
			mask |= integrator.Indirect
		case "specular":
			mask |= integrator.Specular
		default:
			return 0, fmt.Errorf("unknown radiance component %q", name)
		}
	}
	return mask, nil
}
