// Package diskrender renders photorealistic 2D views of solar-system
// bodies from astrometric state.
//
// # Overview
//
// Given a [RenderConfig] and the ephemeris of a body at an instant, the
// renderer rasterizes a textured, illuminated oblate disk onto an RGBA
// raster, adds ring shadows and rings, satellites with their transiting
// shadows, an optional telescope diffraction post-process, and optional
// anaglyph or true-stereo output. It is a CPU rasterizer designed to be
// fast enough for interactive dragging: large disks are adaptively
// subsampled and consecutive frames with near-identical parameters reuse
// the previous raster through a cheap rescale.
//
// # Quick Start
//
//	r := diskrender.New(provider, textures)
//
//	cfg := diskrender.DefaultConfig(diskrender.Saturn, 800, 600)
//	frame, err := r.Render(cfg, time.Now())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	frame.Image.SavePNG("saturn.png")
//
// # Coordinate System
//
// Screen coordinates follow standard computer graphics conventions:
// origin at top-left, x right, y down. All angles are radians. Body
// coordinates are planetographic latitude/longitude; the projection is
// orthographic, centered on the observer line of sight.
//
// # Determinism
//
// Rendering the same configuration, ephemeris, and texture assets twice
// produces a bitwise-identical raster. There is no concurrency inside a
// frame; the render entry point is a critical section per renderer.
package diskrender

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
