// Package imui is a minimal immediate-mode UI toolkit for gogpu windows.
//
// # Overview
//
// imui does not try to be a widget framework. It provides the pieces an
// application needs to draw an overlay or a simple control surface on top
// of a GPU-rendered scene each frame:
//
//   - [Context]: per-frame input state, style, fonts, and a painter that
//     records shapes between [Context.BeginFrame] and [Context.EndFrame].
//   - Tessellation of recorded shapes into textured triangle meshes
//     ([Context.Tessellate]), ready for upload by a GPU backend.
//   - A glyph atlas ([FontAtlas]) rasterized from embedded or user-supplied
//     font data, shared with the backend through a generation counter.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Context, Style, FontDefinitions, FontAtlas, Mesh
//   - frame: per-frame orchestration (input, themes, tessellation)
//   - backend/wgpu: mesh upload and drawing via the WebGPU HAL
//   - gpu: surface frame acquisition and command submission
//   - cmd/imuidemo: the whole stack running inside a gogpu window
//
// # Coordinate System
//
// Logical points with origin (0,0) at top-left, X increasing right and
// Y increasing down. The backend scales to physical pixels using the
// screen descriptor's scale factor.
//
// # Threading
//
// All of imui is single-threaded by design: a Context must be driven from
// one goroutine, conventionally the window's event-loop goroutine.
package imui

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
