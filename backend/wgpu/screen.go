package wgpu

// ScreenDescriptor describes the render target: its physical size in
// pixels and the scale factor mapping logical points to pixels.
type ScreenDescriptor struct {
	// PhysicalWidth of the surface in pixels.
	PhysicalWidth uint32

	// PhysicalHeight of the surface in pixels.
	PhysicalHeight uint32

	// ScaleFactor is pixels per logical point (HiDPI scale).
	ScaleFactor float32
}

// LogicalWidth returns the surface width in logical points.
func (s *ScreenDescriptor) LogicalWidth() float32 {
	return float32(s.PhysicalWidth) / s.ScaleFactor
}

// LogicalHeight returns the surface height in logical points.
func (s *ScreenDescriptor) LogicalHeight() float32 {
	return float32(s.PhysicalHeight) / s.ScaleFactor
}
