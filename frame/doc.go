// Package frame orchestrates one UI frame from input to GPU submission.
//
// [Framework] owns the imui context, the frame clock, the screen
// descriptor, and the wgpu render pass. The event loop drives it with
// four calls per frame:
//
//	fw.HandleEvent(ev)   // as platform events arrive
//	fw.Resize(w, h)      // when the surface size changes
//	fw.Prepare()         // build and tessellate the UI
//	fw.Render(frame)     // upload and draw into the acquired frame
//
// Theme changes requested with [Framework.ChangeTheme] are applied
// lazily at the start of the next Prepare, exactly once, so a burst of
// change notifications costs a single style and font swap.
package frame
