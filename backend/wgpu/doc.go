// Package wgpu uploads imui meshes to the GPU and draws them through
// the WebGPU HAL.
//
// The central type is [RenderPass]: it owns the UI render pipeline, the
// font atlas texture, optional user textures, and the shared vertex and
// index buffers. A frame goes through three calls:
//
//	rpass.UpdateFontTexture(ctx.Atlas())       // re-upload only on change
//	rpass.UpdateBuffers(jobs, screen)          // pack and upload geometry
//	rpass.Execute(encoder, target, jobs, screen, &clear)
//
// Paint jobs are drawn strictly in slice order under their scissor
// rectangles, so overlapping UI elements layer exactly as they were
// recorded.
package wgpu
