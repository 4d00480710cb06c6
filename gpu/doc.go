// Package gpu acquires frames on a shared HAL device and submits the
// recorded work.
//
// A [Device] is usually built from a gogpu window's device provider
// with [FromProvider], so the UI draws on the same GPU device as the
// rest of the application. [Device.BeginFrame] wraps the window's
// surface texture view and a fresh command encoder into a [Frame];
// [Device.Submit] ends encoding, submits with a fence, and waits.
package gpu
