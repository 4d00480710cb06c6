package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/imui"
)

var (
	// ErrNoHALDevice is returned when a device provider does not expose
	// a usable HAL device and queue.
	ErrNoHALDevice = errors.New("gpu: provider has no HAL device")

	// ErrDeviceClosed is returned for operations on a closed Device.
	ErrDeviceClosed = errors.New("gpu: device closed")

	// ErrInvalidTarget is returned when BeginFrame receives a value
	// that is not a HAL texture view.
	ErrInvalidTarget = errors.New("gpu: invalid render target")

	// ErrSubmitTimeout is returned when the GPU does not signal the
	// frame fence within the wait budget.
	ErrSubmitTimeout = errors.New("gpu: frame submit timed out")
)

// submitWait bounds how long Submit blocks on the frame fence.
const submitWait = 5 * time.Second

// Device wraps a shared HAL device and queue for per-frame command
// recording. It does not own the underlying device: Close releases
// nothing on the GPU, it only refuses further frames.
type Device struct {
	device hal.Device
	queue  hal.Queue

	width  uint32
	height uint32
	closed bool
}

// FromProvider extracts the HAL device and queue from a gogpu device
// provider. The provider must implement gpucontext.HalProvider, which
// every native gogpu backend does.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	hp, ok := provider.(gpucontext.HalProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a HalProvider", ErrNoHALDevice, provider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: no hal.Device", ErrNoHALDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: no hal.Queue", ErrNoHALDevice)
	}
	return NewDevice(device, queue), nil
}

// NewDevice wraps an existing HAL device and queue directly. Used by
// tests and by callers that manage the device themselves.
func NewDevice(device hal.Device, queue hal.Queue) *Device {
	return &Device{device: device, queue: queue}
}

// HAL returns the underlying device and queue, for callers that create
// their own GPU resources on the shared device.
func (d *Device) HAL() (hal.Device, hal.Queue) {
	return d.device, d.queue
}

// Resize records the current surface size in pixels.
func (d *Device) Resize(width, height uint32) {
	d.width = width
	d.height = height
}

// Size returns the last recorded surface size in pixels.
func (d *Device) Size() (width, height uint32) {
	return d.width, d.height
}

// Frame is one frame's recording state: an encoder mid-encoding and the
// surface texture view to draw into.
type Frame struct {
	Encoder hal.CommandEncoder
	Target  hal.TextureView
}

// BeginFrame starts recording a frame into the given surface texture
// view. view is the opaque value handed out by the windowing layer; it
// must be a hal.TextureView.
func (d *Device) BeginFrame(view any) (*Frame, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if view == nil {
		return nil, fmt.Errorf("%w: nil view", ErrInvalidTarget)
	}
	target, ok := view.(hal.TextureView)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a hal.TextureView", ErrInvalidTarget, view)
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "imui_frame_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("imui_frame"); err != nil {
		return nil, fmt.Errorf("gpu: begin encoding: %w", err)
	}
	return &Frame{Encoder: encoder, Target: target}, nil
}

// Submit finishes the frame: ends encoding, submits the command buffer
// with a fence, and waits for completion. The frame must not be reused
// afterwards.
func (d *Device) Submit(f *Frame) error {
	if d.closed {
		f.Encoder.DiscardEncoding()
		return ErrDeviceClosed
	}

	cmdBuf, err := f.Encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}

	ok, err := d.device.Wait(fence, 1, submitWait)
	if err != nil {
		return fmt.Errorf("gpu: wait for frame fence: %w", err)
	}
	if !ok {
		return ErrSubmitTimeout
	}
	imui.Logger().Debug("gpu: frame submitted")
	return nil
}

// Discard abandons a frame without submitting, for error paths between
// BeginFrame and Submit.
func (d *Device) Discard(f *Frame) {
	f.Encoder.DiscardEncoding()
}

// Close refuses further frames. It does not destroy the shared HAL
// device, which belongs to the windowing layer.
func (d *Device) Close() {
	d.closed = true
}
