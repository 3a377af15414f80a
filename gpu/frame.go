package gpu

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/prism3d/prism/logger"
)

// FramesInFlight is the depth of the frame ring: while one frame is on
// screen the next can record.
const FramesInFlight = 2

// ErrFrameSkipped reports a frame that produced no image, typically
// because the surface had to be reconfigured mid-frame. The caller
// just tries again next frame.
var ErrFrameSkipped = errors.New("frame skipped")

// ErrResizeAbandoned reports a pending resize that was dropped after
// repeated reconfigure failures. The previous render target stays in
// effect and frames keep flowing, so callers can log and carry on.
var ErrResizeAbandoned = errors.New("resize abandoned")

const maxConfigureAttempts = 3

type frameState int

const (
	frameIdle frameState = iota
	frameAcquired
	frameRecorded
	frameSubmitted
)

func (s frameState) String() string {
	switch s {
	case frameIdle:
		return "idle"
	case frameAcquired:
		return "acquired"
	case frameRecorded:
		return "recorded"
	case frameSubmitted:
		return "submitted"
	}
	return "unknown"
}

type frameSlot struct {
	state  frameState
	number uint64
}

// FrameRing cycles through the in-flight frame slots.
type FrameRing struct {
	slots   [FramesInFlight]frameSlot
	index   int
	counter uint64
}

// Current returns the slot index frames record into.
func (r *FrameRing) Current() int { return r.index }

// FrameNumber returns the global count of frames begun.
func (r *FrameRing) FrameNumber() uint64 { return r.counter }

func (r *FrameRing) begin() (*frameSlot, error) {
	slot := &r.slots[r.index]
	if slot.state != frameIdle {
		return nil, fmt.Errorf("frame slot %d busy in state %s", r.index, slot.state)
	}
	r.counter++
	slot.state = frameAcquired
	slot.number = r.counter
	return slot, nil
}

func (r *FrameRing) finish(slot *frameSlot) {
	slot.state = frameIdle
	r.index = (r.index + 1) % FramesInFlight
}

// abort returns the current slot to idle without advancing the ring,
// so a skipped frame reuses the same slot.
func (r *FrameRing) abort(slot *frameSlot) {
	slot.state = frameIdle
	r.counter--
}

// RenderTarget abstracts the presentable surface so frame pacing logic
// stays testable without a GPU. The wgpu Context implements it.
type RenderTarget interface {
	// Configure (re)builds the swapchain at the given size.
	Configure(width, height int) error
	// Acquire obtains the next presentable image.
	Acquire() error
	// Present shows the acquired image. Only called after a successful
	// Acquire and record.
	Present()
	// Discard drops an acquired image without presenting.
	Discard()
}

// FrameOrchestrator drives the per-frame cycle: apply any pending
// resize, acquire, record, present, advance the ring. Resizes are
// deferred to frame boundaries; a failed reconfigure keeps the old
// target usable and retries next frame, giving up after a few
// attempts.
type FrameOrchestrator struct {
	target RenderTarget
	ring   FrameRing

	width, height  int
	pendingW       int
	pendingH       int
	resizePending  bool
	resizeAttempts int
	surfaceLost    bool
}

// NewFrameOrchestrator wraps target, assumed already configured at the
// given size.
func NewFrameOrchestrator(target RenderTarget, width, height int) *FrameOrchestrator {
	return &FrameOrchestrator{
		target: target,
		width:  width,
		height: height,
	}
}

// Size returns the current target size.
func (o *FrameOrchestrator) Size() (int, int) { return o.width, o.height }

// Ring exposes the frame ring for pacing queries.
func (o *FrameOrchestrator) Ring() *FrameRing { return &o.ring }

// Resize requests a swapchain rebuild at the next frame boundary.
// Degenerate sizes (minimized window) are remembered but frames are
// skipped until a real size arrives.
func (o *FrameOrchestrator) Resize(width, height int) {
	o.pendingW = width
	o.pendingH = height
	o.resizePending = true
	o.resizeAttempts = 0
}

// Frame runs one frame: record is called with the ring slot index once
// an image is acquired. Returns ErrFrameSkipped when no image was
// produced this frame; that is routine during resizes, not a failure.
func (o *FrameOrchestrator) Frame(record func(slot int) error) error {
	if o.resizePending || o.surfaceLost {
		if err := o.applyResize(); err != nil {
			return err
		}
		// The frame after a reconfigure starts clean.
		return ErrFrameSkipped
	}
	if o.width == 0 || o.height == 0 {
		return ErrFrameSkipped
	}

	slot, err := o.ring.begin()
	if err != nil {
		return err
	}

	if err := o.target.Acquire(); err != nil {
		// Outdated or lost surface: reconfigure next frame.
		logger.Log.Debug("surface acquire failed, scheduling reconfigure", zap.Error(err))
		o.surfaceLost = true
		o.ring.abort(slot)
		return ErrFrameSkipped
	}

	if err := record(o.ring.Current()); err != nil {
		o.target.Discard()
		o.ring.abort(slot)
		return fmt.Errorf("record frame %d: %w", slot.number, err)
	}
	slot.state = frameRecorded

	slot.state = frameSubmitted
	o.target.Present()
	o.ring.finish(slot)
	return nil
}

// applyResize reconfigures the target at the pending size. The old
// configuration stays in effect until the new one succeeds; after
// maxConfigureAttempts failures the pending resize is dropped.
func (o *FrameOrchestrator) applyResize() error {
	w, h := o.pendingW, o.pendingH
	if !o.resizePending {
		// Surface loss without a size change: rebuild at current size.
		w, h = o.width, o.height
	}
	if w == 0 || h == 0 {
		// Minimized; keep the pending flag and wait for a real size.
		return ErrFrameSkipped
	}

	if err := o.target.Configure(w, h); err != nil {
		o.resizeAttempts++
		logger.Log.Warn("swapchain reconfigure failed",
			zap.Int("width", w), zap.Int("height", h),
			zap.Int("attempt", o.resizeAttempts), zap.Error(err))
		if o.resizeAttempts >= maxConfigureAttempts {
			o.resizePending = false
			o.surfaceLost = false
			return fmt.Errorf("%w after %d attempts: %v",
				ErrResizeAbandoned, o.resizeAttempts, err)
		}
		return ErrFrameSkipped
	}

	o.width, o.height = w, h
	o.resizePending = false
	o.surfaceLost = false
	o.resizeAttempts = 0
	return nil
}
