package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	configured    [][2]int
	configureErrs int
	acquireErrs   int
	acquires      int
	presents      int
	discards      int
}

func (f *fakeTarget) Configure(w, h int) error {
	if f.configureErrs > 0 {
		f.configureErrs--
		return errors.New("configure failed")
	}
	f.configured = append(f.configured, [2]int{w, h})
	return nil
}

func (f *fakeTarget) Acquire() error {
	f.acquires++
	if f.acquireErrs > 0 {
		f.acquireErrs--
		return errors.New("surface outdated")
	}
	return nil
}

func (f *fakeTarget) Present() { f.presents++ }
func (f *fakeTarget) Discard() { f.discards++ }

func noRecord(int) error { return nil }

func TestFrameHappyPath(t *testing.T) {
	ft := &fakeTarget{}
	o := NewFrameOrchestrator(ft, 800, 600)

	var slots []int
	for i := 0; i < 4; i++ {
		err := o.Frame(func(slot int) error {
			slots = append(slots, slot)
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 4, ft.presents)
	assert.Equal(t, []int{0, 1, 0, 1}, slots, "slots must alternate through the ring")
	assert.Equal(t, uint64(4), o.Ring().FrameNumber())
}

func TestResizeAppliedAtFrameBoundary(t *testing.T) {
	ft := &fakeTarget{}
	o := NewFrameOrchestrator(ft, 800, 600)

	o.Resize(1024, 768)
	err := o.Frame(noRecord)
	assert.ErrorIs(t, err, ErrFrameSkipped, "the resize frame produces no image")
	assert.Equal(t, [][2]int{{1024, 768}}, ft.configured)
	assert.Equal(t, 0, ft.acquires, "no acquire during a reconfigure frame")

	w, h := o.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)

	require.NoError(t, o.Frame(noRecord))
	assert.Equal(t, 1, ft.presents)
}

func TestResizeCoalesces(t *testing.T) {
	ft := &fakeTarget{}
	o := NewFrameOrchestrator(ft, 800, 600)

	o.Resize(900, 700)
	o.Resize(1000, 800)
	require.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)

	assert.Equal(t, [][2]int{{1000, 800}}, ft.configured, "only the last pending size configures")
}

func TestResizeFailureKeepsOldTarget(t *testing.T) {
	ft := &fakeTarget{configureErrs: 1}
	o := NewFrameOrchestrator(ft, 800, 600)

	o.Resize(1024, 768)
	require.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)

	// The failed attempt must leave the old size in effect.
	w, h := o.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	// Next frame retries and succeeds.
	require.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)
	w, h = o.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestResizeGivesUpAfterRetries(t *testing.T) {
	ft := &fakeTarget{configureErrs: 10}
	o := NewFrameOrchestrator(ft, 800, 600)

	o.Resize(1024, 768)
	require.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)
	require.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)

	err := o.Frame(noRecord)
	require.ErrorIs(t, err, ErrResizeAbandoned, "exhausted retries drop the resize")
	assert.NotErrorIs(t, err, ErrFrameSkipped)

	// The orchestrator recovers: old size, frames flow again.
	ft.configureErrs = 0
	require.NoError(t, o.Frame(noRecord))
	w, h := o.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestMinimizedWindowSkipsFrames(t *testing.T) {
	ft := &fakeTarget{}
	o := NewFrameOrchestrator(ft, 800, 600)

	o.Resize(0, 0)
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)
	}
	assert.Empty(t, ft.configured, "no reconfigure at zero size")
	assert.Equal(t, 0, ft.acquires)

	// Restore brings frames back.
	o.Resize(800, 600)
	require.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)
	require.NoError(t, o.Frame(noRecord))
}

func TestAcquireFailureReconfigures(t *testing.T) {
	ft := &fakeTarget{acquireErrs: 1}
	o := NewFrameOrchestrator(ft, 800, 600)

	require.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)
	assert.Equal(t, 0, ft.presents)

	// Next frame reconfigures at the current size, then frames resume.
	require.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)
	assert.Equal(t, [][2]int{{800, 600}}, ft.configured)

	require.NoError(t, o.Frame(noRecord))
	assert.Equal(t, 1, ft.presents)
}

func TestRecordErrorDiscardsImage(t *testing.T) {
	ft := &fakeTarget{}
	o := NewFrameOrchestrator(ft, 800, 600)

	boom := errors.New("boom")
	err := o.Frame(func(int) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ft.discards)
	assert.Equal(t, 0, ft.presents)

	// The slot is reusable afterwards.
	require.NoError(t, o.Frame(noRecord))
}

func TestSkippedFrameReusesSlot(t *testing.T) {
	ft := &fakeTarget{acquireErrs: 1}
	o := NewFrameOrchestrator(ft, 800, 600)

	before := o.Ring().Current()
	require.ErrorIs(t, o.Frame(noRecord), ErrFrameSkipped)
	assert.Equal(t, before, o.Ring().Current(), "a skipped frame must not advance the ring")
	assert.Equal(t, uint64(0), o.Ring().FrameNumber())
}
