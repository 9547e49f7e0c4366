package frame

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/config"
)

var (
	// ErrFrameInFlight is returned by Acquire when the next frame's buffers are still
	// pending GPU consumption.
	ErrFrameInFlight = errors.New("frame: next frame is still in flight")

	// ErrFrameState is returned by Submit and Retire for frames in the wrong state.
	ErrFrameState = errors.New("frame: invalid frame state")

	// ErrInvalidRingSize is returned when a Ring is created with no frames.
	ErrInvalidRingSize = errors.New("frame: ring needs at least one frame")
)

type frameState int

const (
	stateFree frameState = iota
	stateAcquired
	stateInFlight
)

func (s frameState) String() string {
	switch s {
	case stateFree:
		return "free"
	case stateAcquired:
		return "acquired"
	case stateInFlight:
		return "in flight"
	default:
		return fmt.Sprintf("frame_state(%d)", int(s))
	}
}

// Ring cycles a fixed number of frames so the CPU can stage frame N+1 while the GPU
// still reads frame N. A frame is handed out by Acquire, marked in flight by Submit and
// becomes reusable only after Retire, which the owner calls once the GPU fence of that
// submission has signalled. No method blocks.
type Ring struct {
	mu     sync.Mutex
	frames []*Frame
	states []frameState
	next   int
}

// NewRing creates a ring of n frames for a revision.
//
// Parameters:
//   - n: the number of frames in flight, at least 1
//   - rev: the pipeline revision every frame stages against
//
// Returns:
//   - *Ring: the new ring
//   - error: ErrInvalidRingSize or binding.ErrUnknownRevision
func NewRing(n int, rev binding.Revision) (*Ring, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRingSize, n)
	}
	r := &Ring{
		frames: make([]*Frame, n),
		states: make([]frameState, n),
	}
	for i := range r.frames {
		f, err := newFrame(i, rev)
		if err != nil {
			return nil, err
		}
		r.frames[i] = f
	}
	return r, nil
}

// NewRingFromConfig creates a ring of cfg.FramesInFlight frames for the configured
// revision, with every frame's light array bounded to cfg.LightCapacity.
//
// Parameters:
//   - cfg: a configuration, usually from config.Load
//
// Returns:
//   - *Ring: the new ring
//   - error: the validation error of cfg, or as NewRing
func NewRingFromConfig(cfg config.Config) (*Ring, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := NewRing(cfg.FramesInFlight, cfg.BindingRevision())
	if err != nil {
		return nil, err
	}
	for _, f := range r.frames {
		if err := f.globals.SetCapacity(binding.ResourceLights, cfg.LightCapacity); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Size returns the number of frames in the ring.
func (r *Ring) Size() int {
	return len(r.frames)
}

// Acquire returns the next frame in ring order.
//
// Returns:
//   - *Frame: the frame to stage into
//   - error: ErrFrameInFlight if that frame has not been retired since its last submission
func (r *Ring) Acquire() (*Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.next
	if r.states[i] != stateFree {
		return nil, fmt.Errorf("%w: frame %d is %s", ErrFrameInFlight, i, r.states[i])
	}
	r.states[i] = stateAcquired
	r.next = (i + 1) % len(r.frames)
	return r.frames[i], nil
}

// Submit marks an acquired frame as handed to the GPU.
//
// Parameters:
//   - f: a frame returned by Acquire
//
// Returns:
//   - error: ErrFrameState if f is not acquired from this ring
func (r *Ring) Submit(f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f == nil || f.index >= len(r.frames) || r.frames[f.index] != f {
		return fmt.Errorf("%w: frame does not belong to this ring", ErrFrameState)
	}
	if r.states[f.index] != stateAcquired {
		return fmt.Errorf("%w: cannot submit frame %d, it is %s", ErrFrameState, f.index, r.states[f.index])
	}
	r.states[f.index] = stateInFlight
	return nil
}

// Retire releases a submitted frame for reuse once its GPU work has completed.
//
// Parameters:
//   - index: the frame index
//
// Returns:
//   - error: ErrFrameState if the frame is not in flight
func (r *Ring) Retire(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.frames) {
		return fmt.Errorf("%w: frame %d out of range", ErrFrameState, index)
	}
	if r.states[index] != stateInFlight {
		return fmt.Errorf("%w: cannot retire frame %d, it is %s", ErrFrameState, index, r.states[index])
	}
	r.states[index] = stateFree
	return nil
}

// InFlight returns the number of submitted frames not yet retired.
func (r *Ring) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.states {
		if s == stateInFlight {
			n++
		}
	}
	return n
}
