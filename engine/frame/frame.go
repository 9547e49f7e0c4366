package frame

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	bgp "github.com/Carmen-Shannon/oxy-abi/engine/renderer/bind_group_provider"
)

// Frame holds the staged uploads of one frame: the per-frame globals (light array,
// fragment uniforms, skybox) and one provider per draw (transform uniforms, material).
// A Frame is reused across the ring; Assemble resets it before staging.
type Frame struct {
	index    int
	revision binding.Revision
	globals  bgp.BindGroupProvider
	draws    []bgp.BindGroupProvider
	active   int

	lightCount uint32
	dropped    int
}

// newFrame creates an empty frame for a revision.
func newFrame(index int, rev binding.Revision) (*Frame, error) {
	globals, err := bgp.NewBindGroupProvider(fmt.Sprintf("frame[%d]", index), bgp.WithRevision(rev))
	if err != nil {
		return nil, err
	}
	return &Frame{index: index, revision: rev, globals: globals}, nil
}

// NewFrame creates a standalone frame outside a Ring.
//
// Parameters:
//   - rev: the pipeline revision the frame stages against
//
// Returns:
//   - *Frame: the new frame
//   - error: binding.ErrUnknownRevision for undeclared revisions
func NewFrame(rev binding.Revision) (*Frame, error) {
	return newFrame(0, rev)
}

// Index returns the frame's position in its ring.
func (f *Frame) Index() int {
	return f.index
}

// Revision returns the pipeline revision the frame stages against.
func (f *Frame) Revision() binding.Revision {
	return f.revision
}

// Globals returns the provider holding the per-frame writes.
func (f *Frame) Globals() bgp.BindGroupProvider {
	return f.globals
}

// Draws returns the providers of the draws staged by the last Assemble, in draw order.
func (f *Frame) Draws() []bgp.BindGroupProvider {
	return f.draws[:f.active]
}

// LightCount returns the light_count written by the last Assemble.
func (f *Frame) LightCount() uint32 {
	return f.lightCount
}

// Dropped returns how many active lights the last Assemble left out.
func (f *Frame) Dropped() int {
	return f.dropped
}

// StagedBytes returns the bytes staged across the globals and every draw.
func (f *Frame) StagedBytes() int {
	n := f.globals.StagedBytes()
	for _, d := range f.Draws() {
		n += d.StagedBytes()
	}
	return n
}

// reset clears every staged write and makes room for n draws. Draw providers are kept
// across frames and only allocated when a frame has more draws than before.
func (f *Frame) reset(n int) error {
	f.globals.Reset()
	for len(f.draws) < n {
		p, err := bgp.NewBindGroupProvider(fmt.Sprintf("frame[%d].draw[%d]", f.index, len(f.draws)), bgp.WithRevision(f.revision))
		if err != nil {
			return err
		}
		f.draws = append(f.draws, p)
	}
	for _, d := range f.draws {
		d.Reset()
	}
	f.active = n
	f.lightCount = 0
	f.dropped = 0
	return nil
}
