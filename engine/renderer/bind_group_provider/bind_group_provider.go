package bind_group_provider

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-abi/engine/abi"
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrSizeMismatch is returned when staged data does not match the record bound to a resource.
	ErrSizeMismatch = errors.New("bind_group_provider: data size does not match record")

	// ErrNotBuffer is returned when a texture or attribute resource is staged.
	ErrNotBuffer = errors.New("bind_group_provider: resource is not a buffer")

	// ErrOutOfBounds is returned when a write would reach past the element capacity of an
	// array buffer, or targets a storage array whose capacity was never declared.
	ErrOutOfBounds = errors.New("bind_group_provider: write past array capacity")
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label    string
	revision binding.Revision
	table    *binding.Table

	mu     sync.Mutex
	writes []BufferWrite
	staged int

	// capacities bounds array buffers in elements. Storage arrays must have one before
	// they can be staged; vertex buffers are bounded only when one is set.
	capacities map[binding.Resource]int

	// The following fields are GPU allocated resources owned by the renderer that consumes
	// the staged writes. They are keyed by slot in the provider's revision.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized by a renderer.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the GPU bind group layout created for this provider, or nil if not initialized by a renderer.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the GPU buffers created for this provider, keyed by slot.
	buffers map[uint32]*wgpu.Buffer
	// pending holds buffers passed through WithBuffers until the revision is known.
	pending map[binding.Resource]*wgpu.Buffer
}

// BindGroupProvider stages CPU-side buffer writes for one pipeline revision. Every write
// is validated against the revision's binding table and the byte size of the record bound
// to the target resource, then tagged with the slot the table assigns. The renderer that
// owns the GPU device drains Writes once per frame and issues the queue writes.
type BindGroupProvider interface {
	// Label returns the debug label for this provider.
	// Used for debugging and profiling purposes.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Revision returns the pipeline revision writes are validated against.
	Revision() binding.Revision

	// Stage queues a whole-buffer write for a resource.
	//
	// Uniform buffers take exactly one record. Storage and vertex buffers take a non-empty
	// array of records, no more than the resource's capacity.
	//
	// Parameters:
	//   - res: the buffer resource to write
	//   - data: the encoded record bytes
	//
	// Returns:
	//   - error: binding.ErrStaleBinding if the revision does not bind res, ErrNotBuffer for
	//     non-buffer resources, ErrSizeMismatch if data does not fit the record, ErrOutOfBounds
	//     if data holds more records than the capacity
	Stage(res binding.Resource, data []byte) error

	// StageElement queues a write of one record into an array buffer at the given element
	// index.
	//
	// Parameters:
	//   - res: a storage or vertex buffer resource
	//   - index: the element index
	//   - data: exactly one encoded record
	//
	// Returns:
	//   - error: as Stage, with ErrOutOfBounds for index >= capacity
	StageElement(res binding.Resource, index int, data []byte) error

	// SetCapacity declares the number of elements an array buffer holds.
	//
	// Parameters:
	//   - res: a storage or vertex buffer resource
	//   - n: the element count, at least 1
	//
	// Returns:
	//   - error: binding.ErrStaleBinding, ErrNotBuffer, or ErrSizeMismatch for uniform resources
	//     and non-positive counts
	SetCapacity(res binding.Resource, n int) error

	// Capacity returns the declared element capacity of an array buffer.
	Capacity(res binding.Resource) (int, bool)

	// Writes returns a copy of the staged writes in staging order.
	//
	// Returns:
	//   - []BufferWrite: the staged writes
	Writes() []BufferWrite

	// StagedBytes returns the number of bytes staged since the last Reset.
	StagedBytes() int

	// Reset discards every staged write.
	Reset()

	// Entries returns the wgpu layout entries of one bind group of the revision, with
	// minimum binding sizes taken from the bound records.
	//
	// Parameters:
	//   - group: binding.GroupBuffers, binding.GroupTextures or binding.GroupSamplers
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutEntry: the entries ordered by binding index
	Entries(group uint32) []wgpu.BindGroupLayoutEntry

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout for this provider.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the GPU buffer backing a resource, or nil if none was set.
	//
	// Parameters:
	//   - res: the buffer resource
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(res binding.Resource) *wgpu.Buffer

	// SetBindGroup sets the bind group after GPU initialization.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout after GPU initialization.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores the GPU buffer backing a resource at the resource's slot.
	//
	// Parameters:
	//   - res: the buffer resource
	//   - buf: the created buffer
	//
	// Returns:
	//   - error: binding.ErrStaleBinding if the revision does not bind res
	SetBuffer(res binding.Resource, buf *wgpu.Buffer) error

	// Release releases any GPU resources held by this provider and discards staged writes.
	Release()
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: a debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
//   - error: binding.ErrUnknownRevision, or binding.ErrStaleBinding for a buffer passed for a resource the revision lacks
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) (BindGroupProvider, error) {
	p := &bindGroupProvider{
		label:    label,
		revision: binding.LatestRevision,
		buffers:    make(map[uint32]*wgpu.Buffer),
		pending:    make(map[binding.Resource]*wgpu.Buffer),
		capacities: make(map[binding.Resource]int),
	}
	for _, opt := range options {
		opt(p)
	}

	table, err := binding.TableFor(p.revision)
	if err != nil {
		return nil, err
	}
	p.table = table

	for res, buf := range p.pending {
		if err := p.SetBuffer(res, buf); err != nil {
			return nil, err
		}
	}
	p.pending = nil

	requested := p.capacities
	p.capacities = make(map[binding.Resource]int, len(requested))
	for res, n := range requested {
		if err := p.SetCapacity(res, n); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Revision() binding.Revision {
	return p.revision
}

// recordSize resolves the slot of a buffer resource and the size of its record.
func (p *bindGroupProvider) recordSize(res binding.Resource) (uint32, int, error) {
	slot, err := p.table.Lookup(res)
	if err != nil {
		return 0, 0, err
	}
	if res.Class() != binding.ClassBuffer {
		return 0, 0, fmt.Errorf("%w: %s", ErrNotBuffer, res)
	}
	size, err := abi.RecordSize(p.revision, res)
	if err != nil {
		return 0, 0, err
	}
	return slot, int(size), nil
}

func (p *bindGroupProvider) Stage(res binding.Resource, data []byte) error {
	slot, size, err := p.recordSize(res)
	if err != nil {
		return err
	}

	switch res.Kind() {
	case binding.KindUniform:
		if len(data) != size {
			return fmt.Errorf("%w: %s takes %d bytes, got %d", ErrSizeMismatch, res, size, len(data))
		}
	default:
		if len(data) == 0 || len(data)%size != 0 {
			return fmt.Errorf("%w: %s takes a multiple of %d bytes, got %d", ErrSizeMismatch, res, size, len(data))
		}
		if err := p.checkBounds(res, len(data)/size-1); err != nil {
			return err
		}
	}

	p.push(BufferWrite{Resource: res, Slot: slot, Data: data})
	return nil
}

func (p *bindGroupProvider) StageElement(res binding.Resource, index int, data []byte) error {
	slot, size, err := p.recordSize(res)
	if err != nil {
		return err
	}
	if res.Kind() == binding.KindUniform {
		return fmt.Errorf("%w: %s is a single record", ErrSizeMismatch, res)
	}
	if index < 0 || len(data) != size {
		return fmt.Errorf("%w: %s element %d takes %d bytes, got %d", ErrSizeMismatch, res, index, size, len(data))
	}
	if err := p.checkBounds(res, index); err != nil {
		return err
	}

	p.push(BufferWrite{Resource: res, Slot: slot, Offset: uint64(index * size), Data: data})
	return nil
}

// checkBounds rejects writes reaching element last of an array buffer when last is not
// below its capacity.
func (p *bindGroupProvider) checkBounds(res binding.Resource, last int) error {
	n, ok := p.Capacity(res)
	if !ok {
		if res.Kind() == binding.KindReadOnlyStorage {
			return fmt.Errorf("%w: %s has no declared capacity", ErrOutOfBounds, res)
		}
		return nil
	}
	if last >= n {
		return fmt.Errorf("%w: %s element %d, capacity %d", ErrOutOfBounds, res, last, n)
	}
	return nil
}

func (p *bindGroupProvider) SetCapacity(res binding.Resource, n int) error {
	if _, _, err := p.recordSize(res); err != nil {
		return err
	}
	if res.Kind() == binding.KindUniform {
		return fmt.Errorf("%w: %s is a single record", ErrSizeMismatch, res)
	}
	if n < 1 {
		return fmt.Errorf("%w: %s capacity must be at least 1, got %d", ErrSizeMismatch, res, n)
	}
	p.mu.Lock()
	p.capacities[res] = n
	p.mu.Unlock()
	return nil
}

func (p *bindGroupProvider) Capacity(res binding.Resource) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.capacities[res]
	return n, ok
}

func (p *bindGroupProvider) push(w BufferWrite) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = append(p.writes, w)
	p.staged += len(w.Data)
}

func (p *bindGroupProvider) Writes() []BufferWrite {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]BufferWrite, len(p.writes))
	copy(out, p.writes)
	return out
}

func (p *bindGroupProvider) StagedBytes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.staged
}

func (p *bindGroupProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = p.writes[:0]
	p.staged = 0
}

func (p *bindGroupProvider) Entries(group uint32) []wgpu.BindGroupLayoutEntry {
	return p.table.BindGroupLayoutEntries(group, abi.MinBindingSize(p.revision))
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(res binding.Resource) *wgpu.Buffer {
	slot, ok := p.table.Slot(res)
	if !ok || res.Class() != binding.ClassBuffer {
		return nil
	}
	return p.buffers[slot]
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(res binding.Resource, buf *wgpu.Buffer) error {
	slot, err := p.table.Lookup(res)
	if err != nil {
		return err
	}
	if res.Class() != binding.ClassBuffer {
		return fmt.Errorf("%w: %s", ErrNotBuffer, res)
	}
	p.buffers[slot] = buf
	return nil
}

func (p *bindGroupProvider) Release() {
	for slot, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, slot)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	p.Reset()
}
