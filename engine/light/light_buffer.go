package light

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrLightOverflow is returned by Pack under OverflowReject when more lights are
	// active than the buffer holds.
	ErrLightOverflow = errors.New("light: active lights exceed capacity")

	// ErrInvalidCapacity is returned when a LightBuffer is created with no slots.
	ErrInvalidCapacity = errors.New("light: capacity must be at least 1")

	// ErrSlotOutOfRange is returned by Slot for indices outside the buffer.
	ErrSlotOutOfRange = errors.New("light: slot out of range")

	// ErrUnknownOverflowPolicy is returned for policy names outside the declared set.
	ErrUnknownOverflowPolicy = errors.New("light: unknown overflow policy")
)

// OverflowPolicy decides what Pack does when more lights are active than fit.
type OverflowPolicy int

const (
	// OverflowDrop keeps the highest priority lights and counts the rest as dropped.
	OverflowDrop OverflowPolicy = iota

	// OverflowReject fails the pack and leaves the previous contents in place.
	OverflowReject
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowDrop:
		return "drop"
	case OverflowReject:
		return "reject"
	default:
		return fmt.Sprintf("overflow_policy(%d)", int(p))
	}
}

// ParseOverflowPolicy resolves a policy from its name. An empty name selects OverflowDrop.
func ParseOverflowPolicy(name string) (OverflowPolicy, error) {
	switch name {
	case "", "drop":
		return OverflowDrop, nil
	case "reject":
		return OverflowReject, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOverflowPolicy, name)
	}
}

// LightBufferOption is a function that configures a LightBuffer during construction.
type LightBufferOption func(*lightBuffer)

// WithOverflowPolicy sets the policy applied when active lights exceed capacity.
func WithOverflowPolicy(policy OverflowPolicy) LightBufferOption {
	return func(b *lightBuffer) {
		b.policy = policy
	}
}

// lightBuffer is the implementation of the LightBuffer interface.
type lightBuffer struct {
	mu       sync.RWMutex
	capacity int
	policy   OverflowPolicy
	data     []byte
	count    uint32
	dropped  int
}

// LightBuffer is the CPU staging copy of the fixed-capacity light array.
//
// The array always holds exactly Capacity records. Pack writes the active lights to
// the front and fills every trailing slot with an unused record, so the count written
// alongside it and the first unused slot always agree.
type LightBuffer interface {
	// Pack replaces the contents with the active lights from lights.
	//
	// Parameters:
	//   - lights: the frame's lights in scene order; disabled and unused lights are skipped
	//
	// Returns:
	//   - error: ErrLightOverflow under OverflowReject when too many lights are active
	Pack(lights []Light) error

	// Count returns the number of packed lights, the value written as light_count.
	Count() uint32

	// Dropped returns how many active lights the last Pack left out.
	Dropped() int

	// Capacity returns the number of slots in the array.
	Capacity() int

	// Policy returns the configured overflow policy.
	Policy() OverflowPolicy

	// Bytes returns a copy of the packed array, Capacity*96 bytes long.
	Bytes() []byte

	// Slot decodes the record at index i.
	//
	// Parameters:
	//   - i: the slot index
	//
	// Returns:
	//   - GPULight: the decoded record
	//   - error: ErrSlotOutOfRange if i is outside the array
	Slot(i int) (GPULight, error)
}

var _ LightBuffer = &lightBuffer{}

// NewLightBuffer creates a LightBuffer with capacity slots, all initially unused.
//
// Parameters:
//   - capacity: the number of light slots, at least 1
//   - opts: variadic list of LightBufferOption functions
//
// Returns:
//   - LightBuffer: the new buffer
//   - error: ErrInvalidCapacity if capacity is below 1
func NewLightBuffer(capacity int, opts ...LightBufferOption) (LightBuffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	var g GPULight
	b := &lightBuffer{
		capacity: capacity,
		policy:   OverflowDrop,
		data:     make([]byte, capacity*g.Size()),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *lightBuffer) Pack(lights []Light) error {
	active := make([]Light, 0, len(lights))
	for _, l := range lights {
		if Active(l) {
			active = append(active, l)
		}
	}

	dropped := 0
	if len(active) > b.capacity {
		if b.policy == OverflowReject {
			return fmt.Errorf("%w: %d active, capacity %d", ErrLightOverflow, len(active), b.capacity)
		}
		dropped = len(active) - b.capacity
		active = selectByPriority(active, b.capacity)
	}

	var g GPULight
	stride := g.Size()
	data := make([]byte, len(b.data))
	for i, l := range active {
		gl := ToGPULight(l)
		gl.marshalInto(data[i*stride:])
	}
	// Trailing slots stay zero, which decodes as LightTypeUnused.

	b.mu.Lock()
	b.data = data
	b.count = uint32(len(active))
	b.dropped = dropped
	b.mu.Unlock()
	return nil
}

// selectByPriority keeps the n highest priority lights, ties broken by input order,
// and returns them in input order.
func selectByPriority(active []Light, n int) []Light {
	idx := make([]int, len(active))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return active[b].Priority() - active[a].Priority()
	})
	idx = idx[:n]
	slices.Sort(idx)

	kept := make([]Light, n)
	for i, j := range idx {
		kept[i] = active[j]
	}
	return kept
}

func (b *lightBuffer) Count() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

func (b *lightBuffer) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

func (b *lightBuffer) Capacity() int {
	return b.capacity
}

func (b *lightBuffer) Policy() OverflowPolicy {
	return b.policy
}

func (b *lightBuffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.data)
}

func (b *lightBuffer) Slot(i int) (GPULight, error) {
	var g GPULight
	if i < 0 || i >= b.capacity {
		return g, fmt.Errorf("%w: %d not in [0, %d)", ErrSlotOutOfRange, i, b.capacity)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	err := g.Unmarshal(b.data[i*g.Size():])
	return g, err
}
