package bind_group_provider

import "github.com/Carmen-Shannon/oxy-abi/engine/binding"

// BufferWrite describes a single GPU buffer write staged on a BindGroupProvider. Slot is
// the resource's binding index in the provider's revision at the time of staging, so a
// consumer never looks the slot up again.
type BufferWrite struct {
	Resource binding.Resource
	Slot     uint32
	Offset   uint64
	Data     []byte
}
