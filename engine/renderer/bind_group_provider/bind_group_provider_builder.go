package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithRevision sets the pipeline revision whose binding table the provider stages against.
// Defaults to binding.LatestRevision.
//
// Parameters:
//   - rev: the pipeline revision
//
// Returns:
//   - BindGroupProviderOption: a function that sets the revision for this provider
func WithRevision(rev binding.Revision) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.revision = rev
	}
}

// WithBindGroup sets the bind group for this provider.
//
// Parameters:
//   - bg: the bind group to set for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group for this provider
func WithBindGroup(bg *wgpu.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithBindGroupLayout sets the bind group layout for this provider.
//
// Parameters:
//   - bgl: the bind group layout to use for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group layout for this provider
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithBuffers sets GPU buffers keyed by the resource they back. Resources the revision
// does not bind are rejected when the provider is created.
//
// Parameters:
//   - buffers: a map of resources to buffers
//
// Returns:
//   - BindGroupProviderOption: a function that sets multiple buffers for this provider
func WithBuffers(buffers map[binding.Resource]*wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		for res, buf := range buffers {
			p.pending[res] = buf
		}
	}
}

// WithCapacity declares the element capacity of an array buffer. Writes reaching past it
// are rejected with ErrOutOfBounds.
//
// Parameters:
//   - res: a storage or vertex buffer resource
//   - n: the number of elements the buffer holds
//
// Returns:
//   - BindGroupProviderOption: a function that sets the capacity for this provider
func WithCapacity(res binding.Resource, n int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.capacities[res] = n
	}
}
