package frame

import (
	"github.com/Carmen-Shannon/oxy-abi/common"
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/config"
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/Carmen-Shannon/oxy-abi/engine/profiler"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
)

// AssemblerBuilderOption is a function that configures an Assembler during construction.
type AssemblerBuilderOption func(*assembler)

// WithRevision sets the pipeline revision frames are assembled for.
// Defaults to binding.LatestRevision.
func WithRevision(rev binding.Revision) AssemblerBuilderOption {
	return func(a *assembler) {
		a.revision = rev
	}
}

// WithLightCapacity sets the number of slots in the light array.
//
// Parameters:
//   - capacity: the light array length, at least 1
//
// Returns:
//   - AssemblerBuilderOption: a function that applies the capacity
func WithLightCapacity(capacity int) AssemblerBuilderOption {
	return func(a *assembler) {
		a.lightCapacity = capacity
	}
}

// WithOverflowPolicy sets what happens when more lights are active than fit.
func WithOverflowPolicy(policy light.OverflowPolicy) AssemblerBuilderOption {
	return func(a *assembler) {
		a.overflow = policy
	}
}

// WithTiling sets the tiling factor written into the fragment uniforms.
// A value of 0 keeps light.DefaultTiling.
func WithTiling(tiling uint32) AssemblerBuilderOption {
	return func(a *assembler) {
		a.tiling = common.Coalesce(tiling, a.tiling)
	}
}

// WithWorkers sets the size of the worker pool per-draw staging fans out over.
// 0 stages draws on the calling goroutine.
//
// Parameters:
//   - workers: the number of pool workers
//
// Returns:
//   - AssemblerBuilderOption: a function that applies the worker count
func WithWorkers(workers int) AssemblerBuilderOption {
	return func(a *assembler) {
		a.workers = max(workers, 0)
	}
}

// WithProfiler reports every assembled frame to p.
func WithProfiler(p *profiler.Profiler) AssemblerBuilderOption {
	return func(a *assembler) {
		a.profiler = p
	}
}

// WithShadingModel sets the shading model materials are written under for draws that
// do not carry their own.
// Defaults to material.ShadingModelPhong.
func WithShadingModel(model material.ShadingModel) AssemblerBuilderOption {
	return func(a *assembler) {
		a.shadingModel = model
	}
}

// WithConfig applies the revision, light capacity, overflow policy, tiling and worker
// count of a loaded configuration. Profiling attaches a default profiler when none is set.
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - AssemblerBuilderOption: a function that applies the configuration
func WithConfig(cfg config.Config) AssemblerBuilderOption {
	return func(a *assembler) {
		a.revision = cfg.BindingRevision()
		a.lightCapacity = cfg.LightCapacity
		a.overflow = cfg.OverflowPolicy()
		a.tiling = common.Coalesce(cfg.Tiling, a.tiling)
		a.workers = max(cfg.Workers, 0)
		if cfg.Profiling && a.profiler == nil {
			a.profiler = profiler.NewProfiler()
		}
	}
}
