// Package frame assembles the per-frame and per-draw uniform uploads of a pipeline
// revision from a camera, the scene's lights and its draws.
package frame

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-abi/common"
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/camera"
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/Carmen-Shannon/oxy-abi/engine/profiler"
	bgp "github.com/Carmen-Shannon/oxy-abi/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrRevisionMismatch is returned when a frame was created for a different revision
	// than the assembler's.
	ErrRevisionMismatch = errors.New("frame: revision mismatch")

	// ErrClosed is returned by Assemble after Close.
	ErrClosed = errors.New("frame: assembler is closed")
)

// Drawable is anything the assembler stages a draw for.
type Drawable interface {
	// ModelMatrix returns the draw's model-to-world transform.
	ModelMatrix() mgl32.Mat4

	// Material returns the draw's material, or nil for the default material.
	Material() material.Material
}

// Shaded is implemented by drawables whose shader program uses a specific shading
// model. Other drawables use the assembler's shading model.
type Shaded interface {
	ShadingModel() material.ShadingModel
}

// assembler is the implementation of the Assembler interface.
type assembler struct {
	mu sync.Mutex

	revision      binding.Revision
	table         *binding.Table
	lightCapacity int
	overflow      light.OverflowPolicy
	tiling        uint32
	workers       int
	shadingModel  material.ShadingModel
	profiler      *profiler.Profiler

	lights          light.LightBuffer
	defaultMaterial material.Material
	pool            worker.DynamicWorkerPool
	lastDropped     int
	closed          bool
}

// Assembler builds the uploads of a frame.
//
// Per frame it packs the light array, writes the fragment uniforms and, where the
// revision binds one, the skybox uniforms. Per draw it writes the transform uniforms
// with a freshly derived normal matrix and the complete material record. Per-draw
// staging fans out over a worker pool; every write is staged before Assemble returns.
// Calls to Assemble are serialized.
type Assembler interface {
	// Revision returns the pipeline revision frames are assembled for.
	Revision() binding.Revision

	// Lights returns the light buffer the assembler packs into.
	Lights() light.LightBuffer

	// FragmentUniforms packs lights into the light array and returns the fragment
	// uniforms that describe it.
	//
	// Parameters:
	//   - cam: the frame's camera
	//   - lights: the scene's lights in order
	//
	// Returns:
	//   - camera.GPUFragmentUniforms: light count, camera position and tiling
	//   - error: light.ErrLightOverflow under the reject policy
	FragmentUniforms(cam camera.Camera, lights []light.Light) (camera.GPUFragmentUniforms, error)

	// DrawUniforms encodes the transform uniforms of one draw in the revision's record.
	// The normal matrix, where the record has one, is recomputed from model on every
	// call.
	//
	// Parameters:
	//   - cam: the frame's camera
	//   - model: the draw's model matrix
	//
	// Returns:
	//   - []byte: the encoded record
	DrawUniforms(cam camera.Camera, model mgl32.Mat4) []byte

	// Assemble resets f and stages every write of the frame into it.
	//
	// Parameters:
	//   - f: the frame to stage into, usually from Ring.Acquire
	//   - cam: the frame's camera
	//   - lights: the scene's lights in order
	//   - draws: the draws in submission order
	//
	// Returns:
	//   - error: every staging error, joined, or ErrClosed
	Assemble(f *Frame, cam camera.Camera, lights []light.Light, draws []Drawable) error

	// Close stops the worker pool. It waits for an Assemble in progress and is safe to
	// call more than once.
	Close()
}

var _ Assembler = &assembler{}

// NewAssembler creates an Assembler with the given options applied.
//
// Parameters:
//   - opts: variadic list of AssemblerBuilderOption functions
//
// Returns:
//   - Assembler: the new assembler
//   - error: for unknown revisions, invalid light capacity or shading model
func NewAssembler(opts ...AssemblerBuilderOption) (Assembler, error) {
	a := &assembler{
		revision:      binding.LatestRevision,
		lightCapacity: 16,
		overflow:      light.OverflowDrop,
		tiling:        light.DefaultTiling,
		shadingModel:  material.ShadingModelPhong,
	}
	for _, opt := range opts {
		opt(a)
	}

	table, err := binding.TableFor(a.revision)
	if err != nil {
		return nil, err
	}
	a.table = table

	if !a.shadingModel.Valid() {
		return nil, fmt.Errorf("%w: %d", material.ErrUnknownShadingModel, uint32(a.shadingModel))
	}

	a.lights, err = light.NewLightBuffer(a.lightCapacity, light.WithOverflowPolicy(a.overflow))
	if err != nil {
		return nil, err
	}
	a.defaultMaterial = material.NewMaterial()

	if a.workers > 0 {
		a.pool = worker.NewDynamicWorkerPool(a.workers, 256, 1*time.Second)
	}
	return a, nil
}

func (a *assembler) Revision() binding.Revision {
	return a.revision
}

func (a *assembler) Lights() light.LightBuffer {
	return a.lights
}

func (a *assembler) FragmentUniforms(cam camera.Camera, lights []light.Light) (camera.GPUFragmentUniforms, error) {
	if err := a.lights.Pack(lights); err != nil {
		return camera.GPUFragmentUniforms{}, err
	}
	return camera.GPUFragmentUniforms{
		LightCount:     a.lights.Count(),
		CameraPosition: cam.Position(),
		Tiling:         a.tiling,
	}, nil
}

func (a *assembler) DrawUniforms(cam camera.Camera, model mgl32.Mat4) []byte {
	view := common.Mat4Array(cam.ViewMatrix())
	projection := common.Mat4Array(cam.ProjectionMatrix())

	if a.revision == binding.Revision1 {
		u := camera.GPUUniformsV1{
			Model:      common.Mat4Array(model),
			View:       view,
			Projection: projection,
		}
		return u.Marshal()
	}
	u := camera.GPUUniforms{
		Model:        common.Mat4Array(model),
		View:         view,
		Projection:   projection,
		NormalMatrix: common.PadMat3(common.NormalMatrix(model)),
	}
	return u.Marshal()
}

func (a *assembler) Assemble(f *Frame, cam camera.Camera, lights []light.Light, draws []Drawable) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	if f.Revision() != a.revision {
		return fmt.Errorf("%w: frame is %s, assembler is %s", ErrRevisionMismatch, f.Revision(), a.revision)
	}
	if err := f.reset(len(draws)); err != nil {
		return err
	}

	if err := a.stageGlobals(f, cam, lights); err != nil {
		return err
	}

	errs := make([]error, len(draws))
	if a.pool == nil || len(draws) < 2 {
		for i, d := range draws {
			errs[i] = a.stageDraw(f.draws[i], cam, d)
		}
	} else {
		// The pool's Wait blocks until workers idle out, so a WaitGroup is the per-frame barrier.
		var wg sync.WaitGroup
		for i, d := range draws {
			wg.Add(1)
			id, draw, p := i, d, f.draws[i]
			a.pool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					defer wg.Done()
					errs[id] = a.stageDraw(p, cam, draw)
					return nil, errs[id]
				},
			})
		}
		wg.Wait()
	}
	for i, err := range errs {
		if err != nil {
			errs[i] = fmt.Errorf("draw %d: %w", i, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if a.profiler != nil {
		a.profiler.Frame(f.StagedBytes(), f.dropped)
	}
	return nil
}

func (a *assembler) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.pool != nil {
		a.pool.Stop()
		a.pool = nil
	}
}

// stageGlobals packs the light array and stages the per-frame writes.
func (a *assembler) stageGlobals(f *Frame, cam camera.Camera, lights []light.Light) error {
	fu, err := a.FragmentUniforms(cam, lights)
	if err != nil {
		return err
	}
	f.lightCount = fu.LightCount
	f.dropped = a.lights.Dropped()
	if f.dropped != a.lastDropped {
		if f.dropped > 0 {
			log.Printf("[Assembler] %d active lights exceed capacity %d, dropped %d", int(fu.LightCount)+f.dropped, a.lights.Capacity(), f.dropped)
		}
		a.lastDropped = f.dropped
	}

	if err := f.globals.SetCapacity(binding.ResourceLights, a.lights.Capacity()); err != nil {
		return err
	}
	if err := f.globals.Stage(binding.ResourceLights, a.lights.Bytes()); err != nil {
		return err
	}
	if err := f.globals.Stage(binding.ResourceFragmentUniforms, fu.Marshal()); err != nil {
		return err
	}
	if a.table.Has(binding.ResourceSkybox) {
		sky := camera.GPUSkyboxUniforms{
			ViewProjection: common.Mat4Array(common.SkyboxViewProjection(cam.ViewMatrix(), cam.ProjectionMatrix())),
		}
		if err := f.globals.Stage(binding.ResourceSkybox, sky.Marshal()); err != nil {
			return err
		}
	}
	return nil
}

// stageDraw stages the transform uniforms and, where the revision binds one, the
// material record of a single draw.
func (a *assembler) stageDraw(p bgp.BindGroupProvider, cam camera.Camera, d Drawable) error {
	if err := p.Stage(binding.ResourceUniforms, a.DrawUniforms(cam, d.ModelMatrix())); err != nil {
		return err
	}
	if !a.table.Has(binding.ResourceMaterial) {
		return nil
	}

	m := d.Material()
	if m == nil {
		m = a.defaultMaterial
	}
	model := a.shadingModel
	if s, ok := d.(Shaded); ok {
		model = s.ShadingModel()
	}
	sel := material.NewSelector()
	if err := sel.Bind(model); err != nil {
		return err
	}
	rec, err := sel.Write(m)
	if err != nil {
		return err
	}
	return p.Stage(binding.ResourceMaterial, rec)
}
