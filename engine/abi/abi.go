// Package abi is the versioned registry of the CPU/GPU data contract. For each
// pipeline revision it lists the wire records, generates the WGSL header shaders
// include, and checks that the Go encoders, the WGSL struct definitions and the
// binding table all agree.
package abi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/camera"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/Carmen-Shannon/oxy-abi/engine/model"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/shader"
)

var (
	// ErrUnknownRecord is returned when a revision has no record under the requested key or resource.
	ErrUnknownRecord = errors.New("abi: unknown record")

	// ErrLayoutMismatch is returned by Check when a Go record and its WGSL struct disagree.
	ErrLayoutMismatch = errors.New("abi: layout mismatch")

	// ErrBindingMismatch is returned when a WGSL declaration sits at a slot the binding table
	// assigns to a different resource.
	ErrBindingMismatch = errors.New("abi: binding mismatch")
)

// Records returns every wire record of a revision: the vertex record first, then the
// buffer records in slot order.
//
// Parameters:
//   - rev: the pipeline revision
//
// Returns:
//   - []layout.Record: the revision's records
//   - error: binding.ErrUnknownRevision for undeclared revisions
func Records(rev binding.Revision) ([]layout.Record, error) {
	vertex, err := model.VertexRecordFor(rev)
	if err != nil {
		return nil, err
	}
	switch rev {
	case binding.Revision1:
		return []layout.Record{
			vertex,
			camera.UniformsV1Record(),
			light.LightRecord(),
			camera.FragmentUniformsRecord(),
		}, nil
	default:
		return []layout.Record{
			vertex,
			camera.UniformsRecord(),
			light.LightRecord(),
			camera.FragmentUniformsRecord(),
			camera.SkyboxUniformsRecord(),
			material.MaterialRecord(),
		}, nil
	}
}

// Record looks up one record of a revision by its annotation key.
func Record(rev binding.Revision, key string) (layout.Record, error) {
	records, err := Records(rev)
	if err != nil {
		return layout.Record{}, err
	}
	for _, rec := range records {
		if rec.Key == key {
			return rec, nil
		}
	}
	return layout.Record{}, fmt.Errorf("%w: %q in %s", ErrUnknownRecord, key, rev)
}

// RecordFor returns the record uploaded to a buffer resource in a revision.
//
// Parameters:
//   - rev: the pipeline revision
//   - res: a buffer resource
//
// Returns:
//   - layout.Record: the record bound to res
//   - error: binding.ErrStaleBinding if rev does not bind res, ErrUnknownRecord if no record is uploaded to it
func RecordFor(rev binding.Revision, res binding.Resource) (layout.Record, error) {
	table, err := binding.TableFor(rev)
	if err != nil {
		return layout.Record{}, err
	}
	if _, err := table.Lookup(res); err != nil {
		return layout.Record{}, err
	}
	records, err := Records(rev)
	if err != nil {
		return layout.Record{}, err
	}
	for _, rec := range records {
		if rec.Resource == res {
			return rec, nil
		}
	}
	return layout.Record{}, fmt.Errorf("%w: nothing uploaded to %s in %s", ErrUnknownRecord, res, rev)
}

// RecordSize returns the byte size of the record uploaded to a buffer resource. For the
// vertex buffer and the light array this is the size of one element.
func RecordSize(rev binding.Revision, res binding.Resource) (uintptr, error) {
	rec, err := RecordFor(rev, res)
	if err != nil {
		return 0, err
	}
	return rec.Size, nil
}

// MinBindingSize adapts RecordSize to Table.BindGroupLayoutEntries. Resources without a
// record report 0.
func MinBindingSize(rev binding.Revision) func(binding.Resource) uint64 {
	return func(res binding.Resource) uint64 {
		size, err := RecordSize(rev, res)
		if err != nil {
			return 0
		}
		return uint64(size)
	}
}

// Constants returns the discriminator values shaders compare against, emitted by the
// constants annotation.
func Constants() []shader.Constant {
	lightTypes := []light.LightType{
		light.LightTypeUnused,
		light.LightTypeSunlight,
		light.LightTypeSpotlight,
		light.LightTypePointlight,
		light.LightTypeAmbientlight,
	}
	constants := make([]shader.Constant, 0, len(lightTypes)+2)
	for _, lt := range lightTypes {
		constants = append(constants, shader.Constant{Name: "LIGHT_TYPE_" + strings.ToUpper(lt.String()), Value: uint32(lt)})
	}
	for _, sm := range []material.ShadingModel{material.ShadingModelPhong, material.ShadingModelPBR} {
		constants = append(constants, shader.Constant{Name: "SHADING_MODEL_" + strings.ToUpper(sm.String()), Value: uint32(sm)})
	}
	return constants
}

// NewPreProcessor returns a shader pre-processor wired to the table, records and
// constants of a revision.
func NewPreProcessor(rev binding.Revision) (shader.PreProcessor, error) {
	table, err := binding.TableFor(rev)
	if err != nil {
		return nil, err
	}
	records, err := Records(rev)
	if err != nil {
		return nil, err
	}
	return shader.NewPreProcessor(table, records, Constants()), nil
}
