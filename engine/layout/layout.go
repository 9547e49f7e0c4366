// Package layout describes the Go side of every wire record and provides the
// little-endian encode/decode helpers the GPU types use to marshal themselves.
package layout

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
)

// ErrShortBuffer is returned when a buffer is too small to hold the record being decoded.
var ErrShortBuffer = errors.New("layout: buffer too short")

// Field is one named member of a record as laid out in Go memory.
type Field struct {
	// Name is the WGSL member name.
	Name string

	// Offset is the byte offset of the member from the start of the record.
	Offset uintptr

	// Size is the number of bytes the member occupies, excluding trailing padding.
	Size uintptr
}

// Record describes one wire record: the WGSL struct it must match and where its
// members live in the Go struct that produces it.
type Record struct {
	// Key is the annotation argument naming the record in shader sources, e.g. "light".
	Key string

	// WGSLType is the struct name declared by Source.
	WGSLType string

	// Source is the canonical WGSL struct definition.
	Source string

	// Size is unsafe.Sizeof of the Go struct.
	Size uintptr

	// Fields lists the members in declaration order.
	Fields []Field

	// Resource is the buffer the record is uploaded to, or binding.ResourceNone for
	// records that are only included into shaders.
	Resource binding.Resource

	// Vertex marks a vertex-stage input record. Its fields are packed by vertex format
	// size rather than by WGSL host-shareable alignment.
	Vertex bool
}

// Field looks up a member by WGSL name.
func (r Record) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// CheckLen returns ErrShortBuffer if buf cannot hold size bytes.
//
// Parameters:
//   - buf: the buffer about to be decoded
//   - size: the record size in bytes
//   - what: the record name used in the error message
//
// Returns:
//   - error: nil if buf is large enough
func CheckLen(buf []byte, size int, what string) error {
	if len(buf) < size {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortBuffer, what, size, len(buf))
	}
	return nil
}
