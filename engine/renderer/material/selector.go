package material

import (
	"fmt"
	"sync"
)

// activeFields lists, per shading model, the Material members the shader reads.
// shading_model itself is read by both.
var activeFields = map[ShadingModel][]string{
	ShadingModelPhong: {"base_color", "specular_color", "shininess", "shading_model"},
	ShadingModelPBR:   {"base_color", "roughness", "metallic", "shading_model"},
}

// ActiveFields returns the Material members meaningful under a shading model.
// Unknown models return an empty list.
func ActiveFields(model ShadingModel) []string {
	fields := activeFields[model]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// selector is the implementation of the Selector interface.
type selector struct {
	mu       sync.Mutex
	bound    ShadingModel
	switches int
}

// Selector tracks the shading model of the currently bound shader program and stamps
// it into every material record it writes.
//
// Records are only ever produced whole: Write emits every member of the 48-byte
// layout, so a buffer reused across a program switch within a frame never keeps bytes
// written under the previous model.
type Selector interface {
	// Bind records the shading model of the shader program about to be bound.
	//
	// Parameters:
	//   - model: the program's shading model
	//
	// Returns:
	//   - error: ErrUnknownShadingModel for undeclared models
	Bind(model ShadingModel) error

	// Bound returns the currently bound shading model, or 0 if none.
	Bound() ShadingModel

	// Write produces the complete record for a material under the bound shading model.
	//
	// Parameters:
	//   - m: the material to serialize
	//
	// Returns:
	//   - []byte: the 48-byte record
	//   - error: ErrNoShadingModel if Bind has not been called
	Write(m Material) ([]byte, error)

	// Switches returns how many times the bound model has changed.
	Switches() int
}

var _ Selector = &selector{}

// NewSelector creates a Selector with no shading model bound.
func NewSelector() Selector {
	return &selector{}
}

func (s *selector) Bind(model ShadingModel) error {
	if !model.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownShadingModel, uint32(model))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound != 0 && s.bound != model {
		s.switches++
	}
	s.bound = model
	return nil
}

func (s *selector) Bound() ShadingModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

func (s *selector) Write(m Material) ([]byte, error) {
	s.mu.Lock()
	model := s.bound
	s.mu.Unlock()

	if model == 0 {
		return nil, ErrNoShadingModel
	}
	rec := m.GPU(model)
	return rec.Marshal(), nil
}

func (s *selector) Switches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switches
}
