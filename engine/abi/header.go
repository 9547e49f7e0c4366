package abi

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
)

// SamplerSuffix is appended to a texture's variable name to name its sampler in the header.
const SamplerSuffix = "_sampler"

// HeaderSource returns the annotated WGSL the header of a revision is processed from:
// the constants, every record struct, one bind per bind-group resource named after the
// resource, and one sampler per texture.
func HeaderSource(rev binding.Revision) (string, error) {
	table, err := binding.TableFor(rev)
	if err != nil {
		return "", err
	}
	records, err := Records(rev)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "// Generated by abigen for pipeline revision %s. Do not edit.\n\n", rev)
	sb.WriteString("//@oxy:constants\n\n")
	for _, rec := range records {
		fmt.Fprintf(&sb, "//@oxy:include %s\n\n", rec.Key)
	}
	for _, res := range table.Resources(binding.ClassBuffer) {
		if _, ok := binding.Group(res); !ok {
			continue
		}
		fmt.Fprintf(&sb, "//@oxy:bind %s %s\n", res.Name(), res.Name())
	}
	textures := table.Resources(binding.ClassTexture)
	for _, res := range textures {
		fmt.Fprintf(&sb, "//@oxy:bind %s %s\n", res.Name(), res.Name())
	}
	for _, res := range textures {
		fmt.Fprintf(&sb, "//@oxy:sampler %s %s%s\n", res.Name(), res.Name(), SamplerSuffix)
	}
	return sb.String(), nil
}

// Header generates the WGSL include of a revision. Shaders compiled against the header
// see every record struct and every resource declared at its table slot.
//
// Parameters:
//   - rev: the pipeline revision
//
// Returns:
//   - string: the processed WGSL header
//   - error: an error if rev is unknown or the header fails to process
func Header(rev binding.Revision) (string, error) {
	src, err := HeaderSource(rev)
	if err != nil {
		return "", err
	}
	pp, err := NewPreProcessor(rev)
	if err != nil {
		return "", err
	}
	out, err := pp.Process(src)
	if err != nil {
		return "", fmt.Errorf("abi: header %s: %w", rev, err)
	}
	return out, nil
}
