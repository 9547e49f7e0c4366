package layout

import (
	"encoding/binary"
	"math"
)

// PutF32 writes a float32 at off.
func PutF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
}

// PutU32 writes a uint32 at off.
func PutU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}

// PutFloats writes consecutive float32 values starting at off.
// Used for vectors and for matrices whose columns need no padding (mat4x4).
func PutFloats(buf []byte, off int, v []float32) {
	for i, f := range v {
		PutF32(buf, off+i*4, f)
	}
}

// F32At reads a float32 at off.
func F32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
}

// U32At reads a uint32 at off.
func U32At(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

// FloatsAt reads len(dst) consecutive float32 values starting at off into dst.
func FloatsAt(buf []byte, off int, dst []float32) {
	for i := range dst {
		dst[i] = F32At(buf, off+i*4)
	}
}
