package light

import "math"

// DefaultTiling is the default tiling factor: the edge length in pixels of each
// screen-space tile the lighting loop culls against.
const DefaultTiling uint32 = 16

// TileCounts computes the number of tiles in each dimension for a given screen
// resolution and tiling factor. A partial tile at the right or bottom edge counts as
// a full tile. A tiling of 0 is treated as DefaultTiling.
//
// Parameters:
//   - screenWidth: screen width in pixels
//   - screenHeight: screen height in pixels
//   - tiling: tile edge length in pixels
//
// Returns:
//   - tileCountX: number of tile columns
//   - tileCountY: number of tile rows
func TileCounts(screenWidth, screenHeight int, tiling uint32) (tileCountX, tileCountY uint32) {
	if tiling == 0 {
		tiling = DefaultTiling
	}
	if screenWidth <= 0 || screenHeight <= 0 {
		return 0, 0
	}
	return tilesAlong(screenWidth, tiling), tilesAlong(screenHeight, tiling)
}

// tilesAlong divides a screen extent into tiles, rounding up, in 64-bit arithmetic so
// large tiling factors cannot wrap.
func tilesAlong(extent int, tiling uint32) uint32 {
	n := (uint64(extent) + uint64(tiling) - 1) / uint64(tiling)
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
