package ebmonitor

import (
	"golang.org/x/exp/constraints"
)

// Grid selects one of the two occupancy maps of a supermodule.
type Grid int

const (
	MainGrid Grid = iota
	MemGrid
)

func (g Grid) String() string {
	switch g {
	case MainGrid:
		return "main"
	case MemGrid:
		return "MEM"
	default:
		return "unknown"
	}
}

// Main grid: 85 x 20 crystals, MEM grid: 10 diodes x 5 channels in strip.
const (
	MainGridXBins = CrystalsInEta
	MainGridYBins = CrystalsInPhi
	MemGridXBins  = PnDiodesPerMem
	MemGridYBins  = ChannelsPerStrip
)

// ChannelPosition converts a crystal number into its 1-based (row, column)
// inside the supermodule grid.
func ChannelPosition(ic int) (int, int) {
	row := (ic-1)/CrystalsInPhi + 1
	col := (ic-1)%CrystalsInPhi + 1
	return row, col
}

// BinCenter returns the center of the cell with the given 1-based index.
func BinCenter(index int) float32 {
	return float32(index) - 0.5
}

// InsideMainGrid reports whether (x, y) lies strictly inside the main grid.
func InsideMainGrid(x, y float32) bool {
	return insideOpen(x, 0, MainGridXBins) && insideOpen(y, 0, MainGridYBins)
}

func insideOpen[T constraints.Integer | constraints.Float](v, lo, hi T) bool {
	return v > lo && v < hi
}

// MapMainChannel resolves a crystal to its supermodule and the bin center
// (x, y) to fill in that supermodule's occupancy map.
func MapMainChannel(geometry Geometry, id EBDetID) (int, float32, float32, error) {
	ism, err := geometry.SupermoduleIndexOf(id.Raw())
	if err != nil {
		return 0, 0, 0, err
	}
	row, col := ChannelPosition(id.IC())
	return ism, BinCenter(row), BinCenter(col), nil
}

// MapAuxiliaryChannel resolves a PN diode to its supermodule and diode index.
// Expanding the diode into its channels in strip is left to the caller.
func MapAuxiliaryChannel(geometry Geometry, id PnDiodeDetID) (int, int, error) {
	ism, err := geometry.SupermoduleIndexOf(id.Raw())
	if err != nil {
		return 0, 0, err
	}
	return ism, id.IPnID(), nil
}
