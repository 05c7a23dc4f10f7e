package model

import "cmp"

// Coord addresses one cell of a room's grid.  X is the row index and Y the
// column index, both zero based.
type Coord struct {
	X int `json:"pos_x"`
	Y int `json:"pos_y"`
}

// Compare orders coordinates by row, then by column.
func (c Coord) Compare(o Coord) int {
	if n := cmp.Compare(c.X, o.X); n != 0 {
		return n
	}
	return cmp.Compare(c.Y, o.Y)
}

// Distance is the Manhattan distance between two cells.
func (c Coord) Distance(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
