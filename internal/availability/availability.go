// Package availability computes which cells of a room can still be offered
// given the seats already taken and a minimum Manhattan distance between any
// offered cell and every taken seat.  Everything here is pure: the same
// input always yields the same, identically ordered output.
package availability

import (
	"slices"

	"github.com/iliyamo/room-seat-reservation/internal/model"
)

// Compute returns the cells of a rows x cols grid that are not in occupied
// and are at least minDistance away from every occupied cell, ordered by
// row then column.  Occupied coordinates outside the grid are ignored.
// A negative minDistance behaves like zero and one beyond the grid's
// diameter behaves like ClampDistance(rows, cols, minDistance).
func Compute(rows, cols int, occupied []model.Coord, minDistance int) []model.Coord {
	if rows <= 0 || cols <= 0 {
		return []model.Coord{}
	}
	minDistance = ClampDistance(rows, cols, minDistance)

	taken := make([]bool, rows*cols)
	occ := make([]model.Coord, 0, len(occupied))
	for _, o := range occupied {
		if o.X < 0 || o.Y < 0 || o.X >= rows || o.Y >= cols || taken[o.X*cols+o.Y] {
			continue
		}
		taken[o.X*cols+o.Y] = true
		occ = append(occ, o)
	}

	// Nothing taken: the whole grid is free whatever the distance.
	if len(occ) == 0 {
		return collect(rows, cols, func(int) bool { return true })
	}
	// Fully occupied: nothing to offer.
	if len(occ) == rows*cols {
		return []model.Coord{}
	}
	// Zero distance only excludes the taken cells themselves.
	if minDistance == 0 {
		return collect(rows, cols, func(i int) bool { return !taken[i] })
	}

	// far[i] stays true while cell i clears every occupant seen so far, which
	// is the running intersection of the per-occupant qualifying sets.
	far := make([]bool, rows*cols)
	for i := range far {
		far[i] = !taken[i]
	}
	for _, o := range occ {
		clearTooClose(far, rows, cols, o, minDistance)
	}
	return collect(rows, cols, func(i int) bool { return far[i] })
}

// ClampDistance bounds minDistance to [0, rows+cols-1].  Two cells of a
// rows x cols grid are at most rows+cols-2 apart, so every larger distance
// yields the same availability set as rows+cols-1.
func ClampDistance(rows, cols, minDistance int) int {
	if minDistance < 0 {
		return 0
	}
	if hi := rows + cols - 1; hi > 0 && minDistance > hi {
		return hi
	}
	return minDistance
}

// clearTooClose removes from far every cell closer than minDistance to o.
// For row x with dx = |x - o.x| < minDistance only the columns
// y <= o.y-(minDistance-dx) and y >= o.y+(minDistance-dx) qualify, so the
// open interval between them is cleared.
func clearTooClose(far []bool, rows, cols int, o model.Coord, minDistance int) {
	lo := max(0, o.X-minDistance+1)
	hi := min(rows-1, o.X+minDistance-1)
	for x := lo; x <= hi; x++ {
		dx := o.X - x
		if dx < 0 {
			dx = -dx
		}
		reach := minDistance - dx
		from := max(0, o.Y-reach+1)
		to := min(cols-1, o.Y+reach-1)
		for y := from; y <= to; y++ {
			far[x*cols+y] = false
		}
	}
}

func collect(rows, cols int, keep func(i int) bool) []model.Coord {
	out := make([]model.Coord, 0, rows*cols)
	for x := 0; x < rows; x++ {
		for y := 0; y < cols; y++ {
			if keep(x*cols + y) {
				out = append(out, model.Coord{X: x, Y: y})
			}
		}
	}
	return out
}

// Contains reports whether c is a member of a set returned by Compute.
func Contains(set []model.Coord, c model.Coord) bool {
	_, ok := slices.BinarySearchFunc(set, c, model.Coord.Compare)
	return ok
}
