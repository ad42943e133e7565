package xwfill

import (
	"errors"
	"fmt"
	"slices"
)

var ErrMultiCellOverlap = errors.New("overlapping slots share more than one cell")

// Overlap records where two slots intersect: the first slot's X-th cell is
// the second slot's Y-th cell.
type Overlap struct {
	X int
	Y int
}

type slotPair struct {
	a, b Slot
}

// Crossword is the constraint graph of a puzzle: the set of slots derived
// from a Grid, plus the overlap relation between every ordered pair of
// distinct slots. It is immutable after construction.
type Crossword struct {
	grid      *Grid
	slots     []Slot
	overlaps  map[slotPair]Overlap
	neighbors map[Slot][]Slot
}

// BuildCrossword scans a grid for slots and computes their overlaps.
//
// A slot is a maximal horizontal or vertical run of at least two fillable
// cells. Orthogonal across/down runs in a rectangular grid can only ever
// cross at a single cell; BuildCrossword fails with ErrMultiCellOverlap if a
// pair of slots turns out to share more than one, rather than picking one.
func BuildCrossword(grid *Grid) (*Crossword, error) {
	var slots []Slot
	for i := range grid.Height() {
		for j := range grid.Width() {
			if !grid.Fillable(i, j) {
				continue
			}

			// A down run starts here if the cell above is missing or blocked.
			if i == 0 || !grid.Fillable(i-1, j) {
				length := 1
				for k := i + 1; k < grid.Height() && grid.Fillable(k, j); k++ {
					length++
				}
				if length > 1 {
					slots = append(slots, Slot{Row: i, Col: j, Dir: DirectionDown, Length: length})
				}
			}

			// Likewise for an across run and the cell to the left.
			if j == 0 || !grid.Fillable(i, j-1) {
				length := 1
				for k := j + 1; k < grid.Width() && grid.Fillable(i, k); k++ {
					length++
				}
				if length > 1 {
					slots = append(slots, Slot{Row: i, Col: j, Dir: DirectionAcross, Length: length})
				}
			}
		}
	}
	slices.SortFunc(slots, compareSlots)

	overlaps := make(map[slotPair]Overlap)
	neighbors := make(map[Slot][]Slot, len(slots))
	for _, a := range slots {
		for _, b := range slots {
			if a == b {
				continue
			}
			overlap, count := intersect(a, b)
			if count == 0 {
				continue
			}
			if count > 1 {
				return nil, fmt.Errorf("%w: %s and %s share %d cells", ErrMultiCellOverlap, a, b, count)
			}
			overlaps[slotPair{a, b}] = overlap
			neighbors[a] = append(neighbors[a], b)
		}
	}

	return &Crossword{
		grid:      grid,
		slots:     slots,
		overlaps:  overlaps,
		neighbors: neighbors,
	}, nil
}

// intersect returns the unique overlap of two slots along with how many
// cells they actually share.
func intersect(a, b Slot) (Overlap, int) {
	count := 0
	var overlap Overlap
	for ia, cell := range a.Cells() {
		for ib, other := range b.Cells() {
			if cell == other {
				overlap = Overlap{X: ia, Y: ib}
				count++
			}
		}
	}
	return overlap, count
}

func (c *Crossword) Grid() *Grid {
	return c.grid
}

// Slots returns all slots in natural (row, column, direction) order.
//
// Callers must not mutate the returned slice.
func (c *Crossword) Slots() []Slot {
	return c.slots
}

// Overlap returns where a's and b's cell sequences cross, if they do.
func (c *Crossword) Overlap(a, b Slot) (Overlap, bool) {
	o, ok := c.overlaps[slotPair{a, b}]
	return o, ok
}

// Neighbors returns the slots overlapping s, in natural order.
//
// Callers must not mutate the returned slice.
func (c *Crossword) Neighbors(s Slot) []Slot {
	return c.neighbors[s]
}
