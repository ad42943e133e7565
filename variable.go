package xwfill

import "fmt"

// Direction is an enum representing the direction of a slot in a grid, either 'Across' or 'Down'.
type Direction int

const (
	DirectionAcross Direction = iota
	DirectionDown
)

func (d Direction) String() string {
	if d == DirectionDown {
		return "down"
	}
	return "across"
}

// Cell is a (row, column) coordinate in a grid.
type Cell struct {
	Row int
	Col int
}

// Slot is a maximal run of fillable cells that a single word occupies.
//
// It is a value type: two slots are equal iff their start, direction and
// length all match, so a Slot can be used directly as a map key.
type Slot struct {
	Row    int
	Col    int
	Dir    Direction
	Length int
}

// CellAt returns the k-th cell covered by the slot.
func (s Slot) CellAt(k int) Cell {
	if s.Dir == DirectionDown {
		return Cell{Row: s.Row + k, Col: s.Col}
	}
	return Cell{Row: s.Row, Col: s.Col + k}
}

// Cells returns the ordered sequence of cells covered by the slot.
func (s Slot) Cells() []Cell {
	cells := make([]Cell, s.Length)
	for k := range cells {
		cells[k] = s.CellAt(k)
	}
	return cells
}

func (s Slot) String() string {
	return fmt.Sprintf("(%d, %d) %s : %d", s.Row, s.Col, s.Dir, s.Length)
}

// compareSlots orders slots by their natural key (row, column, direction,
// length). Used as the final deterministic tie-break everywhere slot order
// matters.
func compareSlots(a, b Slot) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	if a.Col != b.Col {
		return a.Col - b.Col
	}
	if a.Dir != b.Dir {
		return int(a.Dir) - int(b.Dir)
	}
	return a.Length - b.Length
}
