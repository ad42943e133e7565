package xwfill

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FillMarker is the character that marks a fillable cell in a structure
// description. Every other character (and short-row padding) is blocked.
const FillMarker = '_'

var ErrMalformedStructure = errors.New("malformed structure")

// Grid is the fillable-cell structure of a puzzle.
//
// It represents which cells of a rectangular board take letters. It is built
// once from a structure description and read-only thereafter.
type Grid struct {
	height   int
	width    int
	fillable [][]bool
}

// ParseStructure reads a structure description, one row per line.
func ParseStructure(r io.Reader) (*Grid, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading structure: %w", err)
	}
	return ParseStructureLines(lines)
}

// ParseStructureLines builds a Grid from the rows of a structure description.
//
// The grid's width is the longest row's length; shorter rows are padded with
// blocked cells.
func ParseStructureLines(lines []string) (*Grid, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty structure", ErrMalformedStructure)
	}

	width := 0
	for _, line := range lines {
		if len(line) > width {
			width = len(line)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: structure has no columns", ErrMalformedStructure)
	}

	fillable := make([][]bool, len(lines))
	for i, line := range lines {
		fillable[i] = make([]bool, width)
		for j, r := range line {
			fillable[i][j] = r == FillMarker
		}
	}

	return &Grid{
		height:   len(lines),
		width:    width,
		fillable: fillable,
	}, nil
}

func (g *Grid) Height() int {
	return g.height
}

func (g *Grid) Width() int {
	return g.width
}

// Fillable reports whether the cell at (row, col) takes a letter.
func (g *Grid) Fillable(row, col int) bool {
	return g.fillable[row][col]
}

func (g *Grid) DebugString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grid{width: %d, height: %d}\n", g.width, g.height)
	for i := range g.height {
		for j := range g.width {
			if g.fillable[i][j] {
				sb.WriteByte(FillMarker)
			} else {
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
