package xwfill

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LetterGrid lays an assignment out cell by cell. Blocked cells hold zero;
// a fillable cell takes its letter from whichever slot covering it is
// assigned (crossing slots agree there by construction).
func (c *Crossword) LetterGrid(assignment Assignment) [][]rune {
	letters := make([][]rune, c.grid.Height())
	for i := range letters {
		letters[i] = make([]rune, c.grid.Width())
	}
	for slot, word := range assignment {
		for k, r := range word {
			cell := slot.CellAt(k)
			letters[cell.Row][cell.Col] = r
		}
	}
	return letters
}

// Render returns a terminal representation of the filled puzzle: one row per
// line, blocked cells as full blocks, unassigned fillable cells as spaces.
func (c *Crossword) Render(assignment Assignment) string {
	letters := c.LetterGrid(assignment)
	var sb strings.Builder
	for i := range c.grid.Height() {
		for j := range c.grid.Width() {
			switch {
			case !c.grid.Fillable(i, j):
				sb.WriteRune('█')
			case letters[i][j] != 0:
				sb.WriteRune(letters[i][j])
			default:
				sb.WriteByte(' ')
			}
		}
		if i < c.grid.Height()-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

const (
	imageCellSize   = 100
	imageCellBorder = 2
)

// SaveImage writes the filled puzzle as a PNG: black canvas, white fillable
// cells with a 2px border, centered black letters.
func (c *Crossword) SaveImage(assignment Assignment, filename string) error {
	img := c.drawImage(assignment)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	return f.Close()
}

func (c *Crossword) drawImage(assignment Assignment) *image.RGBA {
	letters := c.LetterGrid(assignment)

	img := image.NewRGBA(image.Rect(0, 0, c.grid.Width()*imageCellSize, c.grid.Height()*imageCellSize))
	xdraw.Draw(img, img.Bounds(), image.Black, image.Point{}, xdraw.Src)

	for i := range c.grid.Height() {
		for j := range c.grid.Width() {
			if !c.grid.Fillable(i, j) {
				continue
			}
			cell := image.Rect(
				j*imageCellSize+imageCellBorder,
				i*imageCellSize+imageCellBorder,
				(j+1)*imageCellSize-imageCellBorder,
				(i+1)*imageCellSize-imageCellBorder,
			)
			xdraw.Draw(img, cell, image.White, image.Point{}, xdraw.Src)

			if letters[i][j] != 0 {
				drawLetter(img, cell, letters[i][j])
			}
		}
	}
	return img
}

// drawLetter rasterizes one glyph at the basicfont's native size and scales
// it up into the cell interior, leaving a margin around it.
func drawLetter(dst *image.RGBA, cell image.Rectangle, letter rune) {
	face := basicfont.Face7x13
	glyph := image.NewRGBA(image.Rect(0, 0, face.Advance, face.Height))

	d := &font.Drawer{
		Dst:  glyph,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(string(letter))

	margin := cell.Dx() / 4
	target := cell.Inset(margin)
	xdraw.NearestNeighbor.Scale(dst, target, glyph, glyph.Bounds(), xdraw.Over, nil)
}
