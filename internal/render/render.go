// Package render provides a debug PNG rasterizer for board positions, used
// by cmd/mctsviz alongside its Graphviz dump. Grounded on the domain-stack
// wiring for github.com/golang/freetype + golang.org/x/image (glyph
// rendering for cell labels) named in SPEC_FULL.md's DOMAIN STACK table.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mnkzero/mnkzero/internal/board"
)

const cellPixels = 48

// Options controls the rasterized image's appearance.
type Options struct {
	// Background/grid/stone colors; zero values fall back to sane defaults
	// via WithDefaults.
	Background, Grid, Stone0, Stone1 color.Color
}

// WithDefaults fills any unset colors with a plain light board/black-white
// stones palette.
func (o Options) WithDefaults() Options {
	if o.Background == nil {
		o.Background = color.RGBA{0xde, 0xb8, 0x87, 0xff}
	}
	if o.Grid == nil {
		o.Grid = color.Black
	}
	if o.Stone0 == nil {
		o.Stone0 = color.Black
	}
	if o.Stone1 == nil {
		o.Stone1 = color.White
	}
	return o
}

// PNG rasterizes b to a PNG image and writes it to w, labeling each
// occupied cell's row/column with freetype-rendered text so a human
// reviewing cmd/mctsviz output can cross-reference the Graphviz dump.
func PNG(b board.Board, opts Options, w io.Writer) error {
	opts = opts.WithDefaults()
	size := b.Size()
	dim := size * cellPixels

	img := image.NewRGBA(image.Rect(0, 0, dim, dim))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opts.Background}, image.Point{}, draw.Src)
	drawGrid(img, size, opts.Grid)

	face, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	ctx := freetype.NewContext()
	ctx.SetFont(face)
	ctx.SetFontSize(14)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.Black)

	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			occ := b.Occupant(x, y)
			if occ < 0 {
				continue
			}
			stoneColor := opts.Stone0
			label := "X"
			if occ == 1 {
				stoneColor = opts.Stone1
				label = "O"
			}
			drawStone(img, x, y, stoneColor)
			pt := freetype.Pt(y*cellPixels+cellPixels/3, x*cellPixels+2*cellPixels/3)
			_, _ = ctx.DrawString(label, pt)
		}
	}

	return png.Encode(w, img)
}

func drawGrid(img *image.RGBA, size int, c color.Color) {
	dim := size * cellPixels
	for i := 0; i <= size; i++ {
		y := i * cellPixels
		if y >= dim {
			y = dim - 1
		}
		for x := 0; x < dim; x++ {
			img.Set(x, y, c)
		}
		x := i * cellPixels
		if x >= dim {
			x = dim - 1
		}
		for y := 0; y < dim; y++ {
			img.Set(x, y, c)
		}
	}
}

func drawStone(img *image.RGBA, x, y int, c color.Color) {
	cx, cy := y*cellPixels+cellPixels/2, x*cellPixels+cellPixels/2
	r := cellPixels/2 - 4
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}
