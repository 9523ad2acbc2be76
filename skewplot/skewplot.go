/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// Package skewplot draws a skew array as a PNG line plot, marking the
// minimum.
package skewplot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"

	"github.com/wtsi-hgi/oric-finder/skew"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrRender = Error("failed to render skew plot")

	DefaultMaxPoints = 2000
	DefaultWidth     = 8 * vg.Inch
	DefaultHeight    = 3 * vg.Inch

	imageFormat  = "png"
	lineWidth    = 1.2
	markerRadius = 3
)

var (
	lineColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	fillColor   = color.RGBA{R: 31, G: 119, B: 180, A: 18}
	markerColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Options control the size of the plot and how much it is downsampled.
type Options struct {
	// MaxPoints is the most points the line will be drawn with; longer
	// arrays are sampled at a regular stride. 0 means DefaultMaxPoints.
	MaxPoints int

	// Width and Height default to DefaultWidth and DefaultHeight.
	Width  vg.Length
	Height vg.Length
}

func (o Options) withDefaults() Options {
	if o.MaxPoints < 1 {
		o.MaxPoints = DefaultMaxPoints
	}

	if o.Width <= 0 {
		o.Width = DefaultWidth
	}

	if o.Height <= 0 {
		o.Height = DefaultHeight
	}

	return o
}

// Plot is a rendered skew plot.
type Plot struct {
	PNG []byte
}

// Base64 returns the PNG encoded as standard base64 text.
func (p *Plot) Base64() string {
	return base64.StdEncoding.EncodeToString(p.PNG)
}

// Render draws a as a line of skew against position, with a marker at its
// leftmost minimum.
//
// Returns an error wrapping ErrRender if the plot can't be drawn.
func Render(a skew.Array, opts Options) (*Plot, error) {
	if len(a) == 0 {
		return nil, fmt.Errorf("%w: no skew values", ErrRender)
	}

	opts = opts.withDefaults()

	p := plot.New()
	p.Title.Text = "GC skew"
	p.X.Label.Text = "Position (bp)"
	p.Y.Label.Text = "Skew (G - C)"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(sample(a, opts.MaxPoints))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	line.LineStyle.Width = vg.Points(lineWidth)
	line.LineStyle.Color = lineColor
	line.FillColor = fillColor

	minValue, positions := a.Min()

	marker, err := plotter.NewScatter(plotter.XYs{{X: float64(positions[0]), Y: float64(minValue)}})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	marker.GlyphStyle.Color = markerColor
	marker.GlyphStyle.Radius = vg.Points(markerRadius)
	marker.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(line, marker)
	p.Legend.Add("skew", line)
	p.Legend.Add(fmt.Sprintf("minimum (%d at %d)", minValue, positions[0]), marker)

	return encode(p, opts)
}

func encode(p *plot.Plot, opts Options) (*Plot, error) {
	wt, err := p.WriterTo(opts.Width, opts.Height, imageFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	var buf bytes.Buffer

	if _, err = wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return &Plot{PNG: buf.Bytes()}, nil
}

// sample returns the points to draw for a. All points are used when there are
// no more than maxPoints; otherwise every Nth is taken, plus the last.
func sample(a skew.Array, maxPoints int) plotter.XYs {
	stride := Stride(len(a), maxPoints)
	xys := make(plotter.XYs, 0, len(a)/stride+1)

	for i := 0; i < len(a); i += stride {
		xys = append(xys, plotter.XY{X: float64(i), Y: float64(a[i])})
	}

	if last := len(a) - 1; last%stride != 0 {
		xys = append(xys, plotter.XY{X: float64(last), Y: float64(a[last])})
	}

	return xys
}

// Stride returns the sampling step used for n points when drawing at most
// maxPoints of them.
func Stride(n, maxPoints int) int {
	if maxPoints < 1 || n <= maxPoints {
		return 1
	}

	return (n + maxPoints - 1) / maxPoints
}
