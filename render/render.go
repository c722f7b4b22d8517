// Package render turns simulation snapshots into image frames and
// assembles them into an animation. It sits downstream of the core:
// snapshots in, pictures out.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/geosims/outbreak/field"
	"github.com/geosims/outbreak/sim"
)

// Compartment colors: susceptible blue, infected yellow, removed red.
var (
	colorSusceptible = colornames.Deepskyblue
	colorInfected    = colornames.Gold
	colorRemoved     = colornames.Crimson
	colorBackground  = color.RGBA{R: 8, G: 10, B: 24, A: 255}
)

// Renderer draws snapshots over a pre-rendered density background.
// One renderer serves one run; it is not safe for concurrent use.
type Renderer struct {
	f          *field.Field
	scale      float64
	w, h       int
	background *image.RGBA
}

// NewRenderer creates a renderer producing frames of
// (cols×scale)×(rows×scale) pixels.
func NewRenderer(f *field.Field, scale int) *Renderer {
	if scale < 1 {
		scale = 1
	}
	r := &Renderer{
		f:     f,
		scale: float64(scale),
		w:     f.Cols() * scale,
		h:     f.Rows() * scale,
	}
	r.background = r.renderBackground()
	return r
}

// Size returns the frame dimensions in pixels.
func (r *Renderer) Size() (w, h int) { return r.w, r.h }

// renderBackground shades each cell by its population weight so the
// geography stays visible under the agents.
func (r *Renderer) renderBackground() *image.RGBA {
	dc := gg.NewContext(r.w, r.h)
	dc.SetColor(colorBackground)
	dc.Clear()

	// Normalize against the brightest cell; raster-derived fields are
	// already in [0,1] but synthetic fields need not be.
	maxW := 0.0
	for row := 0; row < r.f.Rows(); row++ {
		for col := 0; col < r.f.Cols(); col++ {
			if w := r.f.At(row, col); w > maxW {
				maxW = w
			}
		}
	}
	if maxW <= 0 {
		return imageToRGBA(dc.Image())
	}

	for row := 0; row < r.f.Rows(); row++ {
		for col := 0; col < r.f.Cols(); col++ {
			w := r.f.At(row, col) / maxW
			if w == 0 {
				continue
			}
			// Dim blue-gray ramp, capped below the agent colors.
			v := 0.08 + 0.35*w
			dc.SetRGB(v*0.5, v*0.6, v)
			dc.DrawRectangle(float64(col)*r.scale, float64(row)*r.scale, r.scale, r.scale)
			dc.Fill()
		}
	}
	return imageToRGBA(dc.Image())
}

// Frame renders one snapshot. Infected agents draw above susceptible
// and removed ones so active spread stays visible in dense areas.
func (r *Renderer) Frame(snap sim.Snapshot) image.Image {
	canvas := image.NewRGBA(r.background.Bounds())
	draw.Draw(canvas, canvas.Bounds(), r.background, image.Point{}, draw.Src)
	dc := gg.NewContextForRGBA(canvas)

	radius := r.scale * 0.45
	for _, pass := range []sim.State{sim.Susceptible, sim.Removed, sim.Infected} {
		dc.SetColor(r.stateColor(pass))
		for i, s := range snap.States {
			if s != pass {
				continue
			}
			px := (snap.X[i] - r.f.OriginX()) / r.f.CellSize() * r.scale
			py := (snap.Y[i] - r.f.OriginY()) / r.f.CellSize() * r.scale
			dc.DrawCircle(px, py, radius)
		}
		dc.Fill()
	}
	return dc.Image()
}

func (r *Renderer) stateColor(s sim.State) color.RGBA {
	switch s {
	case sim.Infected:
		return colorInfected
	case sim.Removed:
		return colorRemoved
	}
	return colorSusceptible
}

func imageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
