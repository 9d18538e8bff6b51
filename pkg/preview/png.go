// Package preview draws small raster and vector swatches of a symbology
// descriptor: a rectangle for polygons, a horizontal stroke for lines and a
// circle for points, painted from the descriptor's render parameters.
package preview

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// DefaultSize is the default swatch edge length in pixels (or points for PDF).
const DefaultSize = 200

// Option configures a preview.
type Option func(*config)

type config struct {
	size        int
	supersample int
}

func WithSize(px int) Option       { return func(c *config) { c.size = px } }
func WithSupersample(k int) Option { return func(c *config) { c.supersample = k } }

func newConfig(opts []Option) (config, error) {
	c := config{size: DefaultSize, supersample: 2}
	for _, opt := range opts {
		opt(&c)
	}
	if err := errors.ValidatePreviewSize(c.size); err != nil {
		return c, err
	}
	if c.supersample < 1 {
		c.supersample = 1
	}
	return c, nil
}

// Image renders d as a size×size image. It draws at supersample times the
// size and downsamples with a Lanczos filter.
func Image(d symbology.Descriptor, opts ...Option) (image.Image, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	pl := newPlan(d)

	full := cfg.size * cfg.supersample
	dc := gg.NewContext(full, full)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	r := rasterizer{dc: dc, scale: float64(full), px: pxPerPoint * float64(cfg.supersample)}
	r.draw(pl)

	img := dc.Image()
	if cfg.supersample > 1 {
		img = imaging.Resize(img, cfg.size, cfg.size, imaging.Lanczos)
	}
	return img, nil
}

// PNG renders d and encodes it as PNG.
func PNG(d symbology.Descriptor, opts ...Option) ([]byte, error) {
	img, err := Image(d, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// rasterizer maps unit coordinates onto a gg context.
type rasterizer struct {
	dc    *gg.Context
	scale float64 // pixels per canvas unit
	px    float64 // pixels per point
}

func (r rasterizer) draw(pl plan) {
	switch pl.geometry {
	case symbology.Polygon:
		r.shape(pl, func() {
			r.dc.DrawRectangle(rectX*r.scale, rectY*r.scale, rectW*r.scale, rectH*r.scale)
		})
	case symbology.Point:
		r.shape(pl, func() {
			r.dc.DrawCircle(pointX*r.scale, pointY*r.scale, pl.radius*r.scale)
		})
	case symbology.Line:
		if !pl.outlined() {
			return
		}
		r.dc.DrawLine(lineX0*r.scale, lineY*r.scale, lineX1*r.scale, lineY*r.scale)
		r.stroke(pl)
	}
}

// shape fills, hatches and outlines the path built by path.
func (r rasterizer) shape(pl plan, path func()) {
	if pl.face != nil {
		path()
		r.setColor(*pl.face)
		r.dc.Fill()
	}
	if pl.hatch != "" && pl.edge != nil {
		r.dc.Push()
		path()
		r.dc.Clip()
		r.hatch(pl)
		r.dc.ResetClip()
		r.dc.Pop()
	}
	if pl.outlined() {
		path()
		r.stroke(pl)
	}
}

func (r rasterizer) hatch(pl plan) {
	hp := buildHatch(pl.hatch, rectX, rectY, rectW, rectH)
	r.setColor(*pl.edge)
	r.dc.SetDash()
	r.dc.SetLineWidth(hatchLineWidth * r.px)
	for _, s := range hp.lines {
		r.dc.DrawLine(s.x0*r.scale, s.y0*r.scale, s.x1*r.scale, s.y1*r.scale)
		r.dc.Stroke()
	}
	for _, m := range hp.marks {
		r.dc.DrawCircle(m.x*r.scale, m.y*r.scale, m.r*r.scale)
		if m.filled {
			r.dc.Fill()
		} else {
			r.dc.Stroke()
		}
	}
}

func (r rasterizer) stroke(pl plan) {
	w := pl.lineWidth * r.px
	r.setColor(*pl.edge)
	r.dc.SetLineWidth(w)
	r.dc.SetLineCap(gg.LineCapButt)
	if len(pl.dashes) > 0 {
		dashes := make([]float64, len(pl.dashes))
		for i, v := range pl.dashes {
			dashes[i] = v * w
		}
		r.dc.SetDash(dashes...)
	} else {
		r.dc.SetDash()
	}
	r.dc.Stroke()
}

func (r rasterizer) setColor(c symbology.Color) {
	r.dc.SetRGB255(int(c.R), int(c.G), int(c.B))
}
