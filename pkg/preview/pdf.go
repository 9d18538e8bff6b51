package preview

import (
	"bytes"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// pdfEpoch is stamped as the creation date so output is reproducible.
var pdfEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// PDF renders d as a single-page vector PDF, size points square.
func PDF(d symbology.Descriptor, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	pl := newPlan(d)
	side := float64(cfg.size)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: side, Ht: side},
	})
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetTitle("symbology preview: "+d.String(), true)
	pdf.SetCreator("stylekey", false)
	pdf.AddPage()

	v := vectorizer{pdf: pdf, scale: side}
	v.draw(pl)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write pdf")
	}
	return buf.Bytes(), nil
}

// vectorizer maps unit coordinates onto a PDF page.
type vectorizer struct {
	pdf   *gofpdf.Fpdf
	scale float64 // points per canvas unit
}

func (v vectorizer) draw(pl plan) {
	s := v.scale
	switch pl.geometry {
	case symbology.Polygon:
		if pl.face != nil {
			v.setFill(*pl.face)
			v.pdf.Rect(rectX*s, rectY*s, rectW*s, rectH*s, "F")
		}
		if pl.hatch != "" && pl.edge != nil {
			v.pdf.ClipRect(rectX*s, rectY*s, rectW*s, rectH*s, false)
			v.hatch(pl)
			v.pdf.ClipEnd()
		}
		if pl.outlined() {
			v.setStroke(pl)
			v.pdf.Rect(rectX*s, rectY*s, rectW*s, rectH*s, "D")
		}

	case symbology.Point:
		r := pl.radius * s
		if pl.face != nil {
			v.setFill(*pl.face)
			v.pdf.Circle(pointX*s, pointY*s, r, "F")
		}
		if pl.outlined() {
			v.setStroke(pl)
			v.pdf.Circle(pointX*s, pointY*s, r, "D")
		}

	case symbology.Line:
		if pl.outlined() {
			v.setStroke(pl)
			v.pdf.Line(lineX0*s, lineY*s, lineX1*s, lineY*s)
		}
	}
}

func (v vectorizer) hatch(pl plan) {
	s := v.scale
	hp := buildHatch(pl.hatch, rectX, rectY, rectW, rectH)
	c := *pl.edge
	v.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	v.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	v.pdf.SetLineWidth(hatchLineWidth)
	v.pdf.SetDashPattern(nil, 0)
	for _, l := range hp.lines {
		v.pdf.Line(l.x0*s, l.y0*s, l.x1*s, l.y1*s)
	}
	for _, m := range hp.marks {
		style := "D"
		if m.filled {
			style = "F"
		}
		v.pdf.Circle(m.x*s, m.y*s, m.r*s, style)
	}
}

func (v vectorizer) setFill(c symbology.Color) {
	v.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func (v vectorizer) setStroke(pl plan) {
	c := *pl.edge
	v.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	v.pdf.SetLineWidth(pl.lineWidth)
	v.pdf.SetLineCapStyle("butt")
	dashes := make([]float64, len(pl.dashes))
	for i, d := range pl.dashes {
		dashes[i] = d * pl.lineWidth
	}
	v.pdf.SetDashPattern(dashes, 0)
}
