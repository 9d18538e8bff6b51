package preview

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

func polygon() symbology.Descriptor {
	return symbology.MustNew(symbology.Params{
		Geometry:      symbology.Polygon,
		FillColor:     symbology.RGB(255, 0, 0),
		FillPattern:   symbology.FillSolid,
		StrokeColor:   symbology.RGB(0, 0, 255),
		StrokePattern: symbology.StrokeDashed,
		StrokeWidth:   2.0,
	})
}

func near(t *testing.T, img image.Image, x, y int, want [3]uint8) {
	t.Helper()
	r, g, b, _ := img.At(x, y).RGBA()
	got := [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	for i := range got {
		d := int(got[i]) - int(want[i])
		if d < -3 || d > 3 {
			t.Errorf("pixel (%d,%d) = %v, want ~%v", x, y, got, want)
			return
		}
	}
}

func TestPNGPolygon(t *testing.T) {
	data, err := PNG(polygon())
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != DefaultSize || b.Dy() != DefaultSize {
		t.Errorf("size = %v, want %dx%d", b, DefaultSize, DefaultSize)
	}
	near(t, img, 100, 100, [3]uint8{255, 0, 0})
	near(t, img, 5, 5, [3]uint8{255, 255, 255})
}

func TestImageSizes(t *testing.T) {
	for _, size := range []int{50, 123, 1000} {
		img, err := Image(polygon(), WithSize(size), WithSupersample(1))
		if err != nil {
			t.Fatalf("Image(size=%d) error = %v", size, err)
		}
		if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
			t.Errorf("Image(size=%d) bounds = %v", size, b)
		}
	}
}

func TestImageRejectsSize(t *testing.T) {
	for _, size := range []int{0, 49, 1001} {
		_, err := PNG(polygon(), WithSize(size))
		if !errors.Is(err, errors.ErrCodeInvalidRange) {
			t.Errorf("PNG(size=%d) error = %v, want INVALID_RANGE", size, err)
		}
	}
}

func TestImageLineWithoutStrokeIsBlank(t *testing.T) {
	d := symbology.MustNew(symbology.Params{
		Geometry:      symbology.Line,
		FillColor:     symbology.RGB(0, 255, 0),
		FillPattern:   symbology.FillSlash,
		FillDensity:   3,
		StrokeColor:   symbology.RGB(0, 0, 0),
		StrokePattern: symbology.StrokeNone,
	})
	img, err := Image(d, WithSize(50))
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, g, bl, _ := img.At(x, y).RGBA(); r>>8 < 250 || g>>8 < 250 || bl>>8 < 250 {
				t.Fatalf("pixel (%d,%d) painted; line without stroke should draw nothing", x, y)
			}
		}
	}
}

func TestImageLineDrawn(t *testing.T) {
	d := symbology.MustNew(symbology.Params{
		Geometry:      symbology.Line,
		FillColor:     symbology.RGB(255, 255, 255),
		FillPattern:   symbology.FillNone,
		StrokeColor:   symbology.RGB(0, 0, 0),
		StrokePattern: symbology.StrokeSolid,
		StrokeWidth:   10,
	})
	img, err := Image(d)
	if err != nil {
		t.Fatal(err)
	}
	near(t, img, 100, 100, [3]uint8{0, 0, 0})
	near(t, img, 100, 20, [3]uint8{255, 255, 255})
}

func TestImagePoint(t *testing.T) {
	d := symbology.MustNew(symbology.Params{
		Geometry:      symbology.Point,
		FillColor:     symbology.RGB(255, 165, 0),
		FillPattern:   symbology.FillSolid,
		StrokeColor:   symbology.RGB(0, 0, 0),
		StrokePattern: symbology.StrokeSolid,
		StrokeWidth:   1,
	})
	img, err := Image(d)
	if err != nil {
		t.Fatal(err)
	}
	near(t, img, 100, 100, [3]uint8{255, 165, 0})
	near(t, img, 10, 10, [3]uint8{255, 255, 255})
}

func TestImageEveryPattern(t *testing.T) {
	for _, g := range symbology.Geometries() {
		for _, f := range symbology.FillPatterns() {
			for _, s := range symbology.StrokePatterns() {
				d := symbology.MustNew(symbology.Params{
					Geometry:      g,
					FillColor:     symbology.RGB(20, 40, 60),
					FillPattern:   f,
					FillDensity:   4,
					StrokeColor:   symbology.RGB(200, 10, 10),
					StrokePattern: s,
					StrokeWidth:   1.5,
				})
				if _, err := Image(d, WithSize(50), WithSupersample(1)); err != nil {
					t.Fatalf("Image(%v) error = %v", d, err)
				}
			}
		}
	}
}

func TestBuildHatch(t *testing.T) {
	single := buildHatch("/", 0, 0, 1, 1)
	triple := buildHatch("///", 0, 0, 1, 1)
	if len(single.lines) == 0 || len(triple.lines) <= len(single.lines) {
		t.Errorf("density did not increase line count: %d vs %d", len(single.lines), len(triple.lines))
	}
	if hp := buildHatch(".", 0, 0, 1, 1); len(hp.marks) == 0 || !hp.marks[0].filled {
		t.Errorf("dot hatch = %+v", hp.marks)
	}
	if hp := buildHatch("O", 0, 0, 1, 1); len(hp.marks) == 0 || hp.marks[0].filled {
		t.Errorf("circle hatch should be outlined")
	}
	if hp := buildHatch("*", 0, 0, 1, 1); len(hp.lines)%3 != 0 || len(hp.lines) == 0 {
		t.Errorf("star hatch lines = %d", len(hp.lines))
	}
	if hp := buildHatch("", 0, 0, 1, 1); len(hp.lines)+len(hp.marks) != 0 {
		t.Error("empty hatch produced primitives")
	}
}

func TestPDF(t *testing.T) {
	for _, g := range symbology.Geometries() {
		p := polygon().Params()
		p.Geometry = g
		p.FillPattern = symbology.FillPlus
		p.FillDensity = 2
		data, err := PDF(symbology.MustNew(p))
		if err != nil {
			t.Fatalf("PDF(%s) error = %v", g, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Errorf("PDF(%s) missing header", g)
		}
	}

	if _, err := PDF(polygon(), WithSize(10)); !errors.Is(err, errors.ErrCodeInvalidRange) {
		t.Errorf("PDF(size=10) error = %v, want INVALID_RANGE", err)
	}
}
