// Package render draws layout placements into a PDF document with gofpdf.
package render

import (
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"mingle/layout"
	"mingle/types"
)

type Renderer struct {
	Title       string
	Creator     string
	Compression bool
}

func New() *Renderer {
	return &Renderer{
		Creator:     "mingle",
		Compression: true,
	}
}

// Render writes a PDF with one page per page index used by placements.
// Each page takes the size recorded in its placements.
func (r *Renderer) Render(w io.Writer, placements []layout.Placement) error {
	pages := layout.Paginate(placements)
	if len(pages) == 0 {
		return types.NewInputError("nothing to render", nil)
	}

	first := pages[0].Size
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(r.Compression)
	if r.Title != "" {
		pdf.SetTitle(r.Title, true)
	}
	if r.Creator != "" {
		pdf.SetCreator(r.Creator, true)
	}

	aspects := make(map[string]float64)
	for _, page := range pages {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: page.Size.Width, Ht: page.Size.Height})
		if pdf.Err() {
			return types.NewBackendError("cannot add page", pdf.Error())
		}

		for _, p := range page.Placements {
			aspect, ok := aspects[p.Path]
			if !ok {
				var err error
				if aspect, err = registerImage(pdf, p.Path); err != nil {
					return err
				}
				aspects[p.Path] = aspect
			}
			if err := draw(pdf, p, aspect); err != nil {
				return err
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return types.NewBackendError("cannot write PDF", err)
	}
	return nil
}

func draw(pdf *gofpdf.Fpdf, p layout.Placement, aspect float64) error {
	x, y, w, h := p.X, p.Y, p.Width, p.Height
	if p.Fit {
		x, y, w, h = fit(p, aspect)
	}

	if p.Rotation != 0 {
		pdf.TransformBegin()
		pdf.TransformRotate(p.Rotation, p.CenterX(), p.CenterY())
	}
	pdf.ImageOptions(p.Path, x, y, w, h, false, gofpdf.ImageOptions{}, 0, "")
	if p.Rotation != 0 {
		pdf.TransformEnd()
	}

	if pdf.Err() {
		return types.NewBackendError("cannot draw image "+p.Path, pdf.Error())
	}
	return nil
}

// fit returns the largest box with the given aspect ratio that fits into
// the placement box, centred in it.
func fit(p layout.Placement, aspect float64) (x, y, w, h float64) {
	w = math.Min(p.Width, p.Height*aspect)
	h = w / aspect
	return p.X + (p.Width-w)/2, p.Y + (p.Height-h)/2, w, h
}
