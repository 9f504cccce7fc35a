// Package layout computes where images go on the pages of a generated PDF.
//
// Placement is pure geometry: the placers read image sizes through a
// Measurer and return one Placement per image. Drawing is left to the
// render package. Coordinates are in PDF points with the origin in the top
// left corner of the page, y growing downwards.
package layout

import (
	"fmt"
	"math"
	"strings"

	"mingle/types"
)

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
	Auto      Orientation = "auto"
)

// ParseOrientation accepts the orientation names case-insensitively.
// The empty string is portrait.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case "", Portrait:
		return Portrait, nil
	case Landscape:
		return Landscape, nil
	case Auto:
		return Auto, nil
	}
	return "", types.NewInputError(fmt.Sprintf("unknown orientation %q", s), nil)
}

type PageSize struct {
	Width  float64
	Height float64
}

// A4 in points.
var A4 = PageSize{Width: 595.2755905511812, Height: 841.8897637795277}

func (p PageSize) Landscape() PageSize {
	if p.Width < p.Height {
		return PageSize{Width: p.Height, Height: p.Width}
	}
	return p
}

func (p PageSize) Portrait() PageSize {
	if p.Width > p.Height {
		return PageSize{Width: p.Height, Height: p.Width}
	}
	return p
}

func (p PageSize) IsLandscape() bool {
	return p.Width > p.Height
}

// Oriented returns the page size for o. Auto has no page shape of its own
// and resolves to portrait.
func (p PageSize) Oriented(o Orientation) PageSize {
	if o == Landscape {
		return p.Landscape()
	}
	return p.Portrait()
}

type ImageItem struct {
	Path string
	// Rotation in degrees, counter-clockwise.
	Rotation int
}

// Items builds image items from paths and an optional list of angles.
// Missing angles are 0.
func Items(paths []string, angles []int) []ImageItem {
	items := make([]ImageItem, len(paths))
	for i, p := range paths {
		items[i].Path = p
		if i < len(angles) {
			items[i].Rotation = angles[i]
		}
	}
	return items
}

type Config struct {
	Columns     int
	Rows        int
	PageMargin  float64
	ImageMargin float64
	Orientation Orientation
	// Paper is the portrait page size; A4 when zero.
	Paper PageSize
}

// PerPage is the number of images on one physical page.
func (c Config) PerPage() int {
	return c.Columns * c.Rows
}

// Normalize clamps negative and non-finite margins to 0 and fills defaults.
// It fails when the grid has no cells.
func (c Config) Normalize() (Config, error) {
	if c.Columns < 1 || c.Rows < 1 {
		return c, types.NewInputError(fmt.Sprintf("grid must have at least one column and one row, got %dx%d", c.Columns, c.Rows), nil)
	}
	c.PageMargin = clampMargin(c.PageMargin)
	c.ImageMargin = clampMargin(c.ImageMargin)
	if c.Orientation == "" {
		c.Orientation = Portrait
	}
	if c.Paper.Width <= 0 || c.Paper.Height <= 0 {
		c.Paper = A4
	}
	return c, nil
}

func clampMargin(m float64) float64 {
	if !(m > 0) || math.IsInf(m, 1) {
		return 0
	}
	return m
}

// Placement is one drawing instruction for the rendering backend.
//
// X, Y, Width and Height describe the image box before rotation. The image
// is rotated by Rotation degrees counter-clockwise about the centre of that
// box. With Fit set the backend letterboxes the image inside the box,
// keeping its aspect ratio; otherwise the image fills the box.
type Placement struct {
	Path      string
	PageIndex int
	Page      PageSize
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Rotation  float64
	// Scale is the drawn size relative to the native pixel size.
	Scale float64
	Fit   bool
}

func (p Placement) CenterX() float64 { return p.X + p.Width/2 }
func (p Placement) CenterY() float64 { return p.Y + p.Height/2 }

type Page struct {
	Index      int
	Size       PageSize
	Placements []Placement
}

// Paginate groups placements by page index. Pages without placements in
// between are kept empty so that indices stay dense.
func Paginate(placements []Placement) []Page {
	var pages []Page
	for _, p := range placements {
		for len(pages) <= p.PageIndex {
			pages = append(pages, Page{Index: len(pages), Size: p.Page})
		}
		pages[p.PageIndex].Size = p.Page
		pages[p.PageIndex].Placements = append(pages[p.PageIndex].Placements, p)
	}
	return pages
}

// Placer turns images and a configuration into placements.
type Placer interface {
	Place(items []ImageItem, cfg Config) ([]Placement, error)
}

// ForConfig picks the placer for cfg. Automatic orientation, or an explicit
// request for the best orientation, selects the AutoPlacer.
func ForConfig(cfg Config, bestOrientation bool, m Measurer) Placer {
	if cfg.Orientation == Auto || bestOrientation {
		return NewAutoPlacer(m)
	}
	return NewGridPlacer(m)
}

func checkItems(items []ImageItem) error {
	if len(items) == 0 {
		return types.NewInputError("no images given", nil)
	}
	return nil
}
