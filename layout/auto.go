package layout

import (
	"fmt"
	"math"

	"mingle/types"
)

// PageRule picks the page orientation for a single image per page.
type PageRule func(imageAspect float64) Orientation

// RotateRule decides whether an image is turned by 90 degrees to suit its cell.
type RotateRule func(imageAspect, cellAspect float64) bool

// LandscapeIfWide puts images wider than tall on landscape pages.
func LandscapeIfWide(imageAspect float64) Orientation {
	if imageAspect > 1 {
		return Landscape
	}
	return Portrait
}

// RotateOnMismatch rotates landscape images in portrait cells and the other
// way round. Square images and square cells are never rotated.
func RotateOnMismatch(imageAspect, cellAspect float64) bool {
	return (imageAspect > 1 && cellAspect < 1) || (imageAspect < 1 && cellAspect > 1)
}

// AutoPlacer chooses orientation from aspect ratios instead of configuration.
//
// With a 1x1 grid and automatic orientation every image gets its own page
// whose orientation follows the image. Otherwise the page shape is fixed
// for the whole document (automatic orientation sizes pages as portrait)
// and only the images are turned to match their cells.
type AutoPlacer struct {
	measurer   Measurer
	PageRule   PageRule
	RotateRule RotateRule
}

func NewAutoPlacer(m Measurer) *AutoPlacer {
	if m == nil {
		m = FileMeasurer{}
	}
	return &AutoPlacer{
		measurer:   m,
		PageRule:   LandscapeIfWide,
		RotateRule: RotateOnMismatch,
	}
}

func (ap *AutoPlacer) Place(items []ImageItem, cfg Config) ([]Placement, error) {
	if err := checkItems(items); err != nil {
		return nil, err
	}
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	if cfg.Orientation == Auto && cfg.Columns == 1 && cfg.Rows == 1 {
		return ap.placeSingle(items, cfg)
	}
	return ap.placeGrid(items, cfg)
}

func (ap *AutoPlacer) placeSingle(items []ImageItem, cfg Config) ([]Placement, error) {
	placements := make([]Placement, 0, len(items))
	for i, item := range items {
		w, h, err := ap.measurer.Measure(item.Path)
		if err != nil {
			return nil, err
		}

		page := cfg.Paper.Oriented(ap.PageRule(w / h))
		usableW := page.Width - 2*cfg.PageMargin
		usableH := page.Height - 2*cfg.PageMargin
		if usableW <= 0 || usableH <= 0 {
			return nil, types.NewInputError(fmt.Sprintf("page margin %.1f pt leaves no room for images", cfg.PageMargin), nil)
		}

		placements = append(placements, Placement{
			Path:      item.Path,
			PageIndex: i,
			Page:      page,
			X:         cfg.PageMargin,
			Y:         cfg.PageMargin,
			Width:     usableW,
			Height:    usableH,
			Scale:     math.Min(usableW/w, usableH/h),
			Fit:       true,
		})
	}
	return placements, nil
}

func (ap *AutoPlacer) placeGrid(items []ImageItem, cfg Config) ([]Placement, error) {
	page := cfg.Paper.Oriented(cfg.Orientation)
	grid := NewGrid(page, cfg)
	eff, err := grid.effective(cfg.ImageMargin)
	if err != nil {
		return nil, err
	}
	cellAspect := eff.Aspect()

	placements := make([]Placement, 0, len(items))
	for i, item := range items {
		w, h, err := ap.measurer.Measure(item.Path)
		if err != nil {
			return nil, err
		}

		pageIndex, col, row := grid.Position(i)
		cell := grid.Cell(col, row).Inset(cfg.ImageMargin)
		p := Placement{
			Path:      item.Path,
			PageIndex: pageIndex,
			Page:      page,
			X:         cell.X,
			Y:         cell.Y,
			Width:     cell.Width,
			Height:    cell.Height,
			Scale:     math.Min(cell.Width/w, cell.Height/h),
			Fit:       true,
		}
		if ap.RotateRule(w/h, cellAspect) {
			// Same centre, width and height swapped, turned a quarter.
			cx, cy := cell.X+cell.Width/2, cell.Y+cell.Height/2
			p.Width, p.Height = cell.Height, cell.Width
			p.X, p.Y = cx-p.Width/2, cy-p.Height/2
			p.Rotation = 90
			p.Scale = math.Min(p.Width/w, p.Height/h)
		}
		placements = append(placements, p)
	}
	return placements, nil
}
