package layout

import (
	"fmt"
	"math"

	"mingle/types"
)

// Cell is one grid slot on a page, in top-left based page coordinates.
type Cell struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (c Cell) Aspect() float64 {
	return c.Width / c.Height
}

// Inset shrinks the cell by m on every side.
func (c Cell) Inset(m float64) Cell {
	return Cell{X: c.X + m, Y: c.Y + m, Width: c.Width - 2*m, Height: c.Height - 2*m}
}

// Grid holds the cell geometry shared by every page of a document.
type Grid struct {
	Page       PageSize
	Columns    int
	Rows       int
	Margin     float64
	CellWidth  float64
	CellHeight float64
}

func NewGrid(page PageSize, cfg Config) Grid {
	return Grid{
		Page:       page,
		Columns:    cfg.Columns,
		Rows:       cfg.Rows,
		Margin:     cfg.PageMargin,
		CellWidth:  (page.Width - 2*cfg.PageMargin) / float64(cfg.Columns),
		CellHeight: (page.Height - 2*cfg.PageMargin) / float64(cfg.Rows),
	}
}

// Position returns the page index, column and row of the i-th image.
func (g Grid) Position(i int) (page, col, row int) {
	perPage := g.Columns * g.Rows
	return i / perPage, i % g.Columns, (i / g.Columns) % g.Rows
}

func (g Grid) Cell(col, row int) Cell {
	return Cell{
		X:      g.Margin + float64(col)*g.CellWidth,
		Y:      g.Margin + float64(row)*g.CellHeight,
		Width:  g.CellWidth,
		Height: g.CellHeight,
	}
}

// effective returns the area an image may occupy in a cell, failing when the
// margins leave nothing.
func (g Grid) effective(imageMargin float64) (Cell, error) {
	eff := g.Cell(0, 0).Inset(imageMargin)
	if eff.Width <= 0 || eff.Height <= 0 {
		return Cell{}, types.NewInputError(fmt.Sprintf(
			"margins leave no room for images: cell is %.1fx%.1f pt before a %.1f pt image margin",
			g.CellWidth, g.CellHeight, imageMargin), nil)
	}
	return eff, nil
}

// RotatedBounds returns the axis-aligned bounding box of a w x h rectangle
// rotated by angle degrees.
func RotatedBounds(w, h, angle float64) (float64, float64) {
	rad := angle * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return w*cos + h*sin, w*sin + h*cos
}

// GridPlacer lays images out in a fixed-orientation grid, scaling each one
// down (never up) so that its rotated bounding box fits its cell.
type GridPlacer struct {
	measurer Measurer
}

func NewGridPlacer(m Measurer) *GridPlacer {
	if m == nil {
		m = FileMeasurer{}
	}
	return &GridPlacer{measurer: m}
}

func (gp *GridPlacer) Place(items []ImageItem, cfg Config) ([]Placement, error) {
	if err := checkItems(items); err != nil {
		return nil, err
	}
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}

	page := cfg.Paper.Oriented(cfg.Orientation)
	grid := NewGrid(page, cfg)
	eff, err := grid.effective(cfg.ImageMargin)
	if err != nil {
		return nil, err
	}

	placements := make([]Placement, 0, len(items))
	for i, item := range items {
		w, h, err := gp.measurer.Measure(item.Path)
		if err != nil {
			return nil, err
		}

		angle := float64(item.Rotation)
		rotW, rotH := RotatedBounds(w, h, angle)
		scale := math.Min(math.Min(eff.Width/rotW, eff.Height/rotH), 1)
		finalW, finalH := w*scale, h*scale

		pageIndex, col, row := grid.Position(i)
		cell := grid.Cell(col, row).Inset(cfg.ImageMargin)

		placements = append(placements, Placement{
			Path:      item.Path,
			PageIndex: pageIndex,
			Page:      page,
			X:         cell.X + (cell.Width-finalW)/2,
			Y:         cell.Y + (cell.Height-finalH)/2,
			Width:     finalW,
			Height:    finalH,
			Rotation:  angle,
			Scale:     scale,
		})
	}
	return placements, nil
}
