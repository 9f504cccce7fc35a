package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mingle/types"
)

const eps = 1e-6

var sizes = SizeMap{
	"square.png": {100, 100},
	"wide.jpg":   {2000, 1000},
	"tall.jpg":   {1000, 2000},
	"huge.png":   {4000, 3000},
}

// assertInsideCell checks that the rotated box of p stays within the
// margin-reduced cell it was placed in.
func assertInsideCell(t *testing.T, p Placement, cell Cell) {
	t.Helper()
	w, h := RotatedBounds(p.Width, p.Height, p.Rotation)
	cx, cy := p.CenterX(), p.CenterY()
	assert.GreaterOrEqual(t, cx-w/2, cell.X-eps, "left edge of %s", p.Path)
	assert.GreaterOrEqual(t, cy-h/2, cell.Y-eps, "top edge of %s", p.Path)
	assert.LessOrEqual(t, cx+w/2, cell.X+cell.Width+eps, "right edge of %s", p.Path)
	assert.LessOrEqual(t, cy+h/2, cell.Y+cell.Height+eps, "bottom edge of %s", p.Path)
}

func TestGridPlacer(t *testing.T) {
	t.Run("five images on a 2x2 grid make two pages", func(t *testing.T) {
		items := Items([]string{"square.png", "wide.jpg", "tall.jpg", "huge.png", "wide.jpg"}, nil)
		cfg := Config{Columns: 2, Rows: 2, PageMargin: 20, ImageMargin: 5, Orientation: Portrait}

		placements, err := NewGridPlacer(sizes).Place(items, cfg)
		require.NoError(t, err)
		require.Len(t, placements, 5)

		pages := Paginate(placements)
		require.Len(t, pages, 2)
		assert.Len(t, pages[0].Placements, 4)
		assert.Len(t, pages[1].Placements, 1)

		grid := NewGrid(A4, cfg)
		for i, p := range placements {
			assert.LessOrEqual(t, p.Scale, 1.0)
			assert.Equal(t, A4, p.Page)
			_, col, row := grid.Position(i)
			assertInsideCell(t, p, grid.Cell(col, row).Inset(cfg.ImageMargin))
		}
	})

	t.Run("small images are not upscaled and stay centred", func(t *testing.T) {
		cfg := Config{Columns: 1, Rows: 1, Orientation: Portrait}
		placements, err := NewGridPlacer(sizes).Place(Items([]string{"square.png"}, nil), cfg)
		require.NoError(t, err)

		p := placements[0]
		assert.Equal(t, 1.0, p.Scale)
		assert.Equal(t, 100.0, p.Width)
		assert.InDelta(t, A4.Width/2, p.CenterX(), eps)
		assert.InDelta(t, A4.Height/2, p.CenterY(), eps)
	})

	t.Run("large images are scaled to their cell", func(t *testing.T) {
		cfg := Config{Columns: 2, Rows: 2, Orientation: Portrait}
		placements, err := NewGridPlacer(sizes).Place(Items([]string{"wide.jpg"}, nil), cfg)
		require.NoError(t, err)

		cellW := A4.Width / 2
		assert.InDelta(t, cellW/2000, placements[0].Scale, eps)
		assert.InDelta(t, cellW, placements[0].Width, eps)
		assert.InDelta(t, 0, placements[0].X, eps)
	})

	t.Run("rotation fits the rotated bounding box", func(t *testing.T) {
		cfg := Config{Columns: 2, Rows: 1, ImageMargin: 10, Orientation: Landscape}
		items := Items([]string{"wide.jpg", "tall.jpg", "huge.png"}, []int{90, 45})

		placements, err := NewGridPlacer(sizes).Place(items, cfg)
		require.NoError(t, err)
		require.Len(t, placements, 3)

		assert.Equal(t, 90.0, placements[0].Rotation)
		assert.Equal(t, 45.0, placements[1].Rotation)
		assert.Equal(t, 0.0, placements[2].Rotation, "missing angles default to 0")

		page := A4.Landscape()
		grid := NewGrid(page, cfg)
		for i, p := range placements {
			assert.Equal(t, page, p.Page)
			pageIndex, col, row := grid.Position(i)
			assert.Equal(t, pageIndex, p.PageIndex)
			assertInsideCell(t, p, grid.Cell(col, row).Inset(cfg.ImageMargin))
		}
	})

	t.Run("automatic orientation sizes the page as portrait", func(t *testing.T) {
		cfg := Config{Columns: 1, Rows: 1, Orientation: Auto}
		placements, err := NewGridPlacer(sizes).Place(Items([]string{"wide.jpg"}, nil), cfg)
		require.NoError(t, err)
		assert.Equal(t, A4, placements[0].Page)
	})

	t.Run("negative margins are clamped", func(t *testing.T) {
		cfg := Config{Columns: 1, Rows: 1, PageMargin: -50, ImageMargin: -3}
		placements, err := NewGridPlacer(sizes).Place(Items([]string{"huge.png"}, nil), cfg)
		require.NoError(t, err)
		assert.InDelta(t, A4.Width, placements[0].Width, eps)
	})
}

func TestGridPlacerErrors(t *testing.T) {
	tests := []struct {
		name  string
		items []ImageItem
		cfg   Config
	}{
		{"no images", nil, Config{Columns: 1, Rows: 1}},
		{"no columns", Items([]string{"square.png"}, nil), Config{Columns: 0, Rows: 1}},
		{"margins too large", Items([]string{"square.png"}, nil), Config{Columns: 4, Rows: 4, PageMargin: 100, ImageMargin: 60}},
		{"unknown image", Items([]string{"missing.png"}, nil), Config{Columns: 1, Rows: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placements, err := NewGridPlacer(sizes).Place(tt.items, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, placements)
			assert.True(t, types.IsKind(err, types.KindInput))
		})
	}
}

func TestNormalizeMargins(t *testing.T) {
	for _, m := range []float64{-4, math.NaN(), math.Inf(1), math.Inf(-1)} {
		cfg, err := Config{Columns: 1, Rows: 1, PageMargin: m, ImageMargin: m}.Normalize()
		require.NoError(t, err)
		assert.Zero(t, cfg.PageMargin, "page margin %v", m)
		assert.Zero(t, cfg.ImageMargin, "image margin %v", m)
	}

	cfg, err := Config{Columns: 1, Rows: 1, PageMargin: 12}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.PageMargin)

	placements, err := NewGridPlacer(sizes).Place(Items([]string{"square.png"}, nil), Config{Columns: 1, Rows: 1, PageMargin: math.NaN()})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(placements[0].X))
	assert.False(t, math.IsNaN(placements[0].Width))
}

func TestAutoPlacerSingleCell(t *testing.T) {
	cfg := Config{Columns: 1, Rows: 1, PageMargin: 10, Orientation: Auto}
	placements, err := NewAutoPlacer(sizes).Place(Items([]string{"wide.jpg", "tall.jpg", "square.png"}, nil), cfg)
	require.NoError(t, err)
	require.Len(t, placements, 3)

	wide, tall, square := placements[0], placements[1], placements[2]
	assert.True(t, wide.Page.IsLandscape(), "aspect 2.0 gets a landscape page")
	assert.False(t, tall.Page.IsLandscape(), "aspect 0.5 gets a portrait page")
	assert.False(t, square.Page.IsLandscape())

	for i, p := range placements {
		assert.Equal(t, i, p.PageIndex)
		assert.True(t, p.Fit)
		assert.Equal(t, 10.0, p.X)
		assert.Equal(t, 10.0, p.Y)
		assert.InDelta(t, p.Page.Width-20, p.Width, eps)
		assert.InDelta(t, p.Page.Height-20, p.Height, eps)
	}
	assert.Len(t, Paginate(placements), 3)
}

func TestAutoPlacerGrid(t *testing.T) {
	t.Run("images turn to match portrait cells", func(t *testing.T) {
		// 1x2 on portrait A4 gives landscape cells, 2x1 gives portrait cells.
		cfg := Config{Columns: 2, Rows: 1, ImageMargin: 4, Orientation: Auto}
		placements, err := NewAutoPlacer(sizes).Place(Items([]string{"wide.jpg", "tall.jpg", "square.png"}, nil), cfg)
		require.NoError(t, err)

		grid := NewGrid(A4, cfg)
		cell := grid.Cell(0, 0).Inset(4)
		require.Less(t, cell.Aspect(), 1.0)

		wide := placements[0]
		assert.Equal(t, A4, wide.Page, "page shape stays portrait")
		assert.Equal(t, 90.0, wide.Rotation)
		assert.InDelta(t, cell.Height, wide.Width, eps)
		assert.InDelta(t, cell.Width, wide.Height, eps)
		assert.InDelta(t, cell.X+cell.Width/2, wide.CenterX(), eps)
		assert.InDelta(t, cell.Y+cell.Height/2, wide.CenterY(), eps)

		assert.Equal(t, 0.0, placements[1].Rotation, "tall image already matches")
		assert.Equal(t, 0.0, placements[2].Rotation, "square images never turn")
		assert.Equal(t, 1, placements[2].PageIndex)

		for i, p := range placements {
			_, col, row := grid.Position(i)
			assertInsideCell(t, p, grid.Cell(col, row).Inset(cfg.ImageMargin))
		}
	})

	t.Run("landscape pages with a fixed orientation", func(t *testing.T) {
		cfg := Config{Columns: 1, Rows: 1, Orientation: Landscape}
		placements, err := NewAutoPlacer(sizes).Place(Items([]string{"tall.jpg", "wide.jpg"}, nil), cfg)
		require.NoError(t, err)

		assert.Equal(t, A4.Landscape(), placements[0].Page)
		assert.Equal(t, 90.0, placements[0].Rotation)
		assert.Equal(t, 0.0, placements[1].Rotation)
		assert.Equal(t, 1, placements[1].PageIndex)
	})

	t.Run("heuristics can be swapped", func(t *testing.T) {
		ap := NewAutoPlacer(sizes)
		ap.RotateRule = func(float64, float64) bool { return false }
		ap.PageRule = func(float64) Orientation { return Landscape }

		placements, err := ap.Place(Items([]string{"wide.jpg", "tall.jpg"}, nil), Config{Columns: 2, Rows: 1, Orientation: Auto})
		require.NoError(t, err)
		assert.Equal(t, 0.0, placements[0].Rotation)

		placements, err = ap.Place(Items([]string{"tall.jpg"}, nil), Config{Columns: 1, Rows: 1, Orientation: Auto})
		require.NoError(t, err)
		assert.True(t, placements[0].Page.IsLandscape())
	})
}

func TestRotateOnMismatch(t *testing.T) {
	assert.True(t, RotateOnMismatch(2, 0.5))
	assert.True(t, RotateOnMismatch(0.5, 2))
	assert.False(t, RotateOnMismatch(2, 2))
	assert.False(t, RotateOnMismatch(1, 0.5))
	assert.False(t, RotateOnMismatch(2, 1))
}

func TestForConfig(t *testing.T) {
	assert.IsType(t, &GridPlacer{}, ForConfig(Config{Orientation: Portrait}, false, sizes))
	assert.IsType(t, &AutoPlacer{}, ForConfig(Config{Orientation: Auto}, false, sizes))
	assert.IsType(t, &AutoPlacer{}, ForConfig(Config{Orientation: Landscape}, true, sizes))
}

func TestParseOrientation(t *testing.T) {
	for in, want := range map[string]Orientation{"": Portrait, "Portrait": Portrait, " landscape ": Landscape, "AUTO": Auto} {
		got, err := ParseOrientation(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOrientation("sideways")
	assert.True(t, types.IsKind(err, types.KindInput))
}

func TestRotatedBounds(t *testing.T) {
	w, h := RotatedBounds(200, 100, 90)
	assert.InDelta(t, 100, w, eps)
	assert.InDelta(t, 200, h, eps)

	w, h = RotatedBounds(200, 100, 180)
	assert.InDelta(t, 200, w, eps)
	assert.InDelta(t, 100, h, eps)
}
