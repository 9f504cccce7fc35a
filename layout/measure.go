package layout

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"mingle/types"
)

// Measurer reports the native pixel size of an image.
type Measurer interface {
	Measure(path string) (width, height float64, err error)
}

// FileMeasurer reads image headers from disk.
type FileMeasurer struct{}

func (FileMeasurer) Measure(path string) (float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, types.NewInputError(fmt.Sprintf("cannot open image %s", path), err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, types.NewInputError(fmt.Sprintf("cannot read image %s", path), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, types.NewInputError(fmt.Sprintf("image %s has no pixels", path), nil)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// SizeMap is a Measurer over known sizes, keyed by path.
type SizeMap map[string][2]float64

func (m SizeMap) Measure(path string) (float64, float64, error) {
	size, ok := m[path]
	if !ok || size[0] <= 0 || size[1] <= 0 {
		return 0, 0, types.NewInputError(fmt.Sprintf("unknown image %s", path), nil)
	}
	return size[0], size[1], nil
}
