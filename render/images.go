package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"mingle/types"
)

// registerImage makes path available to pdf under its own name and returns
// its aspect ratio. JPEG files are embedded as they are; every other format
// is decoded and re-encoded as 8-bit PNG, which gofpdf always understands.
func registerImage(pdf *gofpdf.Fpdf, path string) (float64, error) {
	format, err := sniff(path)
	if err != nil {
		return 0, err
	}

	var info *gofpdf.ImageInfoType
	if format == "jpeg" {
		info = pdf.RegisterImageOptions(path, gofpdf.ImageOptions{ImageType: "JPG"})
	} else {
		buf, err := transcodePNG(path)
		if err != nil {
			return 0, err
		}
		info = pdf.RegisterImageOptionsReader(path, gofpdf.ImageOptions{ImageType: "PNG"}, buf)
	}
	if pdf.Err() {
		return 0, types.NewBackendError(fmt.Sprintf("cannot embed image %s", path), pdf.Error())
	}
	if info == nil || info.Height() == 0 {
		return 0, types.NewBackendError(fmt.Sprintf("image %s has no size", path), nil)
	}
	return info.Width() / info.Height(), nil
}

// sniff returns the registered format name of the image at path.
func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", types.NewInputError(fmt.Sprintf("cannot open image %s", path), err)
	}
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", types.NewInputError(fmt.Sprintf("cannot read image %s", path), err)
	}
	return format, nil
}

func transcodePNG(path string) (*bytes.Buffer, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, types.NewInputError(fmt.Sprintf("cannot decode image %s", path), err)
	}

	// imaging.Clone converts to NRGBA, 8 bits per channel.
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, imaging.Clone(img), imaging.PNG); err != nil {
		return nil, types.NewBackendError(fmt.Sprintf("cannot re-encode image %s", path), err)
	}
	return buf, nil
}
