package api

import (
	"os"

	"mingle/job"
	"mingle/layout"
	"mingle/types"

	"github.com/gofiber/fiber/v2"
)

type LayoutHandler struct {
	runner       *job.Runner
	outputDir    string
	staticPrefix string
}

func NewLayoutHandler(runner *job.Runner, outputDir, staticPrefix string) *LayoutHandler {
	return &LayoutHandler{
		runner:       runner,
		outputDir:    outputDir,
		staticPrefix: staticPrefix,
	}
}

// HandleLayout lays out the uploaded "images" in upload order and returns
// the PDF, or stores it under the output directory when "save" is set.
// Margins that are not numbers are replaced by 0 and reported in an
// X-Warning header.
func (h *LayoutHandler) HandleLayout(c *fiber.Ctx) error {
	params := types.DefaultLayoutParams()
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	files, err := formFiles(c, "images")
	if err != nil {
		return err
	}

	orientation, err := layout.ParseOrientation(params.Orientation)
	if err != nil {
		return err
	}
	cfg := layout.Config{
		Columns:     params.Columns,
		Rows:        params.Rows,
		Orientation: orientation,
	}
	if cfg.PageMargin, err = types.ParseMargin("page margin", params.PageMargin); err != nil {
		c.Append("X-Warning", err.Error())
	}
	if cfg.ImageMargin, err = types.ParseMargin("image margin", params.ImageMargin); err != nil {
		c.Append("X-Warning", err.Error())
	}

	var angles []int
	if !params.BestOrientation {
		angles = types.ParseAngles(params.Angles)
	}

	dir, paths, err := saveUploads(c, files)
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	req := job.LayoutRequest{
		Images:          paths,
		Angles:          angles,
		Config:          cfg,
		BestOrientation: params.BestOrientation,
		Destination:     job.Destination{Source: "api"},
	}
	if params.Save {
		req.OutputDir = h.outputDir
	}

	res, err := h.runner.Layout(c.UserContext(), req)
	if err != nil {
		return err
	}
	return sendResult(c, res, "layout.pdf", h.staticPrefix)
}
