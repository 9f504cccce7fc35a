package api

import (
	"fmt"
	"os"

	"mingle/job"
	"mingle/pagerange"
	"mingle/types"

	"github.com/gofiber/fiber/v2"
)

type MergeHandler struct {
	runner       *job.Runner
	outputDir    string
	staticPrefix string
}

func NewMergeHandler(runner *job.Runner, outputDir, staticPrefix string) *MergeHandler {
	return &MergeHandler{
		runner:       runner,
		outputDir:    outputDir,
		staticPrefix: staticPrefix,
	}
}

// HandleMerge merges the uploaded "files" in upload order. The n-th
// "ranges" value selects pages of the n-th file; missing values select all
// pages.
func (h *MergeHandler) HandleMerge(c *fiber.Ctx) error {
	var params types.MergeParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	files, err := formFiles(c, "files")
	if err != nil {
		return err
	}
	if len(params.Ranges) > len(files) {
		return NewError(fiber.StatusBadRequest, fmt.Sprintf("%d ranges given for %d files", len(params.Ranges), len(files)))
	}

	dir, paths, err := saveUploads(c, files)
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	req := job.MergeRequest{
		Documents:   make([]job.Document, len(paths)),
		Destination: job.Destination{Source: "api"},
	}
	for i, p := range paths {
		req.Documents[i].Path = p
		if i < len(params.Ranges) {
			req.Documents[i].Ranges = params.Ranges[i]
		}
	}
	if params.Save {
		req.OutputDir = h.outputDir
	}

	res, err := h.runner.Merge(c.UserContext(), req)
	if err != nil {
		return err
	}
	return sendResult(c, res, "merged.pdf", h.staticPrefix)
}

// HandlePageCount reports the page count of the uploaded "file". A file
// that is not a readable PDF has 0 pages.
func (h *MergeHandler) HandlePageCount(c *fiber.Ctx) error {
	files, err := formFiles(c, "file")
	if err != nil {
		return err
	}

	dir, paths, err := saveUploads(c, files[:1])
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	return c.JSON(fiber.Map{"pages": h.runner.PageCount(paths[0])})
}

type RangeCheckResponse struct {
	Valid     bool     `json:"valid"`
	Canonical string   `json:"canonical,omitempty"`
	Selectors []string `json:"selectors,omitempty"`
	Pages     int      `json:"pages"`
	Error     string   `json:"error,omitempty"`
	Token     string   `json:"token,omitempty"`
}

// HandleValidateRanges checks a range expression against a page count.
// Syntax errors are part of a successful answer.
func (h *MergeHandler) HandleValidateRanges(c *fiber.Ctx) error {
	var params types.RangeCheckParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	selectors, err := pagerange.Parse(params.Input, params.LastPage)
	if err != nil {
		var resp RangeCheckResponse
		if se, ok := err.(*pagerange.SyntaxError); ok {
			resp.Error = se.Reason
			resp.Token = se.Token
			return c.JSON(resp)
		}
		return err
	}

	resp := RangeCheckResponse{
		Valid:     true,
		Canonical: pagerange.Format(selectors),
		Selectors: make([]string, len(selectors)),
		Pages:     len(pagerange.Pages(selectors, params.LastPage)),
	}
	for i, s := range selectors {
		resp.Selectors[i] = s.String()
	}
	return c.JSON(resp)
}
