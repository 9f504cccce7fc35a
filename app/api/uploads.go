package api

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"mingle/job"

	"github.com/gofiber/fiber/v2"
)

// saveUploads stores uploaded files in a fresh temporary directory, each in
// a subdirectory named after its position so that equal file names do not
// collide. The caller removes dir.
func saveUploads(c *fiber.Ctx, files []*multipart.FileHeader) (dir string, paths []string, err error) {
	dir, err = os.MkdirTemp("", "mingle-upload-*")
	if err != nil {
		return "", nil, err
	}

	paths = make([]string, len(files))
	for i, fh := range files {
		sub := filepath.Join(dir, strconv.Itoa(i))
		if err := os.Mkdir(sub, 0755); err != nil {
			os.RemoveAll(dir)
			return "", nil, err
		}
		paths[i] = filepath.Join(sub, filepath.Base(fh.Filename))
		if err := c.SaveFile(fh, paths[i]); err != nil {
			os.RemoveAll(dir)
			return "", nil, err
		}
	}
	return dir, paths, nil
}

// formFiles returns the files of one multipart field in upload order.
func formFiles(c *fiber.Ctx, field string) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, ErrBadRequest()
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, ErrMissingFiles(field)
	}
	return files, nil
}

// sendResult answers with the job record when the PDF was saved and with
// the PDF itself otherwise.
func sendResult(c *fiber.Ctx, res *job.Result, name, staticPrefix string) error {
	c.Set("X-Job-ID", res.Job.ID.String())
	if res.Output.Path != "" {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"job": res.Job,
			"url": staticPrefix + "/" + filepath.Base(res.Output.Path),
		})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.SendStream(res.Output.Buffer, int(res.Output.Size))
}
