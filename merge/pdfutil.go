package merge

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"mingle/types"
)

// PageCount returns the number of pages of the PDF at path.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, types.NewBackendError(fmt.Sprintf("cannot count pages of %s", path), err)
	}
	return n, nil
}

// readContext parses and validates a whole document.
func readContext(rs io.ReadSeeker, conf *model.Configuration) (*model.Context, error) {
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, err
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// extractSpan writes the pages of span as a standalone document.
func extractSpan(ctx *model.Context, span Span) ([]byte, error) {
	extracted, err := pdfcpu.ExtractPages(ctx, span.pageNumbers(), false)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := api.WriteContext(extracted, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// concat joins documents in order.
func concat(w io.Writer, parts [][]byte, conf *model.Configuration) error {
	if len(parts) == 1 {
		_, err := w.Write(parts[0])
		return err
	}

	readers := make([]io.ReadSeeker, len(parts))
	for i, data := range parts {
		readers[i] = bytes.NewReader(data)
	}
	return api.MergeRaw(readers, w, false, conf)
}
