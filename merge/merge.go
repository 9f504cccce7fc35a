// Package merge extracts page selections from PDF documents and joins them
// into one document.
package merge

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"mingle/pagerange"
	"mingle/types"
)

// DocumentSelection names a source document and the pages to take from it.
// No selectors means all pages.
type DocumentSelection struct {
	Path      string
	Selectors []pagerange.Selector
}

type Report struct {
	Pages   int
	Skipped []string
}

// Merger is safe for concurrent use. Each Merge call works on its own
// pdfcpu configuration since pdfcpu mutates it while merging.
type Merger struct {
	logger *slog.Logger
}

func New() *Merger {
	return &Merger{logger: slog.Default()}
}

func (m *Merger) WithLogger(l *slog.Logger) *Merger {
	m.logger = l
	return m
}

// Merge writes the selected pages of sources to w. The output holds the
// sources in order, each source's selectors in order and each range's pages
// in order; repeated or reversed selectors repeat or reorder pages.
//
// Sources that are not regular files or cannot be opened are logged and
// skipped. A source that cannot be parsed as a PDF aborts the merge.
func (m *Merger) Merge(w io.Writer, sources []DocumentSelection) (*Report, error) {
	conf := model.NewDefaultConfiguration()
	report := &Report{}
	var parts [][]byte

	for _, src := range sources {
		f, err := openSource(src.Path)
		if err != nil {
			m.logger.Warn("cannot open source, skipping", "path", src.Path, "err", err)
			report.Skipped = append(report.Skipped, src.Path)
			continue
		}

		extracted, pages, err := m.extract(f, src, conf)
		f.Close()
		if err != nil {
			return nil, err
		}
		parts = append(parts, extracted...)
		report.Pages += pages
	}

	if len(parts) == 0 {
		return nil, types.NewInputError("no pages to merge", nil)
	}
	if err := concat(w, parts, conf); err != nil {
		return nil, types.NewBackendError("cannot merge documents", err)
	}
	return report, nil
}

func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return f, nil
}

func (m *Merger) extract(rs io.ReadSeeker, src DocumentSelection, conf *model.Configuration) ([][]byte, int, error) {
	ctx, err := readContext(rs, conf)
	if err != nil {
		return nil, 0, types.NewBackendError(fmt.Sprintf("cannot read %s", src.Path), err)
	}

	spans := Plan(src.Selectors, ctx.PageCount)
	parts := make([][]byte, 0, len(spans))
	pages := 0
	for _, span := range spans {
		data, err := extractSpan(ctx, span)
		if err != nil {
			return nil, 0, types.NewBackendError(fmt.Sprintf("cannot extract pages %d-%d of %s", span.From+1, span.To+1, src.Path), err)
		}
		parts = append(parts, data)
		pages += span.Len()
	}

	m.logger.Info("source extracted", "path", src.Path, "pages", pages, "of", ctx.PageCount)
	return parts, pages, nil
}
