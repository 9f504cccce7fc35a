// Package job runs layout and merge requests end to end and records each run.
package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mingle/layout"
	"mingle/merge"
	"mingle/output"
	"mingle/pagerange"
	"mingle/render"
	"mingle/store"
	"mingle/types"
)

type LayoutRequest struct {
	Images          []string
	Angles          []int
	Config          layout.Config
	BestOrientation bool
	Destination
}

type Document struct {
	Path string
	// Ranges is a page range expression; empty selects every page.
	Ranges string
}

type MergeRequest struct {
	Documents []Document
	Destination
}

// Destination says where the PDF goes. OutputPath wins over OutputDir;
// with OutputDir the file is named after the job id. With neither the PDF
// is kept in memory.
type Destination struct {
	OutputPath string
	OutputDir  string
	// Source is recorded with the job, e.g. "api" or "hotfolder".
	Source string
}

func (d Destination) path(id uuid.UUID) string {
	if d.OutputPath != "" {
		return d.OutputPath
	}
	if d.OutputDir != "" {
		return filepath.Join(d.OutputDir, id.String()+".pdf")
	}
	return ""
}

type Result struct {
	Job    types.Job
	Output *output.Result
	// Skipped lists merge sources that were not readable files.
	Skipped []string
}

// RangeError is an invalid range expression of one merge document.
type RangeError struct {
	Index int
	Path  string
	Err   *pagerange.SyntaxError
}

// RangeErrors collects every invalid range expression of a merge request.
type RangeErrors []RangeError

func (e RangeErrors) Error() string {
	msgs := make([]string, len(e))
	for i, re := range e {
		msgs[i] = fmt.Sprintf("%s: %s", filepath.Base(re.Path), re.Err.Reason)
	}
	return strings.Join(msgs, "; ")
}

type Runner struct {
	store    store.DBStorer
	logger   *slog.Logger
	measurer layout.Measurer
	renderer *render.Renderer
	merger   *merge.Merger
}

func NewRunner(storer store.DBStorer) *Runner {
	logger := slog.Default()
	return &Runner{
		store:    storer,
		logger:   logger,
		measurer: layout.FileMeasurer{},
		renderer: render.New(),
		merger:   merge.New().WithLogger(logger),
	}
}

// Layout places the images, renders them and delivers the PDF.
func (r *Runner) Layout(ctx context.Context, req LayoutRequest) (*Result, error) {
	job := r.start(types.JobLayout, req.Source, len(req.Images))
	path := req.path(job.ID)

	res, err := r.layout(ctx, req, path)
	if err != nil {
		r.finish(ctx, &job, 0, nil, err)
		return nil, err
	}
	r.finish(ctx, &job, res.pages, res.out, nil)
	return &Result{Job: job, Output: res.out}, nil
}

type produced struct {
	pages int
	out   *output.Result
}

func (r *Runner) layout(ctx context.Context, req LayoutRequest, path string) (*produced, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := req.Config.Normalize()
	if err != nil {
		return nil, err
	}
	items := layout.Items(req.Images, req.Angles)

	placements, err := layout.ForConfig(cfg, req.BestOrientation, r.measurer).Place(items, cfg)
	if err != nil {
		return nil, err
	}

	out, err := output.Deliver(path, func(w io.Writer) error {
		return r.renderer.Render(w, placements)
	})
	if err != nil {
		return nil, err
	}
	return &produced{pages: len(layout.Paginate(placements)), out: out}, nil
}

// Merge validates every range expression against its own document and, if
// all are valid, merges the selections in order. Invalid expressions are
// reported together as RangeErrors and nothing is merged.
func (r *Runner) Merge(ctx context.Context, req MergeRequest) (*Result, error) {
	job := r.start(types.JobMerge, req.Source, len(req.Documents))
	path := req.path(job.ID)

	sources, err := r.selections(req.Documents)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		r.finish(ctx, &job, 0, nil, err)
		return nil, err
	}

	var report *merge.Report
	out, err := output.Deliver(path, func(w io.Writer) error {
		var err error
		report, err = r.merger.Merge(w, sources)
		return err
	})
	if err != nil {
		r.finish(ctx, &job, 0, nil, err)
		return nil, err
	}

	r.finish(ctx, &job, report.Pages, out, nil)
	return &Result{Job: job, Output: out, Skipped: report.Skipped}, nil
}

func (r *Runner) selections(docs []Document) ([]merge.DocumentSelection, error) {
	var rangeErrs RangeErrors
	sources := make([]merge.DocumentSelection, len(docs))

	for i, doc := range docs {
		sources[i].Path = doc.Path
		if doc.Ranges == "" {
			continue
		}
		// The merger skips anything that is not a regular file.
		if fi, err := os.Stat(doc.Path); errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.Mode().IsRegular()) {
			continue
		}

		selectors, err := pagerange.Parse(doc.Ranges, r.PageCount(doc.Path))
		if err != nil {
			var se *pagerange.SyntaxError
			if !errors.As(err, &se) {
				return nil, err
			}
			rangeErrs = append(rangeErrs, RangeError{Index: i, Path: doc.Path, Err: se})
			continue
		}
		sources[i].Selectors = selectors
	}

	if len(rangeErrs) > 0 {
		return nil, rangeErrs
	}
	return sources, nil
}

// PageCount returns the number of pages of the PDF at path, or 0 when it
// cannot be read.
func (r *Runner) PageCount(path string) int {
	n, err := merge.PageCount(path)
	if err != nil {
		r.logger.Warn("cannot count pages", "path", path, "err", err)
		return 0
	}
	return n
}

// Job returns a recorded job.
func (r *Runner) Job(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	return r.store.GetJobByID(ctx, id)
}

func (r *Runner) Jobs(ctx context.Context, limit int) ([]types.Job, error) {
	return r.store.ListJobs(ctx, limit)
}

func (r *Runner) start(kind types.JobKind, source string, inputs int) types.Job {
	now := time.Now().UTC()
	return types.Job{
		ID:        uuid.New(),
		Kind:      kind,
		Source:    source,
		Inputs:    inputs,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// finish completes job and stores it. Storage failures are logged, not
// returned.
func (r *Runner) finish(ctx context.Context, job *types.Job, pages int, out *output.Result, runErr error) {
	job.UpdatedAt = time.Now().UTC()
	job.Pages = pages
	if out != nil {
		job.OutputPath = out.Path
	}
	if runErr != nil {
		job.Status = types.JobFailed
		job.Error = runErr.Error()
		r.logger.Warn("job failed", "id", job.ID, "kind", job.Kind, "err", runErr)
	} else {
		job.Status = types.JobDone
		r.logger.Info("job done", "id", job.ID, "kind", job.Kind, "pages", pages, "output", job.OutputPath)
	}

	// Recorded even when ctx was cancelled.
	if err := r.store.SaveJob(context.WithoutCancel(ctx), *job); err != nil {
		r.logger.Error("cannot save job", "id", job.ID, "err", err)
	}
}
