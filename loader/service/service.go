package service

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mingle/job"
	"mingle/layout"
	"mingle/loader/internal"
	"mingle/types"
)

type Service struct {
	logger *slog.Logger
	runner *job.Runner
	loader *internal.ManifestLoader
}

func New(runner *job.Runner, cfg types.Config) (*Service, error) {
	loader, err := internal.NewManifestLoader(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		logger: slog.Default(),
		runner: runner,
		loader: loader,
	}, nil
}

func (s *Service) Stop() {
	s.logger.Info("Loader Service stopped")
}

// Run processes manifests until SIGINT or SIGTERM.
func (s *Service) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	<-sigch
	s.logger.Info("received shutdown signal, shutting down gracefully")
	cancel()

	select {
	case <-done:
		s.logger.Info("all goroutines stopped")
	case <-time.After(5 * time.Second):
		s.logger.Warn("timeout waiting for goroutines to stop, forcing shutdown")
	}
	s.Stop()
}

// Start runs the watch, decode and execute stages and blocks until ctx is
// cancelled and every stage has returned.
func (s *Service) Start(ctx context.Context) {
	fileChan := make(chan string, 10)
	taskChan := make(chan *internal.Task)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(fileChan)
		s.loader.WatchFile(ctx, fileChan)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(taskChan)
		s.loader.ProcessFile(ctx, fileChan, taskChan)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.TaskRun(ctx, taskChan)
	}()

	wg.Wait()
}

// TaskRun executes tasks and archives their manifests: successful ones to
// the archive directory, failed ones to the bad directory.
func (s *Service) TaskRun(ctx context.Context, taskChan <-chan *internal.Task) {
	for task := range taskChan {
		if ctx.Err() != nil {
			// Left in place for the next run.
			s.loader.Done(task.ManifestPath)
			continue
		}

		state := internal.Archived
		if err := s.runTask(ctx, task); err != nil {
			s.logger.Warn("task failed", "manifest", task.ManifestPath, "err", err)
			state = internal.Bad
		}
		s.loader.MoveToArchive(task.ManifestPath, state)
		s.loader.Done(task.ManifestPath)
	}
}

func (s *Service) runTask(ctx context.Context, task *internal.Task) error {
	m := task.Manifest
	dest := job.Destination{OutputPath: m.Output, Source: "hotfolder"}

	switch m.Kind {
	case types.JobLayout:
		orientation, err := layout.ParseOrientation(m.Layout.Orientation)
		if err != nil {
			return err
		}
		_, err = s.runner.Layout(ctx, job.LayoutRequest{
			Images: m.Layout.Images,
			Angles: m.Layout.Angles,
			Config: layout.Config{
				Columns:     max(m.Layout.Columns, 1),
				Rows:        max(m.Layout.Rows, 1),
				PageMargin:  m.Layout.PageMargin,
				ImageMargin: m.Layout.ImageMargin,
				Orientation: orientation,
			},
			BestOrientation: m.Layout.BestOrientation,
			Destination:     dest,
		})
		return err

	default:
		docs := make([]job.Document, len(m.Merge))
		for i, d := range m.Merge {
			docs[i] = job.Document{Path: d.Path, Ranges: d.Ranges}
		}
		_, err := s.runner.Merge(ctx, job.MergeRequest{Documents: docs, Destination: dest})
		return err
	}
}
