package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mingle/types"
)

// FileState says where a processed manifest goes.
type FileState int

const (
	Archived FileState = iota
	Bad
)

// Task is a decoded manifest ready to run.
type Task struct {
	ManifestPath string
	Manifest     types.Manifest
}

type seenFile struct {
	firstSeen time.Time
	modTime   time.Time
	size      int64
}

// ManifestLoader watches the source directory for job manifests. A manifest
// is handed on once its size and modification time have not changed for
// the monitoring time.
type ManifestLoader struct {
	cfg    types.Config
	logger *slog.Logger

	FileMutex       sync.Mutex
	FileFirstSeen   map[string]seenFile
	FilesProcessing map[string]bool
}

func NewManifestLoader(cfg types.Config) (*ManifestLoader, error) {
	if err := createDirectories(cfg.SourceDir, cfg.ArchiveDir, cfg.BadDir, cfg.OutputDir); err != nil {
		return nil, err
	}
	return &ManifestLoader{
		cfg:             cfg,
		logger:          slog.Default(),
		FileFirstSeen:   make(map[string]seenFile),
		FilesProcessing: make(map[string]bool),
	}, nil
}

func (l *ManifestLoader) WatchFile(ctx context.Context, fileChan chan<- string) {
	l.logger.Info("start monitoring folder", "dir", l.cfg.SourceDir, "stable_for", l.cfg.MonitoringTime)

	interval := min(time.Second, max(l.cfg.MonitoringTime/2, 10*time.Millisecond))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer l.logger.Info("file watcher stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, filePath := range l.scan() {
				select {
				case fileChan <- filePath:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// scan updates the tracking state and returns the manifests that became
// ready. Returned files are marked as processing until Done is called.
func (l *ManifestLoader) scan() []string {
	files, err := os.ReadDir(l.cfg.SourceDir)
	if err != nil {
		l.logger.Error("error while reading source directory", "err", err)
		return nil
	}

	l.FileMutex.Lock()
	defer l.FileMutex.Unlock()

	var ready []string
	currentFiles := make(map[string]bool)
	for _, file := range files {
		if file.IsDir() || !strings.EqualFold(filepath.Ext(file.Name()), ".json") {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}

		filePath := filepath.Join(l.cfg.SourceDir, file.Name())
		currentFiles[filePath] = true
		if l.FilesProcessing[filePath] {
			continue
		}

		seen, exists := l.FileFirstSeen[filePath]
		if !exists || !seen.modTime.Equal(info.ModTime()) || seen.size != info.Size() {
			if !exists {
				l.logger.Info("new manifest detected", "path", filePath)
			}
			l.FileFirstSeen[filePath] = seenFile{firstSeen: time.Now(), modTime: info.ModTime(), size: info.Size()}
			continue
		}

		if time.Since(seen.firstSeen) >= l.cfg.MonitoringTime {
			l.FilesProcessing[filePath] = true
			ready = append(ready, filePath)
		}
	}

	for filePath := range l.FileFirstSeen {
		if !currentFiles[filePath] && !l.FilesProcessing[filePath] {
			delete(l.FileFirstSeen, filePath)
			l.logger.Info("manifest removed from tracking", "path", filePath)
		}
	}
	return ready
}

// Done forgets filePath once it has been moved out of the source directory.
func (l *ManifestLoader) Done(filePath string) {
	l.FileMutex.Lock()
	delete(l.FilesProcessing, filePath)
	delete(l.FileFirstSeen, filePath)
	l.FileMutex.Unlock()
}

// ProcessFile decodes ready manifests into tasks. Manifests that cannot be
// decoded or validated go to the bad directory.
func (l *ManifestLoader) ProcessFile(ctx context.Context, fileChan <-chan string, taskChan chan<- *Task) {
	defer l.logger.Info("file processor stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case filePath, ok := <-fileChan:
			if !ok {
				return
			}

			task, err := l.readManifest(filePath)
			if err != nil {
				l.logger.Warn("invalid manifest", "path", filePath, "err", err)
				l.MoveToArchive(filePath, Bad)
				l.Done(filePath)
				continue
			}

			select {
			case taskChan <- task:
			case <-ctx.Done():
				// Left in place for the next run.
				l.Done(filePath)
				return
			}
		}
	}
}

func (l *ManifestLoader) readManifest(filePath string) (*Task, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var m types.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if errs := m.Validate(); len(errs) > 0 {
		return nil, types.NewValidationError(errs)
	}

	base := filepath.Dir(filePath)
	if m.Layout != nil {
		for i, p := range m.Layout.Images {
			m.Layout.Images[i] = resolve(base, p)
		}
	}
	for i := range m.Merge {
		m.Merge[i].Path = resolve(base, m.Merge[i].Path)
	}
	m.Output = l.outputPath(filePath, m.Output)

	return &Task{ManifestPath: filePath, Manifest: m}, nil
}

// outputPath places relative or missing outputs under the output
// directory. The default name is the manifest's name with a .pdf extension.
func (l *ManifestLoader) outputPath(manifestPath, output string) string {
	if output == "" {
		name := filepath.Base(manifestPath)
		output = strings.TrimSuffix(name, filepath.Ext(name)) + ".pdf"
	}
	return resolve(l.cfg.OutputDir, output)
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// MoveToArchive moves filePath into a dated subdirectory of the archive or
// bad directory, adding a counter to the name when it is taken.
func (l *ManifestLoader) MoveToArchive(filePath string, fileState FileState) (string, error) {
	var state string
	switch fileState {
	case Bad:
		state = l.cfg.BadDir
	default:
		state = l.cfg.ArchiveDir
	}

	currentDate := time.Now().Format("2006-01-02")
	destDir := filepath.Join(state, currentDate)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		l.logger.Error("error creating directory", "dir", destDir, "err", err)
		return "", err
	}

	destPath := filepath.Join(destDir, filepath.Base(filePath))
	counter := 1
	for {
		if _, err := os.Stat(destPath); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(filePath)
		baseName := strings.TrimSuffix(filepath.Base(filePath), ext)
		destPath = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", baseName, counter, ext))
		counter++
	}

	if err := moveFile(filePath, destPath); err != nil {
		l.logger.Error("error moving manifest", "from", filePath, "to", destPath, "err", err)
		return "", err
	}

	l.logger.Info("manifest moved", "to", destPath)
	return destPath, nil
}

// moveFile renames, falling back to copy and delete across file systems.
func moveFile(from, to string) error {
	if err := os.Rename(from, to); err == nil {
		return nil
	}

	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(to)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(to)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	in.Close()
	return os.Remove(from)
}

func createDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
