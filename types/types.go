package types

import (
	"time"

	"github.com/google/uuid"
)

type JobKind string

const (
	JobLayout JobKind = "layout"
	JobMerge  JobKind = "merge"
)

type JobStatus string

const (
	JobDone   JobStatus = "done"
	JobFailed JobStatus = "failed"
)

// Job is the record kept for every layout or merge run.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Kind       JobKind   `json:"kind"`
	Status     JobStatus `json:"status"`
	Source     string    `json:"source"` // api, hotfolder
	Inputs     int       `json:"inputs"`
	Pages      int       `json:"pages"`
	OutputPath string    `json:"output_path,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Config drives the hot folder loader.
type Config struct {
	MonitoringTime time.Duration
	SourceDir      string
	ArchiveDir     string
	BadDir         string
	OutputDir      string
}

type ServerConfig struct {
	ListenAddr string
	OutputDir  string
	// UploadLimit is the request body limit in bytes.
	UploadLimit int
	PostgresDSN string
}

// Manifest is a hot folder job description. Paths are relative to the
// manifest's directory unless absolute.
type Manifest struct {
	Kind   JobKind            `json:"kind" validate:"required,oneof=layout merge"`
	Output string             `json:"output"`
	Layout *LayoutManifest    `json:"layout,omitempty" validate:"required_if=Kind layout"`
	Merge  []MergeManifestDoc `json:"merge,omitempty" validate:"required_if=Kind merge,dive"`
}

type LayoutManifest struct {
	Images          []string `json:"images" validate:"required,min=1"`
	Angles          []int    `json:"angles"`
	Columns         int      `json:"columns" validate:"min=0,max=16"`
	Rows            int      `json:"rows" validate:"min=0,max=16"`
	PageMargin      float64  `json:"page_margin"`
	ImageMargin     float64  `json:"image_margin"`
	Orientation     string   `json:"orientation" validate:"omitempty,oneof=portrait landscape auto"`
	BestOrientation bool     `json:"best_orientation"`
}

type MergeManifestDoc struct {
	Path   string `json:"path" validate:"required"`
	Ranges string `json:"ranges"`
}

func (m *Manifest) Validate() map[string]string {
	return validateStruct(m)
}
