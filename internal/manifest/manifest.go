// Package manifest loads job result manifests. A manifest is a TOML document
// describing one finished remote job: where its results belong locally, which
// files the tool declared, and what the worker reported seeing in its
// directories.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"stagehand/internal/harvest"
	"stagehand/internal/pathmap"
	"stagehand/internal/services"
)

// Manifest is the parsed form of a job result manifest.
type Manifest struct {
	// Job identifies the remote job on the worker.
	Job Job `toml:"job"`
	// Outputs declares what the job was expected to produce.
	Outputs Outputs `toml:"outputs"`
	// Listing carries the worker's directory contents, when it supplied them.
	Listing Listing `toml:"listing"`
}

// Job names the remote job and its local working directory.
type Job struct {
	ID               string `toml:"id"`
	Name             string `toml:"name"`
	WorkingDirectory string `toml:"working_directory"`
	// Separator is the remote path separator. Defaults to "/".
	Separator string `toml:"separator"`
	// CompletedNormally reports whether the job ran to completion.
	CompletedNormally bool `toml:"completed_normally"`
}

// Outputs lists the declared result files of the job.
type Outputs struct {
	// Files are absolute local destinations expected in the output directory.
	Files []string `toml:"files"`
	// WorkDir maps remote working-directory names to local destinations.
	WorkDir []WorkDirEntry `toml:"work_dir"`
	// VersionFile is the local destination of the tool version record, if any.
	VersionFile string `toml:"version_file"`
}

// WorkDirEntry pairs a remote working-directory file with where it lands
// locally.
type WorkDirEntry struct {
	Source      string `toml:"source"`
	Destination string `toml:"destination"`
}

// Listing holds the worker's view of its job directories. A section left out
// of the manifest marks that directory listing as unavailable.
type Listing struct {
	WorkDir   *ListingSection `toml:"work_dir"`
	OutputDir *ListingSection `toml:"output_dir"`
}

// ListingSection wraps a file-name list so that an absent section can be told
// apart from a present-but-empty one.
type ListingSection struct {
	Files []string `toml:"files"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, services.Wrap(services.ErrValidation, "manifest", "load",
			fmt.Sprintf("parse %s", path), err)
	}
	m.normalize()
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) normalize() {
	m.Job.ID = strings.TrimSpace(m.Job.ID)
	m.Job.Name = strings.TrimSpace(m.Job.Name)
	m.Job.WorkingDirectory = strings.TrimSpace(m.Job.WorkingDirectory)
	if m.Job.Separator == "" {
		m.Job.Separator = "/"
	}
	if m.Job.Name == "" {
		m.Job.Name = m.Job.ID
	}
	m.Outputs.VersionFile = strings.TrimSpace(m.Outputs.VersionFile)

	files := m.Outputs.Files[:0]
	for _, f := range m.Outputs.Files {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			files = append(files, trimmed)
		}
	}
	m.Outputs.Files = files
}

func (m *Manifest) validate() error {
	if m.Job.ID == "" {
		return services.Wrap(services.ErrValidation, "manifest", "validate", "job.id is required", nil)
	}
	if m.Job.WorkingDirectory == "" {
		return services.Wrap(services.ErrValidation, "manifest", "validate", "job.working_directory is required", nil)
	}
	for i, entry := range m.Outputs.WorkDir {
		if strings.TrimSpace(entry.Source) == "" || strings.TrimSpace(entry.Destination) == "" {
			return services.Wrap(services.ErrValidation, "manifest", "validate",
				fmt.Sprintf("outputs.work_dir[%d] needs both source and destination", i), nil)
		}
	}
	return nil
}

// Spec converts the manifest into the collection spec consumed by harvest
// code.
func (m *Manifest) Spec() harvest.OutputSpec {
	spec := harvest.OutputSpec{
		WorkingDirectory: m.Job.WorkingDirectory,
		OutputFiles:      append([]string(nil), m.Outputs.Files...),
		VersionFile:      m.Outputs.VersionFile,
	}
	for _, entry := range m.Outputs.WorkDir {
		spec.WorkDirOutputs = append(spec.WorkDirOutputs, harvest.WorkDirOutput{
			Source:      entry.Source,
			Destination: entry.Destination,
		})
	}
	return spec
}

// Report converts the manifest's listing into the worker report consumed by
// harvest code. Absent sections yield nil listings, which downgrade
// collection to legacy fetches.
func (m *Manifest) Report() *harvest.ListingReport {
	report := &harvest.ListingReport{
		Helper: pathmap.New(m.Job.Separator),
	}
	if m.Listing.WorkDir != nil {
		report.WorkDirContents = append([]string{}, m.Listing.WorkDir.Files...)
	}
	if m.Listing.OutputDir != nil {
		report.OutputDirContents = append([]string{}, m.Listing.OutputDir.Files...)
	}
	return report
}
