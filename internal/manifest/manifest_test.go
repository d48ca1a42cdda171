package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stagehand/internal/harvest"
	"stagehand/internal/manifest"
	"stagehand/internal/services"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

const fullManifest = `
[job]
id = "job-42"
name = "trim-reads"
working_directory = "/data/jobs/42/working"
completed_normally = true

[outputs]
files = ["/data/results/out1.dat", "/data/results/out2.dat"]
version_file = "/data/results/tool_version.txt"

[[outputs.work_dir]]
source = "galaxy.json"
destination = "/data/results/galaxy.json"

[listing.work_dir]
files = ["galaxy.json", "primary_1_extra"]

[listing.output_dir]
files = ["out1.dat", "out1.dat_index"]
`

func TestLoadFullManifest(t *testing.T) {
	m, err := manifest.Load(writeManifest(t, fullManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Job.Name != "trim-reads" {
		t.Fatalf("name = %q", m.Job.Name)
	}
	if m.Job.Separator != "/" {
		t.Fatalf("separator = %q, want default /", m.Job.Separator)
	}
	if !m.Job.CompletedNormally {
		t.Fatal("completed_normally not parsed")
	}

	spec := m.Spec()
	if spec.WorkingDirectory != "/data/jobs/42/working" {
		t.Fatalf("working directory = %q", spec.WorkingDirectory)
	}
	if len(spec.OutputFiles) != 2 {
		t.Fatalf("output files = %v", spec.OutputFiles)
	}
	if len(spec.WorkDirOutputs) != 1 || spec.WorkDirOutputs[0].Source != "galaxy.json" {
		t.Fatalf("work dir outputs = %+v", spec.WorkDirOutputs)
	}
	if spec.VersionFile != "/data/results/tool_version.txt" {
		t.Fatalf("version file = %q", spec.VersionFile)
	}

	report := m.Report()
	contents, ok := report.WorkingDirectoryContents()
	if !ok || len(contents) != 2 {
		t.Fatalf("working directory contents = %v, ok = %v", contents, ok)
	}
	if got := report.HasOutputFile("/data/results/out1.dat"); got != harvest.PresencePresent {
		t.Fatalf("out1.dat presence = %v, want present", got)
	}
}

func TestLoadWithoutListingsIsLegacy(t *testing.T) {
	m, err := manifest.Load(writeManifest(t, `
[job]
id = "job-legacy"
working_directory = "/w"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	report := m.Report()
	if _, ok := report.WorkingDirectoryContents(); ok {
		t.Fatal("missing listing section should report no contents")
	}
	if _, ok := report.OutputDirectoryContents(); ok {
		t.Fatal("missing listing section should report no contents")
	}
}

func TestEmptyListingIsPresentButEmpty(t *testing.T) {
	m, err := manifest.Load(writeManifest(t, `
[job]
id = "job-empty"
working_directory = "/w"

[listing.work_dir]
files = []
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	contents, ok := m.Report().WorkingDirectoryContents()
	if !ok {
		t.Fatal("empty listing should still count as available")
	}
	if len(contents) != 0 {
		t.Fatalf("contents = %v, want empty", contents)
	}
}

func TestNameDefaultsToJobID(t *testing.T) {
	m, err := manifest.Load(writeManifest(t, `
[job]
id = "job-7"
working_directory = "/w"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Job.Name != "job-7" {
		t.Fatalf("name = %q, want job-7", m.Job.Name)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"missing job id", "[job]\nworking_directory = \"/w\"\n"},
		{"missing working directory", "[job]\nid = \"j\"\n"},
		{"incomplete work dir entry", `
[job]
id = "j"
working_directory = "/w"

[[outputs.work_dir]]
source = "only-source"
`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := manifest.Load(writeManifest(t, tc.contents))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, err := manifest.Load(writeManifest(t, "[job\nid ="))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := manifest.Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
