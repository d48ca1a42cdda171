package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"stagehand/internal/config"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, mutate func(*config.Config)) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	if mutate != nil {
		mutate(&cfgVal)
	}

	configPath := filepath.Join(base, "config.toml")
	data, err := toml.Marshal(cfgVal)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{cfg: &cfgVal, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func writeTestManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "job.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestConfigInitCommand(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// Second init without --overwrite refuses to clobber.
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected error for existing config file")
	}
}

func TestJobsListEmpty(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"jobs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("jobs list: %v", err)
	}
	requireContains(t, out, "No harvest runs recorded yet.")
}

func TestHarvestCommandEndToEnd(t *testing.T) {
	var cleaned bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			cleaned = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
		switch r.URL.Path {
		case "/jobs/job-9/outputs/result.txt":
			_, _ = w.Write([]byte("harvested"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	env := setupCLITestEnv(t, func(cfg *config.Config) {
		cfg.Remote.BaseURL = server.URL
	})

	workDir := filepath.Join(env.baseDir, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatal(err)
	}
	destination := filepath.Join(env.baseDir, "results", "result.txt")

	manifestPath := writeTestManifest(t, env.baseDir, `
[job]
id = "job-9"
name = "example-run"
working_directory = "`+workDir+`"
completed_normally = true

[outputs]
files = ["`+destination+`"]

[listing.work_dir]
files = []

[listing.output_dir]
files = ["result.txt"]
`)

	out, _, err := runCLI(t, []string{"harvest", "--manifest", manifestPath, "--skip-preflight"}, env.configPath)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	requireContains(t, out, "Harvest")
	requireContains(t, out, "example-run")

	data, err := os.ReadFile(destination)
	if err != nil {
		t.Fatalf("read harvested output: %v", err)
	}
	if string(data) != "harvested" {
		t.Fatalf("output content = %q", data)
	}
	if !cleaned {
		t.Fatal("expected remote cleanup request under if-job-succeeded policy")
	}

	listOut, _, err := runCLI(t, []string{"jobs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("jobs list: %v", err)
	}
	requireContains(t, listOut, "example-run")
	requireContains(t, listOut, "Succeeded")

	statsOut, _, err := runCLI(t, []string{"jobs", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("jobs stats: %v", err)
	}
	requireContains(t, statsOut, "Total runs")
}

func TestHarvestCommandReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	env := setupCLITestEnv(t, func(cfg *config.Config) {
		cfg.Remote.BaseURL = server.URL
		cfg.Harvest.CleanupPolicy = "never"
	})

	workDir := filepath.Join(env.baseDir, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatal(err)
	}
	destination := filepath.Join(env.baseDir, "results", "missing.txt")

	manifestPath := writeTestManifest(t, env.baseDir, `
[job]
id = "job-10"
working_directory = "`+workDir+`"
completed_normally = true

[outputs]
files = ["`+destination+`"]

[listing.output_dir]
files = ["missing.txt"]
`)

	_, _, err := runCLI(t, []string{"harvest", "--manifest", manifestPath, "--skip-preflight"}, env.configPath)
	if err == nil {
		t.Fatal("expected non-nil error when transfers fail")
	}
	requireContains(t, err.Error(), "failure")
}

func TestHarvestRequiresManifestFlag(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	if _, _, err := runCLI(t, []string{"harvest"}, env.configPath); err == nil {
		t.Fatal("expected error for missing --manifest")
	}
}

func TestPreflightCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	env := setupCLITestEnv(t, func(cfg *config.Config) {
		cfg.Remote.BaseURL = server.URL
	})

	out, _, err := runCLI(t, []string{"preflight"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	requireContains(t, out, "Preflight")
	requireContains(t, out, "Staging directory")
	requireContains(t, out, "Worker")
}
