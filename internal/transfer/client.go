// Package transfer implements the default remote client used by harvest
// code. It speaks HTTP to the worker's file service for remote transfers,
// copies through a shared filesystem mount for "copy" actions, and treats
// "none" actions as successful no-ops.
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stagehand/internal/fileutil"
	"stagehand/internal/harvest"
	"stagehand/internal/logging"
	"stagehand/internal/services"
)

// HTTPDoer abstracts the HTTP client for tests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the worker file service endpoint, e.g. http://worker:8913.
	BaseURL string
	// JobID identifies the remote job whose files are fetched.
	JobID string
	// MountDir is the local mount of the remote job directory, used by copy
	// actions. Empty when no shared filesystem exists.
	MountDir string
	// Separator is the remote path separator, used to split nested names.
	Separator string
	// Timeout bounds each individual transfer.
	Timeout time.Duration
	// HTTPClient overrides the default HTTP client (used in tests).
	HTTPClient HTTPDoer
	Logger     *slog.Logger
}

// Client performs individual file transfers for one remote job.
type Client struct {
	baseURL   string
	jobID     string
	mountDir  string
	separator string
	requester HTTPDoer
	logger    *slog.Logger
}

var _ harvest.RemoteClient = (*Client)(nil)

// NewClient validates options and builds a client.
func NewClient(opts Options) (*Client, error) {
	jobID := strings.TrimSpace(opts.JobID)
	if jobID == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transfer", "new client", "job id is required", nil)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	separator := opts.Separator
	if separator == "" {
		separator = "/"
	}
	requester := opts.HTTPClient
	if requester == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		requester = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   baseURL,
		jobID:     jobID,
		mountDir:  strings.TrimSpace(opts.MountDir),
		separator: separator,
		requester: requester,
		logger:    logging.NewComponentLogger(opts.Logger, "transfer"),
	}, nil
}

const (
	areaOutputs = "outputs"
	areaWorkDir = "working_directory"
)

// FetchOutput retrieves the output-directory file known remotely as name into
// the local destination path.
func (c *Client) FetchOutput(ctx context.Context, path, name, actionKind string) error {
	if name == "" {
		name = filepath.Base(path)
	}
	return c.fetch(ctx, areaOutputs, name, path, actionKind)
}

// FetchWorkDirOutput retrieves the working-directory file known remotely as
// name into the local destination path.
func (c *Client) FetchWorkDirOutput(ctx context.Context, name, _ string, path, actionKind string) error {
	return c.fetch(ctx, areaWorkDir, name, path, actionKind)
}

// FetchLegacy retrieves path from a worker that reports no file listings. A
// destination under the working directory is assumed to live in the remote
// working directory; anything else is fetched from the output directory by
// its base name.
func (c *Client) FetchLegacy(ctx context.Context, path, workingDirectory, actionKind string) error {
	if workingDirectory != "" {
		if rel, err := filepath.Rel(workingDirectory, path); err == nil && !strings.HasPrefix(rel, "..") {
			name := strings.Join(strings.Split(filepath.ToSlash(rel), "/"), c.separator)
			return c.fetch(ctx, areaWorkDir, name, path, actionKind)
		}
	}
	return c.fetch(ctx, areaOutputs, filepath.Base(path), path, actionKind)
}

// Clean asks the worker to discard the job working area.
func (c *Client) Clean(ctx context.Context) error {
	if c.baseURL == "" {
		return services.Wrap(services.ErrConfiguration, "transfer", "clean", "remote.base_url is not configured", nil)
	}
	target := fmt.Sprintf("%s/jobs/%s", c.baseURL, url.PathEscape(c.jobID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return fmt.Errorf("build clean request: %w", err)
	}
	resp, err := c.requester.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "clean", "clean request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrTransfer, "transfer", "clean",
			fmt.Sprintf("worker returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) fetch(ctx context.Context, area, name, destination, actionKind string) error {
	switch actionKind {
	case "none":
		c.logger.Debug("skipping transfer for none action",
			logging.String("name", name),
			logging.String("destination", destination),
		)
		return nil
	case "copy":
		return c.copyFromMount(area, name, destination)
	case "remote_transfer", "":
		return c.download(ctx, area, name, destination)
	default:
		return services.Wrap(services.ErrConfiguration, "transfer", "fetch",
			fmt.Sprintf("unknown action kind %q", actionKind), nil)
	}
}

func (c *Client) copyFromMount(area, name, destination string) error {
	if c.mountDir == "" {
		return services.Wrap(services.ErrConfiguration, "transfer", "copy", "remote.mount_dir is not configured", nil)
	}
	source := filepath.Join(c.mountDir, area, filepath.Join(strings.Split(name, c.separator)...))
	if _, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrNotFound, "transfer", "copy",
			fmt.Sprintf("remote file %s not visible on mount", name), err)
	}
	if err := fileutil.CopyFileVerified(source, destination); err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "copy",
			fmt.Sprintf("copy %s", name), err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, area, name, destination string) error {
	if c.baseURL == "" {
		return services.Wrap(services.ErrConfiguration, "transfer", "download", "remote.base_url is not configured", nil)
	}
	target := c.fileURL(area, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.requester.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "download",
			fmt.Sprintf("request %s", name), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return services.Wrap(services.ErrNotFound, "transfer", "download",
			fmt.Sprintf("worker has no file %s", name), nil)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrTransfer, "transfer", "download",
			fmt.Sprintf("worker returned %d for %s: %s", resp.StatusCode, name, strings.TrimSpace(string(body))), nil)
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("ensure destination directory: %w", err)
	}
	out, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("create destination %s: %w", destination, err)
	}
	defer func() {
		_ = out.Close()
	}()
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = os.Remove(destination)
		return services.Wrap(services.ErrTransfer, "transfer", "download",
			fmt.Sprintf("stream %s", name), err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("finalize destination %s: %w", destination, err)
	}
	return nil
}

func (c *Client) fileURL(area, name string) string {
	segments := strings.Split(name, c.separator)
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return fmt.Sprintf("%s/jobs/%s/%s/%s", c.baseURL, url.PathEscape(c.jobID), area, strings.Join(escaped, "/"))
}
