package cadmus

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// otaChunkSize is the Range request size for artifact downloads.
	otaChunkSize = 10 * 1024 * 1024

	// otaChunkTimeout bounds a single chunk attempt.
	otaChunkTimeout = 30 * time.Second

	// otaMaxRetries is the attempt count per chunk before giving up.
	otaMaxRetries = 3

	// otaPayloadName is the file extracted from CI artifacts and deployed.
	otaPayloadName = "KoboRoot.tgz"
)

// OTAStage identifies a phase of an update download for progress reporting.
type OTAStage uint8

const (
	OTACheckingPR OTAStage = iota
	OTAFindingBuild
	OTAFindingWorkflow
	OTADownloading
	OTAComplete
)

// OTAProgress is one progress report. Downloaded and Total are only set
// during OTADownloading; Path only at OTAComplete.
type OTAProgress struct {
	Stage      OTAStage
	Downloaded int64
	Total      int64
	Path       string
}

// OTAClient downloads build artifacts from GitHub: CI artifacts attached to
// a pull request or the default branch, and release assets for stable
// updates. Downloads run in chunks with Range requests so a flaky wireless
// link only costs the failed chunk.
type OTAClient struct {
	http    *http.Client
	baseURL string
	repo    string
	token   string
	dir     string
}

// NewOTAClient builds a client from the OTA settings. The token needs read
// access to Actions artifacts.
func NewOTAClient(settings OTASettings) (*OTAClient, error) {
	if settings.Token == "" {
		return nil, fmt.Errorf("ota: github token not configured")
	}
	repo := settings.Repo
	if repo == "" {
		repo = "ogkevin/cadmus"
	}
	return &OTAClient{
		http:    &http.Client{Timeout: otaChunkTimeout},
		baseURL: "https://api.github.com",
		repo:    repo,
		token:   settings.Token,
		dir:     os.TempDir(),
	}, nil
}

type otaPullRequest struct {
	Head struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

type otaWorkflowRuns struct {
	WorkflowRuns []otaWorkflowRun `json:"workflow_runs"`
}

type otaWorkflowRun struct {
	Name    string `json:"name"`
	ID      int64  `json:"id"`
	HeadSHA string `json:"head_sha"`
}

type otaRepository struct {
	DefaultBranch string `json:"default_branch"`
}

type otaArtifacts struct {
	Artifacts []otaArtifact `json:"artifacts"`
}

type otaArtifact struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
	Size int64  `json:"size_in_bytes"`
}

type otaRelease struct {
	Assets []otaReleaseAsset `json:"assets"`
}

type otaReleaseAsset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
	Size int64  `json:"size"`
}

// DownloadPRArtifact fetches the build artifact attached to a pull request
// and returns the path of the downloaded zip.
func (c *OTAClient) DownloadPRArtifact(ctx context.Context, pr int, progress func(OTAProgress)) (string, error) {
	progress(OTAProgress{Stage: OTACheckingPR})
	slog.Info("starting pr build download", "pr", pr)

	var pull otaPullRequest
	if err := c.get(ctx, fmt.Sprintf("%s/repos/%s/pulls/%d", c.baseURL, c.repo, pr), &pull); err != nil {
		return "", fmt.Errorf("ota: pr #%d not found: %w", pr, err)
	}

	progress(OTAProgress{Stage: OTAFindingWorkflow})
	var runs otaWorkflowRuns
	url := fmt.Sprintf("%s/repos/%s/actions/runs?head_sha=%s&event=pull_request", c.baseURL, c.repo, pull.Head.SHA)
	if err := c.get(ctx, url, &runs); err != nil {
		return "", fmt.Errorf("ota: fetch workflow runs: %w", err)
	}
	var run *otaWorkflowRun
	for i := range runs.WorkflowRuns {
		if runs.WorkflowRuns[i].Name == "Cargo" {
			run = &runs.WorkflowRuns[i]
			break
		}
	}
	if run == nil {
		return "", fmt.Errorf("ota: no build artifacts found for pr #%d", pr)
	}

	artifact, err := c.findArtifact(ctx, run.ID, fmt.Sprintf("cadmus-kobo-pr%d", pr))
	if err != nil {
		return "", err
	}

	path := filepath.Join(c.dir, fmt.Sprintf("cadmus-ota-%d.zip", pr))
	url = fmt.Sprintf("%s/repos/%s/actions/artifacts/%d/zip", c.baseURL, c.repo, artifact.ID)
	if err := c.downloadToPath(ctx, url, artifact.Size, path, progress); err != nil {
		return "", err
	}
	progress(OTAProgress{Stage: OTAComplete, Path: path})
	slog.Info("pr build download completed", "pr", pr, "path", path)
	return path, nil
}

// DownloadDefaultBranchArtifact fetches the artifact of the latest
// successful build on the repository's default branch.
func (c *OTAClient) DownloadDefaultBranchArtifact(ctx context.Context, progress func(OTAProgress)) (string, error) {
	progress(OTAProgress{Stage: OTAFindingBuild})
	slog.Info("starting main branch build download")

	var repo otaRepository
	if err := c.get(ctx, fmt.Sprintf("%s/repos/%s", c.baseURL, c.repo), &repo); err != nil {
		return "", fmt.Errorf("ota: fetch repository metadata: %w", err)
	}

	var runs otaWorkflowRuns
	url := fmt.Sprintf("%s/repos/%s/actions/workflows/cargo.yml/runs?branch=%s&event=push&status=success&per_page=1",
		c.baseURL, c.repo, repo.DefaultBranch)
	if err := c.get(ctx, url, &runs); err != nil {
		return "", fmt.Errorf("ota: fetch workflow runs: %w", err)
	}
	if len(runs.WorkflowRuns) == 0 {
		return "", fmt.Errorf("ota: no build artifacts found for default branch")
	}
	run := runs.WorkflowRuns[0]
	if run.HeadSHA == "" {
		return "", fmt.Errorf("ota: workflow run %d missing head sha", run.ID)
	}
	shortSHA := run.HeadSHA
	if len(shortSHA) > 7 {
		shortSHA = shortSHA[:7]
	}

	progress(OTAProgress{Stage: OTAFindingWorkflow})
	artifact, err := c.findArtifact(ctx, run.ID, "cadmus-kobo-"+shortSHA)
	if err != nil {
		return "", err
	}

	path := filepath.Join(c.dir, fmt.Sprintf("cadmus-ota-%s.zip", shortSHA))
	url = fmt.Sprintf("%s/repos/%s/actions/artifacts/%d/zip", c.baseURL, c.repo, artifact.ID)
	if err := c.downloadToPath(ctx, url, artifact.Size, path, progress); err != nil {
		return "", err
	}
	progress(OTAProgress{Stage: OTAComplete, Path: path})
	slog.Info("main branch build download completed", "sha", shortSHA, "path", path)
	return path, nil
}

// DownloadStableRelease fetches the payload asset of the latest published
// release. The result is already in deployable form, no extraction needed.
func (c *OTAClient) DownloadStableRelease(ctx context.Context, progress func(OTAProgress)) (string, error) {
	progress(OTAProgress{Stage: OTAFindingBuild})
	slog.Info("starting stable release download")

	var release otaRelease
	if err := c.get(ctx, fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, c.repo), &release); err != nil {
		return "", fmt.Errorf("ota: fetch latest release: %w", err)
	}
	var asset *otaReleaseAsset
	for i := range release.Assets {
		if release.Assets[i].Name == otaPayloadName {
			asset = &release.Assets[i]
			break
		}
	}
	if asset == nil {
		return "", fmt.Errorf("ota: no %s asset in latest release", otaPayloadName)
	}

	path := filepath.Join(c.dir, "cadmus-ota-stable-release.tgz")
	if err := c.downloadToPath(ctx, asset.URL, asset.Size, path, progress); err != nil {
		return "", err
	}
	progress(OTAProgress{Stage: OTAComplete, Path: path})
	slog.Info("stable release download completed", "path", path)
	return path, nil
}

// ExtractAndDeploy pulls the payload out of a downloaded artifact zip and
// writes it under deployDir/.kobo, where the device firmware installs it on
// the next reboot. Returns the deployed path.
func (c *OTAClient) ExtractAndDeploy(zipPath, deployDir string) (string, error) {
	slog.Info("extracting update", "path", zipPath)
	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("ota: open artifact: %w", err)
	}
	defer archive.Close()

	for _, entry := range archive.File {
		if entry.Name != otaPayloadName {
			continue
		}
		r, err := entry.Open()
		if err != nil {
			return "", fmt.Errorf("ota: read %s: %w", entry.Name, err)
		}
		defer r.Close()
		return deployStream(r, deployDir)
	}
	return "", fmt.Errorf("ota: %s not found in artifact", otaPayloadName)
}

// Deploy copies an already-extracted payload into place.
func (c *OTAClient) Deploy(payloadPath, deployDir string) (string, error) {
	f, err := os.Open(payloadPath)
	if err != nil {
		return "", fmt.Errorf("ota: open payload: %w", err)
	}
	defer f.Close()
	return deployStream(f, deployDir)
}

func deployStream(r io.Reader, deployDir string) (string, error) {
	dir := filepath.Join(deployDir, ".kobo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ota: create deploy directory: %w", err)
	}
	path := filepath.Join(dir, otaPayloadName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("ota: create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("ota: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("ota: write %s: %w", path, err)
	}
	slog.Info("update deployed", "path", path)
	return path, nil
}

// findArtifact lists a run's artifacts and returns the first whose name
// starts with prefix.
func (c *OTAClient) findArtifact(ctx context.Context, runID int64, prefix string) (otaArtifact, error) {
	var artifacts otaArtifacts
	url := fmt.Sprintf("%s/repos/%s/actions/runs/%d/artifacts", c.baseURL, c.repo, runID)
	if err := c.get(ctx, url, &artifacts); err != nil {
		return otaArtifact{}, fmt.Errorf("ota: fetch artifacts: %w", err)
	}
	for _, artifact := range artifacts.Artifacts {
		if strings.HasPrefix(artifact.Name, prefix) {
			return artifact, nil
		}
	}
	return otaArtifact{}, fmt.Errorf("ota: no artifact matching %q in run %d", prefix, runID)
}

// get performs an authenticated API request and decodes the JSON body.
func (c *OTAClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// downloadToPath fetches url in Range chunks, reporting progress after each
// chunk and retrying failed chunks with exponential backoff.
func (c *OTAClient) downloadToPath(ctx context.Context, url string, total int64, path string, progress func(OTAProgress)) error {
	progress(OTAProgress{Stage: OTADownloading, Total: total})
	slog.Debug("downloading file", "url", url, "path", path, "total", total)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ota: create %s: %w", path, err)
	}
	defer f.Close()

	var downloaded int64
	for downloaded < total {
		end := downloaded + otaChunkSize - 1
		if end > total-1 {
			end = total - 1
		}
		chunk, err := c.downloadChunkWithRetries(ctx, url, downloaded, end)
		if err != nil {
			return err
		}
		if _, err := f.Write(chunk); err != nil {
			return fmt.Errorf("ota: write %s: %w", path, err)
		}
		downloaded += int64(len(chunk))
		progress(OTAProgress{Stage: OTADownloading, Downloaded: downloaded, Total: total})
	}
	return f.Sync()
}

func (c *OTAClient) downloadChunkWithRetries(ctx context.Context, url string, start, end int64) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= otaMaxRetries; attempt++ {
		chunk, err := c.downloadChunk(ctx, url, start, end)
		if err == nil {
			return chunk, nil
		}
		lastErr = err
		slog.Warn("chunk download failed", "attempt", attempt, "start", start, "end", end, "error", err)
		if attempt < otaMaxRetries {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil, fmt.Errorf("ota: chunk %d-%d failed after %d attempts: %w", start, end, otaMaxRetries, lastErr)
}

func (c *OTAClient) downloadChunk(ctx context.Context, url string, start, end int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
