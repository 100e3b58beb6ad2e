package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const urlScheme = "github://"

// Location is a parsed github://owner/repo/path/to/file[@ref] reference.
type Location struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

// contentsPath is the REST path of the file for `gh api`.
func (l Location) contentsPath() string {
	p := fmt.Sprintf("repos/%s/%s/contents/%s", l.Owner, l.Repo, l.Path)
	if l.Ref != "" {
		p += "?ref=" + l.Ref
	}
	return p
}

// ParseURL parses a github:// reference.
func ParseURL(githubURL string) (Location, error) {
	if !strings.HasPrefix(githubURL, urlScheme) {
		return Location{}, fmt.Errorf("invalid GitHub URL format: %s", githubURL)
	}
	urlPath := strings.TrimPrefix(githubURL, urlScheme)

	var ref string
	if i := strings.LastIndex(urlPath, "@"); i >= 0 {
		urlPath, ref = urlPath[:i], urlPath[i+1:]
	}

	parts := strings.SplitN(urlPath, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Location{}, fmt.Errorf("invalid GitHub URL format: expected github://owner/repo/path/to/file")
	}
	return Location{Owner: parts[0], Repo: parts[1], Path: parts[2], Ref: ref}, nil
}

// IsGitHubURL checks if a source is a github:// reference.
func IsGitHubURL(url string) bool {
	return strings.HasPrefix(url, urlScheme)
}

// runFunc executes a command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// GHClient reads repository files through the gh CLI, which owns the
// authentication.
type GHClient struct {
	run runFunc
}

// NewGHClient creates a client that shells out to gh.
func NewGHClient() *GHClient {
	return &GHClient{run: execCommand}
}

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("gh CLI is not installed. Please install it from https://cli.github.com/")
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			if strings.Contains(msg, "not logged in") {
				return nil, fmt.Errorf("gh CLI is not authenticated. Please run 'gh auth login' first")
			}
			return nil, fmt.Errorf("%s command failed: %s", name, msg)
		}
		return nil, fmt.Errorf("%s command failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// FetchFile retrieves a file through the contents API, which returns it
// base64 encoded.
func (c *GHClient) FetchFile(ctx context.Context, githubURL string) ([]byte, error) {
	loc, err := ParseURL(githubURL)
	if err != nil {
		return nil, err
	}

	out, err := c.run(ctx, "gh", "api", loc.contentsPath(), "--jq", ".content")
	if err != nil {
		return nil, err
	}

	encoded := strings.TrimSpace(string(out))
	if encoded == "" {
		return nil, fmt.Errorf("empty response from GitHub")
	}
	// The contents API wraps the payload every 60 characters.
	encoded = strings.ReplaceAll(encoded, "\\n", "")
	encoded = strings.ReplaceAll(encoded, "\n", "")

	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 content: %w", err)
	}
	return content, nil
}

// FetchFileRaw retrieves a file with the raw media type.
func (c *GHClient) FetchFileRaw(ctx context.Context, githubURL string) ([]byte, error) {
	loc, err := ParseURL(githubURL)
	if err != nil {
		return nil, err
	}

	out, err := c.run(ctx, "gh", "api", "-H", "Accept: application/vnd.github.raw", loc.contentsPath())
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, fmt.Errorf("empty response from GitHub for %s", githubURL)
	}
	return out, nil
}

// CheckAuth verifies that the gh CLI is installed and authenticated.
func (c *GHClient) CheckAuth(ctx context.Context) error {
	if _, err := c.run(ctx, "gh", "auth", "status"); err != nil {
		return fmt.Errorf("gh auth check failed: %w", err)
	}
	return nil
}
