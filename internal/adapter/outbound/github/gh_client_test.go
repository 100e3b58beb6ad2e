package github

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records the last command and answers with canned output.
type fakeRunner struct {
	out  []byte
	err  error
	name string
	args []string
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	return f.out, f.err
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expected    Location
		expectError bool
	}{
		{
			name:     "simple github URL",
			url:      "github://owner/repo/path/to/file.yaml",
			expected: Location{Owner: "owner", Repo: "repo", Path: "path/to/file.yaml"},
		},
		{
			name:     "github URL with ref",
			url:      "github://owner/repo/path/to/file.yaml@v1.0",
			expected: Location{Owner: "owner", Repo: "repo", Path: "path/to/file.yaml", Ref: "v1.0"},
		},
		{
			name:     "github URL with branch ref",
			url:      "github://celestialdb/api/specs/openapi.yaml@main",
			expected: Location{Owner: "celestialdb", Repo: "api", Path: "specs/openapi.yaml", Ref: "main"},
		},
		{
			name:        "invalid URL - not github",
			url:         "https://github.com/owner/repo/file.yaml",
			expectError: true,
		},
		{
			name:        "invalid URL - missing path",
			url:         "github://owner/repo",
			expectError: true,
		},
		{
			name:        "invalid URL - empty repo",
			url:         "github://owner//file.yaml",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseURL(tt.url)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, loc)
		})
	}
}

func TestIsGitHubURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"github://owner/repo/file.yaml", true},
		{"github://owner/repo/file.yaml@v1.0", true},
		{"https://github.com/owner/repo/file.yaml", false},
		{"http://example.com/api.yaml", false},
		{"./openapi.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsGitHubURL(tt.url))
		})
	}
}

func TestGHClient_FetchFileRaw(t *testing.T) {
	runner := &fakeRunner{out: []byte("openapi: 3.0.3\n")}
	client := &GHClient{run: runner.run}

	content, err := client.FetchFileRaw(context.Background(), "github://owner/repo/api/openapi.yaml@dev")
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.3\n", string(content))
	assert.Equal(t, "gh", runner.name)
	assert.Equal(t, []string{"api", "-H", "Accept: application/vnd.github.raw", "repos/owner/repo/contents/api/openapi.yaml?ref=dev"}, runner.args)

	t.Run("empty output", func(t *testing.T) {
		client := &GHClient{run: (&fakeRunner{out: []byte("  \n")}).run}
		_, err := client.FetchFileRaw(context.Background(), "github://owner/repo/file.yaml")
		assert.Error(t, err)
	})

	t.Run("command failure", func(t *testing.T) {
		client := &GHClient{run: (&fakeRunner{err: errors.New("gh command failed: HTTP 404")}).run}
		_, err := client.FetchFileRaw(context.Background(), "github://owner/repo/file.yaml")
		assert.ErrorContains(t, err, "404")
	})
}

func TestGHClient_FetchFile(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello world, this is a file"))
	wrapped := encoded[:10] + "\\n" + encoded[10:] + "\n"

	runner := &fakeRunner{out: []byte(wrapped)}
	client := &GHClient{run: runner.run}

	content, err := client.FetchFile(context.Background(), "github://owner/repo/README.md")
	require.NoError(t, err)
	assert.Equal(t, "hello world, this is a file", string(content))
	assert.Equal(t, []string{"api", "repos/owner/repo/contents/README.md", "--jq", ".content"}, runner.args)

	t.Run("bad encoding", func(t *testing.T) {
		client := &GHClient{run: (&fakeRunner{out: []byte("!!!")}).run}
		_, err := client.FetchFile(context.Background(), "github://owner/repo/README.md")
		assert.Error(t, err)
	})
}

// Integration test - requires gh CLI to be installed and authenticated
func TestFetchFile_Integration(t *testing.T) {
	client := NewGHClient()
	if err := client.CheckAuth(context.Background()); err != nil {
		t.Skip("Skipping integration test: gh CLI not available or not authenticated")
	}

	content, err := client.FetchFile(context.Background(), "github://github/gitignore/Go.gitignore")
	assert.NoError(t, err)
	assert.NotEmpty(t, content)
}
