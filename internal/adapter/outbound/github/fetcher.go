package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/celestialdb/codegen/internal/adapter/outbound/openapi"
	"github.com/celestialdb/codegen/internal/domain"
)

// Fetcher implements the usecase.SchemaFetcher interface for github://
// sources.
type Fetcher struct {
	ghClient *GHClient
	logger   *slog.Logger
}

// NewFetcher creates a new GitHub schema fetcher. A nil client shells out
// to gh.
func NewFetcher(client *GHClient, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = NewGHClient()
	}
	return &Fetcher{
		ghClient: client,
		logger:   logger.With("component", "github_fetcher"),
	}
}

// Fetch retrieves and parses an OpenAPI document from a GitHub repository.
func (f *Fetcher) Fetch(ctx context.Context, source string) (domain.APISchema, error) {
	log := f.logger.With(slog.String("source", source))

	if !IsGitHubURL(source) {
		return domain.APISchema{}, fmt.Errorf("not a GitHub URL: %s", source)
	}

	log.Info("Fetching OpenAPI schema from GitHub")
	content, err := f.ghClient.FetchFileRaw(ctx, source)
	if err != nil {
		log.Error("Failed to fetch file from GitHub", slog.Any("error", err))
		return domain.APISchema{}, fmt.Errorf("failed to fetch file from GitHub: %w", err)
	}

	doc, err := openapi.ParseDocument(ctx, content, log)
	if err != nil {
		return domain.APISchema{}, fmt.Errorf("failed to parse OpenAPI schema from %s: %w", source, err)
	}

	log.Info("Successfully fetched and parsed OpenAPI schema from GitHub")
	return domain.APISchema{
		Source:     source,
		Type:       domain.SchemaTypeGitHub,
		RawData:    content,
		ParsedData: doc,
	}, nil
}

// LoadConfigFromGitHubOrFile opens a configuration file from either a
// github:// reference or the local filesystem.
func LoadConfigFromGitHubOrFile(ctx context.Context, client *GHClient, path string) (io.ReadCloser, error) {
	if IsGitHubURL(path) {
		if client == nil {
			client = NewGHClient()
		}
		content, err := client.FetchFileRaw(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch config from GitHub: %w", err)
		}
		return io.NopCloser(strings.NewReader(string(content))), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return file, nil
}
