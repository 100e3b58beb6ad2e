package openapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/celestialdb/codegen/internal/domain"

	"github.com/getkin/kin-openapi/openapi3"
)

// SchemaFetcher implements the usecase.SchemaFetcher interface for OpenAPI
// documents stored in local files or served over http(s).
type SchemaFetcher struct {
	httpClient     *http.Client
	headers        map[string]string
	logger         *slog.Logger
	autoDiscoverer *AutoDiscoverer
}

// NewSchemaFetcher creates a new OpenAPI SchemaFetcher. headers are sent
// with every http(s) request, including discovery requests.
func NewSchemaFetcher(client *http.Client, headers map[string]string, logger *slog.Logger) *SchemaFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &SchemaFetcher{
		httpClient:     client,
		headers:        headers,
		logger:         logger.With("component", "openapi_fetcher"),
		autoDiscoverer: NewAutoDiscoverer(client, headers, logger),
	}
}

// Fetch loads an OpenAPI document from a URL or local file path.
func (f *SchemaFetcher) Fetch(ctx context.Context, src string) (domain.APISchema, error) {
	log := f.logger.With(slog.String("source", src))
	log.Info("Fetching OpenAPI schema")

	u, parseErr := url.ParseRequestURI(src)
	isHTTP := parseErr == nil && (u.Scheme == "http" || u.Scheme == "https")

	var rawData []byte
	if isHTTP {
		resolvedSrc := f.autoDiscoverer.ResolveSchemaSource(ctx, src)
		if resolvedSrc != src {
			log.Info("Auto-discovered OpenAPI schema", slog.String("resolved_url", resolvedSrc))
		}
		data, err := f.download(ctx, resolvedSrc)
		if err != nil {
			log.Error("Failed to fetch schema from URL", slog.Any("error", err))
			return domain.APISchema{}, err
		}
		rawData = data
		src = resolvedSrc
	} else {
		log.Debug("Assuming local file path")
		data, err := os.ReadFile(src)
		if err != nil {
			log.Error("Failed to read schema from file", slog.Any("error", err))
			return domain.APISchema{}, fmt.Errorf("failed to read schema from file %s: %w", src, err)
		}
		rawData = data
	}

	doc, err := ParseDocument(ctx, rawData, log)
	if err != nil {
		return domain.APISchema{}, fmt.Errorf("failed to parse OpenAPI schema from %s: %w", src, err)
	}

	log.Info("Successfully fetched and parsed OpenAPI schema")
	return domain.APISchema{
		Source:     src,
		Type:       domain.SchemaTypeOpenAPI,
		RawData:    rawData,
		ParsedData: doc,
	}, nil
}

func (f *SchemaFetcher) download(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", src, err)
	}
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schema from URL %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch schema from URL %s: status %s", src, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", src, err)
	}
	return body, nil
}

// ParseDocument loads a JSON or YAML OpenAPI document and resolves its
// references. Validation problems are logged, not returned: generation
// only needs the document to be structurally readable.
func ParseDocument(ctx context.Context, data []byte, log *slog.Logger) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		log.Error("Failed to parse OpenAPI schema data", slog.Any("error", err))
		return nil, err
	}
	if validateErr := doc.Validate(ctx); validateErr != nil {
		log.Warn("OpenAPI schema validation failed", slog.Any("validation_error", validateErr))
	}
	return doc, nil
}
