package openapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Common OpenAPI document paths used by various frameworks
var commonOpenAPIPaths = []string{
	"/openapi.json",            // FastAPI default
	"/docs/openapi.json",       // Alternative FastAPI path
	"/openapi.yaml",            // Static specs
	"/swagger.json",            // Swagger/OpenAPI 2.0
	"/v3/api-docs",             // SpringDoc OpenAPI 3.0
	"/api-docs",                // SpringFox
	"/api/openapi.json",        // Custom API prefix
	"/api/v1/openapi.json",     // Versioned API
	"/swagger/v1/swagger.json", // .NET default
}

const candidateTimeout = 5 * time.Second

// AutoDiscoverer finds the OpenAPI document of a service from its base URL.
type AutoDiscoverer struct {
	client  *http.Client
	headers map[string]string
	logger  *slog.Logger
}

// NewAutoDiscoverer creates a new OpenAPI schema auto-discoverer.
func NewAutoDiscoverer(client *http.Client, headers map[string]string, logger *slog.Logger) *AutoDiscoverer {
	return &AutoDiscoverer{
		client:  client,
		headers: headers,
		logger:  logger.With("component", "openapi_autodiscoverer"),
	}
}

// looksLikeSchemaURL reports whether source already points at a document
// rather than at a service root.
func looksLikeSchemaURL(source string) bool {
	lower := strings.ToLower(source)
	for _, suffix := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	for _, marker := range []string{"openapi", "swagger", "api-docs"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ResolveSchemaSource returns source unchanged when it already looks like a
// document URL, otherwise the first discovered document URL. When nothing
// is found the original source is returned so a direct fetch can still
// report a useful error.
func (d *AutoDiscoverer) ResolveSchemaSource(ctx context.Context, source string) string {
	log := d.logger.With(slog.String("source", source))
	if looksLikeSchemaURL(source) {
		log.Debug("Source appears to be a direct schema URL")
		return source
	}

	log.Info("Source appears to be a base URL, attempting auto-discovery")
	discovered, err := d.DiscoverSchema(ctx, source)
	if err != nil {
		log.Warn("Auto-discovery failed, using original source", slog.Any("error", err))
		return source
	}
	return discovered
}

// DiscoverSchema tries the common document paths below baseURL.
func (d *AutoDiscoverer) DiscoverSchema(ctx context.Context, baseURL string) (string, error) {
	log := d.logger.With(slog.String("base_url", baseURL))

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Scheme == "" {
		return "", fmt.Errorf("base URL must include scheme (http:// or https://)")
	}

	for _, path := range commonOpenAPIPaths {
		candidate := strings.TrimRight(baseURL, "/") + path
		log.Debug("Trying OpenAPI path", slog.String("url", candidate))

		found, err := d.check(ctx, candidate)
		if err != nil {
			log.Debug("Failed to check endpoint", slog.String("url", candidate), slog.Any("error", err))
			continue
		}
		if found {
			log.Info("Found OpenAPI schema", slog.String("url", candidate))
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no OpenAPI schema found at base URL: %s", baseURL)
}

// check reports whether url answers 200 with a JSON or YAML document.
func (d *AutoDiscoverer) check(ctx context.Context, candidate string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, candidateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json, application/vnd.oai.openapi+json, application/yaml")
	req.Header.Set("User-Agent", "celestial-codegen/1.0")
	for key, value := range d.headers {
		req.Header.Set(key, value)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	contentType := resp.Header.Get("Content-Type")
	for _, accepted := range []string{"json", "yaml"} {
		if strings.Contains(contentType, accepted) {
			return true, nil
		}
	}
	return false, nil
}
