package openapi

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// baseURLFromServers picks the first usable http(s) URL of the Servers
// block. Relative server URLs are resolved against the schema source and
// server variables are replaced by their defaults. The result has no
// trailing slash.
func baseURLFromServers(source string, servers openapi3.Servers, log *slog.Logger) (string, error) {
	if len(servers) == 0 {
		return "", fmt.Errorf("no servers defined in OpenAPI document")
	}

	sourceURL, err := url.Parse(source)
	if err != nil {
		log.Warn("Could not parse schema source URL as base for relative server URLs.", slog.String("source_url", source), slog.Any("error", err))
		sourceURL = nil
	}

	for _, server := range servers {
		if server == nil || server.URL == "" {
			continue
		}
		raw := expandServerVariables(server)

		parsed, err := url.Parse(raw)
		if err != nil {
			log.Warn("Could not parse server URL, skipping.", slog.String("url", raw), slog.Any("error", err))
			continue
		}

		resolved := parsed
		if !parsed.IsAbs() {
			if sourceURL == nil {
				continue
			}
			resolved = sourceURL.ResolveReference(parsed)
			log.Debug("Resolved relative server URL",
				slog.String("relative_url", raw),
				slog.String("resolved_url", resolved.String()))
		}

		if (resolved.Scheme == "http" || resolved.Scheme == "https") && resolved.Host != "" {
			basePath := strings.TrimSuffix(resolved.Path, "/")
			return fmt.Sprintf("%s://%s%s", resolved.Scheme, resolved.Host, basePath), nil
		}
		log.Debug("Skipping non-HTTP/HTTPS server URL.", slog.String("url", raw))
	}
	return "", fmt.Errorf("no suitable HTTP/HTTPS server URL found or resolvable in OpenAPI document")
}

func expandServerVariables(server *openapi3.Server) string {
	out := server.URL
	for name, v := range server.Variables {
		if v == nil {
			continue
		}
		out = strings.ReplaceAll(out, "{"+name+"}", v.Default)
	}
	return out
}
