package domain

import "strings"

// SchemaType defines where a source API schema came from.
type SchemaType string

const (
	SchemaTypeOpenAPI SchemaType = "openapi"
	SchemaTypeGitHub  SchemaType = "github" // github://owner/repo/path@ref
)

// APISchema represents a fetched OpenAPI schema before resolution.
type APISchema struct {
	// Source is the file path, URL or github:// reference the schema was read from.
	Source string
	// Type specifies how the schema was obtained.
	Type SchemaType
	// RawData holds the unprocessed JSON or YAML document.
	RawData []byte
	// ParsedData holds the loader's parsed document (*openapi3.T) so the
	// resolver does not parse twice. Downstream code type-asserts it.
	ParsedData interface{}
}

// SchemaTypeOf tells how source has to be fetched.
func SchemaTypeOf(source string) SchemaType {
	if strings.HasPrefix(source, "github://") {
		return SchemaTypeGitHub
	}
	return SchemaTypeOpenAPI
}

// GeneratedFile is one rendered output module.
type GeneratedFile struct {
	// Path is relative to the output folder.
	Path    string
	Content []byte
}
