package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Vendor extension fields read from OpenAPI operations.
const (
	ExtGrouping           = "x-celestial-grouping"
	ExtIndexEndpoint      = "x-celestial-index-endpoint"
	ExtIndexEndpointByKey = "x-celestial-index-endpoint-by-key"
	ExtUpdateByKey        = "x-celestial-updateByKey"
)

// KeyPathSource is the first segment of a primary key path.
type KeyPathSource string

const (
	FromParameters  KeyPathSource = "parameters"
	FromRequestBody KeyPathSource = "requestBody"
)

// KeyPath locates the primary key of the entity an operation touches, e.g.
// parameters.id or requestBody.id.
type KeyPath struct {
	Source KeyPathSource
	Field  string
}

func (k KeyPath) String() string {
	return string(k.Source) + "." + k.Field
}

// ParseKeyPath parses a dotted primary key path. It must have exactly two
// segments and start with parameters or requestBody.
func ParseKeyPath(s string) (KeyPath, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 || parts[1] == "" {
		return KeyPath{}, &ConfigError{Value: s, Err: ErrInvalidPrimaryKeyPath}
	}
	src := KeyPathSource(parts[0])
	if src != FromParameters && src != FromRequestBody {
		return KeyPath{}, &ConfigError{Value: s, Err: ErrInvalidPrimaryKeyPath}
	}
	return KeyPath{Source: src, Field: parts[1]}, nil
}

// Extensions is the typed view of an operation's x-celestial-* fields.
type Extensions struct {
	Grouping         string
	IndexEndpoint    bool
	IndexResponseKey string
	UpdateByKey      *KeyPath
}

// ParseExtensions validates and converts the raw extension map of an
// operation. Unknown keys are ignored.
func ParseExtensions(raw map[string]any) (Extensions, error) {
	var ext Extensions
	var err error

	if ext.Grouping, err = stringExtension(raw, ExtGrouping); err != nil {
		return Extensions{}, err
	}
	if ext.IndexResponseKey, err = stringExtension(raw, ExtIndexEndpointByKey); err != nil {
		return Extensions{}, err
	}

	if v, ok := lookup(raw, ExtIndexEndpoint); ok {
		switch t := v.(type) {
		case bool:
			ext.IndexEndpoint = t
		case string:
			ext.IndexEndpoint = t != "" && !strings.EqualFold(t, "false")
		case nil:
		default:
			return Extensions{}, invalidExtension(ExtIndexEndpoint, v)
		}
	}

	path, err := stringExtension(raw, ExtUpdateByKey)
	if err != nil {
		return Extensions{}, err
	}
	if path != "" {
		kp, err := ParseKeyPath(path)
		if err != nil {
			return Extensions{}, err
		}
		ext.UpdateByKey = &kp
	}
	return ext, nil
}

func stringExtension(raw map[string]any, key string) (string, error) {
	v, ok := lookup(raw, key)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidExtension(key, v)
	}
	return s, nil
}

// lookup returns the decoded value of key. Loaders that keep extensions as
// raw JSON are supported too.
func lookup(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	if msg, isRaw := v.(json.RawMessage); isRaw {
		var decoded any
		if err := json.Unmarshal(msg, &decoded); err != nil {
			return string(msg), true
		}
		return decoded, true
	}
	return v, true
}

func invalidExtension(key string, v any) error {
	return &ConfigError{
		Value: fmt.Sprintf("%v", v),
		Err:   fmt.Errorf("%w: %s has type %T", ErrInvalidExtension, key, v),
	}
}
