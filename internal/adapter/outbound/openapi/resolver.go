package openapi

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/celestialdb/codegen/internal/domain"
)

const componentRequestBodyPrefix = "#/components/requestBodies/"

// operationMethods is the order operations of one path are visited in.
var operationMethods = []string{
	"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE",
}

// Resolver implements the usecase.SchemaResolver interface. It turns a
// parsed OpenAPI document into the generator's document model.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger.With("component", "openapi_resolver")}
}

// Resolve converts schema. Operations are visited in path order, then in
// method order, so the result does not depend on map iteration.
func (r *Resolver) Resolve(ctx context.Context, schema domain.APISchema, opts domain.ResolveOptions) (*domain.APIDocument, error) {
	log := r.logger.With(slog.String("source", schema.Source))

	doc, ok := schema.ParsedData.(*openapi3.T)
	if !ok || doc == nil {
		log.Error("Invalid or missing parsed OpenAPI document in APISchema.")
		return nil, fmt.Errorf("invalid or missing parsed OpenAPI document in APISchema")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &domain.APIDocument{BaseURL: strings.TrimSuffix(opts.BaseURL, "/")}
	if doc.Info != nil {
		out.Title = doc.Info.Title
	}
	if out.BaseURL == "" {
		baseURL, err := baseURLFromServers(schema.Source, doc.Servers, log)
		if err != nil {
			log.Warn("No base URL could be determined", slog.Any("error", err))
		}
		out.BaseURL = baseURL
	}

	conv := newTypeConverter(doc, opts)

	var paths []string
	if doc.Paths != nil {
		for path := range doc.Paths.Map() {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		for _, method := range operationMethods {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			def, err := r.operation(conv, path, strings.ToLower(method), item, op)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			out.Operations = append(out.Operations, def)
		}
	}

	out.Declarations = conv.declarations()
	log.Info("Resolved OpenAPI document",
		slog.Int("operations", len(out.Operations)),
		slog.Int("declarations", len(out.Declarations)),
		slog.String("base_url", out.BaseURL))
	return out, nil
}

func (r *Resolver) operation(conv *typeConverter, path, verb string, item *openapi3.PathItem, op *openapi3.Operation) (domain.OperationDefinition, error) {
	ext, err := domain.ParseExtensions(op.Extensions)
	if err != nil {
		return domain.OperationDefinition{}, err
	}

	def := domain.OperationDefinition{
		Verb:        verb,
		Path:        path,
		OperationID: op.OperationID,
		Tags:        op.Tags,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
		Parameters:  mergeParameters(conv, item.Parameters, op.Parameters),
		Extensions:  ext,
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		def.RequestBody = requestBody(conv, op.RequestBody)
	}

	if op.Responses != nil {
		responses := op.Responses.Map()
		codes := make([]string, 0, len(responses))
		for code := range responses {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			ref := responses[code]
			if ref == nil || ref.Value == nil {
				continue
			}
			resp := domain.Response{Code: code}
			if ref.Value.Description != nil {
				resp.Description = *ref.Value.Description
			}
			if _, media := jsonMedia(ref.Value.Content); media != nil {
				resp.JSON = true
				resp.Type = conv.convert(media.Schema, accessRead)
			}
			if resp.JSON && resp.IsSuccess() {
				def.ReturnsJSON = true
			}
			def.Responses = append(def.Responses, resp)
		}
	}
	return def, nil
}

// mergeParameters applies the operation's parameters over the path item's
// ones; a parameter is identified by name and location.
func mergeParameters(conv *typeConverter, shared, own openapi3.Parameters) []domain.Parameter {
	type key struct{ name, in string }
	var order []key
	byKey := map[key]*openapi3.Parameter{}
	for _, list := range []openapi3.Parameters{shared, own} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			k := key{ref.Value.Name, ref.Value.In}
			if _, seen := byKey[k]; !seen {
				order = append(order, k)
			}
			byKey[k] = ref.Value
		}
	}

	out := make([]domain.Parameter, 0, len(order))
	for _, k := range order {
		p := byKey[k]
		param := domain.Parameter{
			Name:        p.Name,
			In:          domain.ParamLocation(p.In),
			Required:    p.Required || p.In == openapi3.ParameterInPath,
			Description: p.Description,
		}
		switch {
		case p.Schema != nil:
			param.Type = conv.convert(p.Schema, accessWrite)
		default:
			if _, media := jsonMedia(p.Content); media != nil {
				param.Type = conv.convert(media.Schema, accessWrite)
			}
		}
		out = append(out, param)
	}
	return out
}

func requestBody(conv *typeConverter, ref *openapi3.RequestBodyRef) *domain.RequestBody {
	body := &domain.RequestBody{
		Required:    ref.Value.Required,
		Description: ref.Value.Description,
	}
	if strings.HasPrefix(ref.Ref, componentRequestBodyPrefix) {
		body.TypeName = declarationName(strings.TrimPrefix(ref.Ref, componentRequestBodyPrefix))
	}

	contentType, media := jsonMedia(ref.Value.Content)
	if media == nil {
		contentType, media = firstMedia(ref.Value.Content)
	}
	body.ContentType = contentType
	if media == nil || media.Schema == nil {
		return body
	}

	if comp, ok := conv.componentOf(media.Schema.Ref); ok {
		body.RefName = comp.raw
		if body.TypeName == "" {
			body.TypeName = comp.name
		}
	}
	if media.Schema.Value != nil {
		body.Title = media.Schema.Value.Title
	}
	body.Type = conv.convert(media.Schema, accessWrite)
	return body
}

// jsonMedia returns the first JSON media type of content, preferring
// application/json.
func jsonMedia(content openapi3.Content) (string, *openapi3.MediaType) {
	if m := content.Get("application/json"); m != nil {
		return "application/json", m
	}
	types := make([]string, 0, len(content))
	for ct := range content {
		types = append(types, ct)
	}
	sort.Strings(types)
	for _, ct := range types {
		if strings.Contains(ct, "json") {
			return ct, content[ct]
		}
	}
	return "", nil
}

func firstMedia(content openapi3.Content) (string, *openapi3.MediaType) {
	types := make([]string, 0, len(content))
	for ct := range content {
		types = append(types, ct)
	}
	if len(types) == 0 {
		return "", nil
	}
	sort.Strings(types)
	return types[0], content[types[0]]
}
