// Package mcptools exposes the generator as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpGoServer "github.com/mark3labs/mcp-go/server"

	"github.com/celestialdb/codegen/internal/domain"
)

// Tool names.
const (
	ListGroupingsTool   = "list_groupings"
	GenerateModulesTool = "generate_modules"
)

// CodeGenerator is the part of the generate use case the tools call.
type CodeGenerator interface {
	ListGroupings(ctx context.Context, source string) ([]string, error)
	Generate(ctx context.Context, source string, opts domain.GenerationOptions) ([]domain.GeneratedFile, error)
}

// ToolRegistrar registers a tool and its handler with an MCP server.
// *server.MCPServer satisfies it.
type ToolRegistrar interface {
	AddTool(tool mcp.Tool, handler mcpGoServer.ToolHandlerFunc)
}

// Tools holds the handlers of the code generation tools.
type Tools struct {
	generator     CodeGenerator
	defaults      domain.GenerationOptions
	defaultSource string
	logger        *slog.Logger
}

// New creates the tool set. defaults seed every generate_modules call and
// defaultSource is used when a call names no source.
func New(generator CodeGenerator, defaults domain.GenerationOptions, defaultSource string, logger *slog.Logger) *Tools {
	return &Tools{
		generator:     generator,
		defaults:      defaults,
		defaultSource: defaultSource,
		logger:        logger.With("component", "mcp_tools"),
	}
}

// Register adds every tool to s.
func (t *Tools) Register(s ToolRegistrar) {
	s.AddTool(mcp.NewTool(ListGroupingsTool,
		mcp.WithDescription("List the x-celestial-grouping keys declared by an OpenAPI document."),
		mcp.WithString("source", mcp.Description("File path, http(s) URL or github://owner/repo/path@ref of the OpenAPI document.")),
	), t.handleListGroupings)

	s.AddTool(mcp.NewTool(GenerateModulesTool,
		mcp.WithDescription("Generate Redux Toolkit Query modules (one API slice per grouping plus cache, store and index) from an OpenAPI document. Returns the files as JSON without writing them."),
		mcp.WithString("source", mcp.Description("File path, http(s) URL or github://owner/repo/path@ref of the OpenAPI document.")),
		mcp.WithArray("groupings", mcp.Description("Grouping keys to generate. Defaults to every grouping."), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("hooks", mcp.Description("React hook exports."), mcp.Enum(string(domain.HooksOff), string(domain.HooksAll))),
		mcp.WithBoolean("tag", mcp.Description("Emit cache tags.")),
		mcp.WithBoolean("flatten_arg", mcp.Description("Pass a lone argument directly instead of wrapping it in an object.")),
		mcp.WithBoolean("use_enum_type", mcp.Description("Emit string enums as TypeScript enums.")),
		mcp.WithString("base_url", mcp.Description("Override the base URL taken from the document's servers.")),
	), t.handleGenerateModules)

	t.logger.Info("Registered MCP tools", slog.Int("count", 2))
}

func (t *Tools) source(request mcp.CallToolRequest) (string, error) {
	source := request.GetString("source", t.defaultSource)
	if source == "" {
		return "", fmt.Errorf("missing 'source' argument and no default schema file configured")
	}
	return source, nil
}

func (t *Tools) handleListGroupings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := t.source(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log := t.logger.With(slog.String("tool", ListGroupingsTool), slog.String("source", source))

	groupings, err := t.generator.ListGroupings(ctx, source)
	if err != nil {
		log.Error("Failed to list groupings", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to list groupings: %v", err)), nil
	}
	log.Info("Listed groupings", slog.Int("count", len(groupings)))
	return jsonResult(map[string]any{"source": source, "groupings": groupings})
}

// GeneratedFile is the JSON form of one module returned by
// generate_modules.
type GeneratedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (t *Tools) handleGenerateModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := t.source(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log := t.logger.With(slog.String("tool", GenerateModulesTool), slog.String("source", source))

	opts := t.options(request)
	files, err := t.generator.Generate(ctx, source, opts)
	if err != nil {
		log.Error("Failed to generate modules", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate modules: %v", err)), nil
	}

	out := make([]GeneratedFile, 0, len(files))
	for _, f := range files {
		out = append(out, GeneratedFile{Path: f.Path, Content: string(f.Content)})
	}
	log.Info("Generated modules", slog.Int("files", len(out)))
	return jsonResult(map[string]any{"source": source, "files": out})
}

// options applies the call's arguments over the configured defaults.
func (t *Tools) options(request mcp.CallToolRequest) domain.GenerationOptions {
	opts := t.defaults
	if groupings := request.GetStringSlice("groupings", nil); len(groupings) > 0 {
		opts.Groupings = groupings
	}
	if hooks := request.GetString("hooks", ""); hooks != "" {
		opts.Hooks = domain.HookOptions{Mode: domain.HooksMode(hooks)}
	}
	opts.Tag = request.GetBool("tag", opts.Tag)
	opts.FlattenArg = request.GetBool("flatten_arg", opts.FlattenArg)
	opts.Resolve.UseEnumType = request.GetBool("use_enum_type", opts.Resolve.UseEnumType)
	opts.Resolve.BaseURL = request.GetString("base_url", opts.Resolve.BaseURL)
	return opts
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
