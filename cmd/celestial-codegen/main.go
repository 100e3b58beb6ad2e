package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	mcpGoServer "github.com/mark3labs/mcp-go/server"

	"github.com/celestialdb/codegen/configs"
	"github.com/celestialdb/codegen/internal/adapter/inbound/mcphttp"
	"github.com/celestialdb/codegen/internal/adapter/inbound/mcptools"
	"github.com/celestialdb/codegen/internal/adapter/outbound/sink"
	"github.com/celestialdb/codegen/internal/usecase"
)

// Globals are flags accepted by every command.
type Globals struct {
	Config   string `help:"Config file: a local path or github://owner/repo/path@ref. Defaults to celestial.yaml." short:"c"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)."`
}

type CLI struct {
	Globals

	Version   VersionCmd   `cmd:"" help:"Print version information."`
	Generate  GenerateCmd  `cmd:"" help:"Generate the Redux Toolkit modules into the output folder." default:"withargs"`
	Groupings GroupingsCmd `cmd:"" help:"List the groupings declared by the OpenAPI document."`
	Serve     ServeCmd     `cmd:"" help:"Serve the generator as MCP tools."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type GenerateCmd struct {
	Schema      string   `help:"OpenAPI document: file path, http(s) URL or github:// URL." short:"s"`
	Out         string   `help:"Output folder." short:"o" type:"path"`
	Grouping    []string `help:"Grouping to generate. Repeatable; defaults to every grouping." short:"g"`
	BaseURL     string   `help:"Override the base URL taken from the document's servers." name:"base-url"`
	Hooks       string   `help:"React hook exports: off or all."`
	Tag         bool     `help:"Emit cache tags."`
	FlattenArg  bool     `help:"Pass a lone argument directly instead of wrapping it in an object."`
	UseEnumType bool     `help:"Emit string enums as TypeScript enums."`
	DryRun      bool     `help:"Print the generated files instead of writing them." short:"n"`
}

func (c *GenerateCmd) apply(cfg *configs.Config) {
	if c.Schema != "" {
		cfg.SchemaFile = c.Schema
	}
	if c.Out != "" {
		cfg.OutputFolder = c.Out
	}
	if len(c.Grouping) > 0 {
		cfg.Groupings = c.Grouping
	}
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Hooks != "" {
		cfg.Hooks = configs.HooksConfig{Mode: c.Hooks}
	}
	cfg.Tag = cfg.Tag || c.Tag
	cfg.FlattenArg = cfg.FlattenArg || c.FlattenArg
	cfg.UseEnumType = cfg.UseEnumType || c.UseEnumType
}

func (c *GenerateCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, g, os.Stderr, c.apply)
	if err != nil {
		return err
	}
	defer a.Close()

	var out usecase.OutputSink
	mem := sink.NewMemorySink(a.logger)
	if c.DryRun {
		out = mem
	} else {
		out = sink.NewFilesystemSink(a.cfg.OutputFolder, a.logger)
	}

	files, err := a.generate.Execute(ctx, a.cfg.SchemaFile, a.opts, out)
	if err != nil {
		return err
	}

	if c.DryRun {
		for _, f := range mem.Files() {
			fmt.Printf("// ==> %s <==\n%s\n", f.Path, f.Content)
		}
		return nil
	}
	for _, f := range files {
		fmt.Println(filepath.Join(a.cfg.OutputFolder, f.Path))
	}
	return nil
}

type GroupingsCmd struct {
	Schema string `arg:"" optional:"" help:"OpenAPI document. Defaults to the configured schemaFile."`
}

func (c *GroupingsCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, g, os.Stderr, func(cfg *configs.Config) {
		if c.Schema != "" {
			cfg.SchemaFile = c.Schema
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	groupings, err := a.generate.ListGroupings(ctx, a.cfg.SchemaFile)
	if err != nil {
		return err
	}
	for _, name := range groupings {
		fmt.Println(name)
	}
	return nil
}

type ServeCmd struct {
	Transport string `help:"Transport mode." enum:"sse,stdio" default:"sse" short:"t"`
}

func (c *ServeCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logOut := io.Writer(os.Stderr)
	if c.Transport == "stdio" {
		// stdout carries the protocol.
		logOut = stdioLogWriter()
	}
	a, err := newApp(ctx, g, logOut, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger
	logger.Info("Starting server.", slog.String("transport", c.Transport), slog.String("version", Version()))

	// === MCP Server (mark3labs/mcp-go) ===
	mcpSrv := mcpGoServer.NewMCPServer(serviceName, Version())
	mcptools.New(a.generate, a.opts, a.cfg.SchemaFile, logger).Register(mcpSrv)

	switch c.Transport {
	case "stdio":
		stdioServer := mcpGoServer.NewStdioServer(mcpSrv)
		if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server: %w", err)
		}
		return nil

	case "sse":
		sseServer := mcpGoServer.NewSSEServer(mcpSrv, mcpGoServer.WithBaseURL("http://"+a.cfg.ListenAddr))

		// === Admin HTTP Server Setup ===
		adminMux := http.NewServeMux()
		mcphttp.NewHandlers(a.generate, sink.NewFilesystemSink(a.cfg.OutputFolder, logger), a.opts, a.cfg.SchemaFile, logger).
			RegisterAdminRoutes(adminMux)
		adminServer := &http.Server{
			Addr:    a.cfg.AdminAddr,
			Handler: adminMux,
		}
		go func() {
			logger.Info("Admin HTTP server starting.", slog.String("address", adminServer.Addr))
			if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Admin HTTP server failed to start.", slog.Any("error", err))
				stop()
			}
		}()

		go func() {
			logger.Info("MCP SSE server starting.", slog.String("address", a.cfg.ListenAddr))
			if err := sseServer.Start(a.cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("MCP SSE server failed to start.", slog.Any("error", err))
				stop()
			}
		}()

		<-ctx.Done()

		// === Server Shutdown ===
		logger.Info("Shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Admin HTTP server graceful shutdown failed.", slog.Any("error", err))
		}
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("MCP SSE server graceful shutdown failed.", slog.Any("error", err))
		}
		logger.Info("Servers shut down gracefully.")
		return nil
	}
	return fmt.Errorf("invalid transport mode %q", c.Transport)
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name(serviceName),
		kong.Description("Generate Redux Toolkit Query modules from an OpenAPI document."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
