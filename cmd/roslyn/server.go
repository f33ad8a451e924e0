package main

import (
	"context"

	"github.com/kr/pretty"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

// server is the subset of the language server protocol the plugin drives.
type server interface {
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) error
	Implementation(ctx context.Context, params *protocol.ImplementationParams) ([]protocol.Location, error)
	Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error)
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error
	DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error
}

// loggingServer wraps a server, logging every call, its params and result.
type loggingServer struct {
	u server
	g *roslynplugin
}

var _ server = loggingServer{}

func (l loggingServer) Logf(format string, args ...interface{}) {
	if format[len(format)-1] != '\n' {
		format = format + "\n"
	}
	l.g.Logf("language server start =======================\n"+format+"language server end =======================\n", args...)
}

func (l loggingServer) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	l.Logf("server.Initialize() call; params:\n%v", pretty.Sprint(params))
	res, err := l.u.Initialize(ctx, params)
	l.Logf("server.Initialize() return; err: %v; res:\n%v", err, pretty.Sprint(res))
	return res, err
}

func (l loggingServer) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	l.Logf("server.Initialized() call")
	err := l.u.Initialized(ctx, params)
	l.Logf("server.Initialized() return; err: %v", err)
	return err
}

func (l loggingServer) Implementation(ctx context.Context, params *protocol.ImplementationParams) ([]protocol.Location, error) {
	l.Logf("server.Implementation() call; params:\n%v", pretty.Sprint(params))
	res, err := l.u.Implementation(ctx, params)
	l.Logf("server.Implementation() return; err: %v; res:\n%v", err, pretty.Sprint(res))
	return res, err
}

func (l loggingServer) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	l.Logf("server.Definition() call; params:\n%v", pretty.Sprint(params))
	res, err := l.u.Definition(ctx, params)
	l.Logf("server.Definition() return; err: %v; res:\n%v", err, pretty.Sprint(res))
	return res, err
}

func (l loggingServer) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	l.Logf("server.DidOpen() call; params:\n%v", pretty.Sprint(params))
	err := l.u.DidOpen(ctx, params)
	l.Logf("server.DidOpen() return; err: %v", err)
	return err
}

func (l loggingServer) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	l.Logf("server.DidChange() call; document: %v version %v", params.TextDocument.URI, params.TextDocument.Version)
	err := l.u.DidChange(ctx, params)
	l.Logf("server.DidChange() return; err: %v", err)
	return err
}

func (l loggingServer) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	l.Logf("server.DidClose() call; params:\n%v", pretty.Sprint(params))
	err := l.u.DidClose(ctx, params)
	l.Logf("server.DidClose() return; err: %v", err)
	return err
}

func (l loggingServer) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	l.Logf("server.DidChangeWatchedFiles() call; params:\n%v", pretty.Sprint(params))
	err := l.u.DidChangeWatchedFiles(ctx, params)
	l.Logf("server.DidChangeWatchedFiles() return; err: %v", err)
	return err
}

func (l loggingServer) Shutdown(ctx context.Context) error {
	l.Logf("server.Shutdown() call")
	err := l.u.Shutdown(ctx)
	l.Logf("server.Shutdown() return; err: %v", err)
	return err
}

func (l loggingServer) Exit(ctx context.Context) error {
	l.Logf("server.Exit() call")
	err := l.u.Exit(ctx)
	l.Logf("server.Exit() return; err: %v", err)
	return err
}
