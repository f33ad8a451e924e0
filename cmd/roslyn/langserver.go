package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ntovas/roslyn"
	"github.com/ntovas/roslyn/cmd/roslyn/config"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/rpc"
	"golang.org/x/mod/semver"
	"gopkg.in/retry.v1"
)

// minServerVersion is the minimum language server version we support;
// anything older predates textDocument/implementation partial results.
const minServerVersion = "v0.9.0"

// defaultServerCommand is used when neither config nor environment names a
// language server.
var defaultServerCommand = []string{"csharp-ls"}

// languageIDs are the LSP language ids the server is registered for.
var languageIDs = []string{"cs", "vb"}

// langserver is the supervised language server child process.
type langserver struct {
	process *os.Process
	client  *rpc.Client
}

func (l *langserver) kill() {
	if l.process != nil {
		l.process.Kill()
	}
}

func (g *roslynplugin) startLanguageServer() error {
	args := g.serverCommand()
	g.Logf("Running language server: %v", strings.Join(args, " "))

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = os.Environ()
	conf := g.vimstate.configSnapshot()
	if conf.ServerEnv != nil {
		for k, v := range *conf.ServerEnv {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe for language server: %v", err)
	}
	g.tomb.Go(func() error {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			g.Logf("server stderr: %v", scanner.Text())
		}
		return nil
	})
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe for language server: %v", err)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdin pipe for language server: %v", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start language server: %v", err)
	}
	g.tomb.Go(func() (err error) {
		if err = cmd.Wait(); err != nil {
			err = fmt.Errorf("got error running language server: %v", err)
		}
		select {
		case <-g.inShutdown:
			return nil
		default:
			if err != nil {
				g.errCh <- err
			}
			return
		}
	})

	client := rpc.NewClient(stdout, stdin, g.handleServerNotification, g.Logf)
	g.tomb.Go(client.Run)

	g.langserver = &langserver{
		process: cmd.Process,
		client:  client,
	}
	g.server = loggingServer{
		u: rpcServer{client: client},
		g: g,
	}

	initRes, err := g.initialize()
	if err != nil {
		return err
	}
	if err := g.checkServerVersion(initRes.ServerInfo); err != nil {
		return err
	}
	g.registerServices(initRes.Capabilities)

	return g.server.Initialized(context.Background(), &protocol.InitializedParams{})
}

func (g *roslynplugin) serverCommand() []string {
	conf := g.vimstate.configSnapshot()
	args := defaultServerCommand
	if conf.ServerCommand != nil && len(*conf.ServerCommand) > 0 {
		args = *conf.ServerCommand
	}
	if os.Getenv(string(config.EnvVarServerFromPath)) == "true" {
		args = defaultServerCommand
	}
	if flags := strings.Fields(os.Getenv(string(config.EnvVarServerFlags))); len(flags) > 0 {
		args = append(append([]string{}, args...), flags...)
	}
	if lf := os.Getenv(string(config.EnvVarServerLogfile)); lf != "" {
		args = append(append([]string{}, args...), "--logfile", lf)
	}
	return args
}

// initialize performs the LSP initialize handshake. Roslyn-family servers
// refuse the call whilst still loading the solution, so it is retried with
// backoff for a bounded period.
func (g *roslynplugin) initialize() (*protocol.InitializeResult, error) {
	initParams := &protocol.InitializeParams{
		ProcessID: os.Getpid(),
		RootURI:   protocol.URIFromPath(g.vimstate.workingDirectory),
		WorkspaceFolders: []protocol.WorkspaceFolder{
			{URI: protocol.URIFromPath(g.vimstate.workingDirectory), Name: "workspace"},
		},
	}
	initParams.Capabilities.TextDocument.Implementation.LinkSupport = false
	initParams.Capabilities.Window.WorkDoneProgress = true

	strategy := retry.LimitTime(30*time.Second, retry.Exponential{
		Initial: 100 * time.Millisecond,
		Factor:  1.5,
	})
	var res *protocol.InitializeResult
	var err error
	for a := retry.Start(strategy, nil); a.Next(); {
		res, err = g.server.Initialize(context.Background(), initParams)
		if err == nil {
			return res, nil
		}
		if !a.More() {
			break
		}
		g.Logf("initialize not ready, retrying: %v", err)
	}
	return nil, fmt.Errorf("failed to initialize language server: %v", err)
}

func (g *roslynplugin) checkServerVersion(info *protocol.ServerInfo) error {
	if info == nil || info.Version == "" {
		g.Logf("language server did not report a version; continuing")
		return nil
	}
	v := info.Version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		g.Logf("language server %v reported unparseable version %q; continuing", info.Name, info.Version)
		return nil
	}
	if semver.Compare(v, minServerVersion) < 0 {
		return fmt.Errorf("language server %v version %v is too old; need at least %v", info.Name, info.Version, minServerVersion)
	}
	return nil
}

// registerServices populates the per-language capability registry from the
// server's advertised capabilities. A server that does not advertise
// implementation support registers nothing, leaving the command unavailable.
func (g *roslynplugin) registerServices(caps protocol.ServerCapabilities) {
	impl := protocol.Supports(caps.ImplementationProvider)
	def := protocol.Supports(caps.DefinitionProvider)
	if !impl {
		g.Logf("language server does not support textDocument/implementation")
	}
	if !impl && !def {
		return
	}
	g.servicesLock.Lock()
	defer g.servicesLock.Unlock()
	for _, lang := range languageIDs {
		g.services[lang] = &langService{
			languageID:        lang,
			streamingCapable:  impl,
			syncCapable:       impl,
			definitionCapable: def,
		}
	}
}

// handleServerNotification dispatches server-to-client traffic off the event
// queue.
func (g *roslynplugin) handleServerNotification(method string, params json.RawMessage) {
	switch method {
	case "$/progress":
		var pp struct {
			Token protocol.ProgressToken `json:"token"`
			Value json.RawMessage        `json:"value"`
		}
		if err := json.Unmarshal(params, &pp); err != nil {
			g.Logf("failed to unmarshal $/progress params: %v", err)
			return
		}
		g.partialResultsLock.Lock()
		report, ok := g.partialResults[pp.Token]
		g.partialResultsLock.Unlock()
		if !ok {
			// work-done progress for requests we did not tag; ignore
			return
		}
		var locs []protocol.Location
		if err := json.Unmarshal(pp.Value, &locs); err != nil {
			g.Logf("failed to unmarshal partial result batch: %v", err)
			return
		}
		report(locs)
	case "textDocument/publishDiagnostics":
		var p protocol.PublishDiagnosticsParams
		if err := json.Unmarshal(params, &p); err != nil {
			g.Logf("failed to unmarshal publishDiagnostics params: %v", err)
			return
		}
		g.Enqueue(func(roslyn.Vim) error {
			return g.vimstate.handleDiagnostics(&p)
		})
	case "window/showMessage":
		var p protocol.ShowMessageParams
		if err := json.Unmarshal(params, &p); err != nil {
			g.Logf("failed to unmarshal showMessage params: %v", err)
			return
		}
		g.Enqueue(func(roslyn.Vim) error {
			return g.vimstate.showMessagePopup(p.Type, p.Message)
		})
	case "window/logMessage":
		var p protocol.LogMessageParams
		if err := json.Unmarshal(params, &p); err != nil {
			return
		}
		g.Logf("server log: %v", p.Message)
	}
}

// rpcServer implements server directly over the JSON-RPC client.
type rpcServer struct {
	client *rpc.Client
}

var _ server = rpcServer{}

func (r rpcServer) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	var res protocol.InitializeResult
	if err := r.client.Call(ctx, "initialize", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r rpcServer) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	return r.client.Notify("initialized", params)
}

func (r rpcServer) Implementation(ctx context.Context, params *protocol.ImplementationParams) ([]protocol.Location, error) {
	var res []protocol.Location
	if err := r.client.Call(ctx, "textDocument/implementation", params, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r rpcServer) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	var res []protocol.Location
	if err := r.client.Call(ctx, "textDocument/definition", params, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r rpcServer) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	return r.client.Notify("textDocument/didOpen", params)
}

func (r rpcServer) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	return r.client.Notify("textDocument/didChange", params)
}

func (r rpcServer) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	return r.client.Notify("textDocument/didClose", params)
}

func (r rpcServer) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	return r.client.Notify("workspace/didChangeWatchedFiles", params)
}

func (r rpcServer) Shutdown(ctx context.Context) error {
	return r.client.Call(ctx, "shutdown", nil, nil)
}

func (r rpcServer) Exit(ctx context.Context) error {
	return r.client.Notify("exit", nil)
}
