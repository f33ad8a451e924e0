package main

import (
	"context"
	"os"
	"sync"

	"github.com/ntovas/roslyn"
	"github.com/ntovas/roslyn/cmd/roslyn/config"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/types"
	"github.com/ntovas/roslyn/internal/plugin"
	"gopkg.in/tomb.v2"
)

const pluginPrefix = "Roslyn"

// filePatterns are the autocmd patterns for the file types served by the
// language server.
var filePatterns = roslyn.Patterns{"*.cs", "*.vb"}

type roslynplugin struct {
	plugin.Driver
	vimstate *vimstate

	tomb *tomb.Tomb

	errCh      chan error
	inShutdown chan struct{}

	// server is the language server process and client. It is started during
	// Init and shared by every language it registers capabilities for.
	langserver *langserver
	server     server

	// watcher relays workspace file events to the language server.
	watcher *workspaceWatcher

	// services maps LSP language id to the capabilities registered for it at
	// initialize time. Guarded by servicesLock because availability queries
	// resolve off the event queue.
	services     map[string]*langService
	servicesLock sync.Mutex

	// partialResults routes $/progress partial result batches to the
	// in-flight streaming collector registered under the token.
	partialResults     map[protocol.ProgressToken]func([]protocol.Location)
	partialResultsLock sync.Mutex

	// waitPopups maps popup IDs to the in-flight wait scopes so the popup
	// close callback can cancel the right request.
	waitPopups     map[int]*waitPopup
	waitPopupsLock sync.Mutex
}

// langService records the lookup capabilities registered for a language when
// the language server completed its initialize handshake. The concrete
// nav.Source / nav.SyncFinder values are bound per request because they need
// request-scoped UI collaborators.
type langService struct {
	languageID        string
	streamingCapable  bool
	syncCapable       bool
	definitionCapable bool
}

func newPlugin(t *tomb.Tomb) *roslynplugin {
	d := plugin.NewDriver(pluginPrefix)
	res := &roslynplugin{
		Driver: d,

		tomb: t,

		inShutdown: make(chan struct{}),

		services:       make(map[string]*langService),
		partialResults: make(map[protocol.ProgressToken]func([]protocol.Location)),
		waitPopups:     make(map[int]*waitPopup),

		vimstate: &vimstate{
			Driver:      d,
			buffers:     make(map[int]*types.Buffer),
			diagnostics: make(map[protocol.DocumentURI][]protocol.Diagnostic),
		},
	}
	boolTrue := true
	res.vimstate.defaultConfig = config.Config{
		QuickfixAutoDiagnostics: &boolTrue,
		HighlightDiagnostics:    &boolTrue,
	}
	res.vimstate.config = res.vimstate.defaultConfig
	res.vimstate.roslynplugin = res
	return res
}

func (g *roslynplugin) Init(v roslyn.Vim, errCh chan error) error {
	g.Driver.Vim = v
	g.errCh = errCh
	// vimstate only ever runs on the event queue, so its channel calls go
	// through the scheduled instance, which keeps the queue pumping whilst a
	// response from Vim is outstanding.
	g.vimstate.Driver.Vim = v.Scheduled()
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	g.vimstate.workingDirectory = wd

	g.ChannelEx(`augroup roslyn`)
	g.ChannelEx(`augroup END`)

	g.DefineCommand(string(config.CommandGoToImpl), g.vimstate.goToImpl, roslyn.NArgsZeroOrOne)
	g.DefineCommand(string(config.CommandGoToDef), g.vimstate.gotoDef, roslyn.NArgsZeroOrOne)
	g.DefineCommand(string(config.CommandGoToPrevLocation), g.vimstate.gotoPrevLocation, roslyn.CountN(1), roslyn.NArgsZeroOrOne)
	g.DefineCommand(string(config.CommandQuickfixDiagnostics), g.vimstate.quickfixDiagnostics)
	g.DefineFunction(string(config.FunctionCanGoToImpl), []string{}, g.vimstate.canGoToImpl)
	g.DefineFunction(string(config.FunctionSetConfig), []string{"config"}, g.vimstate.setConfig)
	g.DefineFunction(string(config.FunctionPopupSelection), []string{"id", "selection"}, g.vimstate.popupSelection)

	g.DefineAutoCommand("", roslyn.Events{roslyn.EventBufRead, roslyn.EventBufNewFile}, filePatterns, false, g.vimstate.bufReadPost, exprAutocmdCurrBufInfo)
	g.DefineAutoCommand("", roslyn.Events{roslyn.EventTextChanged, roslyn.EventTextChangedI}, filePatterns, false, g.vimstate.bufTextChanged, exprAutocmdCurrBufInfo)
	g.DefineAutoCommand("", roslyn.Events{roslyn.EventBufDelete, roslyn.EventBufWipeout}, filePatterns, false, g.vimstate.bufDelete, "eval(expand('<abuf>'))")

	g.vimstate.defineHighlights()

	if err := g.startLanguageServer(); err != nil {
		return err
	}

	if err := g.startWatcher(g.vimstate.workingDirectory); err != nil {
		// a missing watcher degrades file sync, it does not break the plugin
		g.Logf("failed to start workspace watcher: %v", err)
	}

	return nil
}

func (g *roslynplugin) Shutdown() error {
	close(g.inShutdown)
	if g.watcher != nil {
		if err := g.watcher.close(); err != nil {
			g.Logf("failed to close watcher: %v", err)
		}
	}
	if g.server != nil {
		ctx := context.Background()
		if err := g.server.Shutdown(ctx); err != nil {
			g.Logf("failed to shutdown language server: %v", err)
		}
		if err := g.server.Exit(ctx); err != nil {
			g.Logf("failed to exit language server: %v", err)
		}
	}
	if g.langserver != nil {
		g.langserver.kill()
	}
	return nil
}

// registerPartialResults routes partial result batches for token to report
// until the returned func is called.
func (g *roslynplugin) registerPartialResults(token protocol.ProgressToken, report func([]protocol.Location)) func() {
	g.partialResultsLock.Lock()
	g.partialResults[token] = report
	g.partialResultsLock.Unlock()
	return func() {
		g.partialResultsLock.Lock()
		delete(g.partialResults, token)
		g.partialResultsLock.Unlock()
	}
}

// serviceFor returns the registered capabilities for languageID, if any.
func (g *roslynplugin) serviceFor(languageID string) *langService {
	g.servicesLock.Lock()
	defer g.servicesLock.Unlock()
	return g.services[languageID]
}
