package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/ntovas/roslyn"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/nav"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

// goToImpl handles CommandGoToImpl. The command handler resolves the
// request on the event queue and then runs the lookup on its own goroutine
// so the wait popup's cancel callback stays deliverable.
func (v *vimstate) goToImpl(flags roslyn.CommandFlags, args ...string) error {
	b, pos, err := v.cursorPos()
	if err != nil {
		return fmt.Errorf("failed to determine cursor position: %v", err)
	}
	req := nav.Request{
		TextDocument: b.ToTextDocumentIdentifier(),
		Position:     pos.ToPosition(),
		LanguageID:   b.LanguageID(),
	}
	ui := &implUI{
		g:    v.roslynplugin,
		mods: flags.Mods,
		args: args,
		origin: protocol.Location{
			URI: b.URI(),
			Range: protocol.Range{
				Start: pos.ToPosition(),
				End:   pos.ToPosition(),
			},
		},
	}
	caps := v.resolveCapabilities(req.LanguageID, ui)
	if !nav.Available(caps) {
		v.ChannelEx(`echom "GoToImpl is not available for this buffer"`)
		return nil
	}
	strategy := nav.Select(caps, v.progressiveEnabled(req.LanguageID))
	scope := newWaitPopup(v.roslynplugin)

	g := v.roslynplugin
	g.tomb.Go(func() error {
		outcome, handled, err := nav.Execute(context.Background(), strategy, req, scope)
		switch {
		case err == nav.ErrCancelled:
			g.Logf("GoToImpl cancelled")
			return nil
		case err != nil:
			g.Logf("GoToImpl failed: %v", err)
			g.Enqueue(func(roslyn.Vim) error {
				return g.vimstate.showMessagePopup(protocol.Error, fmt.Sprintf("GoToImpl failed: %v", err))
			})
			return nil
		}
		if outcome == nil {
			// the synchronous finder either navigated itself or had nothing
			// to do
			g.Logf("GoToImpl done; handled=%v", handled)
			return nil
		}
		if err := nav.Dispatch(nav.Route(*outcome), scope, ui); err != nil {
			g.Logf("GoToImpl dispatch failed: %v", err)
		}
		return nil
	})
	return nil
}

// canGoToImpl is the command-state query behind FunctionCanGoToImpl. It only
// checks capability presence; it never contacts the language server.
func (v *vimstate) canGoToImpl(args ...json.RawMessage) (interface{}, error) {
	b, _, err := v.cursorPos()
	if err != nil {
		return 0, nil
	}
	if nav.Available(v.resolveCapabilities(b.LanguageID(), nil)) {
		return 1, nil
	}
	return 0, nil
}

// resolveCapabilities builds the capability set for languageID fresh per
// request. The streaming half additionally requires the quickfix presenter;
// any failure acquiring it is recovered here and surfaced as "streaming
// absent", never as an error.
func (v *vimstate) resolveCapabilities(languageID string, ui *implUI) nav.Capabilities {
	var caps nav.Capabilities
	svc := v.serviceFor(languageID)
	if svc == nil {
		return caps
	}
	if svc.syncCapable {
		caps.Sync = &serverSyncFinder{g: v.roslynplugin, ui: ui}
	}
	if svc.streamingCapable {
		func() {
			defer func() {
				if r := recover(); r != nil {
					v.Logf("failed to acquire presenter; streaming lookup unavailable: %v", r)
					caps.Streaming = nil
				}
			}()
			v.acquirePresenter()
			caps.Streaming = []nav.Source{&serverSource{g: v.roslynplugin}}
		}()
	}
	return caps
}

// implUI implements nav.Sinks against vimstate. All Vim work is enqueued
// onto the event queue and awaited, because the sinks are driven from the
// lookup goroutine.
type implUI struct {
	g      *roslynplugin
	mods   roslyn.CommModList
	args   []string
	origin protocol.Location
}

var _ nav.Sinks = &implUI{}

func (u *implUI) Navigate(def nav.Definition) error {
	var err error
	done := u.g.Enqueue(func(roslyn.Vim) error {
		err = u.g.vimstate.navigateTo(u.mods, u.origin, def.Location, u.args...)
		return err
	})
	<-done
	return err
}

func (u *implUI) Present(title string, defs []nav.Definition) error {
	var err error
	done := u.g.Enqueue(func(roslyn.Vim) error {
		err = u.g.vimstate.presentImplementations(title, defs)
		return err
	})
	<-done
	return err
}

func (u *implUI) ShowMessage(text string) error {
	var err error
	done := u.g.Enqueue(func(roslyn.Vim) error {
		err = u.g.vimstate.showMessagePopup(protocol.Info, text)
		return err
	})
	<-done
	return err
}

// partialResultCounter disambiguates the partial result tokens of
// overlapping requests.
var partialResultCounter uint64

// serverSource is the streaming lookup: textDocument/implementation with a
// partial result token, reporting batches into the collector as they
// arrive.
type serverSource struct {
	g *roslynplugin
}

var _ nav.Source = &serverSource{}

func (s *serverSource) FindImplementations(ctx context.Context, req nav.Request, c *nav.Collector) error {
	token := protocol.ProgressToken(fmt.Sprintf("impl-%v", atomic.AddUint64(&partialResultCounter, 1)))
	var streamed uint64
	unregister := s.g.registerPartialResults(token, func(locs []protocol.Location) {
		atomic.AddUint64(&streamed, uint64(len(locs)))
		c.Report(s.g.locationsToDefinitions(locs)...)
	})
	defer unregister()

	params := &protocol.ImplementationParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: req.TextDocument,
			Position:     req.Position,
		},
	}
	params.PartialResultToken = token
	locs, err := s.g.server.Implementation(ctx, params)
	if err != nil {
		return err
	}
	// servers that ignore the partial result token return everything in the
	// final response instead
	if atomic.LoadUint64(&streamed) == 0 {
		c.Report(s.g.locationsToDefinitions(locs)...)
	}
	return nil
}

// serverSyncFinder is the one-shot lookup. It navigates or presents itself
// for non-empty results and reports a message for empty ones.
type serverSyncFinder struct {
	g  *roslynplugin
	ui *implUI
}

var _ nav.SyncFinder = &serverSyncFinder{}

func (f *serverSyncFinder) TryGoToImplementation(ctx context.Context, req nav.Request) (bool, string, error) {
	params := &protocol.ImplementationParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: req.TextDocument,
			Position:     req.Position,
		},
	}
	locs, err := f.g.server.Implementation(ctx, params)
	if err != nil {
		return false, "", err
	}
	defs := f.g.locationsToDefinitions(locs)
	switch len(defs) {
	case 0:
		return false, "No implementations found.", nil
	case 1:
		if err := f.ui.Navigate(defs[0]); err != nil {
			return false, "", err
		}
		return true, "", nil
	default:
		if err := f.ui.Present("Implementations", defs); err != nil {
			return false, "", err
		}
		return true, "", nil
	}
}
