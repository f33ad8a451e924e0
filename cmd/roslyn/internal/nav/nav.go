// Package nav implements the decision-and-dispatch logic behind the
// go-to-implementation command: resolving the lookup capabilities for a
// document's language, selecting between the streaming and synchronous
// strategies, running the chosen strategy under a cancellable wait, and
// routing the findings to exactly one of navigation, presentation or
// notification.
//
// The package is pure with respect to the editor; everything user-visible
// sits behind the Scope and Sinks interfaces.
package nav

import (
	"context"

	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

// Request identifies one invocation of the command: the document and cursor
// position it was issued at. A Request is built per invocation and discarded
// after dispatch.
type Request struct {
	TextDocument protocol.TextDocumentIdentifier
	Position     protocol.Position
	LanguageID   string
}

// Definition is one discovered implementation site. The order definitions
// are reported in is the presentation order; nothing in this package
// re-sorts them.
type Definition struct {
	Location protocol.Location

	// Text is the display line for the definition, e.g. the declaration
	// source text.
	Text string
}

// Source is one streaming discovery source. Implementations report
// definitions into the supplied Collector as they are found and return once
// reporting is complete. A Source may set a terminal message on the
// Collector instead of reporting definitions.
type Source interface {
	FindImplementations(ctx context.Context, req Request, c *Collector) error
}

// SyncFinder is the one-shot blocking lookup. It may perform navigation
// itself as a side effect, in which case it returns handled=true with an
// empty message. A non-empty message means nothing was found and the message
// should be shown to the user.
type SyncFinder interface {
	TryGoToImplementation(ctx context.Context, req Request) (handled bool, message string, err error)
}

// Capabilities is the pair of optional lookup capabilities resolved for a
// document's language. Either half may be absent; resolution happens fresh
// per request.
type Capabilities struct {
	Streaming []Source
	Sync      SyncFinder
}

// Available reports whether the command can be offered at all for caps. It
// only checks presence of services; it never invokes a search, so it is
// cheap enough for command-state queries.
func Available(caps Capabilities) bool {
	return len(caps.Streaming) > 0 || caps.Sync != nil
}

// StrategyKind enumerates the closed set of strategies.
type StrategyKind int

const (
	// StrategyNone means no capability exists; the command must not
	// execute.
	StrategyNone StrategyKind = iota

	// StrategyStreaming fans out over Strategy.Sources and accumulates
	// definitions via a Collector.
	StrategyStreaming

	// StrategySync is a single blocking call which may navigate itself.
	StrategySync
)

// Strategy is the tagged union produced by Select. Exactly the fields
// implied by Kind are set.
type Strategy struct {
	Kind    StrategyKind
	Sources []Source
	Sync    SyncFinder
}

// Select chooses the strategy for caps. Streaming is preferred iff the
// per-language progressive toggle is enabled and a streaming source exists;
// otherwise the synchronous finder is used if present; otherwise None.
func Select(caps Capabilities, progressive bool) Strategy {
	if progressive && len(caps.Streaming) > 0 {
		return Strategy{Kind: StrategyStreaming, Sources: caps.Streaming}
	}
	if caps.Sync != nil {
		return Strategy{Kind: StrategySync, Sync: caps.Sync}
	}
	return Strategy{Kind: StrategyNone}
}

// ActionKind enumerates the three user-facing outcomes.
type ActionKind int

const (
	ActionShowMessage ActionKind = iota
	ActionNavigate
	ActionPresent
)

// Action is the routed user-facing outcome of a lookup.
type Action struct {
	Kind ActionKind

	// Message is set for ActionShowMessage.
	Message string

	// Definition is set for ActionNavigate.
	Definition Definition

	// Title and Definitions are set for ActionPresent. Definitions may be
	// empty; the presentation sink owns the zero-result behaviour.
	Title       string
	Definitions []Definition
}

// Route converts a lookup outcome into the action to perform. A message
// always wins; otherwise exactly one definition navigates directly and any
// other arity is handed to presentation with order preserved.
func Route(o Outcome) Action {
	if o.Message != "" {
		return Action{Kind: ActionShowMessage, Message: o.Message}
	}
	if len(o.Definitions) == 1 {
		return Action{Kind: ActionNavigate, Definition: o.Definitions[0]}
	}
	return Action{Kind: ActionPresent, Title: o.Title, Definitions: o.Definitions}
}

// Sinks are the external collaborators actions are delegated to.
type Sinks interface {
	// Navigate jumps directly to def.
	Navigate(def Definition) error

	// Present hands title and defs to the results UI, which decides the
	// zero/multi behaviour itself.
	Present(title string, defs []Definition) error

	// ShowMessage notifies the user with an informational message.
	ShowMessage(text string) error
}

// Dispatch performs exactly one sink call for action. Before a message is
// shown the wait scope is handed off so the notification never overlaps the
// in-progress indication.
func Dispatch(action Action, scope Scope, sinks Sinks) error {
	switch action.Kind {
	case ActionShowMessage:
		scope.HandOff()
		return sinks.ShowMessage(action.Message)
	case ActionNavigate:
		return sinks.Navigate(action.Definition)
	case ActionPresent:
		return sinks.Present(action.Title, action.Definitions)
	}
	return nil
}

// Scope is the user-visible cancellable wait shown while a lookup runs.
type Scope interface {
	// Open shows the wait indication and derives a context that is
	// cancelled if the user dismisses it.
	Open(ctx context.Context, title string) (context.Context, error)

	// Close removes the wait indication. Close is idempotent and is called
	// on every exit path from Execute.
	Close()

	// HandOff transfers ownership of the wait indication to the caller,
	// closing it ahead of a follow-up notification.
	HandOff()
}
