package nav

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

func defAt(path string, line int) Definition {
	return Definition{
		Location: protocol.Location{
			URI: protocol.URIFromPath(path),
			Range: protocol.Range{
				Start: protocol.Position{Line: line},
				End:   protocol.Position{Line: line},
			},
		},
		Text: fmt.Sprintf("%v:%v", path, line),
	}
}

// sourceFunc adapts a func to Source for tests.
type sourceFunc func(ctx context.Context, req Request, c *Collector) error

func (f sourceFunc) FindImplementations(ctx context.Context, req Request, c *Collector) error {
	return f(ctx, req, c)
}

// syncFunc adapts a func to SyncFinder for tests.
type syncFunc func(ctx context.Context, req Request) (bool, string, error)

func (f syncFunc) TryGoToImplementation(ctx context.Context, req Request) (bool, string, error) {
	return f(ctx, req)
}

// recordScope records wait scope transitions.
type recordScope struct {
	opens    int
	closes   int
	handoffs int
	cancel   context.CancelFunc
}

func (s *recordScope) Open(ctx context.Context, title string) (context.Context, error) {
	s.opens++
	ctx, s.cancel = context.WithCancel(ctx)
	return ctx, nil
}

func (s *recordScope) Close() {
	s.closes++
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *recordScope) HandOff() {
	s.handoffs++
}

// recordSinks records every dispatch.
type recordSinks struct {
	navigated []Definition
	presented [][]Definition
	titles    []string
	messages  []string
}

func (s *recordSinks) Navigate(def Definition) error {
	s.navigated = append(s.navigated, def)
	return nil
}

func (s *recordSinks) Present(title string, defs []Definition) error {
	s.titles = append(s.titles, title)
	s.presented = append(s.presented, defs)
	return nil
}

func (s *recordSinks) ShowMessage(text string) error {
	s.messages = append(s.messages, text)
	return nil
}

func (s *recordSinks) calls() int {
	return len(s.navigated) + len(s.presented) + len(s.messages)
}

func TestAvailable(t *testing.T) {
	src := sourceFunc(func(ctx context.Context, req Request, c *Collector) error { return nil })
	sync := syncFunc(func(ctx context.Context, req Request) (bool, string, error) { return false, "", nil })
	testCases := []struct {
		name string
		caps Capabilities
		want bool
	}{
		{name: "neither", caps: Capabilities{}, want: false},
		{name: "streaming only", caps: Capabilities{Streaming: []Source{src}}, want: true},
		{name: "sync only", caps: Capabilities{Sync: sync}, want: true},
		{name: "both", caps: Capabilities{Streaming: []Source{src}, Sync: sync}, want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Available(tc.caps); got != tc.want {
				t.Fatalf("Available() = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	src := sourceFunc(func(ctx context.Context, req Request, c *Collector) error { return nil })
	sync := syncFunc(func(ctx context.Context, req Request) (bool, string, error) { return false, "", nil })
	testCases := []struct {
		name        string
		caps        Capabilities
		progressive bool
		want        StrategyKind
	}{
		{name: "neither", caps: Capabilities{}, progressive: true, want: StrategyNone},
		{name: "sync only, toggle on", caps: Capabilities{Sync: sync}, progressive: true, want: StrategySync},
		{name: "sync only, toggle off", caps: Capabilities{Sync: sync}, progressive: false, want: StrategySync},
		{name: "streaming only, toggle on", caps: Capabilities{Streaming: []Source{src}}, progressive: true, want: StrategyStreaming},
		{name: "streaming only, toggle off", caps: Capabilities{Streaming: []Source{src}}, progressive: false, want: StrategyNone},
		{name: "both, toggle on", caps: Capabilities{Streaming: []Source{src}, Sync: sync}, progressive: true, want: StrategyStreaming},
		{name: "both, toggle off", caps: Capabilities{Streaming: []Source{src}, Sync: sync}, progressive: false, want: StrategySync},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Select(tc.caps, tc.progressive).Kind; got != tc.want {
				t.Fatalf("Select() = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	d1 := defAt("/w/A.cs", 1)
	d2 := defAt("/w/B.cs", 2)
	testCases := []struct {
		name    string
		outcome Outcome
		want    Action
	}{
		{
			name:    "message wins over definitions",
			outcome: Outcome{Message: "No implementations found.", Definitions: []Definition{d1}},
			want:    Action{Kind: ActionShowMessage, Message: "No implementations found."},
		},
		{
			name:    "exactly one navigates",
			outcome: Outcome{Title: "impls", Definitions: []Definition{d1}},
			want:    Action{Kind: ActionNavigate, Definition: d1},
		},
		{
			name:    "zero presents",
			outcome: Outcome{Title: "impls"},
			want:    Action{Kind: ActionPresent, Title: "impls"},
		},
		{
			name:    "many presents in order",
			outcome: Outcome{Title: "impls", Definitions: []Definition{d1, d2}},
			want:    Action{Kind: ActionPresent, Title: "impls", Definitions: []Definition{d1, d2}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Route(tc.outcome)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Route() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRouteIdempotent(t *testing.T) {
	o := Outcome{Title: "impls", Definitions: []Definition{defAt("/w/A.cs", 1), defAt("/w/B.cs", 2)}}
	first := Route(o)
	second := Route(o)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Route() not idempotent (-first +second):\n%s", diff)
	}
}

func TestExecuteNone(t *testing.T) {
	scope := &recordScope{}
	outcome, handled, err := Execute(context.Background(), Strategy{Kind: StrategyNone}, Request{}, scope)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if outcome != nil || handled {
		t.Fatalf("Execute() = (%v, %v); want (nil, false)", outcome, handled)
	}
	if scope.opens != 0 {
		t.Fatalf("wait scope opened %v times for StrategyNone", scope.opens)
	}
}

func TestExecuteSyncHandled(t *testing.T) {
	// The finder navigates itself; nothing is left to route.
	sync := syncFunc(func(ctx context.Context, req Request) (bool, string, error) {
		return true, "", nil
	})
	scope := &recordScope{}
	outcome, handled, err := Execute(context.Background(), Strategy{Kind: StrategySync, Sync: sync}, Request{}, scope)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if outcome != nil {
		t.Fatalf("Execute() outcome = %v; want nil", outcome)
	}
	if !handled {
		t.Fatal("Execute() handled = false; want true")
	}
	if scope.opens != 1 || scope.closes != 1 {
		t.Fatalf("wait scope opens/closes = %v/%v; want 1/1", scope.opens, scope.closes)
	}
}

func TestExecuteSyncUnhandled(t *testing.T) {
	sync := syncFunc(func(ctx context.Context, req Request) (bool, string, error) {
		return false, "", nil
	})
	scope := &recordScope{}
	outcome, handled, err := Execute(context.Background(), Strategy{Kind: StrategySync, Sync: sync}, Request{}, scope)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if outcome != nil || handled {
		t.Fatalf("Execute() = (%v, %v); want (nil, false)", outcome, handled)
	}
}

func TestExecuteSyncMessage(t *testing.T) {
	sync := syncFunc(func(ctx context.Context, req Request) (bool, string, error) {
		return false, "The symbol has no implementations.", nil
	})
	scope := &recordScope{}
	outcome, handled, err := Execute(context.Background(), Strategy{Kind: StrategySync, Sync: sync}, Request{}, scope)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !handled {
		t.Fatal("Execute() handled = false; want true")
	}
	want := &Outcome{Message: "The symbol has no implementations."}
	if diff := cmp.Diff(want, outcome); diff != "" {
		t.Fatalf("Execute() outcome mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteStreamingSingle(t *testing.T) {
	d1 := defAt("/w/A.cs", 1)
	src := sourceFunc(func(ctx context.Context, req Request, c *Collector) error {
		c.Report(d1)
		return nil
	})
	scope := &recordScope{}
	sinks := &recordSinks{}
	outcome, handled, err := Execute(context.Background(), Strategy{Kind: StrategyStreaming, Sources: []Source{src}}, Request{}, scope)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !handled {
		t.Fatal("Execute() handled = false; want true")
	}
	if err := Dispatch(Route(*outcome), scope, sinks); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if sinks.calls() != 1 || len(sinks.navigated) != 1 {
		t.Fatalf("dispatch calls = %v (navigated %v); want exactly one Navigate", sinks.calls(), len(sinks.navigated))
	}
	if diff := cmp.Diff(d1, sinks.navigated[0]); diff != "" {
		t.Fatalf("Navigate() definition mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteStreamingMultiPreservesOrder(t *testing.T) {
	d1 := defAt("/w/A.cs", 1)
	d2 := defAt("/w/B.cs", 2)
	src := sourceFunc(func(ctx context.Context, req Request, c *Collector) error {
		c.Report(d1)
		c.Report(d2)
		return nil
	})
	scope := &recordScope{}
	sinks := &recordSinks{}
	outcome, _, err := Execute(context.Background(), Strategy{Kind: StrategyStreaming, Sources: []Source{src}}, Request{}, scope)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if err := Dispatch(Route(*outcome), scope, sinks); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if sinks.calls() != 1 || len(sinks.presented) != 1 {
		t.Fatalf("dispatch calls = %v (presented %v); want exactly one Present", sinks.calls(), len(sinks.presented))
	}
	if diff := cmp.Diff([]Definition{d1, d2}, sinks.presented[0]); diff != "" {
		t.Fatalf("Present() definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteStreamingMessage(t *testing.T) {
	src := sourceFunc(func(ctx context.Context, req Request, c *Collector) error {
		c.SetMessage("No implementations found.")
		return nil
	})
	scope := &recordScope{}
	sinks := &recordSinks{}
	outcome, _, err := Execute(context.Background(), Strategy{Kind: StrategyStreaming, Sources: []Source{src}}, Request{}, scope)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if err := Dispatch(Route(*outcome), scope, sinks); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if len(sinks.navigated) != 0 || len(sinks.presented) != 0 {
		t.Fatalf("Navigate/Present called for a message outcome: %v/%v", len(sinks.navigated), len(sinks.presented))
	}
	if diff := cmp.Diff([]string{"No implementations found."}, sinks.messages); diff != "" {
		t.Fatalf("ShowMessage mismatch (-want +got):\n%s", diff)
	}
	if scope.handoffs != 1 {
		t.Fatalf("wait scope handed off %v times; want 1", scope.handoffs)
	}
}

func TestExecuteStreamingCancelled(t *testing.T) {
	block := make(chan struct{})
	src := sourceFunc(func(ctx context.Context, req Request, c *Collector) error {
		c.Report(defAt("/w/A.cs", 1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-block:
			return nil
		}
	})
	scope := &recordScope{}
	sinks := &recordSinks{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, handled, err := Execute(ctx, Strategy{Kind: StrategyStreaming, Sources: []Source{src}}, Request{}, scope)
	close(block)
	if err != ErrCancelled {
		t.Fatalf("Execute() error = %v; want ErrCancelled", err)
	}
	if outcome != nil || handled {
		t.Fatalf("Execute() = (%v, %v); want (nil, false)", outcome, handled)
	}
	if scope.closes != 1 {
		t.Fatalf("wait scope closed %v times; want 1", scope.closes)
	}
	// a cancelled request produces no visible effect
	if sinks.calls() != 0 {
		t.Fatalf("dispatch calls after cancellation = %v; want 0", sinks.calls())
	}
}

func TestExecuteStreamingFanOut(t *testing.T) {
	d1 := defAt("/w/A.cs", 1)
	d2 := defAt("/w/B.cs", 2)
	first := sourceFunc(func(ctx context.Context, req Request, c *Collector) error {
		c.Report(d1)
		return nil
	})
	second := sourceFunc(func(ctx context.Context, req Request, c *Collector) error {
		c.Report(d2)
		return nil
	})
	scope := &recordScope{}
	outcome, _, err := Execute(context.Background(), Strategy{Kind: StrategyStreaming, Sources: []Source{first, second}}, Request{}, scope)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(outcome.Definitions) != 2 {
		t.Fatalf("collected %v definitions; want 2", len(outcome.Definitions))
	}
}

func TestCollectorFirstMessageWins(t *testing.T) {
	c := NewCollector("impls")
	c.SetMessage("first")
	c.SetMessage("second")
	c.Report(defAt("/w/A.cs", 1))
	want := Outcome{Message: "first"}
	if diff := cmp.Diff(want, c.Outcome()); diff != "" {
		t.Fatalf("Outcome() mismatch (-want +got):\n%s", diff)
	}
}
