package main

import (
	"context"
	"sync"

	"github.com/ntovas/roslyn"
	"github.com/ntovas/roslyn/cmd/roslyn/config"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/nav"
)

// waitPopup is the cancellable wait indication shown whilst a lookup is in
// flight: a popup in the upper right corner that cancels the request when
// the user clicks it. It implements nav.Scope.
type waitPopup struct {
	g *roslynplugin

	mu     sync.Mutex
	id     int
	cancel context.CancelFunc
	closed bool
}

var _ nav.Scope = &waitPopup{}

func newWaitPopup(g *roslynplugin) *waitPopup {
	return &waitPopup{g: g}
}

func (p *waitPopup) Open(ctx context.Context, title string) (context.Context, error) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	done := p.g.Enqueue(func(roslyn.Vim) error {
		v := p.g.vimstate
		w := v.ParseInt(v.ChannelCall("winwidth", 0))
		opts := map[string]interface{}{
			"pos":      "topright",
			"line":     1,
			"col":      w,
			"padding":  []int{0, 1, 0, 1},
			"wrap":     false,
			"close":    "click",
			"title":    title,
			"zindex":   300,
			"mapping":  0,
			"border":   []string{},
			"minwidth": 40,
			"maxwidth": 40,
			"callback": pluginPrefix + string(config.FunctionPopupSelection),
		}
		id := v.ParseInt(v.ChannelCall("popup_create", "Searching... (click to cancel)", opts))

		p.mu.Lock()
		p.id = id
		alreadyClosed := p.closed
		p.mu.Unlock()
		if alreadyClosed {
			v.ChannelCall("popup_close", id)
			return nil
		}
		p.g.waitPopupsLock.Lock()
		p.g.waitPopups[id] = p
		p.g.waitPopupsLock.Unlock()
		return nil
	})
	<-done
	return ctx, nil
}

func (p *waitPopup) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	id := p.id
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if id == 0 {
		return
	}
	p.g.waitPopupsLock.Lock()
	delete(p.g.waitPopups, id)
	p.g.waitPopupsLock.Unlock()
	p.g.Enqueue(func(v roslyn.Vim) error {
		if _, err := v.ChannelCall("popup_close", id); err != nil {
			p.g.Logf("failed to close wait popup %v: %v", id, err)
		}
		return nil
	})
}

// HandOff transfers ownership of the wait indication: the popup is closed
// ahead of whatever UI the caller shows next.
func (p *waitPopup) HandOff() {
	p.Close()
}

// dismissed is called from the popup close callback when the user cancelled
// the wait.
func (p *waitPopup) dismissed() {
	p.mu.Lock()
	p.closed = true
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
