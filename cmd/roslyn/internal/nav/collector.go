package nav

import (
	"sync"
)

// Outcome is the terminal result of a lookup: either a non-empty
// informational message, or an ordered collection of definitions plus a
// search title. The two are mutually exclusive; a message wins.
type Outcome struct {
	Message     string
	Title       string
	Definitions []Definition
}

// Collector accumulates definitions reported by streaming sources. A fresh
// Collector is constructed per request and owned exclusively by that
// request; sources may report concurrently.
type Collector struct {
	mu      sync.Mutex
	title   string
	message string
	defs    []Definition
}

func NewCollector(title string) *Collector {
	return &Collector{
		title: title,
	}
}

// Report appends defs in arrival order.
func (c *Collector) Report(defs ...Definition) {
	c.mu.Lock()
	c.defs = append(c.defs, defs...)
	c.mu.Unlock()
}

// SetMessage records a terminal message. The first non-empty message wins;
// once set, reported definitions are not surfaced.
func (c *Collector) SetMessage(msg string) {
	c.mu.Lock()
	if c.message == "" {
		c.message = msg
	}
	c.mu.Unlock()
}

// Outcome snapshots the collected state. Only called after all sources have
// completed.
func (c *Collector) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.message != "" {
		return Outcome{Message: c.message}
	}
	return Outcome{
		Title:       c.title,
		Definitions: c.defs,
	}
}
