package roslyn

import (
	"encoding/json"
	"fmt"
)

// eventQueueInst is the Vim implementation handed to code running on the
// event queue. Channel calls made through it keep the event queue flushing
// whilst the response from Vim is outstanding.
type eventQueueInst struct {
	*vimImpl
}

var _ Vim = eventQueueInst{}

func (e eventQueueInst) ChannelRedraw(force bool) error {
	ch := make(scheduledCallback)
	var sForce string
	if force {
		sForce = "force"
	}
	err := e.vimImpl.DoProto(func() error {
		return e.vimImpl.callVim(ch, "redraw", sForce)
	})
	return e.handleUserQError(ch, err, channelRedrawErrMsg, force)
}

func (e eventQueueInst) ChannelEx(expr string) error {
	ch := make(scheduledCallback)
	err := e.vimImpl.DoProto(func() error {
		return e.vimImpl.callVim(ch, "ex", expr)
	})
	return e.handleUserQError(ch, err, channelExErrMsg, expr)
}

func (e eventQueueInst) ChannelNormal(expr string) error {
	ch := make(scheduledCallback)
	err := e.vimImpl.DoProto(func() error {
		return e.vimImpl.callVim(ch, "normal", expr)
	})
	return e.handleUserQError(ch, err, channelNormalErrMsg, expr)
}

func (e eventQueueInst) ChannelExpr(expr string) (json.RawMessage, error) {
	ch := make(scheduledCallback)
	err := e.vimImpl.DoProto(func() error {
		return e.vimImpl.callVim(ch, "expr", expr)
	})
	return e.handleUserQValueAndError(ch, err, channelExprErrMsg, expr)
}

func (e eventQueueInst) ChannelCall(fn string, args ...interface{}) (json.RawMessage, error) {
	ch := make(scheduledCallback)
	err := e.vimImpl.DoProto(func() error {
		callArgs := append([]interface{}{fn}, args...)
		return e.vimImpl.callVim(ch, "call", callArgs...)
	})
	return e.handleUserQValueAndError(ch, err, channelCallErrMsg, fn, args)
}

func (e eventQueueInst) Scheduled() Vim {
	return e
}

func (e eventQueueInst) Enqueue(f func(Vim) error) chan struct{} {
	panic(fmt.Errorf("attempt to enqueue work on the event queue from the event queue itself"))
}

func (e eventQueueInst) Schedule(f func(Vim) error) (chan struct{}, error) {
	panic(fmt.Errorf("attempt to schedule work on the event queue from the event queue itself"))
}

func (e eventQueueInst) handleUserQError(ch scheduledCallback, err error, format string, args ...interface{}) error {
	_, err = e.handleUserQValueAndError(ch, err, format, args...)
	return err
}

// handleUserQValueAndError hands control back to the event queue whilst we
// wait for the response from Vim; the response itself is delivered as an
// event queue work item.
func (e eventQueueInst) handleUserQValueAndError(ch scheduledCallback, err error, format string, args ...interface{}) (json.RawMessage, error) {
	if err != nil {
		return nil, err
	}
	args = append([]interface{}{}, args...)
	select {
	case <-e.vimImpl.tomb.Dying():
		return nil, ErrShuttingDown
	case e.flushEvents <- struct{}{}:
		select {
		case <-e.vimImpl.tomb.Dying():
			return nil, ErrShuttingDown
		case resp := <-ch:
			if resp.errString != "" {
				args = append(args, resp.errString)
				return nil, fmt.Errorf(format, args...)
			}
			return resp.val, nil
		}
	}
}
