package roslyn

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	channelRedrawErrMsg = "failed to redraw (force = %v) in Vim: %v"
	channelExErrMsg     = "failed to ex(%v) in Vim: %v"
	channelNormalErrMsg = "failed to normal(%v) in Vim: %v"
	channelExprErrMsg   = "failed to expr(%v) in Vim: %v"
	channelCallErrMsg   = "failed to call %v(%v) in Vim: %v"
)

// DoProto is the boundary between the protocol-level panics used internally
// and the error values surfaced to plugin code.
func (v *vimImpl) DoProto(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case errProto:
				if r.underlying == io.EOF {
					v.logVimEventf("closing connection\n")
					return
				}
				err = r
			case error:
				err = r
			default:
				panic(r)
			}
		}
	}()
	return f()
}

// handleChannelError awaits the response on ch, converting a non-empty error
// string from Vim into an error formatted per format/args.
func (v *vimImpl) handleChannelError(ch unscheduledCallback, err error, format string, args ...interface{}) error {
	_, err = v.handleChannelValueAndError(ch, err, format, args...)
	return err
}

func (v *vimImpl) handleChannelValueAndError(ch unscheduledCallback, err error, format string, args ...interface{}) (json.RawMessage, error) {
	if err != nil {
		return nil, err
	}
	args = append([]interface{}{}, args...)
	select {
	case <-v.tomb.Dying():
		return nil, ErrShuttingDown
	case resp := <-ch:
		if resp.errString != "" {
			args = append(args, resp.errString)
			return nil, fmt.Errorf(format, args...)
		}
		return resp.val, nil
	}
}

// ChannelRedraw implements Vim.ChannelRedraw
func (v *vimImpl) ChannelRedraw(force bool) error {
	<-v.loaded
	var sForce string
	if force {
		sForce = "force"
	}
	ch := make(unscheduledCallback)
	err := v.DoProto(func() error {
		return v.callVim(ch, "redraw", sForce)
	})
	return v.handleChannelError(ch, err, channelRedrawErrMsg, force)
}

// ChannelEx implements Vim.ChannelEx
func (v *vimImpl) ChannelEx(expr string) error {
	<-v.loaded
	ch := make(unscheduledCallback)
	err := v.DoProto(func() error {
		return v.callVim(ch, "ex", expr)
	})
	return v.handleChannelError(ch, err, channelExErrMsg, expr)
}

// ChannelNormal implements Vim.ChannelNormal
func (v *vimImpl) ChannelNormal(expr string) error {
	<-v.loaded
	ch := make(unscheduledCallback)
	err := v.DoProto(func() error {
		return v.callVim(ch, "normal", expr)
	})
	return v.handleChannelError(ch, err, channelNormalErrMsg, expr)
}

// ChannelExpr implements Vim.ChannelExpr
func (v *vimImpl) ChannelExpr(expr string) (json.RawMessage, error) {
	<-v.loaded
	ch := make(unscheduledCallback)
	err := v.DoProto(func() error {
		return v.callVim(ch, "expr", expr)
	})
	return v.handleChannelValueAndError(ch, err, channelExprErrMsg, expr)
}

// ChannelCall implements Vim.ChannelCall
func (v *vimImpl) ChannelCall(fn string, args ...interface{}) (json.RawMessage, error) {
	<-v.loaded
	ch := make(unscheduledCallback)
	err := v.DoProto(func() error {
		callArgs := append([]interface{}{fn}, args...)
		return v.callVim(ch, "call", callArgs...)
	})
	return v.handleChannelValueAndError(ch, err, channelCallErrMsg, fn, args)
}
