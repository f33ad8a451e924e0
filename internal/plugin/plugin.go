// Package plugin provides a driver layer on top of the roslyn host that
// converts the error-returning API into one that panics with ErrDriver,
// making plugin code considerably less error-verbose.
package plugin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ntovas/roslyn"
)

type Driver struct {
	roslyn.Vim
	prefix string
}

type Function func(args ...json.RawMessage) (interface{}, error)
type CommandFunction func(flags roslyn.CommandFlags, args ...string) error
type AutoCommandFunction func(args ...json.RawMessage) error

func NewDriver(name string) Driver {
	return Driver{
		prefix: name,
	}
}

func (d Driver) Prefix() string {
	return d.prefix
}

func (d Driver) clone(v roslyn.Vim) Driver {
	d.Vim = v
	return d
}

// Do runs f, recovering any ErrDriver panic raised via Errorf into the
// returned error.
func (d Driver) Do(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case ErrDriver:
				err = r
			default:
				panic(r)
			}
		}
	}()
	return f()
}

func (d Driver) DoFunction(f Function) roslyn.VimFunction {
	return func(v roslyn.Vim, args ...json.RawMessage) (interface{}, error) {
		d := d.clone(v)
		var i interface{}
		err := d.Do(func() error {
			var err error
			i, err = f(args...)
			return err
		})
		if err != nil {
			return nil, err
		}
		return i, nil
	}
}

func (d Driver) DoCommandFunction(f CommandFunction) roslyn.VimCommandFunction {
	return func(v roslyn.Vim, flags roslyn.CommandFlags, args ...string) error {
		d := d.clone(v)
		return d.Do(func() error {
			return f(flags, args...)
		})
	}
}

func (d Driver) DoAutoCommandFunction(f AutoCommandFunction) roslyn.VimAutoCommandFunction {
	return func(v roslyn.Vim, args ...json.RawMessage) error {
		d := d.clone(v)
		return d.Do(func() error {
			return f(args...)
		})
	}
}

func (d Driver) Errorf(format string, args ...interface{}) {
	panic(ErrDriver{Underlying: fmt.Errorf(format, args...)})
}

func (d Driver) ChannelExpr(expr string) json.RawMessage {
	i, err := d.Vim.ChannelExpr(expr)
	if err != nil {
		d.Errorf("ChannelExpr(%q) failed: %v", expr, err)
	}
	return i
}

func (d Driver) ChannelCall(name string, args ...interface{}) json.RawMessage {
	i, err := d.Vim.ChannelCall(name, args...)
	if err != nil {
		d.Errorf("ChannelCall(%q) failed: %v", name, err)
	}
	return i
}

func (d Driver) ChannelEx(expr string) {
	if err := d.Vim.ChannelEx(expr); err != nil {
		d.Errorf("ChannelEx(%q) failed: %v", expr, err)
	}
}

func (d Driver) ChannelNormal(expr string) {
	if err := d.Vim.ChannelNormal(expr); err != nil {
		d.Errorf("ChannelNormal(%q) failed: %v", expr, err)
	}
}

func (d Driver) ChannelRedraw(force bool) {
	if err := d.Vim.ChannelRedraw(force); err != nil {
		d.Errorf("ChannelRedraw(%v) failed: %v", force, err)
	}
}

func (d Driver) Parse(j json.RawMessage, i interface{}) {
	if err := json.Unmarshal(j, i); err != nil {
		d.Errorf("failed to parse from %q: %v", j, err)
	}
}

func (d Driver) ParseString(j json.RawMessage) string {
	var v string
	if err := json.Unmarshal(j, &v); err != nil {
		d.Errorf("failed to parse string from %q: %v", j, err)
	}
	return v
}

func (d Driver) ParseJSONArgSlice(j json.RawMessage) []json.RawMessage {
	var v []json.RawMessage
	if err := json.Unmarshal(j, &v); err != nil {
		d.Errorf("failed to parse []json.RawMessage from %q: %v", j, err)
	}
	return v
}

func (d Driver) ParseInt(j json.RawMessage) int {
	var v int
	if err := json.Unmarshal(j, &v); err != nil {
		d.Errorf("failed to parse int from %q: %v", j, err)
	}
	return v
}

func (d Driver) ParseUint(j json.RawMessage) uint {
	var v uint
	if err := json.Unmarshal(j, &v); err != nil {
		d.Errorf("failed to parse uint from %q: %v", j, err)
	}
	return v
}

func (d Driver) ChannelExprf(format string, args ...interface{}) json.RawMessage {
	return d.ChannelExpr(fmt.Sprintf(format, args...))
}

func (d Driver) ChannelExf(format string, args ...interface{}) {
	d.ChannelEx(fmt.Sprintf(format, args...))
}

func (d Driver) DefineFunction(name string, args []string, f Function) {
	if err := d.Vim.DefineFunction(d.prefix+name, args, d.DoFunction(f)); err != nil {
		d.Errorf("failed to DefineFunction %q: %v", name, err)
	}
}

func (d Driver) DefineCommand(name string, f CommandFunction, attrs ...roslyn.CommAttr) {
	if err := d.Vim.DefineCommand(d.prefix+name, d.DoCommandFunction(f), attrs...); err != nil {
		d.Errorf("failed to DefineCommand %q: %v", name, err)
	}
}

func (d Driver) DefineAutoCommand(group string, events roslyn.Events, patts roslyn.Patterns, nested bool, f AutoCommandFunction, exprs ...string) {
	if group == "" {
		group = strings.ToLower(d.prefix)
	}
	if err := d.Vim.DefineAutoCommand(group, events, patts, nested, d.DoAutoCommandFunction(f), exprs...); err != nil {
		d.Errorf("failed to DefineAutoCommand: %v", err)
	}
}

type ErrDriver struct {
	Underlying error
}

func (e ErrDriver) Error() string {
	return fmt.Sprintf("driver error: %v", e.Underlying)
}
