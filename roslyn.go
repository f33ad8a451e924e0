// Package roslyn implements a Vim8 channel-based plugin host. It is the
// plumbing layer used by cmd/roslyn to expose Roslyn-powered language
// features inside Vim.
package roslyn

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ntovas/roslyn/internal/queue"
	"gopkg.in/tomb.v2"
)

const (
	funcHandlePref     = "function:"
	commHandlePref     = "command:"
	autoCommHandlePref = "autocommand:"
)

var (
	ErrShuttingDown = errors.New("roslyn shutting down")
)

// callbackResp is the container for a response from a call to callVim. If the
// call does not result in a value, e.g. ChannelEx, then val will be nil
type callbackResp struct {
	errString string
	val       json.RawMessage
}

// Plugin defines the contract between github.com/ntovas/roslyn and a plugin.
type Plugin interface {
	Init(Vim, chan error) error
	Shutdown() error
}

// Vim is the set of operations a plugin can perform against the connected
// Vim instance. All Channel* methods block until Vim has responded.
type Vim interface {
	// ChannelEx executes a ex command in Vim
	ChannelEx(expr string) error

	// ChannelExpr evaluates and returns the result of expr in Vim
	ChannelExpr(expr string) (json.RawMessage, error)

	// ChannelNormal run a command in normal mode in Vim
	ChannelNormal(expr string) error

	// ChannelCall evaluates and returns the result of call in Vim
	ChannelCall(fn string, args ...interface{}) (json.RawMessage, error)

	// ChannelRedraw performs a redraw in Vim
	ChannelRedraw(force bool) error

	// DefineFunction defines the named function in Vim. name must begin with
	// a capital letter. params is the parameters that will be used in the Vim
	// function declaration. If params is nil, then "..." is assumed.
	DefineFunction(name string, params []string, f VimFunction) error

	// DefineCommand defines the named command in Vim. name must begin with a
	// capital letter. attrs is a series of attributes for the command; see
	// :help E174 in Vim for more details.
	DefineCommand(name string, f VimCommandFunction, attrs ...CommAttr) error

	// DefineAutoCommand defines an autocmd for events for files matching
	// patterns.
	DefineAutoCommand(group string, events Events, patts Patterns, nested bool, f VimAutoCommandFunction, exprs ...string) error

	// Run is a user-friendly run wrapper
	Run() error

	// DoProto is used as a wrapper around function calls that jump the
	// "interface" between the user and protocol aspects of the host.
	DoProto(f func() error) error

	// Errorf raises a formatted fatal error
	Errorf(format string, args ...interface{})

	// Logf logs a formatted message to the logger
	Logf(format string, args ...interface{})

	// Scheduled returns the event queue Vim interface
	Scheduled() Vim

	// Enqueue enqueues f to run in the plugin's event queue. There is no
	// synchronisation with Vim's event queue. done is closed when f returns.
	Enqueue(f func(Vim) error) (done chan struct{})

	// Schedule schedules f to run when it is next safe to do so from Vim's
	// perspective. f is then run within the plugin's event queue. done is
	// closed when f returns
	Schedule(f func(Vim) error) (done chan struct{}, err error)

	// Version returns the semver version of the editor to which the instance
	// is connected
	Version() string

	// Loaded returns a channel that can be used to wait until the instance
	// has finished loading. The Init phase will follow a successful load.
	Loaded() chan struct{}

	// Initialized returns a channel that can be used to wait until the
	// instance has completed the init phase, post loading.
	Initialized() chan struct{}

	// Shutdown returns a channel that can be used to wait until the instance
	// has completed the shutdown phase.
	Shutdown() chan struct{}
}

type vimImpl struct {
	in  *json.Decoder
	out *json.Encoder
	log io.Writer

	// outLock synchronises access to out to ensure we have non-overlapping
	// sending of messages
	outLock sync.Mutex

	funcHandlers     map[string]handler
	funcHandlersLock sync.Mutex

	plugin      Plugin
	pluginErrCh chan error

	flushEvents chan struct{}

	// callVimNextID represents the next ID to use in a call to the Vim
	// channel handler. This then allows us to direct the response.
	callVimNextID     int
	callbackResps     map[int]callback
	callbackRespsLock sync.Mutex

	scheduleVimNextID  int
	scheduledCalls     map[int]func(Vim) error
	scheduledCallsLock sync.Mutex

	autocmdNextID int

	loaded      chan struct{}
	initialized chan struct{}
	shutdown    chan struct{}

	eventQueue *queue.Queue
	tomb       *tomb.Tomb

	version    string
	instanceID string
}

// uniqueID is an atomic counter used to assign an instance id
var uniqueID uint64

type callback interface {
	isCallback()
}

// scheduledCallback is used for responses to calls to Vim made from the event
// queue
type scheduledCallback chan callbackResp

func (s scheduledCallback) isCallback() {}

// unscheduledCallback is used for responses to calls made from off the event
// queue, i.e. as a result of a response from a process external to the plugin
// like the language server
type unscheduledCallback chan callbackResp

func (u unscheduledCallback) isCallback() {}

func NewVim(plug Plugin, in io.Reader, out io.Writer, log io.Writer, t *tomb.Tomb) (Vim, error) {
	v := &vimImpl{
		in:  json.NewDecoder(in),
		out: json.NewEncoder(out),
		log: log,

		funcHandlers: make(map[string]handler),

		plugin: plug,

		tomb: t,

		loaded:      make(chan struct{}),
		initialized: make(chan struct{}),
		shutdown:    make(chan struct{}),

		flushEvents: make(chan struct{}),

		callVimNextID: 1,
		callbackResps: make(map[int]callback),

		scheduleVimNextID: 1,
		scheduledCalls:    make(map[int]func(Vim) error),

		instanceID: fmt.Sprintf("#%d", atomic.AddUint64(&uniqueID, 1)),
	}

	return v, nil
}

func (v *vimImpl) Scheduled() Vim {
	return eventQueueInst{
		vimImpl: v,
	}
}

func (v *vimImpl) Enqueue(f func(Vim) error) chan struct{} {
	done := make(chan struct{})
	v.eventQueue.Add(func() error {
		defer func() {
			if r := recover(); r != nil && r != ErrShuttingDown {
				panic(r)
			}
			close(done)
			select {
			case <-v.tomb.Dying():
			default:
				v.flushEvents <- struct{}{}
			}
		}()
		return f(v.Scheduled())
	})
	return done
}

func (v *vimImpl) Schedule(f func(Vim) error) (chan struct{}, error) {
	v.scheduledCallsLock.Lock()
	id := v.scheduleVimNextID
	v.scheduleVimNextID++
	done := make(chan struct{})
	v.scheduledCalls[id] = func(v Vim) error {
		defer close(done)
		return f(v)
	}
	v.scheduledCallsLock.Unlock()
	if _, err := v.ChannelCall("s:schedule", id); err != nil {
		return nil, err
	}
	return done, nil
}

func (v *vimImpl) goHandleShutdown(f func() error) {
	v.tomb.Go(func() error {
		defer func() {
			if r := recover(); r != nil && r != ErrShuttingDown {
				panic(r)
			}
		}()
		if err := f(); err != nil && err != ErrShuttingDown {
			v.Logf("** Tomb returned error: %v", err)
			return err
		}
		return nil
	})
}

func (v *vimImpl) load() error {
	select {
	case <-v.tomb.Dying():
		return ErrShuttingDown
	case resp := <-v.unscheduledCallCallback("loaded"):
		if resp.errString != "" {
			return fmt.Errorf("failed to signal loaded to Vim: %v", resp.errString)
		}
	}
	close(v.loaded)

	if fi, ok := v.log.(*os.File); ok {
		v.ChannelEx(`let s:roslyn_logfile="` + fi.Name() + `"`)
	}
	v.Logf("Go version %v", runtime.Version())

	if v.plugin != nil {
		v.pluginErrCh = make(chan error)

		v.tomb.Go(func() error {
			return <-v.pluginErrCh
		})

		err := v.DoProto(func() error {
			var details struct {
				VersionLong int
			}

			resp, err := v.ChannelExpr(`{"VersionLong": exists("v:versionlong")?v:versionlong:-1}`)
			if err != nil {
				return err
			}
			v.decodeJSON(resp, &details)
			v.version = ParseVersionLong(details.VersionLong)
			v.Logf("Loaded against Vim %v\n", v.version)

			return v.plugin.Init(v, v.pluginErrCh)
		})
		if err != nil {
			return err
		}
	}

	select {
	case <-v.tomb.Dying():
		return ErrShuttingDown
	case resp := <-v.unscheduledCallCallback("initcomplete"):
		if resp.errString != "" {
			return fmt.Errorf("failed to signal initcomplete to Vim: %v", resp.errString)
		}
	}

	close(v.initialized)
	return nil
}

func (v *vimImpl) funcHandler(name string) (string, handler) {
	v.funcHandlersLock.Lock()
	defer v.funcHandlersLock.Unlock()
	f, ok := v.funcHandlers[name]
	if !ok {
		v.errProto("tried to invoke %v but no function defined", name)
	}
	return strings.TrimPrefix(name, funcHandlePref), f
}

type handler interface {
	isHandler()
}

// VimFunction is the signature of a callback from a defined function
type VimFunction func(v Vim, args ...json.RawMessage) (interface{}, error)

func (vf VimFunction) isHandler() {}

// VimCommandFunction is the signature of a callback from a defined command
type VimCommandFunction func(v Vim, flags CommandFlags, args ...string) error

func (vf VimCommandFunction) isHandler() {}

// VimAutoCommandFunction is the signature of a callback from a defined
// autocmd
type VimAutoCommandFunction func(v Vim, args ...json.RawMessage) error

func (vf VimAutoCommandFunction) isHandler() {}

func (v *vimImpl) Run() error {
	err := v.DoProto(func() error {
		v.run()
		return nil
	})
	v.tomb.Kill(err)
	var shutdownErr error
	if v.plugin != nil {
		shutdownErr = v.plugin.Shutdown()
		close(v.shutdown)
	}
	if v.pluginErrCh != nil {
		close(v.pluginErrCh)
	}
	if shutdownErr != nil {
		return shutdownErr
	}
	return nil
}

// run is the main loop that handles calls from Vim
func (v *vimImpl) run() error {
	v.eventQueue = queue.NewQueue()
	v.goHandleShutdown(v.runEventQueue)
	v.goHandleShutdown(v.load)

	// the read loop
	for {
		id, msg := v.readJSONMsg()
		v.logVimEventf("recvJSONMsg: [%v] %s\n", id, msg)
		args := v.parseJSONArgSlice(msg)
		typ := v.parseString(args[0])
		args = args[1:]
		switch typ {
		case "callback":
			// A "return" from a call to callVim. Format of args will be
			// [id, [string, val]]
			id := v.parseInt(args[0])
			resp := v.parseJSONArgSlice(args[1])
			msg := v.parseString(resp[0])
			var val json.RawMessage
			if len(resp) == 2 {
				val = resp[1]
			}
			toSend := callbackResp{
				errString: msg,
				val:       val,
			}
			v.callbackRespsLock.Lock()
			ch, ok := v.callbackResps[id]
			delete(v.callbackResps, id)
			v.callbackRespsLock.Unlock()
			if !ok {
				v.errProto("run: received response for callback %v, but no response chan defined", id)
			}
			switch ch := ch.(type) {
			case scheduledCallback:
				v.eventQueue.Add(func() error {
					select {
					case ch <- toSend:
					case <-v.tomb.Dying():
						return ErrShuttingDown
					}
					return nil
				})
			case unscheduledCallback:
				v.tomb.Go(func() error {
					select {
					case ch <- toSend:
					case <-v.tomb.Dying():
						return tomb.ErrDying
					}
					return nil
				})
			default:
				panic(fmt.Errorf("unknown type of callback responser: %T", ch))
			}
		case "function":
			fname := v.parseString(args[0])
			fargs := args[1:]
			fname, f := v.funcHandler(fname)
			var call func() (interface{}, error)

			switch f := f.(type) {
			case VimFunction:
				fargs = v.parseJSONArgSlice(fargs[0])
				call = func() (interface{}, error) {
					return f(eventQueueInst{v}, fargs...)
				}
			case VimCommandFunction:
				var flagVals CommandFlags
				v.decodeJSON(fargs[0], &flagVals)
				var args []string
				for _, f := range fargs[1:] {
					args = append(args, v.parseString(f))
				}
				call = func() (interface{}, error) {
					err := f(eventQueueInst{v}, flagVals, args...)
					return nil, err
				}
			case VimAutoCommandFunction:
				// fargs[0] is the echo-ed (augroup) and events of the
				// autogroup
				fargs = v.parseJSONArgSlice(fargs[1])
				call = func() (interface{}, error) {
					err := f(eventQueueInst{v}, fargs...)
					return nil, err
				}
			default:
				v.Errorf("unknown function type for %v %T", fname, f)
			}
			v.eventQueue.Add(func() error {
				resp := [2]interface{}{"", ""}
				var res interface{}
				var err error
				func() {
					defer func() {
						if r := recover(); r != nil {
							stack := make([]byte, 20*(1<<10))
							l := runtime.Stack(stack, true)
							err = fmt.Errorf("caught panic: %v\n%s", r, stack[:l])
						}
						select {
						case <-v.tomb.Dying():
						case v.flushEvents <- struct{}{}:
						}
					}()
					res, err = call()
				}()
				if err != nil {
					errStr := fmt.Sprintf("got error whilst handling %v: %v", fname, err)
					v.Logf(errStr)
					resp[0] = errStr
				} else {
					resp[1] = res
				}
				v.sendJSONMsg(id, resp)
				return nil
			})
		case "schedule":
			schedID := v.parseInt(args[0])
			v.scheduledCallsLock.Lock()
			f, ok := v.scheduledCalls[schedID]
			delete(v.scheduledCalls, schedID)
			v.scheduledCallsLock.Unlock()
			if !ok {
				panic(fmt.Errorf("failed to find scheduled callback func with id %v", schedID))
			}
			v.eventQueue.Add(func() error {
				resp := [2]interface{}{"", ""}
				var err error
				func() {
					defer func() {
						if r := recover(); r != nil {
							stack := make([]byte, 20*(1<<10))
							l := runtime.Stack(stack, true)
							err = fmt.Errorf("caught panic: %v\n%s", r, stack[:l])
						}
						select {
						case <-v.tomb.Dying():
						case v.flushEvents <- struct{}{}:
						}
					}()
					err = f(eventQueueInst{v})
				}()
				if err != nil {
					errStr := fmt.Sprintf("got error whilst handling scheduled callback %v: %v", schedID, err)
					v.Logf(errStr)
					resp[0] = errStr
				}
				v.sendJSONMsg(id, resp)
				return nil
			})
		case "log":
			var is []interface{}
			for _, a := range args {
				var i interface{}
				v.decodeJSON(a, &i)
				is = append(is, i)
			}
			fmt.Fprintln(v.log, is...)
		}
	}
}

func (v *vimImpl) runEventQueue() error {
	q := v.eventQueue
GetWork:
	for {
		work, ok := q.Get()
		if !ok {
			select {
			case <-v.tomb.Dying():
				return ErrShuttingDown
			case <-q.GotWork():
			}
			continue GetWork
		}
		v.goHandleShutdown(func() error {
			return work()
		})
		select {
		case <-v.tomb.Dying():
			return ErrShuttingDown
		case <-v.flushEvents:
		}
	}
}

func (v *vimImpl) DefineFunction(name string, params []string, f VimFunction) error {
	<-v.loaded
	if name == "" {
		return fmt.Errorf("function name must not be empty")
	}
	r, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(r) {
		return fmt.Errorf("function name %q must begin with a capital letter", name)
	}
	funcHandle := funcHandlePref + name
	v.funcHandlersLock.Lock()
	if _, ok := v.funcHandlers[funcHandle]; ok {
		v.funcHandlersLock.Unlock()
		return fmt.Errorf("function already defined with name %q", name)
	}
	v.funcHandlers[funcHandle] = f
	v.funcHandlersLock.Unlock()
	if params == nil {
		params = []string{"..."}
	}
	args := []interface{}{name, params}
	ch := make(unscheduledCallback)
	err := v.DoProto(func() error {
		return v.callVim(ch, "function", args...)
	})
	return v.handleChannelError(ch, err, "failed to define %q in Vim: %v", name)
}

func (v *vimImpl) DefineAutoCommand(group string, events Events, patts Patterns, nested bool, f VimAutoCommandFunction, exprs ...string) error {
	<-v.loaded
	v.funcHandlersLock.Lock()
	funcHandle := fmt.Sprintf("%v%v", autoCommHandlePref, v.autocmdNextID)
	v.autocmdNextID++
	v.funcHandlers[funcHandle] = f
	v.funcHandlersLock.Unlock()
	var def strings.Builder
	w := func(s string) {
		def.WriteString(" " + s)
	}
	if group != "" {
		w(group)
	}
	var strEvents []string
	for _, e := range events {
		strEvents = append(strEvents, e.String())
	}
	sort.Strings(strEvents)
	w(strings.Join(strEvents, ","))
	var strPatts []string
	for _, p := range patts {
		strPatts = append(strPatts, string(p))
	}
	sort.Strings(strPatts)
	w(strings.Join(strPatts, ","))
	if nested {
		w("nested")
	}
	if exprs == nil {
		// must be non-nil
		exprs = []string{}
	}
	args := []interface{}{funcHandle, def.String(), exprs}
	ch := make(unscheduledCallback)
	err := v.DoProto(func() error {
		return v.callVim(ch, "autocmd", args...)
	})
	return v.handleChannelError(ch, err, "failed to define autocmd %q in Vim: %v", def.String())
}

func (v *vimImpl) DefineCommand(name string, f VimCommandFunction, attrs ...CommAttr) error {
	<-v.loaded
	if name == "" {
		return fmt.Errorf("command name must not be empty")
	}
	r, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(r) {
		return fmt.Errorf("command name %q must begin with a capital letter", name)
	}
	funcHandle := commHandlePref + name
	v.funcHandlersLock.Lock()
	if _, ok := v.funcHandlers[funcHandle]; ok {
		v.funcHandlersLock.Unlock()
		return fmt.Errorf("command already defined with name %q", name)
	}
	v.funcHandlers[funcHandle] = f
	v.funcHandlersLock.Unlock()
	var nargsFlag *NArgs
	var countNFlag *CountN
	genAttrs := make(map[CommAttr]bool)
	for _, iattr := range attrs {
		switch attr := iattr.(type) {
		case NArgs:
			switch attr {
			case NArgs0, NArgs1, NArgsZeroOrMore, NArgsZeroOrOne, NArgsOneOrMore:
			default:
				return fmt.Errorf("unknown NArgs value")
			}
			if nargsFlag != nil && attr != *nargsFlag {
				return fmt.Errorf("multiple nargs flags")
			}
			nargsFlag = &attr
		case CountN:
			if countNFlag != nil && *countNFlag != attr {
				return fmt.Errorf("multiple count flags")
			}
			countNFlag = &attr
		case GenAttr:
			switch attr {
			case AttrBang, AttrRegister, AttrBuffer, AttrBar:
				genAttrs[attr] = true
			default:
				return fmt.Errorf("unknown GenAttr value")
			}
		}
	}
	attrMap := make(map[string]interface{})
	if nargsFlag != nil {
		attrMap["nargs"] = nargsFlag.String()
	}
	if countNFlag != nil {
		attrMap["count"] = countNFlag.String()
	}
	if len(genAttrs) > 0 {
		var attrs []string
		for k := range genAttrs {
			attrs = append(attrs, k.String())
		}
		sort.Strings(attrs)
		attrMap["general"] = attrs
	}
	args := []interface{}{name, attrMap}
	ch := make(unscheduledCallback)
	err := v.DoProto(func() error {
		return v.callVim(ch, "command", args...)
	})
	return v.handleChannelError(ch, err, "failed to define %q in Vim: %v", name)
}

func (v *vimImpl) unscheduledCallCallback(typ string, vs ...interface{}) unscheduledCallback {
	ch := make(unscheduledCallback)
	v.callVim(ch, typ, vs...)
	return ch
}

// callVim is a low-level protocol primitive for making a call to the channel
// defined handler in Vim. The Vim handler switches on typ.
func (v *vimImpl) callVim(ch callback, typ string, vs ...interface{}) error {
	v.callbackRespsLock.Lock()
	id := v.callVimNextID
	v.callVimNextID++
	v.callbackResps[id] = ch
	v.callbackRespsLock.Unlock()
	args := []interface{}{id, typ}
	args = append(args, vs...)
	v.sendJSONMsg(0, args)
	return nil
}

// readJSONMsg is a low-level protocol primitive for reading a JSON msg sent
// by Vim. See https://vimhelp.org/channel.txt.html#channel-use for details.
func (v *vimImpl) readJSONMsg() (int, json.RawMessage) {
	var msg [2]json.RawMessage
	if err := v.in.Decode(&msg); err != nil {
		if err == io.EOF {
			// explicitly setting underlying here
			panic(errProto{underlying: err})
		}
		v.errProto("failed to read JSON msg: %v", err)
	}
	i := v.parseInt(msg[0])
	return i, msg[1]
}

// parseJSONArgSlice is a low-level protocol primitive for parsing a slice of
// raw encoded JSON values
func (v *vimImpl) parseJSONArgSlice(m json.RawMessage) []json.RawMessage {
	var i []json.RawMessage
	v.decodeJSON(m, &i)
	return i
}

// parseString is a low-level protocol primitive for parsing a string from a
// raw encoded JSON value
func (v *vimImpl) parseString(m json.RawMessage) string {
	var s string
	v.decodeJSON(m, &s)
	return s
}

// parseInt is a low-level protocol primitive for parsing an int from a raw
// encoded JSON value
func (v *vimImpl) parseInt(m json.RawMessage) int {
	var i int
	v.decodeJSON(m, &i)
	return i
}

// sendJSONMsg is a low-level protocol primitive for sending a JSON msg that
// will be understood by Vim.
func (v *vimImpl) sendJSONMsg(p1, p2 interface{}, ps ...interface{}) {
	msg := []interface{}{p1, p2}
	msg = append(msg, ps...)
	logMsg, err := json.Marshal(msg)
	if err != nil {
		v.errProto("failed to create log message: %v", err)
	}
	v.logVimEventf("sendJSONMsg: %s\n", logMsg)
	v.outLock.Lock()
	defer v.outLock.Unlock()
	if err := v.out.Encode(msg); err != nil {
		panic(ErrShuttingDown)
	}
}

// decodeJSON is a low-level protocol primitive for decoding a JSON value.
func (v *vimImpl) decodeJSON(m json.RawMessage, i interface{}) {
	err := json.Unmarshal(m, i)
	if err != nil {
		v.errProto("failed to decode JSON into type %T: %v", i, err)
	}
}

func (v *vimImpl) errProto(format string, args ...interface{}) {
	panic(errProto{
		underlying: fmt.Errorf(format, args...),
	})
}

// Errorf is a means of raising an error that will be logged, and the host
// instance will then effectively "stop".
func (v *vimImpl) Errorf(format string, args ...interface{}) {
	b := make([]byte, (1<<10)*10)
	runtime.Stack(b, true)
	args = append([]interface{}{}, args...)
	args = append(args, b)
	v.tomb.Kill(fmt.Errorf(format+"\n%s", args...))
}

func (v *vimImpl) logVimEventf(format string, args ...interface{}) {
	v.Logf("vim start =======================\n"+format+"vim end =======================\n", args...)
}

func (v *vimImpl) Logf(format string, args ...interface{}) {
	s := fmt.Sprintf(format, args...)
	if s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	t := time.Now().Format("2006-01-02T15:04:05.000000")
	s = strings.Replace(s, "\n", "\n"+t+"_"+v.instanceID+": ", -1)
	fmt.Fprint(v.log, t+"_"+v.instanceID+": "+s+"\n")
}

func (v *vimImpl) Version() string {
	return v.version
}

func (v *vimImpl) Loaded() chan struct{} {
	return v.loaded
}

func (v *vimImpl) Initialized() chan struct{} {
	return v.initialized
}

func (v *vimImpl) Shutdown() chan struct{} {
	return v.shutdown
}

type errProto struct {
	underlying error
}

func (e errProto) Error() string {
	return fmt.Sprintf("protocol error: %v", e.underlying)
}

// ParseVersionLong converts Vim's v:versionlong into a semver string.
func ParseVersionLong(l int) string {
	maj := l / 1000000
	min := (l / 10000) % 10
	pat := l % 10000
	return fmt.Sprintf("v%v.%v.%v", maj, min, pat)
}
