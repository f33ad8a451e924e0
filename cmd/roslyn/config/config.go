// Package config declares the configuration variables, functions and commands
// used by the roslyn plugin
package config

const (
	InternalFunctionPrefix = "_internal_"
)

type EnvVar string

const (
	// EnvVarServerFromPath is an environment variable which, when set to the
	// value "true", configures the plugin to use the language server binary
	// found in PATH instead of the path configured via ServerCommand.
	//
	// WARNING: use of this environment variable comes with no warranty,
	// because we have no guarantees that the server version found in PATH
	// works with this plugin.
	EnvVarServerFromPath EnvVar = "ROSLYN_USE_SERVER_FROM_PATH"

	// EnvVarServerFlags is an environment variable which, when set, will be
	// used to pass the value as flags to the language server.
	EnvVarServerFlags EnvVar = "ROSLYN_SERVER_FLAGS"

	// EnvVarServerLogfile is an environment variable which, when set,
	// configures the language server to write its own log to the given path.
	EnvVarServerLogfile EnvVar = "ROSLYN_SERVER_LOGFILE"
)

type Config struct {
	// ServerCommand is the command used to start the language server,
	// including any arguments. When unset the plugin looks for
	// csharp-ls in PATH.
	//
	// Default: nil
	ServerCommand *[]string `json:",omitempty"`

	// QuickfixAutoDiagnostics is a boolean (0 or 1 in VimScript) that
	// controls whether auto-population of the quickfix window with server
	// diagnostics is enabled or not.
	//
	// Default: true
	QuickfixAutoDiagnostics *bool `json:",omitempty"`

	// HighlightDiagnostics enables in-code highlighting of diagnostics using
	// text properties, using the following vim defined highlight groups:
	// RoslynErr, RoslynWarn, RoslynInfo & RoslynHint.
	//
	// Default: true
	HighlightDiagnostics *bool `json:",omitempty"`

	// ServerEnv configures the set of environment variables passed to the
	// language server process, e.g. DOTNET_ROOT for side-by-side SDK
	// installs.
	ServerEnv *map[string]string `json:",omitempty"`

	// ExperimentalProgressiveImplementations is a map from language id
	// ("cs", "vb") to a boolean (0 or 1 in VimScript) that controls whether
	// CommandGoToImpl uses the server's streaming (partial result) lookup
	// for that language. When unset or false for a language, the single
	// blocking lookup is used instead. The value is consulted on each
	// invocation, so it can be toggled at runtime.
	//
	// Default: nil
	ExperimentalProgressiveImplementations *map[string]bool `json:",omitempty"`

	// ExperimentalAutoreadLoadedBuffers is used to reload buffers that are
	// changed outside vim even when they are loaded. This is achieved by
	// running "checktime" when a file system event is handled. For this to
	// work, vim must be configured to hide buffers instead of abandon them.
	// Recommended additions to vimrc:
	//
	// set hidden
	// set autoread
	//
	// Default: false
	ExperimentalAutoreadLoadedBuffers *bool `json:",omitempty"`
}

type Command string

const (
	// CommandGoToImpl finds the implementations of the symbol under the
	// cursor. A single result is jumped to directly, pushing the current
	// location onto the jump stack; multiple results are loaded into the
	// quickfix window. CommandGoToImpl respects &switchbuf
	CommandGoToImpl Command = "GoToImpl"

	// CommandGoToDef jumps to the definition of the identifier under the
	// cursor, pushing the current location onto the jump stack.
	// CommandGoToDef respects &switchbuf
	CommandGoToDef Command = "GoToDef"

	// CommandGoToPrevLocation jumps to the previous location in the jump
	// stack. CommandGoToPrevLocation respects &switchbuf
	CommandGoToPrevLocation Command = "GoToPrevLocation"

	// CommandQuickfixDiagnostics populates the quickfix window with the
	// current server-reported diagnostics
	CommandQuickfixDiagnostics Command = "QuickfixDiagnostics"
)

type Function string

const (
	// FunctionSetConfig is an internal function used for pushing config
	// changes from Vim to the plugin.
	FunctionSetConfig Function = InternalFunctionPrefix + "SetConfig"

	// FunctionPopupSelection is an internal function used as the callback
	// for popup windows, including dismissal of the in-progress popup.
	FunctionPopupSelection Function = InternalFunctionPrefix + "PopupSelection"

	// FunctionCanGoToImpl reports whether CommandGoToImpl would currently be
	// able to do anything for the buffer's language. It never contacts the
	// language server and is cheap enough to call from a statusline.
	FunctionCanGoToImpl Function = "CanGoToImpl"
)

// Highlight typed constants define the different highlight groups used by the
// plugin. All highlights can be overridden in vimrc, e.g.:
//
// highlight RoslynErr ctermfg=16 ctermbg=4
type Highlight string

const (
	// HighlightErr is the group used to add text properties to errors
	HighlightErr Highlight = "RoslynErr"
	// HighlightWarn is the group used to add text properties to warnings
	HighlightWarn Highlight = "RoslynWarn"
	// HighlightInfo is the group used to add text properties to informations
	HighlightInfo Highlight = "RoslynInfo"
	// HighlightHint is the group used to add text properties to hints
	HighlightHint Highlight = "RoslynHint"
)
