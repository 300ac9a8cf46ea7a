package script

import (
	"errors"
	"io"

	"reginald/internal/logging"
	"reginald/pkg/reginald"
)

var ErrNoPattern = errors.New("no pattern compiled")

// Context stores the environment, the current pattern and where output
// goes.
type Context struct {
	Env     *Environment
	Regex   *reginald.Regex
	Options reginald.Options
	Out     io.Writer
	Mark    func(string) string // highlights matches in "matches" output
	Log     *logging.Logger
}

func NewContext(out io.Writer, opts reginald.Options) *Context {
	return &Context{
		Env:     NewEnvironment(),
		Options: opts,
		Out:     out,
		Mark:    func(s string) string { return "[" + s + "]" },
		Log:     opts.Logger,
	}
}
