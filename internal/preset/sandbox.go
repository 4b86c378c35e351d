package preset

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds the execution of a preset script.
const DefaultTimeout = 2 * time.Second

// blockedGlobals are removed from the base library.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"collectgarbage",
	"print",
}

// newState creates a Lua state with only the base, table, string and math
// libraries, and without file or code loading functions.
func newState(ctx context.Context) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:        true,
		IncludeGoStackTrace: false,
	})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	L.SetTop(0)

	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetContext(ctx)
	return L
}

// run executes src and passes its return value to use before the state is
// closed.
func run(ctx context.Context, name, src string, timeout time.Duration, use func(lua.LValue) error) (err error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	L := newState(ctx)
	defer L.Close()

	defer func() {
		if r := recover(); r != nil {
			err = &Error{Source: name, Err: fmt.Errorf("lua panic: %v", r)}
		}
	}()

	if err := L.DoString(src); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Source: name, Err: ctxErr}
		}
		return &Error{Source: name, Err: err}
	}

	var val lua.LValue = lua.LNil
	if L.GetTop() > 0 {
		val = L.Get(-1)
	}
	return use(val)
}
